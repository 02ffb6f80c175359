package contact

import "errors"

// Sentinel errors for the contact service layer.
var (
	ErrInvalidSubmission = errors.New("invalid contact submission")
	ErrInvalidStatus     = errors.New("invalid submission status")
	ErrInvalidEmail      = errors.New("invalid email address")
)

// ValidationError carries per-field failures and unwraps to one of the
// sentinels above.
type ValidationError struct {
	Kind   error
	Fields map[string]string
}

func (e *ValidationError) Error() string { return e.Kind.Error() }

func (e *ValidationError) Unwrap() error { return e.Kind }
