package domain

import "time"

// SubmissionStatus tracks whether the agency has answered an enquiry.
type SubmissionStatus string

const (
	StatusPending   SubmissionStatus = "pending"
	StatusResponded SubmissionStatus = "responded"
)

// Valid reports whether s is a known status.
func (s SubmissionStatus) Valid() bool {
	return s == StatusPending || s == StatusResponded
}

// ContactSubmission is an enquiry sent through the Contact page. Only Status
// changes after creation.
type ContactSubmission struct {
	ID        string           `json:"id" db:"id"`
	FirstName string           `json:"firstName" db:"first_name"`
	LastName  string           `json:"lastName" db:"last_name"`
	Email     string           `json:"email" db:"email"`
	Subject   string           `json:"subject" db:"subject"`
	Message   string           `json:"message" db:"message"`
	Status    SubmissionStatus `json:"status" db:"status"`
	CreatedAt time.Time        `json:"createdAt" db:"created_at"`
}

// NewContactSubmission is the form payload.
type NewContactSubmission struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email,max=254"`
	Subject   string `json:"subject" validate:"required,max=200"`
	Message   string `json:"message" validate:"required,max=5000"`
}
