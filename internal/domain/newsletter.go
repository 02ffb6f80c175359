package domain

import "time"

// NewsletterSubscription is one address on the mailing list. Email is
// compared byte-for-byte, so "A@x.com" and "a@x.com" are distinct.
type NewsletterSubscription struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	IsActive  bool      `json:"isActive" db:"is_active"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// NewNewsletterSubscription is the sign-up payload.
type NewNewsletterSubscription struct {
	Email string `json:"email" validate:"required,email,max=254"`
}
