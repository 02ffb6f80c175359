package contact

import (
	"context"

	"github.com/ttravel/hospitality/internal/domain"
)

// Repository is the slice of storage.Storage the service needs.
type Repository interface {
	GetContactSubmissions(ctx context.Context) ([]domain.ContactSubmission, error)
	CreateContactSubmission(ctx context.Context, s domain.NewContactSubmission) (*domain.ContactSubmission, error)
	UpdateContactSubmissionStatus(ctx context.Context, id string, status domain.SubmissionStatus) (*domain.ContactSubmission, error)

	GetNewsletterSubscriptions(ctx context.Context) ([]domain.NewsletterSubscription, error)
	CreateNewsletterSubscription(ctx context.Context, s domain.NewNewsletterSubscription) (*domain.NewsletterSubscription, error)
	DeactivateNewsletterSubscription(ctx context.Context, email string) (*domain.NewsletterSubscription, error)
}

// Notifier is told about every stored enquiry.
type Notifier interface {
	NotifyContactSubmission(ctx context.Context, s domain.ContactSubmission) error
}
