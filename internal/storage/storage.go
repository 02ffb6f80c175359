package storage

import (
	"context"

	"github.com/ttravel/hospitality/internal/domain"
)

// Storage is the CRUD contract shared by every entity family.
type Storage interface {
	UserRepository
	DestinationRepository
	ContentRepository
	ContactRepository
	NewsletterRepository
	PackageRepository
}

// UserRepository covers admin accounts.
type UserRepository interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	// CreateUser fails with ErrDuplicate when the username is taken.
	CreateUser(ctx context.Context, u domain.NewUser) (*domain.User, error)
}

// DestinationRepository covers destinations.
type DestinationRepository interface {
	// GetDestinations returns active destinations only.
	GetDestinations(ctx context.Context) ([]domain.Destination, error)
	// GetAllDestinations includes soft-deleted destinations.
	GetAllDestinations(ctx context.Context) ([]domain.Destination, error)
	// GetDestinationsByType returns active destinations of type t.
	GetDestinationsByType(ctx context.Context, t domain.DestinationType) ([]domain.Destination, error)
	// GetDestination returns the destination whether active or not.
	GetDestination(ctx context.Context, id string) (*domain.Destination, error)
	CreateDestination(ctx context.Context, d domain.NewDestination) (*domain.Destination, error)
	UpdateDestination(ctx context.Context, id string, patch domain.DestinationPatch) (*domain.Destination, error)
	// DeleteDestination marks the destination inactive.
	DeleteDestination(ctx context.Context, id string) error
}

// ContentRepository covers key/value site copy.
type ContentRepository interface {
	GetContent(ctx context.Context) ([]domain.Content, error)
	GetContentByKey(ctx context.Context, key string) (*domain.Content, error)
	// SetContent creates the key or overwrites its value.
	SetContent(ctx context.Context, c domain.NewContent) (*domain.Content, error)
	// UpdateContent overwrites an existing key and fails with ErrNotFound otherwise.
	UpdateContent(ctx context.Context, key, value string) (*domain.Content, error)
}

// ContactRepository covers contact-form submissions.
type ContactRepository interface {
	// GetContactSubmissions returns submissions newest first.
	GetContactSubmissions(ctx context.Context) ([]domain.ContactSubmission, error)
	CreateContactSubmission(ctx context.Context, s domain.NewContactSubmission) (*domain.ContactSubmission, error)
	UpdateContactSubmissionStatus(ctx context.Context, id string, status domain.SubmissionStatus) (*domain.ContactSubmission, error)
}

// NewsletterRepository covers newsletter sign-ups.
type NewsletterRepository interface {
	// GetNewsletterSubscriptions returns active subscriptions only.
	GetNewsletterSubscriptions(ctx context.Context) ([]domain.NewsletterSubscription, error)
	// CreateNewsletterSubscription returns the existing record for a known
	// email, reactivating it if needed, instead of inserting a duplicate.
	CreateNewsletterSubscription(ctx context.Context, s domain.NewNewsletterSubscription) (*domain.NewsletterSubscription, error)
	DeactivateNewsletterSubscription(ctx context.Context, email string) (*domain.NewsletterSubscription, error)
}

// PackageRepository covers travel packages.
type PackageRepository interface {
	// GetPackages returns active packages only.
	GetPackages(ctx context.Context) ([]domain.Package, error)
	GetAllPackages(ctx context.Context) ([]domain.Package, error)
	GetPackagesByDestination(ctx context.Context, destinationID string) ([]domain.Package, error)
	GetFeaturedPackages(ctx context.Context) ([]domain.Package, error)
	GetPackage(ctx context.Context, id string) (*domain.Package, error)
	CreatePackage(ctx context.Context, p domain.NewPackage) (*domain.Package, error)
	UpdatePackage(ctx context.Context, id string, patch domain.PackagePatch) (*domain.Package, error)
	// DeletePackage marks the package inactive.
	DeletePackage(ctx context.Context, id string) error
}
