package contact

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/ttravel/hospitality/internal/domain"
	"github.com/ttravel/hospitality/internal/pkg/logger"
	"github.com/ttravel/hospitality/internal/pkg/validate"
)

const notifyTimeout = 10 * time.Second

// Service implements the contact and newsletter flows. It is safe for
// concurrent use.
type Service struct {
	repo     Repository
	notifier Notifier
}

// NewService wires the service. A nil notifier disables notifications.
func NewService(repo Repository, notifier Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

// Submit validates and stores an enquiry, then notifies the agency. A failed
// notification is logged; the visitor still gets their stored submission.
func (s *Service) Submit(ctx context.Context, in domain.NewContactSubmission) (*domain.ContactSubmission, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)

	if err := checked(validate.Struct(in), ErrInvalidSubmission); err != nil {
		return nil, err
	}

	sub, err := s.repo.CreateContactSubmission(ctx, in)
	if err != nil {
		return nil, err
	}
	logger.Info("contact submission stored", "id", sub.ID, "email", sub.Email)

	if s.notifier != nil {
		nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()
		if err := s.notifier.NotifyContactSubmission(nctx, *sub); err != nil {
			logger.Error("contact notification failed", "id", sub.ID, "error", err)
		}
	}
	return sub, nil
}

// Submissions returns every enquiry, newest first.
func (s *Service) Submissions(ctx context.Context) ([]domain.ContactSubmission, error) {
	return s.repo.GetContactSubmissions(ctx)
}

// UpdateStatus moves a submission between pending and responded.
func (s *Service) UpdateStatus(ctx context.Context, id string, status domain.SubmissionStatus) (*domain.ContactSubmission, error) {
	if !status.Valid() {
		return nil, &ValidationError{Kind: ErrInvalidStatus, Fields: map[string]string{"status": "oneof"}}
	}
	return s.repo.UpdateContactSubmissionStatus(ctx, id, status)
}

// Subscribe adds email to the newsletter. Re-subscribing returns the
// existing record. The address is trimmed but not case-folded.
func (s *Service) Subscribe(ctx context.Context, email string) (*domain.NewsletterSubscription, error) {
	email = strings.TrimSpace(email)
	if err := checked(validate.Var("email", email, "required,email,max=254"), ErrInvalidEmail); err != nil {
		return nil, err
	}
	return s.repo.CreateNewsletterSubscription(ctx, domain.NewNewsletterSubscription{Email: email})
}

// Unsubscribe deactivates email. Unknown addresses yield storage.ErrNotFound.
func (s *Service) Unsubscribe(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if err := checked(validate.Var("email", email, "required,email,max=254"), ErrInvalidEmail); err != nil {
		return err
	}
	_, err := s.repo.DeactivateNewsletterSubscription(ctx, email)
	return err
}

// Subscribers returns the active newsletter list.
func (s *Service) Subscribers(ctx context.Context) ([]domain.NewsletterSubscription, error) {
	return s.repo.GetNewsletterSubscriptions(ctx)
}

// Stats are the admin dashboard counters.
type Stats struct {
	ContactForms int `json:"contactForms"`
	Newsletter   int `json:"newsletter"`
	ThisMonth    int `json:"thisMonth"`
	Growth       int `json:"growth"`
}

// Stats counts submissions and active subscribers. ThisMonth and Growth use
// the calendar month containing now, in now's location.
func (s *Service) Stats(ctx context.Context, now time.Time) (Stats, error) {
	subs, err := s.repo.GetContactSubmissions(ctx)
	if err != nil {
		return Stats{}, err
	}
	news, err := s.repo.GetNewsletterSubscriptions(ctx)
	if err != nil {
		return Stats{}, err
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prevStart := monthStart.AddDate(0, -1, 0)
	nextStart := monthStart.AddDate(0, 1, 0)

	var thisMonth, lastMonth int
	for _, sub := range subs {
		switch t := sub.CreatedAt; {
		case !t.Before(monthStart) && t.Before(nextStart):
			thisMonth++
		case !t.Before(prevStart) && t.Before(monthStart):
			lastMonth++
		}
	}

	return Stats{
		ContactForms: len(subs),
		Newsletter:   len(news),
		ThisMonth:    thisMonth,
		Growth:       growth(thisMonth, lastMonth),
	}, nil
}

// growth is the percent change from prev to cur, rounded to the nearest int.
func growth(cur, prev int) int {
	if prev == 0 {
		if cur > 0 {
			return 100
		}
		return 0
	}
	return int(math.Round(float64(cur-prev) * 100 / float64(prev)))
}

// checked converts a validate.Error into a ValidationError of the given kind.
func checked(err error, kind error) error {
	if err == nil {
		return nil
	}
	var verr *validate.Error
	if errors.As(err, &verr) {
		return &ValidationError{Kind: kind, Fields: verr.Fields}
	}
	return err
}
