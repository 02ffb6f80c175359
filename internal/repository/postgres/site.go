package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ttravel/hospitality/internal/domain"
	"github.com/ttravel/hospitality/internal/storage"
)

// --- Users ---

func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if err != nil {
		return nil, notFound("get user", err)
	}
	return &u, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash FROM users WHERE username = $1`, username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if err != nil {
		return nil, notFound("get user by username", err)
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, nu domain.NewUser) (*domain.User, error) {
	u := domain.User{ID: s.newID(), Username: nu.Username, PasswordHash: nu.PasswordHash}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash) VALUES ($1, $2, $3)`,
		u.ID, u.Username, string(u.PasswordHash))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("create user %s: %w", u.Username, storage.ErrDuplicate)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

// --- Content ---

func (s *Store) GetContent(ctx context.Context) ([]domain.Content, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, key, value, updated_at FROM content ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	defer rows.Close()

	out := []domain.Content{}
	for rows.Next() {
		var c domain.Content
		if err := rows.Scan(&c.ID, &c.Key, &c.Value, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) GetContentByKey(ctx context.Context, key string) (*domain.Content, error) {
	var c domain.Content
	err := s.db.QueryRowContext(ctx,
		`SELECT id, key, value, updated_at FROM content WHERE key = $1`, key,
	).Scan(&c.ID, &c.Key, &c.Value, &c.UpdatedAt)
	if err != nil {
		return nil, notFound("get content", err)
	}
	return &c, nil
}

func (s *Store) SetContent(ctx context.Context, nc domain.NewContent) (*domain.Content, error) {
	var c domain.Content
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO content (id, key, value, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
		RETURNING id, key, value, updated_at
	`, s.newID(), nc.Key, nc.Value, s.now()).Scan(&c.ID, &c.Key, &c.Value, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("set content %s: %w", nc.Key, err)
	}
	return &c, nil
}

func (s *Store) UpdateContent(ctx context.Context, key, value string) (*domain.Content, error) {
	var c domain.Content
	err := s.db.QueryRowContext(ctx, `
		UPDATE content SET value = $2, updated_at = $3 WHERE key = $1
		RETURNING id, key, value, updated_at
	`, key, value, s.now()).Scan(&c.ID, &c.Key, &c.Value, &c.UpdatedAt)
	if err != nil {
		return nil, notFound("update content", err)
	}
	return &c, nil
}

// --- Contact submissions ---

const submissionColumns = `id, first_name, last_name, email, subject, message, status, created_at`

// scanSubmission leaves CreatedAt zero for rows with a NULL created_at; they
// sort last, as the epoch would.
func scanSubmission(row rowScanner) (domain.ContactSubmission, error) {
	var (
		cs      domain.ContactSubmission
		created sql.NullTime
	)
	err := row.Scan(&cs.ID, &cs.FirstName, &cs.LastName, &cs.Email, &cs.Subject, &cs.Message, &cs.Status, &created)
	if created.Valid {
		cs.CreatedAt = created.Time
	}
	return cs, err
}

func (s *Store) GetContactSubmissions(ctx context.Context) ([]domain.ContactSubmission, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+submissionColumns+` FROM contact_submissions ORDER BY created_at DESC NULLS LAST`)
	if err != nil {
		return nil, fmt.Errorf("list contact submissions: %w", err)
	}
	defer rows.Close()

	out := []domain.ContactSubmission{}
	for rows.Next() {
		cs, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact submission: %w", err)
		}
		out = append(out, cs)
	}
	return out, rows.Err()
}

func (s *Store) CreateContactSubmission(ctx context.Context, ns domain.NewContactSubmission) (*domain.ContactSubmission, error) {
	cs := domain.ContactSubmission{
		ID:        s.newID(),
		FirstName: ns.FirstName,
		LastName:  ns.LastName,
		Email:     ns.Email,
		Subject:   ns.Subject,
		Message:   ns.Message,
		Status:    domain.StatusPending,
		CreatedAt: s.now(),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contact_submissions (`+submissionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, cs.ID, cs.FirstName, cs.LastName, cs.Email, cs.Subject, cs.Message, string(cs.Status), cs.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create contact submission: %w", err)
	}
	return &cs, nil
}

func (s *Store) UpdateContactSubmissionStatus(ctx context.Context, id string, status domain.SubmissionStatus) (*domain.ContactSubmission, error) {
	cs, err := scanSubmission(s.db.QueryRowContext(ctx,
		`UPDATE contact_submissions SET status = $2 WHERE id = $1 RETURNING `+submissionColumns,
		id, string(status)))
	if err != nil {
		return nil, notFound("update contact submission status", err)
	}
	return &cs, nil
}

// --- Newsletter ---

const subscriptionColumns = `id, email, is_active, created_at`

func scanSubscription(row rowScanner) (domain.NewsletterSubscription, error) {
	var ns domain.NewsletterSubscription
	err := row.Scan(&ns.ID, &ns.Email, &ns.IsActive, &ns.CreatedAt)
	return ns, err
}

func (s *Store) GetNewsletterSubscriptions(ctx context.Context) ([]domain.NewsletterSubscription, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+subscriptionColumns+` FROM newsletter_subscriptions WHERE is_active = true ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list newsletter subscriptions: %w", err)
	}
	defer rows.Close()

	out := []domain.NewsletterSubscription{}
	for rows.Next() {
		ns, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("scan newsletter subscription: %w", err)
		}
		out = append(out, ns)
	}
	return out, rows.Err()
}

func (s *Store) CreateNewsletterSubscription(ctx context.Context, in domain.NewNewsletterSubscription) (*domain.NewsletterSubscription, error) {
	ns, err := scanSubscription(s.db.QueryRowContext(ctx, `
		INSERT INTO newsletter_subscriptions (id, email, is_active, created_at)
		VALUES ($1, $2, true, $3)
		ON CONFLICT (email) DO UPDATE SET is_active = true
		RETURNING `+subscriptionColumns,
		s.newID(), in.Email, s.now()))
	if err != nil {
		return nil, fmt.Errorf("subscribe: %w", err)
	}
	return &ns, nil
}

func (s *Store) DeactivateNewsletterSubscription(ctx context.Context, email string) (*domain.NewsletterSubscription, error) {
	ns, err := scanSubscription(s.db.QueryRowContext(ctx,
		`UPDATE newsletter_subscriptions SET is_active = false WHERE email = $1 RETURNING `+subscriptionColumns,
		email))
	if err != nil {
		return nil, notFound("deactivate newsletter subscription", err)
	}
	return &ns, nil
}
