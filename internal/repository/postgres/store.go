package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ttravel/hospitality/internal/storage"
)

// Store implements storage.Storage against PostgreSQL. The schema lives in
// migrations/001_init.sql.
type Store struct {
	db    *sql.DB
	now   func() time.Time
	newID func() string
}

var _ storage.Storage = (*Store)(nil)

// New creates a Postgres-backed store.
func New(db *sql.DB) *Store {
	return &Store{
		db:    db,
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return uuid.New().String() },
	}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// notFound maps sql.ErrNoRows onto the storage sentinel and wraps any other
// error with op.
func notFound(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

// isUniqueViolation reports a Postgres unique_violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// requireRow turns a zero-row UPDATE into storage.ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// nullable passes nil through so COALESCE keeps the stored column.
func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
