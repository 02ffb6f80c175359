package postgres

import (
	"context"
	"fmt"

	"github.com/ttravel/hospitality/internal/domain"
)

const destinationColumns = `id, name, type, image_url, form_url, icon, is_active, created_at`

func scanDestination(row rowScanner) (domain.Destination, error) {
	var d domain.Destination
	err := row.Scan(&d.ID, &d.Name, &d.Type, &d.ImageURL, &d.FormURL, &d.Icon, &d.IsActive, &d.CreatedAt)
	return d, err
}

func (s *Store) queryDestinations(ctx context.Context, query string, args ...any) ([]domain.Destination, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list destinations: %w", err)
	}
	defer rows.Close()

	out := []domain.Destination{}
	for rows.Next() {
		d, err := scanDestination(rows)
		if err != nil {
			return nil, fmt.Errorf("scan destination: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) GetDestinations(ctx context.Context) ([]domain.Destination, error) {
	return s.queryDestinations(ctx,
		`SELECT `+destinationColumns+` FROM destinations WHERE is_active = true ORDER BY created_at, id`)
}

func (s *Store) GetAllDestinations(ctx context.Context) ([]domain.Destination, error) {
	return s.queryDestinations(ctx,
		`SELECT `+destinationColumns+` FROM destinations ORDER BY created_at, id`)
}

func (s *Store) GetDestinationsByType(ctx context.Context, t domain.DestinationType) ([]domain.Destination, error) {
	return s.queryDestinations(ctx,
		`SELECT `+destinationColumns+` FROM destinations WHERE type = $1 AND is_active = true ORDER BY created_at, id`,
		string(t))
}

func (s *Store) GetDestination(ctx context.Context, id string) (*domain.Destination, error) {
	d, err := scanDestination(s.db.QueryRowContext(ctx,
		`SELECT `+destinationColumns+` FROM destinations WHERE id = $1`, id))
	if err != nil {
		return nil, notFound("get destination", err)
	}
	return &d, nil
}

func (s *Store) CreateDestination(ctx context.Context, nd domain.NewDestination) (*domain.Destination, error) {
	d := nd.Build(s.newID(), s.now())
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO destinations (id, name, type, image_url, form_url, icon, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, d.ID, d.Name, string(d.Type), d.ImageURL, d.FormURL, d.Icon, d.IsActive, d.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create destination: %w", err)
	}
	return &d, nil
}

func (s *Store) UpdateDestination(ctx context.Context, id string, p domain.DestinationPatch) (*domain.Destination, error) {
	var typ any
	if p.Type != nil {
		typ = string(*p.Type)
	}
	d, err := scanDestination(s.db.QueryRowContext(ctx, `
		UPDATE destinations SET
			name      = COALESCE($2, name),
			type      = COALESCE($3, type),
			image_url = COALESCE($4, image_url),
			form_url  = COALESCE($5, form_url),
			icon      = COALESCE($6, icon),
			is_active = COALESCE($7, is_active)
		WHERE id = $1
		RETURNING `+destinationColumns,
		id, nullable(p.Name), typ, nullable(p.ImageURL), nullable(p.FormURL), nullable(p.Icon), nullable(p.IsActive),
	))
	if err != nil {
		return nil, notFound("update destination", err)
	}
	return &d, nil
}

func (s *Store) DeleteDestination(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE destinations SET is_active = false WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete destination: %w", err)
	}
	return requireRow(res)
}
