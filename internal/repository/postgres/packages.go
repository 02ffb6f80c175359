package postgres

import (
	"context"
	"fmt"

	"github.com/lib/pq"
	"github.com/ttravel/hospitality/internal/domain"
)

const packageColumns = `id, destination_id, name, description, image_url, price_per_person, duration,
	highlights, location, is_featured, is_active, created_at`

func scanPackage(row rowScanner) (domain.Package, error) {
	var p domain.Package
	err := row.Scan(&p.ID, &p.DestinationID, &p.Name, &p.Description, &p.ImageURL, &p.PricePerPerson,
		&p.Duration, pq.Array(&p.Highlights), &p.Location, &p.IsFeatured, &p.IsActive, &p.CreatedAt)
	if p.Highlights == nil {
		p.Highlights = []string{}
	}
	return p, err
}

func (s *Store) queryPackages(ctx context.Context, query string, args ...any) ([]domain.Package, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	defer rows.Close()

	out := []domain.Package{}
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan package: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) GetPackages(ctx context.Context) ([]domain.Package, error) {
	return s.queryPackages(ctx,
		`SELECT `+packageColumns+` FROM packages WHERE is_active = true ORDER BY created_at, id`)
}

func (s *Store) GetAllPackages(ctx context.Context) ([]domain.Package, error) {
	return s.queryPackages(ctx,
		`SELECT `+packageColumns+` FROM packages ORDER BY created_at, id`)
}

func (s *Store) GetPackagesByDestination(ctx context.Context, destinationID string) ([]domain.Package, error) {
	return s.queryPackages(ctx,
		`SELECT `+packageColumns+` FROM packages WHERE destination_id = $1 AND is_active = true ORDER BY created_at, id`,
		destinationID)
}

func (s *Store) GetFeaturedPackages(ctx context.Context) ([]domain.Package, error) {
	return s.queryPackages(ctx,
		`SELECT `+packageColumns+` FROM packages WHERE is_featured = true AND is_active = true ORDER BY created_at, id`)
}

func (s *Store) GetPackage(ctx context.Context, id string) (*domain.Package, error) {
	p, err := scanPackage(s.db.QueryRowContext(ctx,
		`SELECT `+packageColumns+` FROM packages WHERE id = $1`, id))
	if err != nil {
		return nil, notFound("get package", err)
	}
	return &p, nil
}

func (s *Store) CreatePackage(ctx context.Context, np domain.NewPackage) (*domain.Package, error) {
	p := np.Build(s.newID(), s.now())
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO packages (id, destination_id, name, description, image_url, price_per_person, duration,
			highlights, location, is_featured, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, p.ID, p.DestinationID, p.Name, p.Description, p.ImageURL, p.PricePerPerson, p.Duration,
		pq.Array(p.Highlights), p.Location, p.IsFeatured, p.IsActive, p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create package: %w", err)
	}
	return &p, nil
}

func (s *Store) UpdatePackage(ctx context.Context, id string, pp domain.PackagePatch) (*domain.Package, error) {
	var highlights any
	if pp.Highlights != nil {
		highlights = pq.Array(pp.Highlights)
	}
	p, err := scanPackage(s.db.QueryRowContext(ctx, `
		UPDATE packages SET
			destination_id   = COALESCE($2, destination_id),
			name             = COALESCE($3, name),
			description      = COALESCE($4, description),
			image_url        = COALESCE($5, image_url),
			price_per_person = COALESCE($6, price_per_person),
			duration         = COALESCE($7, duration),
			highlights       = COALESCE($8, highlights),
			location         = COALESCE($9, location),
			is_featured      = COALESCE($10, is_featured),
			is_active        = COALESCE($11, is_active)
		WHERE id = $1
		RETURNING `+packageColumns,
		id, nullable(pp.DestinationID), nullable(pp.Name), nullable(pp.Description), nullable(pp.ImageURL),
		nullable(pp.PricePerPerson), nullable(pp.Duration), highlights, nullable(pp.Location),
		nullable(pp.IsFeatured), nullable(pp.IsActive),
	))
	if err != nil {
		return nil, notFound("update package", err)
	}
	return &p, nil
}

func (s *Store) DeletePackage(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE packages SET is_active = false WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete package: %w", err)
	}
	return requireRow(res)
}
