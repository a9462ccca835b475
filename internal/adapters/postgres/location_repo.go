package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/campusnav/internal/core/domain"
)

const locationColumns = `
	id, name,
	ST_Y(location::geometry) AS lat,
	ST_X(location::geometry) AS lon,
	category, description, created_at`

// LocationRepo implements ports.LocationRepository with pgx and PostGIS.
type LocationRepo struct {
	db *DB
}

// NewLocationRepo creates a new LocationRepo.
func NewLocationRepo(db *DB) *LocationRepo {
	return &LocationRepo{db: db}
}

// Create inserts a location and fills in its generated ID and timestamp.
func (r *LocationRepo) Create(ctx context.Context, loc *domain.NamedLocation) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO locations (name, location, category, description)
		VALUES ($1, ST_SetSRID(ST_MakePoint($2, $3), 4326)::geography, $4, $5)
		RETURNING id, created_at
	`, loc.Name, loc.Location.Lon, loc.Location.Lat, loc.Category, loc.Description,
	).Scan(&loc.ID, &loc.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %q", domain.ErrDuplicateName, loc.Name)
	}
	return err
}

// CreateBatch inserts or refreshes many locations by name using pgx.Batch.
func (r *LocationRepo) CreateBatch(ctx context.Context, locs []domain.NamedLocation) error {
	batch := &pgx.Batch{}
	for _, l := range locs {
		batch.Queue(`
			INSERT INTO locations (name, location, category, description)
			VALUES ($1, ST_SetSRID(ST_MakePoint($2, $3), 4326)::geography, $4, $5)
			ON CONFLICT (name) DO UPDATE
			SET location = EXCLUDED.location, category = EXCLUDED.category,
			    description = EXCLUDED.description
		`, l.Name, l.Location.Lon, l.Location.Lat, l.Category, l.Description)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range locs {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}

// Update overwrites a location's fields.
func (r *LocationRepo) Update(ctx context.Context, loc *domain.NamedLocation) error {
	if _, err := uuid.Parse(loc.ID); err != nil {
		return domain.ErrLocationNotFound
	}
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE locations
		SET name = $2, location = ST_SetSRID(ST_MakePoint($3, $4), 4326)::geography,
		    category = $5, description = $6
		WHERE id = $1
	`, loc.ID, loc.Name, loc.Location.Lon, loc.Location.Lat, loc.Category, loc.Description)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %q", domain.ErrDuplicateName, loc.Name)
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLocationNotFound
	}
	return nil
}

// Delete removes a location by ID.
func (r *LocationRepo) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrLocationNotFound
	}
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLocationNotFound
	}
	return nil
}

// GetByID returns a location by UUID.
func (r *LocationRepo) GetByID(ctx context.Context, id string) (*domain.NamedLocation, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrLocationNotFound
	}
	row := r.db.Pool.QueryRow(ctx, `SELECT `+locationColumns+` FROM locations WHERE id = $1`, id)
	return scanLocation(row)
}

// GetByName returns a location by its exact name.
func (r *LocationRepo) GetByName(ctx context.Context, name string) (*domain.NamedLocation, error) {
	row := r.db.Pool.QueryRow(ctx, `SELECT `+locationColumns+` FROM locations WHERE name = $1`, name)
	return scanLocation(row)
}

// List returns a page of locations ordered by name and the total count.
func (r *LocationRepo) List(ctx context.Context, offset, limit int) ([]domain.NamedLocation, int, error) {
	var total int
	if err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM locations`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+locationColumns+`
		FROM locations
		ORDER BY name
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	locs, err := collectLocations(rows, false)
	return locs, total, err
}

// ListByCategory returns all locations in a category ordered by name.
func (r *LocationRepo) ListByCategory(ctx context.Context, category string) ([]domain.NamedLocation, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+locationColumns+`
		FROM locations
		WHERE category = $1
		ORDER BY name
	`, category)
	if err != nil {
		return nil, err
	}
	return collectLocations(rows, false)
}

// FindNearest returns the locations closest to p using the PostGIS KNN operator.
func (r *LocationRepo) FindNearest(ctx context.Context, p domain.GeoPoint, limit int) ([]domain.NamedLocation, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+locationColumns+`,
		       ST_Distance(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography) AS distance
		FROM locations
		ORDER BY location <-> ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography
		LIMIT $3
	`, p.Lon, p.Lat, limit)
	if err != nil {
		return nil, err
	}
	return collectLocations(rows, true)
}

func scanLocation(row pgx.Row) (*domain.NamedLocation, error) {
	var l domain.NamedLocation
	err := row.Scan(&l.ID, &l.Name, &l.Location.Lat, &l.Location.Lon, &l.Category, &l.Description, &l.CreatedAt)
	if isNoRows(err) {
		return nil, domain.ErrLocationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func collectLocations(rows pgx.Rows, withDistance bool) ([]domain.NamedLocation, error) {
	defer rows.Close()

	var locs []domain.NamedLocation
	for rows.Next() {
		var l domain.NamedLocation
		dest := []any{&l.ID, &l.Name, &l.Location.Lat, &l.Location.Lon, &l.Category, &l.Description, &l.CreatedAt}
		var dist float64
		if withDistance {
			dest = append(dest, &dist)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		if withDistance {
			d := dist
			l.Distance = &d
		}
		locs = append(locs, l)
	}
	return locs, rows.Err()
}
