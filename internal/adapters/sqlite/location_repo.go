package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/samirrijal/campusnav/internal/core/domain"
	"github.com/samirrijal/campusnav/internal/pkg/geospatial"
)

// nearestSearchRadius bounds the first FindNearest query; a wider scan runs
// only when the box holds too few locations.
const nearestSearchRadius = 1000.0

const locationColumns = `id, name, lat, lon, category, description, created_at`

// LocationRepo implements ports.LocationRepository on SQLite. Distance
// ordering is computed in Go with the haversine formula.
type LocationRepo struct {
	store *Store
}

// NewLocationRepo creates a new LocationRepo.
func NewLocationRepo(store *Store) *LocationRepo {
	return &LocationRepo{store: store}
}

// Create inserts a location and fills in its generated ID and timestamp.
func (r *LocationRepo) Create(ctx context.Context, loc *domain.NamedLocation) error {
	if loc.ID == "" {
		loc.ID = uuid.NewString()
	}
	if loc.CreatedAt.IsZero() {
		loc.CreatedAt = time.Now().UTC()
	}
	_, err := r.store.sqlDB.ExecContext(ctx,
		`INSERT INTO locations (`+locationColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		loc.ID, loc.Name, loc.Location.Lat, loc.Location.Lon, loc.Category, loc.Description, toMillis(loc.CreatedAt),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %q", domain.ErrDuplicateName, loc.Name)
	}
	if err != nil {
		return fmt.Errorf("create location: %w", err)
	}
	return nil
}

// CreateBatch inserts or refreshes many locations by name in one transaction.
func (r *LocationRepo) CreateBatch(ctx context.Context, locs []domain.NamedLocation) error {
	tx, err := r.store.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := toMillis(time.Now())
	for _, l := range locs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO locations (`+locationColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (name) DO UPDATE SET
			    lat = excluded.lat, lon = excluded.lon,
			    category = excluded.category, description = excluded.description`,
			uuid.NewString(), l.Name, l.Location.Lat, l.Location.Lon, l.Category, l.Description, now,
		); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return tx.Commit()
}

// Update overwrites a location's fields.
func (r *LocationRepo) Update(ctx context.Context, loc *domain.NamedLocation) error {
	res, err := r.store.sqlDB.ExecContext(ctx,
		`UPDATE locations SET name = ?, lat = ?, lon = ?, category = ?, description = ? WHERE id = ?`,
		loc.Name, loc.Location.Lat, loc.Location.Lon, loc.Category, loc.Description, loc.ID,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %q", domain.ErrDuplicateName, loc.Name)
	}
	if err != nil {
		return fmt.Errorf("update location: %w", err)
	}
	return requireAffected(res)
}

// Delete removes a location by ID.
func (r *LocationRepo) Delete(ctx context.Context, id string) error {
	res, err := r.store.sqlDB.ExecContext(ctx, `DELETE FROM locations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	return requireAffected(res)
}

// GetByID returns a location by ID.
func (r *LocationRepo) GetByID(ctx context.Context, id string) (*domain.NamedLocation, error) {
	row := r.store.sqlDB.QueryRowContext(ctx, `SELECT `+locationColumns+` FROM locations WHERE id = ?`, id)
	return scanLocation(row)
}

// GetByName returns a location by its exact name.
func (r *LocationRepo) GetByName(ctx context.Context, name string) (*domain.NamedLocation, error) {
	row := r.store.sqlDB.QueryRowContext(ctx, `SELECT `+locationColumns+` FROM locations WHERE name = ?`, name)
	return scanLocation(row)
}

// List returns a page of locations ordered by name and the total count.
func (r *LocationRepo) List(ctx context.Context, offset, limit int) ([]domain.NamedLocation, int, error) {
	var total int
	if err := r.store.sqlDB.QueryRowContext(ctx, `SELECT count(*) FROM locations`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count locations: %w", err)
	}
	rows, err := r.store.sqlDB.QueryContext(ctx,
		`SELECT `+locationColumns+` FROM locations ORDER BY name LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list locations: %w", err)
	}
	locs, err := collectLocations(rows)
	return locs, total, err
}

// ListByCategory returns all locations in a category ordered by name.
func (r *LocationRepo) ListByCategory(ctx context.Context, category string) ([]domain.NamedLocation, error) {
	rows, err := r.store.sqlDB.QueryContext(ctx,
		`SELECT `+locationColumns+` FROM locations WHERE category = ? ORDER BY name`, category)
	if err != nil {
		return nil, fmt.Errorf("list locations by category: %w", err)
	}
	return collectLocations(rows)
}

// FindNearest returns the locations closest to p with Distance populated.
func (r *LocationRepo) FindNearest(ctx context.Context, p domain.GeoPoint, limit int) ([]domain.NamedLocation, error) {
	box := geospatial.BoundingBox(p, nearestSearchRadius)
	rows, err := r.store.sqlDB.QueryContext(ctx, `
		SELECT `+locationColumns+` FROM locations
		WHERE lat BETWEEN ? AND ? AND lon BETWEEN ? AND ?`,
		box.MinLat, box.MaxLat, box.MinLon, box.MaxLon)
	if err != nil {
		return nil, fmt.Errorf("find nearest: %w", err)
	}
	candidates, err := collectLocations(rows)
	if err != nil {
		return nil, err
	}

	if len(candidates) < limit {
		rows, err := r.store.sqlDB.QueryContext(ctx, `SELECT `+locationColumns+` FROM locations`)
		if err != nil {
			return nil, fmt.Errorf("find nearest: %w", err)
		}
		if candidates, err = collectLocations(rows); err != nil {
			return nil, err
		}
	}

	for i := range candidates {
		d := geospatial.Distance(p, candidates[i].Location)
		candidates[i].Distance = &d
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return *candidates[i].Distance < *candidates[j].Distance
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLocation(row rowScanner) (*domain.NamedLocation, error) {
	var l domain.NamedLocation
	var created int64
	err := row.Scan(&l.ID, &l.Name, &l.Location.Lat, &l.Location.Lon, &l.Category, &l.Description, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrLocationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan location: %w", err)
	}
	l.CreatedAt = fromMillis(created)
	return &l, nil
}

func collectLocations(rows *sql.Rows) ([]domain.NamedLocation, error) {
	defer rows.Close()

	var locs []domain.NamedLocation
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		locs = append(locs, *l)
	}
	return locs, rows.Err()
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrLocationNotFound
	}
	return nil
}
