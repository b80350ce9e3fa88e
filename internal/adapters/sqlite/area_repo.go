package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	corearea "github.com/example/flotilla/internal/core/area"
	"github.com/example/flotilla/internal/errors"
	"github.com/example/flotilla/internal/ports/secondary"
)

const areaColumns = "id, name, installation_code, deck, dock_x, dock_y, dock_z, created_at"

// AreaRepository implements secondary.AreaRepository with SQLite.
type AreaRepository struct {
	db *sql.DB
}

// NewAreaRepository creates a new SQLite area repository.
func NewAreaRepository(db *sql.DB) *AreaRepository {
	return &AreaRepository{db: db}
}

// Create persists a new area.
func (r *AreaRepository) Create(ctx context.Context, area *secondary.AreaRecord) error {
	if area.ID == "" {
		return fmt.Errorf("area ID must be pre-populated by service layer")
	}
	if area.CreatedAt.IsZero() {
		area.CreatedAt = time.Now().UTC()
	}

	var x, y, z sql.NullFloat64
	if p := area.DockPosition; p != nil {
		x = sql.NullFloat64{Float64: p.X, Valid: true}
		y = sql.NullFloat64{Float64: p.Y, Valid: true}
		z = sql.NullFloat64{Float64: p.Z, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO areas (id, name, installation_code, deck, dock_x, dock_y, dock_z, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		area.ID, area.Name, area.InstallationCode, area.Deck, x, y, z, area.CreatedAt.UTC(),
	)
	if err != nil {
		if isConstraintError(err) {
			return errors.Conflict("create area "+area.Name, err)
		}
		return fmt.Errorf("failed to create area: %w", err)
	}
	return nil
}

// GetByID retrieves an area by its ID.
func (r *AreaRepository) GetByID(ctx context.Context, id string) (*secondary.AreaRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+areaColumns+" FROM areas WHERE id = ?", id)
	record, err := scanArea(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("area", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get area: %w", err)
	}
	return record, nil
}

// List retrieves areas matching the given filters.
func (r *AreaRepository) List(ctx context.Context, filters secondary.AreaFilters) ([]*secondary.AreaRecord, error) {
	query := "SELECT " + areaColumns + " FROM areas"
	var where []string
	args := []any{}

	if filters.InstallationCode != "" {
		where = append(where, "installation_code = ?")
		args = append(args, filters.InstallationCode)
	}
	if filters.Deck != "" {
		where = append(where, "deck = ?")
		args = append(args, filters.Deck)
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY installation_code ASC, name ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list areas: %w", err)
	}
	defer rows.Close()

	var areas []*secondary.AreaRecord
	for rows.Next() {
		record, err := scanArea(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan area: %w", err)
		}
		areas = append(areas, record)
	}
	return areas, rows.Err()
}

// GetNextID returns the next available area ID.
func (r *AreaRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 6) AS INTEGER)), 0) FROM areas",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next area ID: %w", err)
	}
	return corearea.GenerateAreaID(maxID), nil
}

func scanArea(s scanner) (*secondary.AreaRecord, error) {
	var (
		x, y, z   sql.NullFloat64
		createdAt sql.NullTime
	)

	record := &secondary.AreaRecord{}
	err := s.Scan(&record.ID, &record.Name, &record.InstallationCode, &record.Deck, &x, &y, &z, &createdAt)
	if err != nil {
		return nil, err
	}
	if x.Valid && y.Valid && z.Valid {
		record.DockPosition = &secondary.Position{X: x.Float64, Y: y.Float64, Z: z.Float64}
	}
	record.CreatedAt = createdAt.Time
	return record, nil
}
