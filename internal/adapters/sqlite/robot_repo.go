package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	corerobot "github.com/example/flotilla/internal/core/robot"
	"github.com/example/flotilla/internal/errors"
	"github.com/example/flotilla/internal/ports/secondary"
)

const robotColumns = "id, name, current_area_id, flotilla_status, queue_frozen, created_at"

// RobotRepository implements secondary.RobotRepository with SQLite.
type RobotRepository struct {
	db *sql.DB
}

// NewRobotRepository creates a new SQLite robot repository.
func NewRobotRepository(db *sql.DB) *RobotRepository {
	return &RobotRepository{db: db}
}

// Create persists a new robot.
func (r *RobotRepository) Create(ctx context.Context, robot *secondary.RobotRecord) error {
	if robot.ID == "" {
		return fmt.Errorf("robot ID must be pre-populated by service layer")
	}
	if robot.FlotillaStatus == "" {
		robot.FlotillaStatus = string(corerobot.InitialStatus())
	}
	if robot.CreatedAt.IsZero() {
		robot.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO robots (id, name, current_area_id, flotilla_status, queue_frozen, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		robot.ID, robot.Name, nullString(robot.CurrentAreaID), robot.FlotillaStatus, robot.QueueFrozen, robot.CreatedAt.UTC(),
	)
	if err != nil {
		if isConstraintError(err) {
			return errors.Conflict("create robot "+robot.Name, err)
		}
		return fmt.Errorf("failed to create robot: %w", err)
	}
	return nil
}

// GetByID retrieves a robot by its ID.
func (r *RobotRepository) GetByID(ctx context.Context, id string) (*secondary.RobotRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+robotColumns+" FROM robots WHERE id = ?", id)
	record, err := scanRobot(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("robot", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get robot: %w", err)
	}
	return record, nil
}

// GetByName retrieves a robot by its unique name.
func (r *RobotRepository) GetByName(ctx context.Context, name string) (*secondary.RobotRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+robotColumns+" FROM robots WHERE name = ?", name)
	record, err := scanRobot(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("robot", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get robot by name: %w", err)
	}
	return record, nil
}

// List retrieves all robots ordered by name.
func (r *RobotRepository) List(ctx context.Context) ([]*secondary.RobotRecord, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+robotColumns+" FROM robots ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list robots: %w", err)
	}
	defer rows.Close()

	var robots []*secondary.RobotRecord
	for rows.Next() {
		record, err := scanRobot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan robot: %w", err)
		}
		robots = append(robots, record)
	}
	return robots, rows.Err()
}

// UpdateFlotillaStatus sets the robot's fleet-management status.
func (r *RobotRepository) UpdateFlotillaStatus(ctx context.Context, id, status string) error {
	return r.update(ctx, id, "flotilla status", "flotilla_status = ?", status)
}

// UpdateCurrentArea sets or clears the robot's localized area.
func (r *RobotRepository) UpdateCurrentArea(ctx context.Context, id, areaID string) error {
	return r.update(ctx, id, "current area", "current_area_id = ?", nullString(areaID))
}

// SetQueueFrozen freezes or unfreezes automatic dispatch for the robot.
func (r *RobotRepository) SetQueueFrozen(ctx context.Context, id string, frozen bool) error {
	return r.update(ctx, id, "queue frozen flag", "queue_frozen = ?", frozen)
}

func (r *RobotRepository) update(ctx context.Context, id, what, set string, value any) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE robots SET "+set+", updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		value, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update robot %s: %w", what, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return errors.NotFound("robot", id)
	}
	return nil
}

// GetNextID returns the next available robot ID.
func (r *RobotRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 7) AS INTEGER)), 0) FROM robots",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next robot ID: %w", err)
	}
	return corerobot.GenerateRobotID(maxID), nil
}

func scanRobot(s scanner) (*secondary.RobotRecord, error) {
	var (
		areaID    sql.NullString
		createdAt sql.NullTime
	)

	record := &secondary.RobotRecord{}
	err := s.Scan(&record.ID, &record.Name, &areaID, &record.FlotillaStatus, &record.QueueFrozen, &createdAt)
	if err != nil {
		return nil, err
	}
	record.CurrentAreaID = areaID.String
	record.CreatedAt = createdAt.Time
	return record, nil
}
