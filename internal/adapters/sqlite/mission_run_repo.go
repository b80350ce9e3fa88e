// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	coremissionrun "github.com/example/flotilla/internal/core/missionrun"
	"github.com/example/flotilla/internal/errors"
	"github.com/example/flotilla/internal/ports/secondary"
)

const missionRunColumns = "id, robot_id, area_id, name, status, run_type, desired_start_time, started_at, ended_at, created_at"

// MissionRunRepository implements secondary.MissionRunRepository with SQLite.
type MissionRunRepository struct {
	db *sql.DB
}

// NewMissionRunRepository creates a new SQLite mission run repository.
func NewMissionRunRepository(db *sql.DB) *MissionRunRepository {
	return &MissionRunRepository{db: db}
}

// Create persists a new mission run. Status and RunType must be
// pre-populated by the service layer. An empty ID is filled with the next
// free RUN-XXX ID, allocated in the same transaction as the insert.
func (r *MissionRunRepository) Create(ctx context.Context, run *secondary.MissionRunRecord) error {
	if run.Status == "" || run.RunType == "" {
		return fmt.Errorf("mission run Status and RunType must be pre-populated by service layer")
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	// db.Open starts transactions with BEGIN IMMEDIATE, so concurrent
	// creators queue on the write lock before reading the current max.
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin mission run insert: %w", err)
	}
	defer tx.Rollback()

	id := run.ID
	if id == "" {
		if id, err = nextRunID(ctx, tx); err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO mission_runs (id, robot_id, area_id, name, status, run_type, desired_start_time, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		id, run.RobotID, nullString(run.AreaID), run.Name, run.Status, run.RunType, run.DesiredStartTime.UTC(), run.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create mission run: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit mission run %s: %w", id, err)
	}

	run.ID = id
	return nil
}

// GetByID retrieves a mission run by its ID.
func (r *MissionRunRepository) GetByID(ctx context.Context, id string) (*secondary.MissionRunRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+missionRunColumns+" FROM mission_runs WHERE id = ?", id)
	record, err := scanMissionRun(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("mission run", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mission run: %w", err)
	}
	return record, nil
}

// List retrieves mission runs matching the given filters.
func (r *MissionRunRepository) List(ctx context.Context, filters secondary.MissionRunFilters) ([]*secondary.MissionRunRecord, error) {
	query := "SELECT " + missionRunColumns + " FROM mission_runs"
	var where []string
	args := []any{}

	if filters.RobotID != "" {
		where = append(where, "robot_id = ?")
		args = append(args, filters.RobotID)
	}
	if len(filters.Statuses) > 0 {
		where = append(where, "status IN ("+placeholders(len(filters.Statuses))+")")
		for _, s := range filters.Statuses {
			args = append(args, s)
		}
	}
	if len(filters.RunTypes) > 0 {
		where = append(where, "run_type IN ("+placeholders(len(filters.RunTypes))+")")
		for _, t := range filters.RunTypes {
			args = append(args, t)
		}
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	switch filters.OrderBy {
	case "created_at":
		query += " ORDER BY created_at DESC, id DESC"
	default:
		query += " ORDER BY desired_start_time ASC, id ASC"
	}

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list mission runs: %w", err)
	}
	defer rows.Close()

	var runs []*secondary.MissionRunRecord
	for rows.Next() {
		record, err := scanMissionRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mission run: %w", err)
		}
		runs = append(runs, record)
	}
	return runs, rows.Err()
}

// GetLastExecutedByRobot retrieves the robot's most recently ended or started run.
func (r *MissionRunRepository) GetLastExecutedByRobot(ctx context.Context, robotID string) (*secondary.MissionRunRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+missionRunColumns+" FROM mission_runs WHERE robot_id = ? AND started_at IS NOT NULL ORDER BY COALESCE(ended_at, started_at) DESC, id DESC LIMIT 1",
		robotID,
	)
	record, err := scanMissionRun(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("executed mission run for robot", robotID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last executed mission run: %w", err)
	}
	return record, nil
}

// UpdateType changes a run's type.
func (r *MissionRunRepository) UpdateType(ctx context.Context, id, runType string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE mission_runs SET run_type = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		runType, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update mission run type: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return errors.NotFound("mission run", id)
	}
	return nil
}

// MarkStarted moves a pending run to ongoing if its robot is otherwise idle.
func (r *MissionRunRepository) MarkStarted(ctx context.Context, id string, at time.Time) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE mission_runs SET status = 'ongoing', started_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = 'pending'
		AND NOT EXISTS (
			SELECT 1 FROM mission_runs other
			WHERE other.robot_id = mission_runs.robot_id AND other.status IN ('ongoing', 'paused')
		)`,
		at.UTC(), id,
	)
	if err != nil {
		if isConstraintError(err) {
			return errors.Conflict("mark mission run "+id+" started", err)
		}
		return fmt.Errorf("failed to start mission run: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return errors.Conflict("mark mission run "+id+" started", fmt.Errorf("run is no longer pending or robot is busy"))
	}
	return nil
}

// UpdateStatus moves a run from one status to another.
func (r *MissionRunRepository) UpdateStatus(ctx context.Context, id, fromStatus, toStatus string, at time.Time) error {
	query := "UPDATE mission_runs SET status = ?, updated_at = CURRENT_TIMESTAMP"
	args := []any{toStatus}

	if st, ok := coremissionrun.ParseStatus(toStatus); ok && st.IsTerminal() {
		query += ", ended_at = ?"
		args = append(args, at.UTC())
	}
	query += " WHERE id = ? AND status = ?"
	args = append(args, id, fromStatus)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isConstraintError(err) {
			return errors.Conflict("update mission run "+id, err)
		}
		return fmt.Errorf("failed to update mission run status: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return errors.Conflict("update mission run "+id, fmt.Errorf("run is not %s", fromStatus))
	}
	return nil
}

// PendingLocalizationExists reports whether the robot has a pending localization run.
func (r *MissionRunRepository) PendingLocalizationExists(ctx context.Context, robotID string) (bool, error) {
	return r.localizationExists(ctx, robotID, coremissionrun.StatusPending)
}

// OngoingOrPausedLocalizationExists reports whether a localization run is executing.
func (r *MissionRunRepository) OngoingOrPausedLocalizationExists(ctx context.Context, robotID string) (bool, error) {
	return r.localizationExists(ctx, robotID, coremissionrun.StatusOngoing, coremissionrun.StatusPaused)
}

// PendingOrOngoingLocalizationExists reports whether a localization run is queued or running.
func (r *MissionRunRepository) PendingOrOngoingLocalizationExists(ctx context.Context, robotID string) (bool, error) {
	return r.localizationExists(ctx, robotID, coremissionrun.StatusPending, coremissionrun.StatusOngoing)
}

func (r *MissionRunRepository) localizationExists(ctx context.Context, robotID string, statuses ...coremissionrun.Status) (bool, error) {
	args := []any{robotID, string(coremissionrun.TypeLocalization)}
	for _, s := range statuses {
		args = append(args, string(s))
	}

	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM mission_runs WHERE robot_id = ? AND run_type = ? AND status IN ("+placeholders(len(statuses))+"))",
		args...,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check localization runs: %w", err)
	}
	return exists, nil
}

// nextRunID returns the next available mission run ID.
// Uses core function for ID format to keep business logic in the functional core.
func nextRunID(ctx context.Context, tx *sql.Tx) (string, error) {
	var maxID int
	err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 5) AS INTEGER)), 0) FROM mission_runs",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next mission run ID: %w", err)
	}
	return coremissionrun.GenerateRunID(maxID), nil
}

func scanMissionRun(s scanner) (*secondary.MissionRunRecord, error) {
	var (
		areaID    sql.NullString
		startedAt sql.NullTime
		endedAt   sql.NullTime
		createdAt sql.NullTime
	)

	record := &secondary.MissionRunRecord{}
	err := s.Scan(&record.ID, &record.RobotID, &areaID, &record.Name, &record.Status, &record.RunType,
		&record.DesiredStartTime, &startedAt, &endedAt, &createdAt)
	if err != nil {
		return nil, err
	}

	record.AreaID = areaID.String
	if startedAt.Valid {
		t := startedAt.Time
		record.StartedAt = &t
	}
	if endedAt.Valid {
		t := endedAt.Time
		record.EndedAt = &t
	}
	record.CreatedAt = createdAt.Time
	return record, nil
}
