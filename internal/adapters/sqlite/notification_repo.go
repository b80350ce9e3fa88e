package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/flotilla/internal/ports/secondary"
)

// NotificationRepository implements secondary.NotificationRepository with SQLite.
type NotificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository creates a new SQLite notification repository.
func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create persists a notification, assigning an ID if none is set.
func (r *NotificationRepository) Create(ctx context.Context, n *secondary.NotificationRecord) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO notifications (id, robot_id, robot_name, kind, message, actor_id, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		n.ID, n.RobotID, n.RobotName, n.Kind, n.Message, nullString(n.ActorID), n.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// List retrieves notifications newest first.
func (r *NotificationRepository) List(ctx context.Context, filters secondary.NotificationFilters) ([]*secondary.NotificationRecord, error) {
	query := "SELECT id, robot_id, robot_name, kind, message, actor_id, created_at FROM notifications"
	args := []any{}

	if filters.RobotID != "" {
		query += " WHERE robot_id = ?"
		args = append(args, filters.RobotID)
	}
	query += " ORDER BY created_at DESC, rowid DESC"
	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*secondary.NotificationRecord
	for rows.Next() {
		var (
			actorID   sql.NullString
			createdAt sql.NullTime
		)
		n := &secondary.NotificationRecord{}
		if err := rows.Scan(&n.ID, &n.RobotID, &n.RobotName, &n.Kind, &n.Message, &actorID, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		n.ActorID = actorID.String
		n.CreatedAt = createdAt.Time
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

var (
	_ secondary.MissionRunRepository   = (*MissionRunRepository)(nil)
	_ secondary.RobotRepository        = (*RobotRepository)(nil)
	_ secondary.AreaRepository         = (*AreaRepository)(nil)
	_ secondary.NotificationRepository = (*NotificationRepository)(nil)
)
