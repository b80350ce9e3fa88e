package primary

import "context"

// NotificationService defines the primary port for reading the dashboard feed.
type NotificationService interface {
	// ListNotifications lists dock notifications, newest first.
	ListNotifications(ctx context.Context, filters NotificationFilters) ([]*Notification, error)
}

// Notification represents a dashboard message at the port boundary.
type Notification struct {
	ID        string
	RobotID   string
	RobotName string
	Kind      string
	Message   string
	CreatedAt string
}

// NotificationFilters contains filter options for listing notifications.
type NotificationFilters struct {
	RobotID string
	Limit   int
}
