package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/example/flotilla/internal/ports/primary"
)

// NotificationAdapter renders the dashboard feed.
type NotificationAdapter struct {
	service primary.NotificationService
	out     io.Writer
}

// NewNotificationAdapter creates a new NotificationAdapter.
func NewNotificationAdapter(service primary.NotificationService, out io.Writer) *NotificationAdapter {
	return &NotificationAdapter{service: service, out: out}
}

// List prints notifications newest first.
func (a *NotificationAdapter) List(ctx context.Context, robotID string, limit int) error {
	notifications, err := a.service.ListNotifications(ctx, primary.NotificationFilters{
		RobotID: robotID,
		Limit:   limit,
	})
	if err != nil {
		return fmt.Errorf("failed to list notifications: %w", err)
	}

	if len(notifications) == 0 {
		fmt.Fprintln(a.out, "No notifications")
		return nil
	}

	for _, n := range notifications {
		marker := color.New(color.FgHiGreen).Sprint("✓")
		if n.Kind == "dock_failure" {
			marker = color.New(color.FgRed).Sprint("✗")
		}
		fmt.Fprintf(a.out, "%s %s %s (%s): %s\n", n.CreatedAt, marker, n.RobotName, n.RobotID, n.Message)
	}
	return nil
}
