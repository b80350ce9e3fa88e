package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/flotilla/internal/ctxutil"
	"github.com/example/flotilla/internal/logging"
	"github.com/example/flotilla/internal/ports/primary"
	"github.com/example/flotilla/internal/ports/secondary"
)

const (
	notificationDockSuccess = "dock_success"
	notificationDockFailure = "dock_failure"
)

// NotifierFanout records dock outcomes in the dashboard feed and forwards
// them to live sinks. Delivery is best-effort: failures are logged only.
type NotifierFanout struct {
	repo   secondary.NotificationRepository
	sinks  []secondary.DockNotifier
	logger *slog.Logger
}

// NewNotifierFanout creates a fanout notifier.
func NewNotifierFanout(repo secondary.NotificationRepository, logger *slog.Logger, sinks ...secondary.DockNotifier) *NotifierFanout {
	if logger == nil {
		logger = logging.Discard()
	}
	return &NotifierFanout{repo: repo, sinks: sinks, logger: logger}
}

// ReportDockSuccess records and forwards a dock success.
func (n *NotifierFanout) ReportDockSuccess(ctx context.Context, robot *secondary.RobotRecord, message string) {
	n.record(ctx, robot, notificationDockSuccess, message)
	for _, sink := range n.sinks {
		sink.ReportDockSuccess(ctx, robot, message)
	}
}

// ReportDockFailure records and forwards a dock failure.
func (n *NotifierFanout) ReportDockFailure(ctx context.Context, robot *secondary.RobotRecord, message string) {
	n.record(ctx, robot, notificationDockFailure, message)
	for _, sink := range n.sinks {
		sink.ReportDockFailure(ctx, robot, message)
	}
}

func (n *NotifierFanout) record(ctx context.Context, robot *secondary.RobotRecord, kind, message string) {
	if n.repo == nil {
		return
	}
	err := n.repo.Create(ctx, &secondary.NotificationRecord{
		RobotID:   robot.ID,
		RobotName: robot.Name,
		Kind:      kind,
		Message:   message,
		ActorID:   ctxutil.ActorFromContext(ctx),
	})
	if err != nil {
		logging.FromContext(ctx, n.logger).Warn("failed to record dock notification",
			"robot_id", robot.ID, "kind", kind, "error", err)
	}
}

var _ secondary.DockNotifier = (*NotifierFanout)(nil)

// NotificationServiceImpl implements the NotificationService interface.
type NotificationServiceImpl struct {
	repo secondary.NotificationRepository
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(repo secondary.NotificationRepository) *NotificationServiceImpl {
	return &NotificationServiceImpl{repo: repo}
}

// ListNotifications lists dock notifications, newest first.
func (s *NotificationServiceImpl) ListNotifications(ctx context.Context, filters primary.NotificationFilters) ([]*primary.Notification, error) {
	records, err := s.repo.List(ctx, secondary.NotificationFilters{
		RobotID: filters.RobotID,
		Limit:   filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	notifications := make([]*primary.Notification, len(records))
	for i, r := range records {
		notifications[i] = &primary.Notification{
			ID:        r.ID,
			RobotID:   r.RobotID,
			RobotName: r.RobotName,
			Kind:      r.Kind,
			Message:   r.Message,
			CreatedAt: formatTime(r.CreatedAt),
		}
	}
	return notifications, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

var _ primary.NotificationService = (*NotificationServiceImpl)(nil)
