package app

import (
	"context"
	"fmt"
	"testing"

	"github.com/example/flotilla/internal/ctxutil"
	"github.com/example/flotilla/internal/logging"
	"github.com/example/flotilla/internal/ports/primary"
	"github.com/example/flotilla/internal/ports/secondary"
)

func TestNotifierFanout(t *testing.T) {
	repo := &mockNotificationRepository{}
	sink := &recordingNotifier{}
	fanout := NewNotifierFanout(repo, logging.Discard(), sink)
	robot := &secondary.RobotRecord{ID: "ROBOT-001", Name: "anymal-1"}
	ctx := ctxutil.WithActorID(context.Background(), "operator")

	fanout.ReportDockSuccess(ctx, robot, "docked")
	fanout.ReportDockFailure(ctx, robot, "no dock")

	if successes, failures := sink.counts(); successes != 1 || failures != 1 {
		t.Errorf("expected sink to get 1/1, got %d/%d", successes, failures)
	}
	if len(repo.records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(repo.records))
	}
	if repo.records[0].Kind != "dock_success" || repo.records[1].Kind != "dock_failure" {
		t.Errorf("unexpected kinds %s/%s", repo.records[0].Kind, repo.records[1].Kind)
	}
	if repo.records[0].ActorID != "operator" {
		t.Errorf("expected actor operator, got %q", repo.records[0].ActorID)
	}
}

func TestNotifierFanout_PersistFailureStillDelivers(t *testing.T) {
	repo := &mockNotificationRepository{createErr: fmt.Errorf("disk full")}
	sink := &recordingNotifier{}
	fanout := NewNotifierFanout(repo, logging.Discard(), sink)

	fanout.ReportDockFailure(context.Background(), &secondary.RobotRecord{ID: "ROBOT-001"}, "no dock")

	if _, failures := sink.counts(); failures != 1 {
		t.Errorf("expected sink delivery despite persist failure, got %d", failures)
	}
}

func TestNotificationService_ListNotifications(t *testing.T) {
	repo := &mockNotificationRepository{}
	fanout := NewNotifierFanout(repo, logging.Discard())
	fanout.ReportDockSuccess(context.Background(), &secondary.RobotRecord{ID: "ROBOT-001", Name: "anymal-1"}, "docked")
	fanout.ReportDockFailure(context.Background(), &secondary.RobotRecord{ID: "ROBOT-002", Name: "spot-2"}, "no dock")

	service := NewNotificationService(repo)
	list, err := service.ListNotifications(context.Background(), primary.NotificationFilters{RobotID: "ROBOT-002"})
	if err != nil {
		t.Fatalf("ListNotifications failed: %v", err)
	}
	if len(list) != 1 || list[0].RobotName != "spot-2" || list[0].Kind != "dock_failure" {
		t.Errorf("unexpected notifications %+v", list)
	}
}
