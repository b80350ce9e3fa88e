package app

import (
	"context"
	"fmt"

	corerobot "github.com/example/flotilla/internal/core/robot"
	"github.com/example/flotilla/internal/events"
	"github.com/example/flotilla/internal/ports/primary"
	"github.com/example/flotilla/internal/ports/secondary"
)

// EmergencyServiceImpl publishes emergency dock and undock requests.
// The scheduling engine carries them out asynchronously.
type EmergencyServiceImpl struct {
	robotRepo secondary.RobotRepository
	publisher EventPublisher
}

// NewEmergencyService creates a new EmergencyService.
func NewEmergencyService(robotRepo secondary.RobotRepository, publisher EventPublisher) *EmergencyServiceImpl {
	return &EmergencyServiceImpl{robotRepo: robotRepo, publisher: publisher}
}

// SendRobotToDock requests that the robot stops its work and docks.
func (s *EmergencyServiceImpl) SendRobotToDock(ctx context.Context, robotID string) error {
	if _, err := s.robotRepo.GetByID(ctx, robotID); err != nil {
		return err
	}
	_, err := s.publisher.Publish(ctx, events.SendRobotToDockTriggered{
		RobotID:              robotID,
		TargetFlotillaStatus: string(corerobot.StatusDocked),
	})
	if err != nil {
		return fmt.Errorf("failed to publish send to dock: %w", err)
	}
	return nil
}

// ReleaseRobotFromDock returns a docked robot to normal operation.
func (s *EmergencyServiceImpl) ReleaseRobotFromDock(ctx context.Context, robotID string) error {
	if _, err := s.robotRepo.GetByID(ctx, robotID); err != nil {
		return err
	}
	_, err := s.publisher.Publish(ctx, events.ReleaseRobotFromDockTriggered{
		RobotID:              robotID,
		TargetFlotillaStatus: string(corerobot.StatusNormal),
	})
	if err != nil {
		return fmt.Errorf("failed to publish release from dock: %w", err)
	}
	return nil
}

var _ primary.EmergencyService = (*EmergencyServiceImpl)(nil)
