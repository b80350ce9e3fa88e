package app

import (
	"context"
	"fmt"

	corerobot "github.com/example/flotilla/internal/core/robot"
	"github.com/example/flotilla/internal/errors"
	"github.com/example/flotilla/internal/events"
	"github.com/example/flotilla/internal/ports/primary"
	"github.com/example/flotilla/internal/ports/secondary"
)

// RobotServiceImpl implements the RobotService interface.
type RobotServiceImpl struct {
	robotRepo secondary.RobotRepository
	areaRepo  secondary.AreaRepository
	oracle    secondary.LocalizationOracle
	publisher EventPublisher
}

// NewRobotService creates a new RobotService with injected dependencies.
func NewRobotService(
	robotRepo secondary.RobotRepository,
	areaRepo secondary.AreaRepository,
	oracle secondary.LocalizationOracle,
	publisher EventPublisher,
) *RobotServiceImpl {
	return &RobotServiceImpl{
		robotRepo: robotRepo,
		areaRepo:  areaRepo,
		oracle:    oracle,
		publisher: publisher,
	}
}

// RegisterRobot adds a robot to the fleet.
func (s *RobotServiceImpl) RegisterRobot(ctx context.Context, req primary.RegisterRobotRequest) (*primary.Robot, error) {
	guardCtx := corerobot.RegisterContext{Name: req.Name, AreaID: req.CurrentAreaID}

	if req.Name != "" {
		_, err := s.robotRepo.GetByName(ctx, req.Name)
		switch {
		case err == nil:
			guardCtx.NameInUse = true
		case !errors.IsNotFound(err):
			return nil, fmt.Errorf("failed to check robot name: %w", err)
		}
	}
	if req.CurrentAreaID != "" {
		_, err := s.areaRepo.GetByID(ctx, req.CurrentAreaID)
		switch {
		case err == nil:
			guardCtx.AreaExists = true
		case !errors.IsNotFound(err):
			return nil, fmt.Errorf("failed to check area: %w", err)
		}
	}
	if result := corerobot.CanRegisterRobot(guardCtx); !result.Allowed {
		return nil, result.Error()
	}

	nextID, err := s.robotRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate robot ID: %w", err)
	}

	record := &secondary.RobotRecord{
		ID:             nextID,
		Name:           req.Name,
		CurrentAreaID:  req.CurrentAreaID,
		FlotillaStatus: string(corerobot.InitialStatus()),
	}
	if err := s.robotRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to register robot: %w", err)
	}
	return recordToRobot(record, record.CurrentAreaID != ""), nil
}

// GetRobot retrieves a robot by ID.
func (s *RobotServiceImpl) GetRobot(ctx context.Context, robotID string) (*primary.Robot, error) {
	record, err := s.robotRepo.GetByID(ctx, robotID)
	if err != nil {
		return nil, err
	}
	localized, err := s.oracle.IsLocalized(ctx, robotID)
	if err != nil {
		return nil, fmt.Errorf("failed to check localization: %w", err)
	}
	return recordToRobot(record, localized), nil
}

// ListRobots lists the fleet ordered by name.
func (s *RobotServiceImpl) ListRobots(ctx context.Context) ([]*primary.Robot, error) {
	records, err := s.robotRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list robots: %w", err)
	}

	robots := make([]*primary.Robot, len(records))
	for i, r := range records {
		robots[i] = recordToRobot(r, r.CurrentAreaID != "")
	}
	return robots, nil
}

// MarkAvailable publishes RobotAvailable for an existing robot.
func (s *RobotServiceImpl) MarkAvailable(ctx context.Context, robotID string) error {
	if _, err := s.robotRepo.GetByID(ctx, robotID); err != nil {
		return err
	}
	if _, err := s.publisher.Publish(ctx, events.RobotAvailable{RobotID: robotID}); err != nil {
		return fmt.Errorf("failed to publish robot available: %w", err)
	}
	return nil
}

func recordToRobot(r *secondary.RobotRecord, localized bool) *primary.Robot {
	return &primary.Robot{
		ID:             r.ID,
		Name:           r.Name,
		CurrentAreaID:  r.CurrentAreaID,
		FlotillaStatus: r.FlotillaStatus,
		QueueFrozen:    r.QueueFrozen,
		Localized:      localized,
	}
}

var _ primary.RobotService = (*RobotServiceImpl)(nil)
