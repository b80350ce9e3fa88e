package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	coremissionrun "github.com/example/flotilla/internal/core/missionrun"
	corerobot "github.com/example/flotilla/internal/core/robot"
	"github.com/example/flotilla/internal/errors"
	"github.com/example/flotilla/internal/events"
	"github.com/example/flotilla/internal/logging"
	"github.com/example/flotilla/internal/ports/secondary"
)

// EventPublisher publishes fleet events. *events.Bus implements it.
type EventPublisher interface {
	Publish(ctx context.Context, payload events.Payload) (events.Event, error)
}

// DefaultMaxQueueScan bounds how many pending runs are considered per start.
const DefaultMaxQueueScan = 100

// MissionSchedulingServiceImpl is the mission dispatcher: it starts, stops
// and redirects per-robot mission run queues.
type MissionSchedulingServiceImpl struct {
	runRepo      secondary.MissionRunRepository
	robotRepo    secondary.RobotRepository
	areaRepo     secondary.AreaRepository
	oracle       secondary.LocalizationOracle
	controller   secondary.RobotController
	publisher    EventPublisher
	logger       *slog.Logger
	maxQueueScan int
	now          func() time.Time
}

// NewMissionSchedulingService creates a dispatcher with injected dependencies.
func NewMissionSchedulingService(
	runRepo secondary.MissionRunRepository,
	robotRepo secondary.RobotRepository,
	areaRepo secondary.AreaRepository,
	oracle secondary.LocalizationOracle,
	controller secondary.RobotController,
	publisher EventPublisher,
	logger *slog.Logger,
	maxQueueScan int,
) *MissionSchedulingServiceImpl {
	if maxQueueScan <= 0 {
		maxQueueScan = DefaultMaxQueueScan
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &MissionSchedulingServiceImpl{
		runRepo:      runRepo,
		robotRepo:    robotRepo,
		areaRepo:     areaRepo,
		oracle:       oracle,
		controller:   controller,
		publisher:    publisher,
		logger:       logger,
		maxQueueScan: maxQueueScan,
		now:          time.Now,
	}
}

func (s *MissionSchedulingServiceImpl) log(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, s.logger)
}

// StartNextIfAvailable starts the robot's highest-priority due run.
// Returns a NotFound-kind error when nothing is eligible and a
// Conflict-kind error when the run or robot changed concurrently.
func (s *MissionSchedulingServiceImpl) StartNextIfAvailable(ctx context.Context, robotID string) error {
	robot, err := s.robotRepo.GetByID(ctx, robotID)
	if err != nil {
		return err
	}

	active, err := s.runRepo.List(ctx, secondary.MissionRunFilters{
		RobotID:  robotID,
		Statuses: coremissionrun.StatusStrings(coremissionrun.ActiveStatuses()...),
		Limit:    1,
	})
	if err != nil {
		return fmt.Errorf("failed to list active mission runs: %w", err)
	}

	pending, err := s.runRepo.List(ctx, secondary.MissionRunFilters{
		RobotID:  robotID,
		Statuses: []string{string(coremissionrun.StatusPending)},
		Limit:    s.maxQueueScan,
	})
	if err != nil {
		return fmt.Errorf("failed to list pending mission runs: %w", err)
	}

	localized, err := s.oracle.IsLocalized(ctx, robotID)
	if err != nil {
		return fmt.Errorf("failed to check localization: %w", err)
	}

	now := s.now().UTC()
	decision := coremissionrun.SelectNextRun(coremissionrun.QueueInput{
		RobotStatus:  corerobot.FlotillaStatus(robot.FlotillaStatus),
		QueueFrozen:  robot.QueueFrozen,
		Localized:    localized,
		HasActiveRun: len(active) > 0,
		Pending:      summarizeAll(pending),
		Now:          now,
	})
	if decision.RunID == "" {
		return errors.NothingToStart(robotID, decision.Reason)
	}

	var run *secondary.MissionRunRecord
	for _, r := range pending {
		if r.ID == decision.RunID {
			run = r
			break
		}
	}

	if err := s.runRepo.MarkStarted(ctx, run.ID, now); err != nil {
		return err
	}
	run.Status = string(coremissionrun.StatusOngoing)
	run.StartedAt = &now

	log := s.log(ctx).With("robot_id", robotID, "mission_run_id", run.ID, "run_type", run.RunType)
	if err := s.controller.StartMission(ctx, robot, run); err != nil {
		log.Error("robot refused mission run", "error", err)
		if uerr := s.runRepo.UpdateStatus(ctx, run.ID, string(coremissionrun.StatusOngoing), string(coremissionrun.StatusFailed), s.now().UTC()); uerr != nil {
			log.Error("failed to mark mission run failed", "error", uerr)
		}
		return fmt.Errorf("failed to start mission run %s: %w", run.ID, err)
	}

	log.Info("mission run started", "reason", decision.Reason)
	return nil
}

// AbortActiveReturnToHome aborts the robot's queued or executing
// return-to-home runs. Returns a NotFound-kind error if there are none.
func (s *MissionSchedulingServiceImpl) AbortActiveReturnToHome(ctx context.Context, robotID string) error {
	runs, err := s.runRepo.List(ctx, secondary.MissionRunFilters{
		RobotID:  robotID,
		RunTypes: []string{string(coremissionrun.TypeReturnHome)},
		Statuses: coremissionrun.StatusStrings(coremissionrun.InFlightStatuses()...),
	})
	if err != nil {
		return fmt.Errorf("failed to list return home runs: %w", err)
	}
	if len(runs) == 0 {
		return errors.NotFound("return home run for robot", robotID)
	}

	for _, run := range runs {
		if coremissionrun.Status(run.Status).IsActive() {
			if err := s.stopOnRobot(ctx, robotID); err != nil && !isIdleConflict(err) {
				return err
			}
		}
		if err := s.runRepo.UpdateStatus(ctx, run.ID, run.Status, string(coremissionrun.StatusAborted), s.now().UTC()); err != nil {
			return fmt.Errorf("failed to abort return home run %s: %w", run.ID, err)
		}
		s.log(ctx).Info("return home run aborted", "robot_id", robotID, "mission_run_id", run.ID)
	}
	return nil
}

// FreezeQueue stops automatic dispatch of non-emergency runs for the robot.
func (s *MissionSchedulingServiceImpl) FreezeQueue(ctx context.Context, robotID string) error {
	return s.robotRepo.SetQueueFrozen(ctx, robotID, true)
}

// UnfreezeQueue resumes automatic dispatch for the robot.
func (s *MissionSchedulingServiceImpl) UnfreezeQueue(ctx context.Context, robotID string) error {
	return s.robotRepo.SetQueueFrozen(ctx, robotID, false)
}

// ScheduleDriveToDock queues an emergency run to the dock of areaID.
// Failures are Dock-kind errors. An emergency run already queued or
// executing for the robot is reused.
func (s *MissionSchedulingServiceImpl) ScheduleDriveToDock(ctx context.Context, robotID, areaID string) error {
	const op = "schedule drive to dock"

	area, err := s.areaRepo.GetByID(ctx, areaID)
	if err != nil {
		return errors.Dock(op, err)
	}
	if area.DockPosition == nil {
		return errors.Dock(op, fmt.Errorf("area %s has no dock position", area.ID))
	}

	existing, err := s.runRepo.List(ctx, secondary.MissionRunFilters{
		RobotID:  robotID,
		RunTypes: []string{string(coremissionrun.TypeEmergency)},
		Statuses: coremissionrun.StatusStrings(coremissionrun.InFlightStatuses()...),
		Limit:    1,
	})
	if err != nil {
		return errors.Dock(op, err)
	}
	if len(existing) > 0 {
		s.log(ctx).Debug("drive to dock already queued", "robot_id", robotID, "mission_run_id", existing[0].ID)
		return nil
	}

	now := s.now().UTC()
	record := &secondary.MissionRunRecord{
		RobotID:          robotID,
		AreaID:           area.ID,
		Name:             "Drive to dock in " + area.Name,
		Status:           string(coremissionrun.InitialStatus()),
		RunType:          string(coremissionrun.TypeEmergency),
		DesiredStartTime: now,
		CreatedAt:        now,
	}
	if err := s.runRepo.Create(ctx, record); err != nil {
		return errors.Dock(op, err)
	}

	s.log(ctx).Info("drive to dock scheduled", "robot_id", robotID, "area_id", area.ID, "mission_run_id", record.ID)
	return nil
}

// StopCurrentRun stops the robot's executing run and marks it aborted.
// Returns a NotFound-kind error when nothing is executing, and a
// Mission-kind error carrying the controller status code when the robot
// refuses. A robot that reports it is already idle still has its run
// marked aborted.
func (s *MissionSchedulingServiceImpl) StopCurrentRun(ctx context.Context, robotID string) error {
	active, err := s.runRepo.List(ctx, secondary.MissionRunFilters{
		RobotID:  robotID,
		Statuses: coremissionrun.StatusStrings(coremissionrun.ActiveStatuses()...),
		Limit:    1,
	})
	if err != nil {
		return fmt.Errorf("failed to list active mission runs: %w", err)
	}
	if len(active) == 0 {
		return errors.NotFound("executing mission run for robot", robotID)
	}
	run := active[0]

	stopErr := s.stopOnRobot(ctx, robotID)
	if stopErr != nil && !isIdleConflict(stopErr) {
		return stopErr
	}

	if err := s.runRepo.UpdateStatus(ctx, run.ID, run.Status, string(coremissionrun.StatusAborted), s.now().UTC()); err != nil {
		return fmt.Errorf("failed to abort mission run %s: %w", run.ID, err)
	}
	s.log(ctx).Info("mission run stopped", "robot_id", robotID, "mission_run_id", run.ID)
	return stopErr
}

func (s *MissionSchedulingServiceImpl) stopOnRobot(ctx context.Context, robotID string) error {
	robot, err := s.robotRepo.GetByID(ctx, robotID)
	if err != nil {
		return err
	}
	if err := s.controller.StopMission(ctx, robot); err != nil {
		if errors.IsMission(err) {
			return err
		}
		return errors.Mission("stop mission on robot "+robotID, 0, err)
	}
	return nil
}

func isIdleConflict(err error) bool {
	return errors.IsMission(err) && corerobot.IsIdleConflict(errors.StatusCodeOf(err))
}

// CompleteRun records the outcome of an executing run and announces the
// robot's availability. A successful localization or drive-to-dock run
// leaves the robot localized in the run's area.
func (s *MissionSchedulingServiceImpl) CompleteRun(ctx context.Context, runID, status string) error {
	run, err := s.runRepo.GetByID(ctx, runID)
	if err != nil {
		return err
	}

	to, ok := coremissionrun.ParseStatus(status)
	if !ok || !to.IsTerminal() {
		return fmt.Errorf("invalid completion status %q", status)
	}
	now := s.now().UTC()
	if _, err := coremissionrun.ApplyStatusTransition(coremissionrun.Status(run.Status), to, now); err != nil {
		return errors.Conflict("complete mission run "+runID, err)
	}
	if err := s.runRepo.UpdateStatus(ctx, run.ID, run.Status, string(to), now); err != nil {
		return err
	}

	plan := coremissionrun.PlanCompletion(coremissionrun.RunType(run.RunType), to, run.AreaID)
	if plan.Relocalize {
		if err := s.robotRepo.UpdateCurrentArea(ctx, run.RobotID, run.AreaID); err != nil {
			return fmt.Errorf("failed to relocalize robot %s: %w", run.RobotID, err)
		}
	}

	s.log(ctx).Info("mission run completed", "robot_id", run.RobotID, "mission_run_id", run.ID, "status", string(to))

	if plan.LocalizationSucceeded {
		if _, err := s.publisher.Publish(ctx, events.LocalizationMissionSuccessful{RobotID: run.RobotID}); err != nil {
			return fmt.Errorf("failed to publish localization success: %w", err)
		}
	}
	if plan.RobotAvailable {
		if _, err := s.publisher.Publish(ctx, events.RobotAvailable{RobotID: run.RobotID}); err != nil {
			return fmt.Errorf("failed to publish robot availability: %w", err)
		}
	}
	return nil
}

var _ secondary.MissionDispatcher = (*MissionSchedulingServiceImpl)(nil)
