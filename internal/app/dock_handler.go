package app

import (
	"context"
	"fmt"
	"log/slog"

	coremissionrun "github.com/example/flotilla/internal/core/missionrun"
	corerobot "github.com/example/flotilla/internal/core/robot"
	"github.com/example/flotilla/internal/errors"
	"github.com/example/flotilla/internal/ports/secondary"
)

// HandleSendRobotToDock pre-empts the robot's work and sends it to the dock
// in its area. Each step is a checkpoint: a failure stops the remainder
// unless noted otherwise.
func (e *SchedulingEngine) HandleSendRobotToDock(ctx context.Context, robotID, targetStatus string) {
	log := e.log(ctx).With("robot_id", robotID, "target_status", targetStatus)

	robot, err := e.robotRepo.GetByID(ctx, robotID)
	if err != nil {
		log.Error("could not read robot to dock", "error", err)
		return
	}

	if err := e.dispatcher.FreezeQueue(ctx, robotID); err != nil {
		log.Error("failed to freeze mission run queue", "error", err)
		return
	}

	guard := corerobot.CanSendToDock(corerobot.TransitionContext{
		RobotID:      robot.ID,
		CurrentState: corerobot.FlotillaStatus(robot.FlotillaStatus),
		TargetState:  corerobot.FlotillaStatus(targetStatus),
	})
	if !guard.Allowed {
		log.Info(guard.Reason)
		return
	}

	if err := e.robotRepo.UpdateFlotillaStatus(ctx, robotID, targetStatus); err != nil {
		log.Error("failed to update flotilla status", "error", err)
		return
	}

	areaID, ok := e.resolveDockArea(ctx, log, robot)
	if !ok {
		return
	}

	if err := e.dispatcher.ScheduleDriveToDock(ctx, robotID, areaID); err != nil {
		// The robot is still stopped and frozen below.
		log.Warn("failed to schedule drive to dock", "area_id", areaID, "error", err)
		e.notifier.ReportDockFailure(ctx, robot, fmt.Sprintf("Could not schedule robot %s to drive to the dock in area %s", robot.Name, areaID))
	}

	localizing, err := e.runRepo.PendingOrOngoingLocalizationExists(ctx, robotID)
	if err != nil {
		log.Error("failed to check for localization run", "error", err)
		return
	}
	if localizing {
		log.Info("localization run in progress; not stopping current mission run")
		return
	}

	if err := e.dispatcher.StopCurrentRun(ctx, robotID); err != nil && !isBenignStopFailure(err) {
		log.Warn("failed to stop current mission run", "error", err)
		e.notifier.ReportDockFailure(ctx, robot, fmt.Sprintf("Could not stop the current mission of robot %s before docking", robot.Name))
		return
	}

	e.startNext(ctx, log, robotID, false)
}

// resolveDockArea returns where robot should dock. It returns false when
// there is no usable destination; missing areas are reported to the
// dashboard, an unknown destination is not.
func (e *SchedulingEngine) resolveDockArea(ctx context.Context, log *slog.Logger, robot *secondary.RobotRecord) (string, bool) {
	localized, err := e.oracle.IsLocalized(ctx, robot.ID)
	if err != nil {
		log.Error("failed to check localization", "error", err)
		return "", false
	}

	input := coremissionrun.DockAreaInput{
		Localized:     localized,
		CurrentAreaID: robot.CurrentAreaID,
	}
	if !localized {
		inFlight, err := e.runRepo.List(ctx, secondary.MissionRunFilters{
			RobotID:  robot.ID,
			Statuses: coremissionrun.StatusStrings(coremissionrun.StatusPending, coremissionrun.StatusOngoing),
			RunTypes: []string{string(coremissionrun.TypeLocalization)},
		})
		if err != nil {
			log.Error("failed to look up localization run", "error", err)
			return "", false
		}
		input.InFlight = summarizeAll(inFlight)
	}

	decision := coremissionrun.ResolveDockArea(input)
	switch decision.Source {
	case coremissionrun.DockSourceNone:
		log.Info("robot is not localized and has no localization run; no known dock area")
		return "", false
	case coremissionrun.DockSourceCurrentArea:
		if _, err := e.areaRepo.GetByID(ctx, decision.AreaID); err != nil {
			log.Warn("could not read area to dock in", "area_id", decision.AreaID, "error", err)
			e.notifier.ReportDockFailure(ctx, robot, fmt.Sprintf("Could not find the area of robot %s to dock in", robot.Name))
			return "", false
		}
	}

	log.Debug("resolved dock area", "area_id", decision.AreaID, "source", string(decision.Source))
	return decision.AreaID, true
}

// isBenignStopFailure reports whether a stop failure still lets the robot
// head for the dock: nothing was running, or the robot was already idle.
func isBenignStopFailure(err error) bool {
	if errors.IsNotFound(err) {
		return true
	}
	return errors.IsMission(err) && corerobot.IsIdleConflict(errors.StatusCodeOf(err))
}

// HandleReleaseRobotFromDock returns a docked robot to work.
func (e *SchedulingEngine) HandleReleaseRobotFromDock(ctx context.Context, robotID, targetStatus string) {
	log := e.log(ctx).With("robot_id", robotID, "target_status", targetStatus)

	robot, err := e.robotRepo.GetByID(ctx, robotID)
	if err != nil {
		log.Error("could not read robot to release", "error", err)
		return
	}

	guard := corerobot.CanReleaseFromDock(corerobot.TransitionContext{
		RobotID:      robot.ID,
		CurrentState: corerobot.FlotillaStatus(robot.FlotillaStatus),
		TargetState:  corerobot.FlotillaStatus(targetStatus),
	})
	if !guard.Allowed {
		log.Info(guard.Reason)
		return
	}

	if err := e.dispatcher.UnfreezeQueue(ctx, robotID); err != nil {
		log.Error("failed to unfreeze mission run queue", "error", err)
		return
	}

	if err := e.robotRepo.UpdateFlotillaStatus(ctx, robotID, targetStatus); err != nil {
		log.Error("failed to update flotilla status", "error", err)
		return
	}

	e.startNext(ctx, log, robotID, false)
}
