package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	coremissionrun "github.com/example/flotilla/internal/core/missionrun"
	"github.com/example/flotilla/internal/ctxutil"
	"github.com/example/flotilla/internal/errors"
	"github.com/example/flotilla/internal/events"
	"github.com/example/flotilla/internal/gate"
	"github.com/example/flotilla/internal/logging"
	"github.com/example/flotilla/internal/ports/secondary"
)

// EngineGates are the two decision gates the scheduling engine holds.
type EngineGates struct {
	// Classification serializes "should this run localize the robot" decisions.
	Classification *gate.Gate
	// MissionStart serializes "start the next run" decisions.
	MissionStart *gate.Gate
}

// SchedulingEngine reacts to fleet events and decides what each robot runs
// next. It owns no persistent state: every handler re-reads the robot and
// its runs, and all changes go through the dispatcher or the repositories.
type SchedulingEngine struct {
	runRepo    secondary.MissionRunRepository
	robotRepo  secondary.RobotRepository
	areaRepo   secondary.AreaRepository
	oracle     secondary.LocalizationOracle
	dispatcher secondary.MissionDispatcher
	notifier   secondary.DockNotifier
	gates      EngineGates
	logger     *slog.Logger

	mu            sync.Mutex
	bus           *events.Bus
	subscriptions []string
}

// NewSchedulingEngine creates a SchedulingEngine with injected dependencies.
func NewSchedulingEngine(
	runRepo secondary.MissionRunRepository,
	robotRepo secondary.RobotRepository,
	areaRepo secondary.AreaRepository,
	oracle secondary.LocalizationOracle,
	dispatcher secondary.MissionDispatcher,
	notifier secondary.DockNotifier,
	gates EngineGates,
	logger *slog.Logger,
) *SchedulingEngine {
	if gates.Classification == nil {
		gates.Classification = gate.New("localization-classification", gate.ScopeRobot, 0)
	}
	if gates.MissionStart == nil {
		gates.MissionStart = gate.New("mission-start", gate.ScopeRobot, 0)
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &SchedulingEngine{
		runRepo:    runRepo,
		robotRepo:  robotRepo,
		areaRepo:   areaRepo,
		oracle:     oracle,
		dispatcher: dispatcher,
		notifier:   notifier,
		gates:      gates,
		logger:     logger,
	}
}

// Subscribe registers the engine's handlers on bus. Calling it twice
// without Unsubscribe is an error.
func (e *SchedulingEngine) Subscribe(bus *events.Bus) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.bus != nil {
		return fmt.Errorf("scheduling engine is already subscribed")
	}

	e.bus = bus
	e.subscriptions = []string{
		bus.Subscribe(events.EventMissionRunCreated, e.onEvent(func(ctx context.Context, p events.Payload) {
			e.HandleMissionRunCreated(ctx, p.(events.MissionRunCreated).MissionRunID)
		})),
		bus.Subscribe(events.EventRobotAvailable, e.onEvent(func(ctx context.Context, p events.Payload) {
			e.HandleRobotAvailable(ctx, p.(events.RobotAvailable).RobotID)
		})),
		bus.Subscribe(events.EventLocalizationMissionSuccessful, e.onEvent(func(ctx context.Context, p events.Payload) {
			e.HandleLocalizationMissionSuccessful(ctx, p.(events.LocalizationMissionSuccessful).RobotID)
		})),
		bus.Subscribe(events.EventSendRobotToDockTriggered, e.onEvent(func(ctx context.Context, p events.Payload) {
			ev := p.(events.SendRobotToDockTriggered)
			e.HandleSendRobotToDock(ctx, ev.RobotID, ev.TargetFlotillaStatus)
		})),
		bus.Subscribe(events.EventReleaseRobotFromDockTriggered, e.onEvent(func(ctx context.Context, p events.Payload) {
			ev := p.(events.ReleaseRobotFromDockTriggered)
			e.HandleReleaseRobotFromDock(ctx, ev.RobotID, ev.TargetFlotillaStatus)
		})),
	}
	return nil
}

// Unsubscribe removes the engine's handlers. Handlers already running are
// not interrupted; use Bus.Wait to drain them.
func (e *SchedulingEngine) Unsubscribe() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.bus == nil {
		return
	}
	for _, id := range e.subscriptions {
		e.bus.Unsubscribe(id)
	}
	e.bus = nil
	e.subscriptions = nil
}

func (e *SchedulingEngine) onEvent(handle func(ctx context.Context, p events.Payload)) events.Handler {
	return func(ctx context.Context, ev events.Event) {
		ctx = ctxutil.WithEventID(ctx, ev.ID)
		e.log(ctx).Info("handling fleet event", "event", ev.Type.String())
		handle(ctx, ev.Payload)
	}
}

func (e *SchedulingEngine) log(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, e.logger)
}

// HandleMissionRunCreated classifies a new run and tries to start work on
// its robot.
func (e *SchedulingEngine) HandleMissionRunCreated(ctx context.Context, missionRunID string) {
	log := e.log(ctx).With("mission_run_id", missionRunID)

	run, err := e.runRepo.GetByID(ctx, missionRunID)
	if err != nil {
		log.Error("could not read created mission run", "error", err)
		return
	}
	log = log.With("robot_id", run.RobotID)

	// Return home preemption follows the type the run was created with, so a
	// return home run reclassified for localization still leaves the active
	// return home run alone.
	createdType := coremissionrun.RunType(run.RunType)
	err = e.gates.Classification.Do(ctx, run.RobotID, func(ctx context.Context) error {
		reclassified, err := e.classifyRun(ctx, run)
		if reclassified {
			log.Info("mission run reclassified as localization")
		}
		return err
	})
	if err != nil {
		log.Error("localization classification failed", "error", err)
		return
	}

	err = e.gates.MissionStart.Do(ctx, run.RobotID, func(ctx context.Context) error {
		if err := e.abortReturnHomeIfPreempted(ctx, run.RobotID, createdType); err != nil {
			return err
		}
		return e.dispatcher.StartNextIfAvailable(ctx, run.RobotID)
	})
	e.logStartResult(log, err, false)
}

// classifyRun turns run into a localization run when its robot is not
// localized and no localization run is queued or executing. Must be called
// with the classification gate held.
func (e *SchedulingEngine) classifyRun(ctx context.Context, run *secondary.MissionRunRecord) (bool, error) {
	localized, err := e.oracle.IsLocalized(ctx, run.RobotID)
	if err != nil {
		return false, fmt.Errorf("failed to check localization: %w", err)
	}

	classCtx := coremissionrun.ClassificationContext{
		MissionRunID:   run.ID,
		RobotLocalized: localized,
	}
	if !localized {
		if classCtx.PendingLocalizationExists, err = e.runRepo.PendingLocalizationExists(ctx, run.RobotID); err != nil {
			return false, err
		}
		if classCtx.ActiveLocalizationExists, err = e.runRepo.OngoingOrPausedLocalizationExists(ctx, run.RobotID); err != nil {
			return false, err
		}
	}

	result := coremissionrun.ClassifyRun(classCtx)
	if !result.Reclassify {
		e.log(ctx).Debug("mission run keeps its type", "mission_run_id", run.ID, "reason", result.Reason)
		return false, nil
	}

	if err := e.runRepo.UpdateType(ctx, run.ID, string(coremissionrun.TypeLocalization)); err != nil {
		return false, fmt.Errorf("failed to reclassify mission run: %w", err)
	}
	return true, nil
}

// abortReturnHomeIfPreempted aborts the robot's return-to-home run when a
// run of another type was queued. Must be called with the mission-start
// gate held.
func (e *SchedulingEngine) abortReturnHomeIfPreempted(ctx context.Context, robotID string, created coremissionrun.RunType) error {
	if created == coremissionrun.TypeReturnHome {
		return nil
	}

	active, err := e.runRepo.List(ctx, secondary.MissionRunFilters{
		RobotID:  robotID,
		RunTypes: []string{string(coremissionrun.TypeReturnHome)},
		Statuses: coremissionrun.StatusStrings(coremissionrun.InFlightStatuses()...),
		Limit:    1,
	})
	if err != nil {
		return fmt.Errorf("failed to look up return home run: %w", err)
	}
	if !coremissionrun.ShouldAbortReturnHome(created, len(active) > 0) {
		return nil
	}

	e.log(ctx).Info("aborting return home run for queued work", "robot_id", robotID, "mission_run_id", active[0].ID)
	if err := e.dispatcher.AbortActiveReturnToHome(ctx, robotID); err != nil && !errors.IsNotFound(err) {
		return fmt.Errorf("failed to abort return home run: %w", err)
	}
	return nil
}

// HandleRobotAvailable tries to start the robot's next run.
func (e *SchedulingEngine) HandleRobotAvailable(ctx context.Context, robotID string) {
	log := e.log(ctx).With("robot_id", robotID)

	if _, err := e.robotRepo.GetByID(ctx, robotID); err != nil {
		log.Error("could not read available robot", "error", err)
		return
	}
	e.startNext(ctx, log, robotID, false)
}

// HandleLocalizationMissionSuccessful reports a finished dock run and tries
// to start the robot's next run.
func (e *SchedulingEngine) HandleLocalizationMissionSuccessful(ctx context.Context, robotID string) {
	log := e.log(ctx).With("robot_id", robotID)

	robot, err := e.robotRepo.GetByID(ctx, robotID)
	if err != nil {
		log.Error("could not read localized robot", "error", err)
		return
	}

	last, err := e.runRepo.GetLastExecutedByRobot(ctx, robotID)
	switch {
	case err == nil:
		if coremissionrun.IsDockSuccess(summarize(last)) {
			e.notifier.ReportDockSuccess(ctx, robot, fmt.Sprintf("Robot %s is docked", robot.Name))
		}
	case errors.IsNotFound(err):
	default:
		log.Warn("could not read last executed mission run", "error", err)
	}

	e.startNext(ctx, log, robotID, true)
}

// startNext asks the dispatcher to start the robot's next run under the
// mission-start gate.
func (e *SchedulingEngine) startNext(ctx context.Context, log *slog.Logger, robotID string, tolerateConflict bool) {
	err := e.gates.MissionStart.Do(ctx, robotID, func(ctx context.Context) error {
		return e.dispatcher.StartNextIfAvailable(ctx, robotID)
	})
	e.logStartResult(log, err, tolerateConflict)
}

func (e *SchedulingEngine) logStartResult(log *slog.Logger, err error, tolerateConflict bool) {
	switch {
	case err == nil:
		log.Debug("start next mission run requested")
	case errors.IsNotFound(err):
		log.Debug("no mission run to start", "reason", err)
	case tolerateConflict && errors.IsConflict(err):
		log.Debug("mission run changed concurrently; skipping start", "reason", err)
	default:
		log.Error("failed to start next mission run", "error", err)
	}
}

func summarize(r *secondary.MissionRunRecord) *coremissionrun.RunSummary {
	if r == nil {
		return nil
	}
	return &coremissionrun.RunSummary{
		ID:               r.ID,
		Type:             coremissionrun.RunType(r.RunType),
		Status:           coremissionrun.Status(r.Status),
		AreaID:           r.AreaID,
		DesiredStartTime: r.DesiredStartTime,
	}
}

func summarizeAll(records []*secondary.MissionRunRecord) []coremissionrun.RunSummary {
	out := make([]coremissionrun.RunSummary, 0, len(records))
	for _, r := range records {
		out = append(out, *summarize(r))
	}
	return out
}
