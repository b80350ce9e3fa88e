// Package wire provides dependency injection for flotilla.
// It assembles the scheduling engine and its services from configuration.
package wire

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"sync"

	cliadapter "github.com/example/flotilla/internal/adapters/cli"
	"github.com/example/flotilla/internal/adapters/console"
	"github.com/example/flotilla/internal/adapters/controller"
	"github.com/example/flotilla/internal/adapters/sqlite"
	"github.com/example/flotilla/internal/app"
	"github.com/example/flotilla/internal/config"
	"github.com/example/flotilla/internal/db"
	"github.com/example/flotilla/internal/events"
	"github.com/example/flotilla/internal/gate"
	"github.com/example/flotilla/internal/logging"
	"github.com/example/flotilla/internal/ports/primary"
	"github.com/example/flotilla/internal/ports/secondary"
)

// Container holds one process's engine, bus and services.
type Container struct {
	Config    *config.Config
	DB        *sql.DB
	Logger    *slog.Logger
	Bus       *events.Bus
	Engine    *app.SchedulingEngine
	Simulator *controller.Simulator

	MissionRunService   primary.MissionRunService
	RobotService        primary.RobotService
	AreaService         primary.AreaService
	EmergencyService    primary.EmergencyService
	NotificationService primary.NotificationService

	closeOnce sync.Once
}

// Build wires every component. Dock notifications are printed to out and
// logs are written to logOut.
func Build(cfg *config.Config, out, logOut io.Writer) (*Container, error) {
	logger, err := logging.New(logOut, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	scope, err := gate.ParseScope(cfg.Scheduling.GateScope)
	if err != nil {
		return nil, err
	}

	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Repositories (secondary ports)
	runRepo := sqlite.NewMissionRunRepository(database)
	robotRepo := sqlite.NewRobotRepository(database)
	areaRepo := sqlite.NewAreaRepository(database)
	notificationRepo := sqlite.NewNotificationRepository(database)

	bus := events.NewBus(logger.With("component", "bus"))
	oracle := app.NewLocalizationService(robotRepo)
	sim := controller.NewSimulator(logger.With("component", "controller"), cfg.Controller.SimulateStopFailureCode)
	notifier := app.NewNotifierFanout(notificationRepo, logger, console.NewNotifier(out))

	dispatcher := app.NewMissionSchedulingService(
		runRepo, robotRepo, areaRepo, oracle, sim, bus,
		logger.With("component", "dispatcher"), cfg.Scheduling.MaxQueueScan,
	)
	engine := app.NewSchedulingEngine(
		runRepo, robotRepo, areaRepo, oracle, dispatcher, notifier,
		app.EngineGates{
			Classification: gate.New("localization-classification", scope, cfg.Scheduling.GateTimeout),
			MissionStart:   gate.New("mission-start", scope, cfg.Scheduling.GateTimeout),
		},
		logger.With("component", "engine"),
	)

	completer := &simulatedCompleter{inner: dispatcher, runs: runRepo, sim: sim}

	return &Container{
		Config:    cfg,
		DB:        database,
		Logger:    logger,
		Bus:       bus,
		Engine:    engine,
		Simulator: sim,

		MissionRunService:   app.NewMissionRunService(runRepo, robotRepo, areaRepo, completer, bus),
		RobotService:        app.NewRobotService(robotRepo, areaRepo, oracle, bus),
		AreaService:         app.NewAreaService(areaRepo),
		EmergencyService:    app.NewEmergencyService(robotRepo, bus),
		NotificationService: app.NewNotificationService(notificationRepo),
	}, nil
}

// Start subscribes the engine to the bus.
func (c *Container) Start() error {
	return c.Engine.Subscribe(c.Bus)
}

// Close waits for in-flight handlers, detaches the engine and closes the
// database. Safe to call more than once.
func (c *Container) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.Bus.Wait()
		c.Engine.Unsubscribe()
		c.Bus.Close()
		err = c.DB.Close()
	})
	return err
}

// simulatedCompleter lets the simulator forget a run before the robot is
// announced as available again.
type simulatedCompleter struct {
	inner app.RunCompleter
	runs  secondary.MissionRunRepository
	sim   *controller.Simulator
}

func (c *simulatedCompleter) CompleteRun(ctx context.Context, runID, status string) error {
	if run, err := c.runs.GetByID(ctx, runID); err == nil {
		c.sim.Finish(run.RobotID, run.ID)
	}
	return c.inner.CompleteRun(ctx, runID, status)
}

// MissionRunAdapter returns a new MissionRunAdapter writing to out.
// Each call creates a new adapter (adapters are stateless translators).
func (c *Container) MissionRunAdapter(out io.Writer) *cliadapter.MissionRunAdapter {
	return cliadapter.NewMissionRunAdapter(c.MissionRunService, out)
}

// RobotAdapter returns a new RobotAdapter writing to out.
func (c *Container) RobotAdapter(out io.Writer) *cliadapter.RobotAdapter {
	return cliadapter.NewRobotAdapter(c.RobotService, c.EmergencyService, out)
}

// AreaAdapter returns a new AreaAdapter writing to out.
func (c *Container) AreaAdapter(out io.Writer) *cliadapter.AreaAdapter {
	return cliadapter.NewAreaAdapter(c.AreaService, out)
}

// NotificationAdapter returns a new NotificationAdapter writing to out.
func (c *Container) NotificationAdapter(out io.Writer) *cliadapter.NotificationAdapter {
	return cliadapter.NewNotificationAdapter(c.NotificationService, out)
}
