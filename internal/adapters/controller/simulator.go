// Package controller provides robot controllers. Simulator stands in for
// the robot's on-board mission executor so the engine can run without
// hardware.
package controller

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/example/flotilla/internal/errors"
	"github.com/example/flotilla/internal/logging"
	"github.com/example/flotilla/internal/ports/secondary"
)

// Simulator accepts every start and tracks which run each robot executes.
type Simulator struct {
	mu      sync.Mutex
	running map[string]string // robot ID -> mission run ID
	logger  *slog.Logger

	// StopFailureCode, when non-zero, makes every stop request fail with
	// that status code.
	StopFailureCode int
}

// NewSimulator creates a Simulator.
func NewSimulator(logger *slog.Logger, stopFailureCode int) *Simulator {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Simulator{
		running:         make(map[string]string),
		logger:          logger,
		StopFailureCode: stopFailureCode,
	}
}

// StartMission records run as executing on robot.
func (s *Simulator) StartMission(ctx context.Context, robot *secondary.RobotRecord, run *secondary.MissionRunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.running[robot.ID]; ok && current != run.ID {
		return errors.Mission("start mission", http.StatusConflict,
			fmt.Errorf("robot %s is already executing %s", robot.ID, current))
	}
	s.running[robot.ID] = run.ID
	logging.FromContext(ctx, s.logger).Debug("simulated robot started mission run",
		"robot_id", robot.ID, "mission_run_id", run.ID)
	return nil
}

// StopMission stops whatever robot is executing. A robot with nothing to
// stop answers with 409 Conflict.
func (s *Simulator) StopMission(ctx context.Context, robot *secondary.RobotRecord) error {
	if s.StopFailureCode != 0 {
		return errors.Mission("stop mission", s.StopFailureCode,
			fmt.Errorf("simulated stop failure on robot %s", robot.ID))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.running[robot.ID]
	if !ok {
		return errors.Mission("stop mission", http.StatusConflict,
			fmt.Errorf("robot %s is idle", robot.ID))
	}
	delete(s.running, robot.ID)
	logging.FromContext(ctx, s.logger).Debug("simulated robot stopped mission run",
		"robot_id", robot.ID, "mission_run_id", current)
	return nil
}

// Finish clears runID from the robot, as the robot does when a run ends on
// its own. A robot already executing another run is left alone.
func (s *Simulator) Finish(robotID, runID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running[robotID] == runID {
		delete(s.running, robotID)
	}
}

// Running returns the run the robot is executing, or "".
func (s *Simulator) Running(robotID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running[robotID]
}

var _ secondary.RobotController = (*Simulator)(nil)
