// Package primary defines the primary ports (driving adapters) for the application.
// These are the interfaces through which the outside world drives the application.
package primary

import (
	"context"
	"time"
)

// MissionRunService defines the primary port for mission run operations.
type MissionRunService interface {
	// CreateMissionRun queues a new run and announces it to the scheduler.
	CreateMissionRun(ctx context.Context, req CreateMissionRunRequest) (*CreateMissionRunResponse, error)

	// GetMissionRun retrieves a mission run by ID.
	GetMissionRun(ctx context.Context, runID string) (*MissionRun, error)

	// ListMissionRuns lists mission runs with optional filters.
	ListMissionRuns(ctx context.Context, filters MissionRunFilters) ([]*MissionRun, error)

	// CompleteMissionRun records the outcome of an executing run.
	CompleteMissionRun(ctx context.Context, req CompleteMissionRunRequest) error
}

// CreateMissionRunRequest contains parameters for creating a mission run.
type CreateMissionRunRequest struct {
	RobotID          string
	AreaID           string
	Name             string
	RunType          string // defaults to normal
	DesiredStartTime time.Time
}

// CreateMissionRunResponse contains the result of creating a mission run.
type CreateMissionRunResponse struct {
	MissionRunID string
	MissionRun   *MissionRun
}

// CompleteMissionRunRequest contains parameters for completing a run.
type CompleteMissionRunRequest struct {
	MissionRunID string
	Status       string // successful or failed
}

// MissionRun represents a mission run at the port boundary.
type MissionRun struct {
	ID               string
	RobotID          string
	AreaID           string
	Name             string
	Status           string
	RunType          string
	DesiredStartTime string
	StartedAt        string
	EndedAt          string
}

// MissionRunFilters contains filter options for listing mission runs.
type MissionRunFilters struct {
	RobotID  string
	Statuses []string
	Limit    int
}
