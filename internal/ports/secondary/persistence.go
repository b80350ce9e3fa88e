// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"time"
)

// MissionRunRepository defines the secondary port for mission run persistence.
// Missing rows are reported with a NotFound-kind error.
type MissionRunRepository interface {
	// Create persists a new mission run. If run.ID is empty the next free
	// ID is allocated atomically with the insert and written back to run.ID.
	Create(ctx context.Context, run *MissionRunRecord) error

	// GetByID retrieves a mission run by its ID.
	GetByID(ctx context.Context, id string) (*MissionRunRecord, error)

	// List retrieves mission runs matching the given filters.
	List(ctx context.Context, filters MissionRunFilters) ([]*MissionRunRecord, error)

	// GetLastExecutedByRobot retrieves the robot's most recently finished or
	// started run.
	GetLastExecutedByRobot(ctx context.Context, robotID string) (*MissionRunRecord, error)

	// UpdateType changes a run's type.
	UpdateType(ctx context.Context, id, runType string) error

	// MarkStarted moves a pending run to ongoing. It fails with a
	// Conflict-kind error if the run is no longer pending or the robot
	// already has an ongoing or paused run.
	MarkStarted(ctx context.Context, id string, at time.Time) error

	// UpdateStatus moves a run from one status to another, setting the
	// end time for terminal statuses. It fails with a Conflict-kind error
	// if the run is not in fromStatus.
	UpdateStatus(ctx context.Context, id, fromStatus, toStatus string, at time.Time) error

	// PendingLocalizationExists reports whether the robot has a pending localization run.
	PendingLocalizationExists(ctx context.Context, robotID string) (bool, error)

	// OngoingOrPausedLocalizationExists reports whether a localization run is executing.
	OngoingOrPausedLocalizationExists(ctx context.Context, robotID string) (bool, error)

	// PendingOrOngoingLocalizationExists reports whether a localization run is queued or running.
	PendingOrOngoingLocalizationExists(ctx context.Context, robotID string) (bool, error)
}

// MissionRunRecord represents a mission run as stored in persistence.
type MissionRunRecord struct {
	ID               string
	RobotID          string
	AreaID           string // Empty string means null
	Name             string
	Status           string // pending, ongoing, paused, successful, aborted, failed
	RunType          string // normal, localization, return_home, emergency
	DesiredStartTime time.Time
	StartedAt        *time.Time
	EndedAt          *time.Time
	CreatedAt        time.Time
}

// MissionRunFilters contains filter options for querying mission runs.
type MissionRunFilters struct {
	Statuses []string
	RunTypes []string
	RobotID  string
	OrderBy  string // "desired_start_time" (default) or "created_at"
	Limit    int
}

// RobotRepository defines the secondary port for robot persistence.
type RobotRepository interface {
	// Create persists a new robot.
	Create(ctx context.Context, robot *RobotRecord) error

	// GetByID retrieves a robot by its ID.
	GetByID(ctx context.Context, id string) (*RobotRecord, error)

	// GetByName retrieves a robot by its unique name.
	GetByName(ctx context.Context, name string) (*RobotRecord, error)

	// List retrieves all robots ordered by name.
	List(ctx context.Context) ([]*RobotRecord, error)

	// UpdateFlotillaStatus sets the robot's fleet-management status.
	UpdateFlotillaStatus(ctx context.Context, id, status string) error

	// UpdateCurrentArea sets or clears (empty areaID) the robot's localized area.
	UpdateCurrentArea(ctx context.Context, id, areaID string) error

	// SetQueueFrozen freezes or unfreezes automatic dispatch for the robot.
	SetQueueFrozen(ctx context.Context, id string, frozen bool) error

	// GetNextID returns the next available robot ID.
	GetNextID(ctx context.Context) (string, error)
}

// RobotRecord represents a robot as stored in persistence.
type RobotRecord struct {
	ID             string
	Name           string
	CurrentAreaID  string // Empty string means not localized
	FlotillaStatus string // normal, docked, recharging
	QueueFrozen    bool
	CreatedAt      time.Time
}

// AreaRepository defines the secondary port for area persistence.
type AreaRepository interface {
	// Create persists a new area.
	Create(ctx context.Context, area *AreaRecord) error

	// GetByID retrieves an area by its ID.
	GetByID(ctx context.Context, id string) (*AreaRecord, error)

	// List retrieves areas matching the given filters, ordered by
	// installation code then name.
	List(ctx context.Context, filters AreaFilters) ([]*AreaRecord, error)

	// GetNextID returns the next available area ID.
	GetNextID(ctx context.Context) (string, error)
}

// AreaRecord represents an area as stored in persistence.
type AreaRecord struct {
	ID               string
	Name             string
	InstallationCode string
	Deck             string
	DockPosition     *Position // nil when the area has no dock
	CreatedAt        time.Time
}

// Position is a point in installation coordinates.
type Position struct {
	X, Y, Z float64
}

// AreaFilters contains filter options for querying areas.
type AreaFilters struct {
	InstallationCode string
	Deck             string
}

// NotificationRepository defines the secondary port for the dashboard feed.
type NotificationRepository interface {
	// Create persists a notification.
	Create(ctx context.Context, n *NotificationRecord) error

	// List retrieves notifications newest first.
	List(ctx context.Context, filters NotificationFilters) ([]*NotificationRecord, error)
}

// NotificationRecord is one dashboard message about a robot.
type NotificationRecord struct {
	ID        string
	RobotID   string
	RobotName string
	Kind      string // dock_success, dock_failure
	Message   string
	ActorID   string // Empty string means system
	CreatedAt time.Time
}

// NotificationFilters contains filter options for notifications.
type NotificationFilters struct {
	RobotID string
	Limit   int
}
