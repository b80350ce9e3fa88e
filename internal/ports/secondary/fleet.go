package secondary

import "context"

// LocalizationOracle answers whether a robot knows where it is.
type LocalizationOracle interface {
	IsLocalized(ctx context.Context, robotID string) (bool, error)
}

// DockNotifier reports emergency dock outcomes to the live dashboard.
// Delivery is best-effort; implementations never return errors.
type DockNotifier interface {
	ReportDockSuccess(ctx context.Context, robot *RobotRecord, message string)
	ReportDockFailure(ctx context.Context, robot *RobotRecord, message string)
}

// MissionDispatcher starts, stops and redirects per-robot mission queues.
//
// Errors are classified (see internal/errors):
//   - StartNextIfAvailable: NotFound when nothing is eligible, Conflict on a stale write
//   - ScheduleDriveToDock: Dock
//   - StopCurrentRun: NotFound when idle, Mission with the controller status code
type MissionDispatcher interface {
	StartNextIfAvailable(ctx context.Context, robotID string) error
	AbortActiveReturnToHome(ctx context.Context, robotID string) error
	FreezeQueue(ctx context.Context, robotID string) error
	UnfreezeQueue(ctx context.Context, robotID string) error
	ScheduleDriveToDock(ctx context.Context, robotID, areaID string) error
	StopCurrentRun(ctx context.Context, robotID string) error
}

// RobotController sends mission commands to a robot.
// Refusals are reported with a Mission-kind error carrying a status code.
type RobotController interface {
	StartMission(ctx context.Context, robot *RobotRecord, run *MissionRunRecord) error
	StopMission(ctx context.Context, robot *RobotRecord) error
}
