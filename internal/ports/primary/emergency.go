package primary

import "context"

// EmergencyService defines the primary port for emergency dock actions.
type EmergencyService interface {
	// SendRobotToDock requests that the robot stops its work and docks.
	SendRobotToDock(ctx context.Context, robotID string) error

	// ReleaseRobotFromDock returns a docked robot to normal operation.
	ReleaseRobotFromDock(ctx context.Context, robotID string) error
}
