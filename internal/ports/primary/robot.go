package primary

import "context"

// RobotService defines the primary port for robot operations.
type RobotService interface {
	// RegisterRobot adds a robot to the fleet.
	RegisterRobot(ctx context.Context, req RegisterRobotRequest) (*Robot, error)

	// GetRobot retrieves a robot by ID.
	GetRobot(ctx context.Context, robotID string) (*Robot, error)

	// ListRobots lists the fleet.
	ListRobots(ctx context.Context) ([]*Robot, error)

	// MarkAvailable announces that the robot can take new work.
	MarkAvailable(ctx context.Context, robotID string) error
}

// RegisterRobotRequest contains parameters for registering a robot.
type RegisterRobotRequest struct {
	Name          string
	CurrentAreaID string // optional: robot starts localized in this area
}

// Robot represents a robot at the port boundary.
type Robot struct {
	ID             string
	Name           string
	CurrentAreaID  string
	FlotillaStatus string
	QueueFrozen    bool
	Localized      bool
}
