package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/flotilla/internal/ports/primary"
)

// RobotAdapter translates CLI operations to RobotService and
// EmergencyService calls.
type RobotAdapter struct {
	robots    primary.RobotService
	emergency primary.EmergencyService
	out       io.Writer
}

// NewRobotAdapter creates a new RobotAdapter.
func NewRobotAdapter(robots primary.RobotService, emergency primary.EmergencyService, out io.Writer) *RobotAdapter {
	return &RobotAdapter{robots: robots, emergency: emergency, out: out}
}

// Register adds a robot to the fleet.
func (a *RobotAdapter) Register(ctx context.Context, name, areaID string) error {
	robot, err := a.robots.RegisterRobot(ctx, primary.RegisterRobotRequest{
		Name:          name,
		CurrentAreaID: areaID,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Registered robot %s: %s\n", robot.ID, robot.Name)
	return nil
}

// List lists the fleet.
func (a *RobotAdapter) List(ctx context.Context) error {
	robots, err := a.robots.ListRobots(ctx)
	if err != nil {
		return fmt.Errorf("failed to list robots: %w", err)
	}

	if len(robots) == 0 {
		fmt.Fprintln(a.out, "No robots found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-11s %-16s %-11s %-10s %s\n", "ID", "NAME", "STATUS", "AREA", "QUEUE")
	fmt.Fprintln(a.out, rule)
	for _, r := range robots {
		fmt.Fprintf(a.out, "%-11s %-16s %s %-10s %s\n",
			r.ID, r.Name, padded(r.FlotillaStatus, 11, colorStatus), orDash(r.CurrentAreaID), queueState(r.QueueFrozen))
	}
	fmt.Fprintln(a.out)
	return nil
}

// Show displays a single robot.
func (a *RobotAdapter) Show(ctx context.Context, robotID string) error {
	robot, err := a.robots.GetRobot(ctx, robotID)
	if err != nil {
		return fmt.Errorf("failed to get robot: %w", err)
	}

	fmt.Fprintf(a.out, "\nRobot:     %s\n", robot.ID)
	fmt.Fprintf(a.out, "Name:      %s\n", robot.Name)
	fmt.Fprintf(a.out, "Status:    %s\n", colorStatus(robot.FlotillaStatus))
	fmt.Fprintf(a.out, "Area:      %s\n", orDash(robot.CurrentAreaID))
	fmt.Fprintf(a.out, "Localized: %t\n", robot.Localized)
	fmt.Fprintf(a.out, "Queue:     %s\n", queueState(robot.QueueFrozen))
	fmt.Fprintln(a.out)
	return nil
}

// MarkAvailable announces that the robot can take work.
func (a *RobotAdapter) MarkAvailable(ctx context.Context, robotID string) error {
	if err := a.robots.MarkAvailable(ctx, robotID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Robot %s marked available\n", robotID)
	return nil
}

// SendToDock requests an emergency dock.
func (a *RobotAdapter) SendToDock(ctx context.Context, robotID string) error {
	if err := a.emergency.SendRobotToDock(ctx, robotID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Robot %s sent to dock\n", robotID)
	return nil
}

// ReleaseFromDock returns a docked robot to work.
func (a *RobotAdapter) ReleaseFromDock(ctx context.Context, robotID string) error {
	if err := a.emergency.ReleaseRobotFromDock(ctx, robotID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Robot %s released from dock\n", robotID)
	return nil
}

func queueState(frozen bool) string {
	if frozen {
		return "frozen"
	}
	return "open"
}
