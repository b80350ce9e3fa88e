package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/example/flotilla/internal/wire"
)

// DockCmd returns the dock command
func DockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dock",
		Short: "Emergency docking",
		Long: `Send robots to their dock or release them back to work.

Sending a robot to dock freezes its mission queue, schedules a drive to the
dock of its current area and stops the run it is executing. Releasing
unfreezes the queue and resumes scheduling.`,
	}

	send := &cobra.Command{
		Use:   "send [robot-id]",
		Short: "Send a robot to its dock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, c *wire.Container) error {
				return c.RobotAdapter(cmd.OutOrStdout()).SendToDock(ctx, args[0])
			})
		},
	}

	release := &cobra.Command{
		Use:   "release [robot-id]",
		Short: "Release a docked robot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, c *wire.Container) error {
				return c.RobotAdapter(cmd.OutOrStdout()).ReleaseFromDock(ctx, args[0])
			})
		},
	}

	cmd.AddCommand(send, release)
	return cmd
}
