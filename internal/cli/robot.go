package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/example/flotilla/internal/wire"
)

// RobotCmd returns the robot command
func RobotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "robot",
		Short: "Manage the robot fleet",
	}

	var area string
	register := &cobra.Command{
		Use:   "register [name]",
		Short: "Register a robot",
		Long: `Register a robot with the fleet. A robot registered with --area starts
localized in that area; otherwise it needs a localization run first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, c *wire.Container) error {
				return c.RobotAdapter(cmd.OutOrStdout()).Register(ctx, args[0], area)
			})
		},
	}
	register.Flags().StringVarP(&area, "area", "a", "", "Area the robot is localized in")

	list := &cobra.Command{
		Use:   "list",
		Short: "List robots",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, c *wire.Container) error {
				return c.RobotAdapter(cmd.OutOrStdout()).List(ctx)
			})
		},
	}

	show := &cobra.Command{
		Use:   "show [robot-id]",
		Short: "Show robot details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, c *wire.Container) error {
				return c.RobotAdapter(cmd.OutOrStdout()).Show(ctx, args[0])
			})
		},
	}

	available := &cobra.Command{
		Use:   "available [robot-id]",
		Short: "Announce that a robot can take work",
		Long: `Announce that a robot is available. The scheduler then starts the
robot's next eligible mission run, if any.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, c *wire.Container) error {
				return c.RobotAdapter(cmd.OutOrStdout()).MarkAvailable(ctx, args[0])
			})
		},
	}

	cmd.AddCommand(register, list, show, available)
	return cmd
}
