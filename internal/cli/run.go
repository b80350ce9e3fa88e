package cli

import (
	"context"

	"github.com/spf13/cobra"

	cliadapter "github.com/example/flotilla/internal/adapters/cli"
	"github.com/example/flotilla/internal/wire"
)

// RunCmd returns the run command
func RunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Manage mission runs",
		Long:  "Queue, inspect and complete mission runs.",
	}
	cmd.AddCommand(runCreateCmd())
	cmd.AddCommand(runListCmd())
	cmd.AddCommand(runShowCmd())
	cmd.AddCommand(runCompleteCmd())
	return cmd
}

func runCreateCmd() *cobra.Command {
	var params cliadapter.CreateParams

	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Queue a mission run",
		Long: `Queue a mission run for a robot. The scheduler classifies the run and
starts it as soon as the robot is free.

Run types: normal (default), localization, return_home, emergency.

Examples:
  flotilla run create "gauge reading round" --robot ROBOT-001 --area AREA-001
  flotilla run create "localize" --robot ROBOT-002 --area AREA-002 --type localization
  flotilla run create "night round" --robot ROBOT-001 --start-at 2026-03-01T22:00:00Z`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params.Name = args[0]
			return withContainer(cmd, func(ctx context.Context, c *wire.Container) error {
				return c.MissionRunAdapter(cmd.OutOrStdout()).Create(ctx, params)
			})
		},
	}

	cmd.Flags().StringVarP(&params.RobotID, "robot", "r", "", "Robot ID (required)")
	cmd.Flags().StringVarP(&params.AreaID, "area", "a", "", "Area ID")
	cmd.Flags().StringVarP(&params.RunType, "type", "t", "", "Run type")
	cmd.Flags().StringVar(&params.StartAt, "start-at", "", "Desired start time (RFC 3339)")
	cmd.MarkFlagRequired("robot")
	return cmd
}

func runListCmd() *cobra.Command {
	var robotID, statuses string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List mission runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, c *wire.Container) error {
				return c.MissionRunAdapter(cmd.OutOrStdout()).List(ctx, robotID, statuses, limit)
			})
		},
	}

	cmd.Flags().StringVarP(&robotID, "robot", "r", "", "Filter by robot")
	cmd.Flags().StringVarP(&statuses, "status", "s", "", "Filter by status (comma separated)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum number of runs")
	return cmd
}

func runShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [run-id]",
		Short: "Show mission run details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, c *wire.Container) error {
				_, err := c.MissionRunAdapter(cmd.OutOrStdout()).Show(ctx, args[0])
				return err
			})
		},
	}
}

func runCompleteCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "complete [run-id]",
		Short: "Record the outcome of an executing run",
		Long: `Record that an executing run ended on the robot. The robot then becomes
available and its next run starts.

Examples:
  flotilla run complete RUN-001
  flotilla run complete RUN-002 --status failed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, c *wire.Container) error {
				return c.MissionRunAdapter(cmd.OutOrStdout()).Complete(ctx, args[0], status)
			})
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "successful", "Outcome (successful, failed)")
	return cmd
}
