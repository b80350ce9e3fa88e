package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/example/flotilla/internal/wire"
)

// NotificationsCmd returns the notifications command
func NotificationsCmd() *cobra.Command {
	var robotID string
	var limit int

	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Show dock notifications, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, c *wire.Container) error {
				return c.NotificationAdapter(cmd.OutOrStdout()).List(ctx, robotID, limit)
			})
		},
	}

	cmd.Flags().StringVarP(&robotID, "robot", "r", "", "Filter by robot")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of notifications")
	return cmd
}
