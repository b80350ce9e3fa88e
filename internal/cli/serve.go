package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/flotilla/internal/logging"
	"github.com/example/flotilla/internal/ports/primary"
	"github.com/example/flotilla/internal/wire"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduling engine until interrupted",
		Long: `Run the scheduling engine in the foreground.

On start, and then every --sweep-interval, every robot that can take work is
announced as available so runs queued by other processes get started.

Examples:
  flotilla serve
  flotilla serve --sweep-interval 30s --log-format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			cmd.SetContext(ctx)

			return withContainer(cmd, func(ctx context.Context, c *wire.Container) error {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Scheduling engine running (gate scope: %s)\n", c.Config.Scheduling.GateScope)
				return serve(ctx, c, interval)
			})
		},
	}

	cmd.Flags().DurationVar(&interval, "sweep-interval", time.Minute, "How often to re-announce idle robots (0 disables)")
	return cmd
}

// serve sweeps the fleet until ctx is cancelled.
func serve(ctx context.Context, c *wire.Container, interval time.Duration) error {
	logger := logging.FromContext(ctx, c.Logger)

	sweepFleet(ctx, c.RobotService, logger.Warn)
	if interval <= 0 {
		<-ctx.Done()
		logger.Info("scheduling engine stopping")
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("scheduling engine stopping")
			return nil
		case <-ticker.C:
			sweepFleet(ctx, c.RobotService, logger.Warn)
		}
	}
}

// sweepFleet announces every robot in normal status with an open queue.
func sweepFleet(ctx context.Context, robots primary.RobotService, warn func(msg string, args ...any)) int {
	fleet, err := robots.ListRobots(ctx)
	if err != nil {
		warn("fleet sweep failed", "error", err)
		return 0
	}

	announced := 0
	for _, r := range fleet {
		if r.FlotillaStatus != "normal" || r.QueueFrozen {
			continue
		}
		if err := robots.MarkAvailable(ctx, r.ID); err != nil {
			warn("failed to announce robot", "robot_id", r.ID, "error", err)
			continue
		}
		announced++
	}
	return announced
}
