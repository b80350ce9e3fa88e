// Package cli implements flotilla's cobra command tree.
package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/flotilla/internal/config"
	"github.com/example/flotilla/internal/ctxutil"
	"github.com/example/flotilla/internal/version"
	"github.com/example/flotilla/internal/wire"
)

// RootCmd returns the flotilla command with every subcommand registered.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "flotilla",
		Short:   "Flotilla - mission scheduling for inspection robot fleets",
		Version: version.String(),
		Long: `Flotilla queues inspection missions for a fleet of robots and decides
when each robot starts its next run.

Emergency docking freezes a robot's queue, drives it to the dock of the
area it is in and stops whatever it was doing.`,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "Config file (default: ./flotilla.yaml or ~/.flotilla/flotilla.yaml)")
	flags.String("db", "", "SQLite database path")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.String("log-format", "", "Log format (text, json)")
	flags.String("gate-scope", "", "Scheduling gate scope (robot, fleet)")

	root.AddCommand(InitCmd())
	root.AddCommand(AreaCmd())
	root.AddCommand(RobotCmd())
	root.AddCommand(RunCmd())
	root.AddCommand(DockCmd())
	root.AddCommand(NotificationsCmd())
	root.AddCommand(ServeCmd())

	return root
}

// loadConfig resolves configuration for cmd from its file, the environment
// and the persistent flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path, cmd.Flags())
}

// withContainer boots the engine for one command, runs fn and waits for
// every event fn triggered before shutting down.
func withContainer(cmd *cobra.Command, fn func(ctx context.Context, c *wire.Container) error) (err error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	c, err := wire.Build(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}()
	if err := c.Start(); err != nil {
		return err
	}

	return fn(actorContext(cmd.Context()), c)
}

// actorContext tags ctx with the operator running the command.
func actorContext(ctx context.Context) context.Context {
	actor := os.Getenv("USER")
	if actor == "" {
		actor = "operator"
	}
	return ctxutil.WithActorID(ctx, actor)
}
