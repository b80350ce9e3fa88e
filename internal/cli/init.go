package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/flotilla/internal/config"
	"github.com/example/flotilla/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var seed, force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config and initialize the database",
		Long: `Write flotilla.yaml with the effective settings and create the SQLite
database with the required schema.

Examples:
  flotilla init
  flotilla init --seed                  # add a demo installation
  flotilla init --config ~/.flotilla/flotilla.yaml --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			path, _ := cmd.Flags().GetString("config")
			loadPath := ""
			if path != "" && config.Exists(path) {
				loadPath = path
			}
			cfg, err := config.Load(loadPath, cmd.Flags())
			if err != nil {
				return err
			}

			if path == "" {
				path = config.FileName + ".yaml"
			}
			if config.Exists(path) && !force {
				fmt.Fprintf(out, "Config already exists at %s (use --force to overwrite)\n", path)
			} else {
				if err := config.SaveConfig(path, cfg); err != nil {
					return err
				}
				fmt.Fprintf(out, "✓ Config written to %s\n", path)
			}

			database, err := db.Open(cfg.Database.Path)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer database.Close()
			fmt.Fprintf(out, "✓ Database initialized at %s\n", cfg.Database.Path)

			if seed {
				if err := db.SeedFixtures(database); err != nil {
					return fmt.Errorf("failed to seed database: %w", err)
				}
				fmt.Fprintln(out, "✓ Demo installation seeded")
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Next steps:")
			fmt.Fprintln(out, "  flotilla robot list")
			fmt.Fprintln(out, "  flotilla serve")
			return nil
		},
	}

	cmd.Flags().BoolVar(&seed, "seed", false, "Seed a demo installation (areas, robots, queued runs)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")
	return cmd
}
