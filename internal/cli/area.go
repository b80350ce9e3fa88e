package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/flotilla/internal/ports/primary"
	"github.com/example/flotilla/internal/wire"
)

// AreaCmd returns the area command
func AreaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "area",
		Short: "Manage installation areas",
	}
	cmd.AddCommand(areaCreateCmd())
	cmd.AddCommand(areaListCmd())
	return cmd
}

func areaCreateCmd() *cobra.Command {
	var installation, deck string
	var dock []float64

	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create an area",
		Long: `Create an area on an installation deck.

Examples:
  flotilla area create "weather deck" --installation HUA --deck main --dock 12.5,3,0
  flotilla area create "process module" --installation HUA --deck lower`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			position, err := parseDock(dock)
			if err != nil {
				return err
			}
			return withContainer(cmd, func(ctx context.Context, c *wire.Container) error {
				return c.AreaAdapter(cmd.OutOrStdout()).Create(ctx, args[0], installation, deck, position)
			})
		},
	}

	cmd.Flags().StringVarP(&installation, "installation", "i", "", "Installation code (required)")
	cmd.Flags().StringVarP(&deck, "deck", "d", "", "Deck name (required)")
	cmd.Flags().Float64SliceVar(&dock, "dock", nil, "Dock position as x,y,z")
	cmd.MarkFlagRequired("installation")
	cmd.MarkFlagRequired("deck")
	return cmd
}

func areaListCmd() *cobra.Command {
	var installation, deck string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List areas",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, c *wire.Container) error {
				return c.AreaAdapter(cmd.OutOrStdout()).List(ctx, installation, deck)
			})
		},
	}

	cmd.Flags().StringVarP(&installation, "installation", "i", "", "Filter by installation code")
	cmd.Flags().StringVarP(&deck, "deck", "d", "", "Filter by deck")
	return cmd
}

func parseDock(values []float64) (*primary.DockPosition, error) {
	switch len(values) {
	case 0:
		return nil, nil
	case 3:
		return &primary.DockPosition{X: values[0], Y: values[1], Z: values[2]}, nil
	default:
		return nil, fmt.Errorf("--dock needs exactly three coordinates x,y,z, got %d", len(values))
	}
}
