package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/flotilla/internal/ports/primary"
)

// AreaAdapter translates CLI operations to AreaService calls.
type AreaAdapter struct {
	service primary.AreaService
	out     io.Writer
}

// NewAreaAdapter creates a new AreaAdapter.
func NewAreaAdapter(service primary.AreaService, out io.Writer) *AreaAdapter {
	return &AreaAdapter{service: service, out: out}
}

// Create adds an area. dock is nil for areas without a dock.
func (a *AreaAdapter) Create(ctx context.Context, name, installationCode, deck string, dock *primary.DockPosition) error {
	area, err := a.service.CreateArea(ctx, primary.CreateAreaRequest{
		Name:             name,
		InstallationCode: installationCode,
		Deck:             deck,
		DockPosition:     dock,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Created area %s: %s (%s/%s)\n", area.ID, area.Name, area.InstallationCode, area.Deck)
	return nil
}

// List lists areas.
func (a *AreaAdapter) List(ctx context.Context, installationCode, deck string) error {
	areas, err := a.service.ListAreas(ctx, primary.AreaFilters{
		InstallationCode: installationCode,
		Deck:             deck,
	})
	if err != nil {
		return fmt.Errorf("failed to list areas: %w", err)
	}

	if len(areas) == 0 {
		fmt.Fprintln(a.out, "No areas found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-10s %-6s %-10s %-22s %s\n", "ID", "INST", "DECK", "DOCK", "NAME")
	fmt.Fprintln(a.out, rule)
	for _, ar := range areas {
		dock := "-"
		if p := ar.DockPosition; p != nil {
			dock = fmt.Sprintf("(%.1f, %.1f, %.1f)", p.X, p.Y, p.Z)
		}
		fmt.Fprintf(a.out, "%-10s %-6s %-10s %-22s %s\n", ar.ID, ar.InstallationCode, ar.Deck, dock, ar.Name)
	}
	fmt.Fprintln(a.out)
	return nil
}
