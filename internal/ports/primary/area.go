package primary

import "context"

// AreaService defines the primary port for area operations.
type AreaService interface {
	// CreateArea adds an area to an installation.
	CreateArea(ctx context.Context, req CreateAreaRequest) (*Area, error)

	// GetArea retrieves an area by ID.
	GetArea(ctx context.Context, areaID string) (*Area, error)

	// ListAreas lists areas, optionally filtered by installation and deck.
	ListAreas(ctx context.Context, filters AreaFilters) ([]*Area, error)
}

// CreateAreaRequest contains parameters for creating an area.
type CreateAreaRequest struct {
	Name             string
	InstallationCode string
	Deck             string
	DockPosition     *DockPosition
}

// DockPosition is where robots dock inside an area.
type DockPosition struct {
	X, Y, Z float64
}

// Area represents an area at the port boundary.
type Area struct {
	ID               string
	Name             string
	InstallationCode string
	Deck             string
	DockPosition     *DockPosition
}

// AreaFilters contains filter options for listing areas.
type AreaFilters struct {
	InstallationCode string
	Deck             string
}
