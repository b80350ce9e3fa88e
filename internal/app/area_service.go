package app

import (
	"context"
	"fmt"
	"strings"

	corearea "github.com/example/flotilla/internal/core/area"
	"github.com/example/flotilla/internal/ports/primary"
	"github.com/example/flotilla/internal/ports/secondary"
)

// AreaServiceImpl implements the AreaService interface.
type AreaServiceImpl struct {
	areaRepo secondary.AreaRepository
}

// NewAreaService creates a new AreaService.
func NewAreaService(areaRepo secondary.AreaRepository) *AreaServiceImpl {
	return &AreaServiceImpl{areaRepo: areaRepo}
}

// CreateArea adds an area to an installation.
func (s *AreaServiceImpl) CreateArea(ctx context.Context, req primary.CreateAreaRequest) (*primary.Area, error) {
	guardCtx := corearea.CreateContext{
		Name:             req.Name,
		InstallationCode: req.InstallationCode,
		Deck:             req.Deck,
	}
	if result := corearea.CanCreateArea(guardCtx); !result.Allowed {
		return nil, result.Error()
	}

	nextID, err := s.areaRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate area ID: %w", err)
	}

	record := &secondary.AreaRecord{
		ID:               nextID,
		Name:             strings.TrimSpace(req.Name),
		InstallationCode: corearea.NormalizeInstallationCode(req.InstallationCode),
		Deck:             strings.TrimSpace(req.Deck),
	}
	if p := req.DockPosition; p != nil {
		record.DockPosition = &secondary.Position{X: p.X, Y: p.Y, Z: p.Z}
	}
	if err := s.areaRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create area: %w", err)
	}
	return recordToArea(record), nil
}

// GetArea retrieves an area by ID.
func (s *AreaServiceImpl) GetArea(ctx context.Context, areaID string) (*primary.Area, error) {
	record, err := s.areaRepo.GetByID(ctx, areaID)
	if err != nil {
		return nil, err
	}
	return recordToArea(record), nil
}

// ListAreas lists areas ordered by installation code then name.
func (s *AreaServiceImpl) ListAreas(ctx context.Context, filters primary.AreaFilters) ([]*primary.Area, error) {
	records, err := s.areaRepo.List(ctx, secondary.AreaFilters{
		InstallationCode: corearea.NormalizeInstallationCode(filters.InstallationCode),
		Deck:             strings.TrimSpace(filters.Deck),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list areas: %w", err)
	}

	areas := make([]*primary.Area, len(records))
	for i, r := range records {
		areas[i] = recordToArea(r)
	}
	return areas, nil
}

func recordToArea(r *secondary.AreaRecord) *primary.Area {
	area := &primary.Area{
		ID:               r.ID,
		Name:             r.Name,
		InstallationCode: r.InstallationCode,
		Deck:             r.Deck,
	}
	if p := r.DockPosition; p != nil {
		area.DockPosition = &primary.DockPosition{X: p.X, Y: p.Y, Z: p.Z}
	}
	return area
}

var _ primary.AreaService = (*AreaServiceImpl)(nil)
