package app

import (
	"context"
	"fmt"
	"time"

	coremissionrun "github.com/example/flotilla/internal/core/missionrun"
	"github.com/example/flotilla/internal/events"
	"github.com/example/flotilla/internal/ports/primary"
	"github.com/example/flotilla/internal/ports/secondary"
)

// RunCompleter records the outcome of an executing run.
type RunCompleter interface {
	CompleteRun(ctx context.Context, runID, status string) error
}

// MissionRunServiceImpl implements the MissionRunService interface.
type MissionRunServiceImpl struct {
	runRepo   secondary.MissionRunRepository
	robotRepo secondary.RobotRepository
	areaRepo  secondary.AreaRepository
	completer RunCompleter
	publisher EventPublisher
	now       func() time.Time
}

// NewMissionRunService creates a new MissionRunService with injected dependencies.
func NewMissionRunService(
	runRepo secondary.MissionRunRepository,
	robotRepo secondary.RobotRepository,
	areaRepo secondary.AreaRepository,
	completer RunCompleter,
	publisher EventPublisher,
) *MissionRunServiceImpl {
	return &MissionRunServiceImpl{
		runRepo:   runRepo,
		robotRepo: robotRepo,
		areaRepo:  areaRepo,
		completer: completer,
		publisher: publisher,
		now:       time.Now,
	}
}

// CreateMissionRun queues a pending run and publishes MissionRunCreated.
func (s *MissionRunServiceImpl) CreateMissionRun(ctx context.Context, req primary.CreateMissionRunRequest) (*primary.CreateMissionRunResponse, error) {
	// 1. Validate references
	if _, err := s.robotRepo.GetByID(ctx, req.RobotID); err != nil {
		return nil, err
	}
	if req.AreaID != "" {
		if _, err := s.areaRepo.GetByID(ctx, req.AreaID); err != nil {
			return nil, err
		}
	}

	runType := coremissionrun.TypeNormal
	if req.RunType != "" {
		rt, ok := coremissionrun.ParseRunType(req.RunType)
		if !ok {
			return nil, fmt.Errorf("unknown mission run type %q", req.RunType)
		}
		runType = rt
	}

	now := s.now().UTC()
	desired := req.DesiredStartTime
	if desired.IsZero() {
		desired = now
	}

	// 2. Persist with initial status from core; the repository allocates the ID
	record := &secondary.MissionRunRecord{
		RobotID:          req.RobotID,
		AreaID:           req.AreaID,
		Name:             req.Name,
		Status:           string(coremissionrun.InitialStatus()),
		RunType:          string(runType),
		DesiredStartTime: desired.UTC(),
		CreatedAt:        now,
	}
	if record.Name == "" {
		record.Name = string(runType) + " run"
	}
	if err := s.runRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create mission run: %w", err)
	}

	// 3. Announce to the scheduler
	if _, err := s.publisher.Publish(ctx, events.MissionRunCreated{MissionRunID: record.ID}); err != nil {
		return nil, fmt.Errorf("failed to publish mission run created: %w", err)
	}

	return &primary.CreateMissionRunResponse{
		MissionRunID: record.ID,
		MissionRun:   recordToMissionRun(record),
	}, nil
}

// GetMissionRun retrieves a mission run by ID.
func (s *MissionRunServiceImpl) GetMissionRun(ctx context.Context, runID string) (*primary.MissionRun, error) {
	record, err := s.runRepo.GetByID(ctx, runID)
	if err != nil {
		return nil, err
	}
	return recordToMissionRun(record), nil
}

// ListMissionRuns lists mission runs, most recently created first.
func (s *MissionRunServiceImpl) ListMissionRuns(ctx context.Context, filters primary.MissionRunFilters) ([]*primary.MissionRun, error) {
	for _, st := range filters.Statuses {
		if _, ok := coremissionrun.ParseStatus(st); !ok {
			return nil, fmt.Errorf("unknown mission run status %q", st)
		}
	}

	records, err := s.runRepo.List(ctx, secondary.MissionRunFilters{
		RobotID:  filters.RobotID,
		Statuses: filters.Statuses,
		OrderBy:  "created_at",
		Limit:    filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list mission runs: %w", err)
	}

	runs := make([]*primary.MissionRun, len(records))
	for i, r := range records {
		runs[i] = recordToMissionRun(r)
	}
	return runs, nil
}

// CompleteMissionRun records the outcome of an executing run.
func (s *MissionRunServiceImpl) CompleteMissionRun(ctx context.Context, req primary.CompleteMissionRunRequest) error {
	return s.completer.CompleteRun(ctx, req.MissionRunID, req.Status)
}

func recordToMissionRun(r *secondary.MissionRunRecord) *primary.MissionRun {
	return &primary.MissionRun{
		ID:               r.ID,
		RobotID:          r.RobotID,
		AreaID:           r.AreaID,
		Name:             r.Name,
		Status:           r.Status,
		RunType:          r.RunType,
		DesiredStartTime: formatTime(r.DesiredStartTime),
		StartedAt:        formatTimePtr(r.StartedAt),
		EndedAt:          formatTimePtr(r.EndedAt),
	}
}

var _ primary.MissionRunService = (*MissionRunServiceImpl)(nil)
