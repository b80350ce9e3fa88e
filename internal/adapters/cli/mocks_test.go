package cli

import (
	"context"

	"github.com/fatih/color"

	"github.com/example/flotilla/internal/ports/primary"
)

func init() {
	color.NoColor = true
}

type mockMissionRunService struct {
	createFn   func(ctx context.Context, req primary.CreateMissionRunRequest) (*primary.CreateMissionRunResponse, error)
	getFn      func(ctx context.Context, runID string) (*primary.MissionRun, error)
	listFn     func(ctx context.Context, filters primary.MissionRunFilters) ([]*primary.MissionRun, error)
	completeFn func(ctx context.Context, req primary.CompleteMissionRunRequest) error

	lastCreateReq   primary.CreateMissionRunRequest
	lastFilters     primary.MissionRunFilters
	lastCompleteReq primary.CompleteMissionRunRequest
}

func (m *mockMissionRunService) CreateMissionRun(ctx context.Context, req primary.CreateMissionRunRequest) (*primary.CreateMissionRunResponse, error) {
	m.lastCreateReq = req
	if m.createFn != nil {
		return m.createFn(ctx, req)
	}
	return &primary.CreateMissionRunResponse{
		MissionRunID: "RUN-001",
		MissionRun:   &primary.MissionRun{ID: "RUN-001", RobotID: req.RobotID, RunType: "normal"},
	}, nil
}

func (m *mockMissionRunService) GetMissionRun(ctx context.Context, runID string) (*primary.MissionRun, error) {
	if m.getFn != nil {
		return m.getFn(ctx, runID)
	}
	return &primary.MissionRun{ID: runID}, nil
}

func (m *mockMissionRunService) ListMissionRuns(ctx context.Context, filters primary.MissionRunFilters) ([]*primary.MissionRun, error) {
	m.lastFilters = filters
	if m.listFn != nil {
		return m.listFn(ctx, filters)
	}
	return nil, nil
}

func (m *mockMissionRunService) CompleteMissionRun(ctx context.Context, req primary.CompleteMissionRunRequest) error {
	m.lastCompleteReq = req
	if m.completeFn != nil {
		return m.completeFn(ctx, req)
	}
	return nil
}

type mockRobotService struct {
	registerFn  func(ctx context.Context, req primary.RegisterRobotRequest) (*primary.Robot, error)
	getFn       func(ctx context.Context, robotID string) (*primary.Robot, error)
	listFn      func(ctx context.Context) ([]*primary.Robot, error)
	availableFn func(ctx context.Context, robotID string) error

	lastRegisterReq primary.RegisterRobotRequest
}

func (m *mockRobotService) RegisterRobot(ctx context.Context, req primary.RegisterRobotRequest) (*primary.Robot, error) {
	m.lastRegisterReq = req
	if m.registerFn != nil {
		return m.registerFn(ctx, req)
	}
	return &primary.Robot{ID: "ROBOT-001", Name: req.Name}, nil
}

func (m *mockRobotService) GetRobot(ctx context.Context, robotID string) (*primary.Robot, error) {
	if m.getFn != nil {
		return m.getFn(ctx, robotID)
	}
	return &primary.Robot{ID: robotID}, nil
}

func (m *mockRobotService) ListRobots(ctx context.Context) ([]*primary.Robot, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockRobotService) MarkAvailable(ctx context.Context, robotID string) error {
	if m.availableFn != nil {
		return m.availableFn(ctx, robotID)
	}
	return nil
}

type mockEmergencyService struct {
	sendFn    func(ctx context.Context, robotID string) error
	releaseFn func(ctx context.Context, robotID string) error
}

func (m *mockEmergencyService) SendRobotToDock(ctx context.Context, robotID string) error {
	if m.sendFn != nil {
		return m.sendFn(ctx, robotID)
	}
	return nil
}

func (m *mockEmergencyService) ReleaseRobotFromDock(ctx context.Context, robotID string) error {
	if m.releaseFn != nil {
		return m.releaseFn(ctx, robotID)
	}
	return nil
}

type mockAreaService struct {
	createFn func(ctx context.Context, req primary.CreateAreaRequest) (*primary.Area, error)
	listFn   func(ctx context.Context, filters primary.AreaFilters) ([]*primary.Area, error)

	lastCreateReq primary.CreateAreaRequest
	lastFilters   primary.AreaFilters
}

func (m *mockAreaService) CreateArea(ctx context.Context, req primary.CreateAreaRequest) (*primary.Area, error) {
	m.lastCreateReq = req
	if m.createFn != nil {
		return m.createFn(ctx, req)
	}
	return &primary.Area{ID: "AREA-001", Name: req.Name, InstallationCode: req.InstallationCode, Deck: req.Deck}, nil
}

func (m *mockAreaService) GetArea(ctx context.Context, areaID string) (*primary.Area, error) {
	return &primary.Area{ID: areaID}, nil
}

func (m *mockAreaService) ListAreas(ctx context.Context, filters primary.AreaFilters) ([]*primary.Area, error) {
	m.lastFilters = filters
	if m.listFn != nil {
		return m.listFn(ctx, filters)
	}
	return nil, nil
}

type mockNotificationService struct {
	listFn func(ctx context.Context, filters primary.NotificationFilters) ([]*primary.Notification, error)
}

func (m *mockNotificationService) ListNotifications(ctx context.Context, filters primary.NotificationFilters) ([]*primary.Notification, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filters)
	}
	return nil, nil
}
