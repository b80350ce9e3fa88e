package app

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	coremissionrun "github.com/example/flotilla/internal/core/missionrun"
	"github.com/example/flotilla/internal/errors"
	"github.com/example/flotilla/internal/events"
	"github.com/example/flotilla/internal/ports/secondary"
)

var testNow = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

// callLog records collaborator calls across mocks so tests can assert order.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(format string, args ...any) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, fmt.Sprintf(format, args...))
}

func (l *callLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.calls))
	copy(out, l.calls)
	return out
}

func (l *callLog) count(call string) int {
	n := 0
	for _, c := range l.snapshot() {
		if c == call {
			n++
		}
	}
	return n
}

// ============================================================================
// Mock Implementations
// ============================================================================

// mockMissionRunRepository implements secondary.MissionRunRepository for testing.
type mockMissionRunRepository struct {
	mu              sync.Mutex
	runs            map[string]*secondary.MissionRunRecord
	log             *callLog
	getErr          error
	listErr         error
	updateTypeErr   error
	updateStatusErr error
	markStartedErr  error
}

func newMockMissionRunRepository(log *callLog) *mockMissionRunRepository {
	return &mockMissionRunRepository{
		runs: make(map[string]*secondary.MissionRunRecord),
		log:  log,
	}
}

func (m *mockMissionRunRepository) add(run *secondary.MissionRunRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if run.Status == "" {
		run.Status = string(coremissionrun.StatusPending)
	}
	if run.RunType == "" {
		run.RunType = string(coremissionrun.TypeNormal)
	}
	if run.DesiredStartTime.IsZero() {
		run.DesiredStartTime = testNow.Add(-time.Minute)
	}
	m.runs[run.ID] = run
}

func (m *mockMissionRunRepository) get(id string) *secondary.MissionRunRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.runs[id]; ok {
		cp := *r
		return &cp
	}
	return nil
}

func (m *mockMissionRunRepository) Create(ctx context.Context, run *secondary.MissionRunRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if run.ID == "" {
		maxID := 0
		for id := range m.runs {
			if n := coremissionrun.ParseRunNumber(id); n > maxID {
				maxID = n
			}
		}
		run.ID = coremissionrun.GenerateRunID(maxID)
	}
	cp := *run
	m.runs[run.ID] = &cp
	return nil
}

func (m *mockMissionRunRepository) GetByID(ctx context.Context, id string) (*secondary.MissionRunRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if r := m.get(id); r != nil {
		return r, nil
	}
	return nil, errors.NotFound("mission run", id)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (m *mockMissionRunRepository) List(ctx context.Context, filters secondary.MissionRunFilters) ([]*secondary.MissionRunRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*secondary.MissionRunRecord
	for _, r := range m.runs {
		if filters.RobotID != "" && r.RobotID != filters.RobotID {
			continue
		}
		if len(filters.Statuses) > 0 && !contains(filters.Statuses, r.Status) {
			continue
		}
		if len(filters.RunTypes) > 0 && !contains(filters.RunTypes, r.RunType) {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DesiredStartTime.Equal(out[j].DesiredStartTime) {
			return out[i].DesiredStartTime.Before(out[j].DesiredStartTime)
		}
		return out[i].ID < out[j].ID
	})
	if filters.Limit > 0 && len(out) > filters.Limit {
		out = out[:filters.Limit]
	}
	return out, nil
}

func (m *mockMissionRunRepository) GetLastExecutedByRobot(ctx context.Context, robotID string) (*secondary.MissionRunRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var last *secondary.MissionRunRecord
	var lastAt time.Time
	for _, r := range m.runs {
		if r.RobotID != robotID || r.StartedAt == nil {
			continue
		}
		at := *r.StartedAt
		if r.EndedAt != nil {
			at = *r.EndedAt
		}
		if last == nil || at.After(lastAt) {
			last, lastAt = r, at
		}
	}
	if last == nil {
		return nil, errors.NotFound("executed mission run for robot", robotID)
	}
	cp := *last
	return &cp, nil
}

func (m *mockMissionRunRepository) UpdateType(ctx context.Context, id, runType string) error {
	if m.updateTypeErr != nil {
		return m.updateTypeErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.runs[id]
	if !ok {
		return errors.NotFound("mission run", id)
	}
	r.RunType = runType
	m.log.add("UpdateType(%s, %s)", id, runType)
	return nil
}

func (m *mockMissionRunRepository) MarkStarted(ctx context.Context, id string, at time.Time) error {
	if m.markStartedErr != nil {
		return m.markStartedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.runs[id]
	if !ok || r.Status != string(coremissionrun.StatusPending) {
		return errors.Conflict("mark mission run "+id+" started", fmt.Errorf("not pending"))
	}
	for _, other := range m.runs {
		if other.RobotID == r.RobotID && coremissionrun.Status(other.Status).IsActive() {
			return errors.Conflict("mark mission run "+id+" started", fmt.Errorf("robot busy"))
		}
	}
	r.Status = string(coremissionrun.StatusOngoing)
	r.StartedAt = &at
	m.log.add("MarkStarted(%s)", id)
	return nil
}

func (m *mockMissionRunRepository) UpdateStatus(ctx context.Context, id, fromStatus, toStatus string, at time.Time) error {
	if m.updateStatusErr != nil {
		return m.updateStatusErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.runs[id]
	if !ok || r.Status != fromStatus {
		return errors.Conflict("update mission run "+id, fmt.Errorf("run is not %s", fromStatus))
	}
	r.Status = toStatus
	if coremissionrun.Status(toStatus).IsTerminal() {
		r.EndedAt = &at
	}
	m.log.add("UpdateRunStatus(%s, %s)", id, toStatus)
	return nil
}

func (m *mockMissionRunRepository) localizationExists(robotID string, statuses ...coremissionrun.Status) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.runs {
		if r.RobotID != robotID || r.RunType != string(coremissionrun.TypeLocalization) {
			continue
		}
		for _, s := range statuses {
			if r.Status == string(s) {
				return true
			}
		}
	}
	return false
}

func (m *mockMissionRunRepository) PendingLocalizationExists(ctx context.Context, robotID string) (bool, error) {
	return m.localizationExists(robotID, coremissionrun.StatusPending), nil
}

func (m *mockMissionRunRepository) OngoingOrPausedLocalizationExists(ctx context.Context, robotID string) (bool, error) {
	return m.localizationExists(robotID, coremissionrun.StatusOngoing, coremissionrun.StatusPaused), nil
}

func (m *mockMissionRunRepository) PendingOrOngoingLocalizationExists(ctx context.Context, robotID string) (bool, error) {
	return m.localizationExists(robotID, coremissionrun.StatusPending, coremissionrun.StatusOngoing), nil
}

// mockRobotRepository implements secondary.RobotRepository for testing.
type mockRobotRepository struct {
	mu              sync.Mutex
	robots          map[string]*secondary.RobotRecord
	log             *callLog
	getErr          error
	updateStatusErr error
}

func newMockRobotRepository(log *callLog) *mockRobotRepository {
	return &mockRobotRepository{
		robots: make(map[string]*secondary.RobotRecord),
		log:    log,
	}
}

func (m *mockRobotRepository) add(robot *secondary.RobotRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if robot.FlotillaStatus == "" {
		robot.FlotillaStatus = "normal"
	}
	m.robots[robot.ID] = robot
}

func (m *mockRobotRepository) get(id string) *secondary.RobotRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.robots[id]; ok {
		cp := *r
		return &cp
	}
	return nil
}

func (m *mockRobotRepository) Create(ctx context.Context, robot *secondary.RobotRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *robot
	m.robots[robot.ID] = &cp
	return nil
}

func (m *mockRobotRepository) GetByID(ctx context.Context, id string) (*secondary.RobotRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if r := m.get(id); r != nil {
		return r, nil
	}
	return nil, errors.NotFound("robot", id)
}

func (m *mockRobotRepository) GetByName(ctx context.Context, name string) (*secondary.RobotRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.robots {
		if r.Name == name {
			cp := *r
			return &cp, nil
		}
	}
	return nil, errors.NotFound("robot", name)
}

func (m *mockRobotRepository) List(ctx context.Context) ([]*secondary.RobotRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*secondary.RobotRecord
	for _, r := range m.robots {
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockRobotRepository) mutate(id string, fn func(r *secondary.RobotRecord)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.robots[id]
	if !ok {
		return errors.NotFound("robot", id)
	}
	fn(r)
	return nil
}

func (m *mockRobotRepository) UpdateFlotillaStatus(ctx context.Context, id, status string) error {
	if m.updateStatusErr != nil {
		m.log.add("UpdateFlotillaStatus(%s, %s) failed", id, status)
		return m.updateStatusErr
	}
	m.log.add("UpdateFlotillaStatus(%s, %s)", id, status)
	return m.mutate(id, func(r *secondary.RobotRecord) { r.FlotillaStatus = status })
}

func (m *mockRobotRepository) UpdateCurrentArea(ctx context.Context, id, areaID string) error {
	return m.mutate(id, func(r *secondary.RobotRecord) { r.CurrentAreaID = areaID })
}

func (m *mockRobotRepository) SetQueueFrozen(ctx context.Context, id string, frozen bool) error {
	return m.mutate(id, func(r *secondary.RobotRecord) { r.QueueFrozen = frozen })
}

func (m *mockRobotRepository) GetNextID(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fmt.Sprintf("ROBOT-%03d", len(m.robots)+1), nil
}

// mockAreaRepository implements secondary.AreaRepository for testing.
type mockAreaRepository struct {
	mu    sync.Mutex
	areas map[string]*secondary.AreaRecord
}

func newMockAreaRepository() *mockAreaRepository {
	return &mockAreaRepository{areas: make(map[string]*secondary.AreaRecord)}
}

func (m *mockAreaRepository) Create(ctx context.Context, area *secondary.AreaRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *area
	m.areas[area.ID] = &cp
	return nil
}

func (m *mockAreaRepository) GetByID(ctx context.Context, id string) (*secondary.AreaRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.areas[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, errors.NotFound("area", id)
}

func (m *mockAreaRepository) List(ctx context.Context, filters secondary.AreaFilters) ([]*secondary.AreaRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*secondary.AreaRecord
	for _, a := range m.areas {
		if filters.InstallationCode != "" && a.InstallationCode != filters.InstallationCode {
			continue
		}
		if filters.Deck != "" && a.Deck != filters.Deck {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockAreaRepository) GetNextID(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fmt.Sprintf("AREA-%03d", len(m.areas)+1), nil
}

// mockNotificationRepository implements secondary.NotificationRepository for testing.
type mockNotificationRepository struct {
	mu        sync.Mutex
	records   []*secondary.NotificationRecord
	createErr error
}

func (m *mockNotificationRepository) Create(ctx context.Context, n *secondary.NotificationRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n.ID = fmt.Sprintf("N-%d", len(m.records)+1)
	m.records = append(m.records, n)
	return nil
}

func (m *mockNotificationRepository) List(ctx context.Context, filters secondary.NotificationFilters) ([]*secondary.NotificationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*secondary.NotificationRecord
	for i := len(m.records) - 1; i >= 0; i-- {
		if filters.RobotID == "" || m.records[i].RobotID == filters.RobotID {
			out = append(out, m.records[i])
		}
	}
	return out, nil
}

// mockOracle implements secondary.LocalizationOracle for testing.
type mockOracle struct {
	mu        sync.Mutex
	localized map[string]bool
	err       error
}

func newMockOracle(localized ...string) *mockOracle {
	o := &mockOracle{localized: make(map[string]bool)}
	for _, id := range localized {
		o.localized[id] = true
	}
	return o
}

func (o *mockOracle) IsLocalized(ctx context.Context, robotID string) (bool, error) {
	if o.err != nil {
		return false, o.err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.localized[robotID], nil
}

// recordingDispatcher implements secondary.MissionDispatcher and records
// every call in order.
type recordingDispatcher struct {
	log         *callLog
	startErr    error
	abortErr    error
	freezeErr   error
	unfreezeErr error
	dockErr     error
	stopErr     error
}

func (d *recordingDispatcher) StartNextIfAvailable(ctx context.Context, robotID string) error {
	d.log.add("StartNextIfAvailable(%s)", robotID)
	return d.startErr
}

func (d *recordingDispatcher) AbortActiveReturnToHome(ctx context.Context, robotID string) error {
	d.log.add("AbortActiveReturnToHome(%s)", robotID)
	return d.abortErr
}

func (d *recordingDispatcher) FreezeQueue(ctx context.Context, robotID string) error {
	d.log.add("FreezeQueue(%s)", robotID)
	return d.freezeErr
}

func (d *recordingDispatcher) UnfreezeQueue(ctx context.Context, robotID string) error {
	d.log.add("UnfreezeQueue(%s)", robotID)
	return d.unfreezeErr
}

func (d *recordingDispatcher) ScheduleDriveToDock(ctx context.Context, robotID, areaID string) error {
	d.log.add("ScheduleDriveToDock(%s, %s)", robotID, areaID)
	return d.dockErr
}

func (d *recordingDispatcher) StopCurrentRun(ctx context.Context, robotID string) error {
	d.log.add("StopCurrentRun(%s)", robotID)
	return d.stopErr
}

// recordingNotifier implements secondary.DockNotifier for testing.
type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	failures  []string
}

func (n *recordingNotifier) ReportDockSuccess(ctx context.Context, robot *secondary.RobotRecord, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, robot.ID+": "+message)
}

func (n *recordingNotifier) ReportDockFailure(ctx context.Context, robot *secondary.RobotRecord, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failures = append(n.failures, robot.ID+": "+message)
}

func (n *recordingNotifier) counts() (int, int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.successes), len(n.failures)
}

// mockController implements secondary.RobotController for testing.
type mockController struct {
	log      *callLog
	startErr error
	stopErr  error
}

func (c *mockController) StartMission(ctx context.Context, robot *secondary.RobotRecord, run *secondary.MissionRunRecord) error {
	c.log.add("StartMission(%s, %s)", robot.ID, run.ID)
	return c.startErr
}

func (c *mockController) StopMission(ctx context.Context, robot *secondary.RobotRecord) error {
	c.log.add("StopMission(%s)", robot.ID)
	return c.stopErr
}

// recordingPublisher implements EventPublisher without dispatching.
type recordingPublisher struct {
	mu       sync.Mutex
	payloads []events.Payload
	err      error
}

func (p *recordingPublisher) Publish(ctx context.Context, payload events.Payload) (events.Event, error) {
	if p.err != nil {
		return events.Event{}, p.err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return events.Event{ID: fmt.Sprintf("EV-%d", len(p.payloads)), Type: payload.EventType(), Payload: payload}, nil
}

func (p *recordingPublisher) published() []events.Payload {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Payload, len(p.payloads))
	copy(out, p.payloads)
	return out
}

// Ensure mocks implement their interfaces.
var (
	_ secondary.MissionRunRepository   = (*mockMissionRunRepository)(nil)
	_ secondary.RobotRepository        = (*mockRobotRepository)(nil)
	_ secondary.AreaRepository         = (*mockAreaRepository)(nil)
	_ secondary.NotificationRepository = (*mockNotificationRepository)(nil)
	_ secondary.LocalizationOracle     = (*mockOracle)(nil)
	_ secondary.MissionDispatcher      = (*recordingDispatcher)(nil)
	_ secondary.DockNotifier           = (*recordingNotifier)(nil)
	_ secondary.RobotController        = (*mockController)(nil)
	_ EventPublisher                   = (*recordingPublisher)(nil)
)
