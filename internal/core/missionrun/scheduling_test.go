package missionrun

import (
	"testing"
	"time"

	corerobot "github.com/example/flotilla/internal/core/robot"
)

func TestClassifyRun(t *testing.T) {
	tests := []struct {
		name           string
		ctx            ClassificationContext
		wantReclassify bool
	}{
		{"localized robot keeps run type", ClassificationContext{RobotLocalized: true}, false},
		{"unlocalized robot without localization run", ClassificationContext{}, true},
		{"pending localization exists", ClassificationContext{PendingLocalizationExists: true}, false},
		{"active localization exists", ClassificationContext{ActiveLocalizationExists: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ClassifyRun(tt.ctx)
			if result.Reclassify != tt.wantReclassify {
				t.Errorf("ClassifyRun() Reclassify = %v, want %v (%s)", result.Reclassify, tt.wantReclassify, result.Reason)
			}
			if result.Reason == "" {
				t.Error("expected a reason")
			}
		})
	}
}

func TestShouldAbortReturnHome(t *testing.T) {
	tests := []struct {
		created RunType
		active  bool
		want    bool
	}{
		{TypeNormal, true, true},
		{TypeLocalization, true, true},
		{TypeReturnHome, true, false},
		{TypeNormal, false, false},
	}
	for _, tt := range tests {
		if got := ShouldAbortReturnHome(tt.created, tt.active); got != tt.want {
			t.Errorf("ShouldAbortReturnHome(%s, %v) = %v, want %v", tt.created, tt.active, got, tt.want)
		}
	}
}

func TestSelectNextRun(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	earlier := now.Add(-time.Hour)
	later := now.Add(time.Hour)

	pending := func(id string, rt RunType, at time.Time) RunSummary {
		return RunSummary{ID: id, Type: rt, Status: StatusPending, DesiredStartTime: at}
	}

	tests := []struct {
		name       string
		in         QueueInput
		wantRunID  string
		wantReason string
	}{
		{
			name:       "busy robot starts nothing",
			in:         QueueInput{RobotStatus: corerobot.StatusNormal, Localized: true, HasActiveRun: true, Pending: []RunSummary{pending("RUN-001", TypeNormal, earlier)}, Now: now},
			wantReason: "robot already has an ongoing or paused mission run",
		},
		{
			name:       "empty queue",
			in:         QueueInput{RobotStatus: corerobot.StatusNormal, Localized: true, Now: now},
			wantReason: "no pending mission runs",
		},
		{
			name:      "earliest normal run first",
			in:        QueueInput{RobotStatus: corerobot.StatusNormal, Localized: true, Pending: []RunSummary{pending("RUN-002", TypeNormal, now), pending("RUN-001", TypeNormal, earlier)}, Now: now},
			wantRunID: "RUN-001",
		},
		{
			name:      "localization before normal",
			in:        QueueInput{RobotStatus: corerobot.StatusNormal, Localized: true, Pending: []RunSummary{pending("RUN-001", TypeNormal, earlier), pending("RUN-002", TypeLocalization, now)}, Now: now},
			wantRunID: "RUN-002",
		},
		{
			name:      "return home last",
			in:        QueueInput{RobotStatus: corerobot.StatusNormal, Localized: true, Pending: []RunSummary{pending("RUN-001", TypeReturnHome, earlier), pending("RUN-002", TypeNormal, now)}, Now: now},
			wantRunID: "RUN-002",
		},
		{
			name:      "emergency before everything",
			in:        QueueInput{RobotStatus: corerobot.StatusNormal, Localized: true, Pending: []RunSummary{pending("RUN-001", TypeLocalization, earlier), pending("RUN-002", TypeEmergency, now)}, Now: now},
			wantRunID: "RUN-002",
		},
		{
			name:       "future runs wait",
			in:         QueueInput{RobotStatus: corerobot.StatusNormal, Localized: true, Pending: []RunSummary{pending("RUN-001", TypeNormal, later)}, Now: now},
			wantReason: "no pending mission run is due",
		},
		{
			name:       "unlocalized robot only takes localization",
			in:         QueueInput{RobotStatus: corerobot.StatusNormal, Localized: false, Pending: []RunSummary{pending("RUN-001", TypeNormal, earlier)}, Now: now},
			wantReason: "robot is not localized",
		},
		{
			name:      "unlocalized robot runs localization",
			in:        QueueInput{RobotStatus: corerobot.StatusNormal, Localized: false, Pending: []RunSummary{pending("RUN-001", TypeNormal, earlier), pending("RUN-002", TypeLocalization, now)}, Now: now},
			wantRunID: "RUN-002",
		},
		{
			name:       "frozen queue blocks regular work",
			in:         QueueInput{RobotStatus: corerobot.StatusNormal, Localized: true, QueueFrozen: true, Pending: []RunSummary{pending("RUN-001", TypeNormal, earlier)}, Now: now},
			wantReason: "mission run queue is frozen",
		},
		{
			name:      "frozen docked robot still drives to dock",
			in:        QueueInput{RobotStatus: corerobot.StatusDocked, Localized: false, QueueFrozen: true, Pending: []RunSummary{pending("RUN-001", TypeNormal, earlier), pending("RUN-002", TypeEmergency, now)}, Now: now},
			wantRunID: "RUN-002",
		},
		{
			name:       "docked robot takes no regular work",
			in:         QueueInput{RobotStatus: corerobot.StatusDocked, Localized: true, Pending: []RunSummary{pending("RUN-001", TypeNormal, earlier)}, Now: now},
			wantReason: "robot is docked",
		},
		{
			name:      "ties broken by ID",
			in:        QueueInput{RobotStatus: corerobot.StatusNormal, Localized: true, Pending: []RunSummary{pending("RUN-003", TypeNormal, earlier), pending("RUN-002", TypeNormal, earlier)}, Now: now},
			wantRunID: "RUN-002",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectNextRun(tt.in)
			if got.RunID != tt.wantRunID {
				t.Errorf("SelectNextRun() RunID = %q, want %q (%s)", got.RunID, tt.wantRunID, got.Reason)
			}
			if tt.wantReason != "" && got.Reason != tt.wantReason {
				t.Errorf("SelectNextRun() Reason = %q, want %q", got.Reason, tt.wantReason)
			}
		})
	}
}
