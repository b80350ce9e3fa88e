// Package missionrun contains the pure business logic for mission runs.
// This is part of the Functional Core - no I/O, only pure functions.
package missionrun

// Status is the execution status of a mission run.
type Status string

const (
	StatusPending    Status = "pending"
	StatusOngoing    Status = "ongoing"
	StatusPaused     Status = "paused"
	StatusSuccessful Status = "successful"
	StatusAborted    Status = "aborted"
	StatusFailed     Status = "failed"
)

// RunType classifies what a mission run is for.
type RunType string

const (
	TypeNormal       RunType = "normal"
	TypeLocalization RunType = "localization"
	TypeReturnHome   RunType = "return_home"
	TypeEmergency    RunType = "emergency"
)

// ParseStatus validates a persisted or user-supplied status.
func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusPending, StatusOngoing, StatusPaused, StatusSuccessful, StatusAborted, StatusFailed:
		return st, true
	}
	return "", false
}

// ParseRunType validates a persisted or user-supplied run type.
func ParseRunType(s string) (RunType, bool) {
	switch rt := RunType(s); rt {
	case TypeNormal, TypeLocalization, TypeReturnHome, TypeEmergency:
		return rt, true
	}
	return "", false
}

// IsActive reports whether a run occupies its robot (ongoing or paused).
// At most one run per robot may be active.
func (s Status) IsActive() bool {
	return s == StatusOngoing || s == StatusPaused
}

// IsTerminal reports whether the run has finished.
func (s Status) IsTerminal() bool {
	return s == StatusSuccessful || s == StatusAborted || s == StatusFailed
}

// ActiveStatuses returns the statuses that occupy a robot.
func ActiveStatuses() []Status {
	return []Status{StatusOngoing, StatusPaused}
}

// InFlightStatuses returns the statuses of runs queued or running.
func InFlightStatuses() []Status {
	return []Status{StatusPending, StatusOngoing, StatusPaused}
}

// StatusStrings converts statuses for persistence filters.
func StatusStrings(statuses ...Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
