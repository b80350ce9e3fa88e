// Package missionrun contains the pure business logic for mission runs.
// This is part of the Functional Core - no I/O, only pure functions.
package missionrun

import (
	"fmt"
	"time"
)

// StatusTransitionResult captures the new status and the timestamps the
// transition sets.
type StatusTransitionResult struct {
	NewStatus Status
	StartedAt *time.Time // set when the run starts executing
	EndedAt   *time.Time // set when the run reaches a terminal status
}

// allowedTransitions lists, per status, the statuses it may move to.
var allowedTransitions = map[Status][]Status{
	StatusPending: {StatusOngoing, StatusAborted},
	StatusOngoing: {StatusPaused, StatusSuccessful, StatusAborted, StatusFailed},
	StatusPaused:  {StatusOngoing, StatusAborted, StatusFailed},
}

// ApplyStatusTransition validates from -> to and returns the result.
// The caller passes the current time to enable testing.
func ApplyStatusTransition(from, to Status, now time.Time) (StatusTransitionResult, error) {
	allowed := false
	for _, s := range allowedTransitions[from] {
		if s == to {
			allowed = true
			break
		}
	}
	if !allowed {
		return StatusTransitionResult{}, fmt.Errorf("cannot move mission run from %s to %s", from, to)
	}

	result := StatusTransitionResult{NewStatus: to}
	if from == StatusPending && to == StatusOngoing {
		result.StartedAt = &now
	}
	if to.IsTerminal() {
		result.EndedAt = &now
	}
	return result, nil
}

// InitialStatus returns the status of a newly created run.
func InitialStatus() Status {
	return StatusPending
}
