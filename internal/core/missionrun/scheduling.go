// Package missionrun contains the pure business logic for mission runs.
// This file holds the scheduling decisions the engine and dispatcher make.
package missionrun

import (
	"sort"
	"time"

	corerobot "github.com/example/flotilla/internal/core/robot"
)

// RunSummary is the slice of a mission run that scheduling decisions need.
// All values are pre-fetched by the caller.
type RunSummary struct {
	ID               string
	Type             RunType
	Status           Status
	AreaID           string
	DesiredStartTime time.Time
}

// ClassificationContext is the input to the localization classification.
type ClassificationContext struct {
	MissionRunID              string
	RobotLocalized            bool
	PendingLocalizationExists bool
	ActiveLocalizationExists  bool // ongoing or paused
}

// ClassificationResult says whether a run must become a localization run.
type ClassificationResult struct {
	Reclassify bool
	Reason     string
}

// ClassifyRun decides whether a newly created run must localize the robot
// before any other work.
// Rule: an unlocalized robot gets exactly one localization run; if one is
// already pending or active the new run is left alone.
func ClassifyRun(ctx ClassificationContext) ClassificationResult {
	if ctx.RobotLocalized {
		return ClassificationResult{Reason: "robot is localized"}
	}
	if ctx.PendingLocalizationExists {
		return ClassificationResult{Reason: "a localization run is already pending"}
	}
	if ctx.ActiveLocalizationExists {
		return ClassificationResult{Reason: "a localization run is already in progress"}
	}
	return ClassificationResult{
		Reclassify: true,
		Reason:     "robot is not localized and has no localization run",
	}
}

// ShouldAbortReturnHome reports whether queued work pre-empts the robot's
// return-to-home run.
func ShouldAbortReturnHome(created RunType, activeReturnHomeExists bool) bool {
	return created != TypeReturnHome && activeReturnHomeExists
}

// priority orders run types: emergency, localization, normal, return home.
func priority(t RunType) int {
	switch t {
	case TypeEmergency:
		return 0
	case TypeLocalization:
		return 1
	case TypeNormal:
		return 2
	case TypeReturnHome:
		return 3
	default:
		return 4
	}
}

// QueueInput contains everything needed to pick a robot's next run.
type QueueInput struct {
	RobotStatus  corerobot.FlotillaStatus
	QueueFrozen  bool
	Localized    bool
	HasActiveRun bool
	Pending      []RunSummary
	Now          time.Time
}

// QueueDecision is the outcome of SelectNextRun. RunID is empty when
// nothing can start; Reason says why.
type QueueDecision struct {
	RunID  string
	Reason string
}

// SelectNextRun picks the next pending run for a robot.
//
// Emergency runs may always start. Other runs need an unfrozen queue and a
// robot in normal flotilla status; an unlocalized robot only accepts
// localization runs. Runs whose desired start time lies in the future wait.
func SelectNextRun(in QueueInput) QueueDecision {
	if in.HasActiveRun {
		return QueueDecision{Reason: "robot already has an ongoing or paused mission run"}
	}

	var eligible []RunSummary
	for _, r := range in.Pending {
		if r.Status != StatusPending {
			continue
		}
		if !r.DesiredStartTime.IsZero() && r.DesiredStartTime.After(in.Now) {
			continue
		}
		if r.Type != TypeEmergency {
			if in.QueueFrozen || !corerobot.AcceptsWork(in.RobotStatus) {
				continue
			}
			if !in.Localized && r.Type != TypeLocalization {
				continue
			}
		}
		eligible = append(eligible, r)
	}

	if len(eligible) == 0 {
		switch {
		case len(in.Pending) == 0:
			return QueueDecision{Reason: "no pending mission runs"}
		case in.QueueFrozen:
			return QueueDecision{Reason: "mission run queue is frozen"}
		case !corerobot.AcceptsWork(in.RobotStatus):
			return QueueDecision{Reason: "robot is " + string(in.RobotStatus)}
		case !in.Localized:
			return QueueDecision{Reason: "robot is not localized"}
		default:
			return QueueDecision{Reason: "no pending mission run is due"}
		}
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		a, b := eligible[i], eligible[j]
		if pa, pb := priority(a.Type), priority(b.Type); pa != pb {
			return pa < pb
		}
		if !a.DesiredStartTime.Equal(b.DesiredStartTime) {
			return a.DesiredStartTime.Before(b.DesiredStartTime)
		}
		return a.ID < b.ID
	})

	return QueueDecision{RunID: eligible[0].ID, Reason: "selected " + string(eligible[0].Type) + " run"}
}

// FindLocalizationRun returns the first localization run in runs, which the
// caller orders by desired start time. Returns nil if there is none.
func FindLocalizationRun(runs []RunSummary) *RunSummary {
	for i := range runs {
		if runs[i].Type == TypeLocalization {
			return &runs[i]
		}
	}
	return nil
}
