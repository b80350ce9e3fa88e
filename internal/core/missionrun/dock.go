// Package missionrun contains the pure business logic for mission runs.
// This file holds the dock destination rules for emergency docking.
package missionrun

// DockSource says where a dock destination came from.
type DockSource string

const (
	DockSourceNone            DockSource = ""
	DockSourceCurrentArea     DockSource = "current_area"
	DockSourceLocalizationRun DockSource = "localization_run"
)

// DockAreaInput contains the pre-fetched facts for choosing a dock area.
type DockAreaInput struct {
	Localized     bool
	CurrentAreaID string
	// InFlight holds the robot's pending and ongoing runs ordered by
	// desired start time. Only consulted when the robot is not localized.
	InFlight []RunSummary
}

// DockAreaDecision is the area the robot should dock in.
type DockAreaDecision struct {
	AreaID string
	Source DockSource
}

// ResolveDockArea picks the dock destination.
// A localized robot docks in its current area. An unlocalized robot docks
// where its localization run was heading; without one there is no known
// destination and AreaID is empty.
func ResolveDockArea(in DockAreaInput) DockAreaDecision {
	if in.Localized {
		return DockAreaDecision{AreaID: in.CurrentAreaID, Source: DockSourceCurrentArea}
	}
	if run := FindLocalizationRun(in.InFlight); run != nil && run.AreaID != "" {
		return DockAreaDecision{AreaID: run.AreaID, Source: DockSourceLocalizationRun}
	}
	return DockAreaDecision{Source: DockSourceNone}
}

// CompletionEvents says which follow-up events a finished run triggers.
type CompletionEvents struct {
	Relocalize            bool // robot's current area becomes the run's area
	LocalizationSucceeded bool
	RobotAvailable        bool
}

// PlanCompletion derives the follow-ups of a run reaching status.
// Successful localization and emergency (drive-to-dock) runs leave the
// robot localized in the run's area.
func PlanCompletion(runType RunType, status Status, areaID string) CompletionEvents {
	out := CompletionEvents{RobotAvailable: status.IsTerminal()}
	if status == StatusSuccessful && (runType == TypeLocalization || runType == TypeEmergency) {
		out.LocalizationSucceeded = true
		out.Relocalize = areaID != ""
	}
	return out
}

// IsDockSuccess reports whether the last executed run was a completed
// drive-to-dock run.
func IsDockSuccess(last *RunSummary) bool {
	return last != nil && last.Type == TypeEmergency && last.Status == StatusSuccessful
}
