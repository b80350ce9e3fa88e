// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle argument parsing, output formatting,
// but delegate business logic to services.
package cli

import (
	"github.com/fatih/color"
)

const rule = "────────────────────────────────────────────────────────────────"

// colorStatus renders a mission run or flotilla status.
func colorStatus(status string) string {
	switch status {
	case "pending":
		return color.New(color.FgHiBlack).Sprint(status)
	case "ongoing":
		return color.New(color.FgHiBlue).Sprint(status)
	case "paused":
		return color.New(color.FgYellow).Sprint(status)
	case "successful", "normal":
		return color.New(color.FgHiGreen).Sprint(status)
	case "aborted", "docked":
		return color.New(color.FgHiMagenta).Sprint(status)
	case "failed":
		return color.New(color.FgRed).Sprint(status)
	case "recharging":
		return color.New(color.FgCyan).Sprint(status)
	default:
		return status
	}
}

// colorRunType highlights run types that pre-empt normal work.
func colorRunType(runType string) string {
	switch runType {
	case "emergency":
		return color.New(color.FgRed, color.Bold).Sprint(runType)
	case "localization":
		return color.New(color.FgHiCyan).Sprint(runType)
	default:
		return runType
	}
}

// padded pads s to width before colouring, so escape codes do not break
// column alignment.
func padded(s string, width int, paint func(string) string) string {
	for len(s) < width {
		s += " "
	}
	return paint(s)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
