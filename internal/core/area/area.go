// Package area contains the pure business logic for installation areas.
// This is part of the Functional Core - no I/O, only pure functions.
package area

import (
	"fmt"
	"strings"
)

// GenerateAreaID generates an area ID from the current max number.
// The format is AREA-XXX where XXX is a zero-padded 3-digit number.
func GenerateAreaID(currentMax int) string {
	return fmt.Sprintf("AREA-%03d", currentMax+1)
}

// NormalizeInstallationCode returns the canonical (upper-case, trimmed)
// form of an installation code. Codes are compared case-insensitively.
func NormalizeInstallationCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error returns the guard result as an error if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// CreateContext provides context for area creation.
type CreateContext struct {
	Name             string
	InstallationCode string
	Deck             string
}

// CanCreateArea evaluates whether an area can be created.
// Rule: name, installation code and deck are all required.
func CanCreateArea(ctx CreateContext) GuardResult {
	var missing []string
	if strings.TrimSpace(ctx.Name) == "" {
		missing = append(missing, "name")
	}
	if NormalizeInstallationCode(ctx.InstallationCode) == "" {
		missing = append(missing, "installation code")
	}
	if strings.TrimSpace(ctx.Deck) == "" {
		missing = append(missing, "deck")
	}
	if len(missing) > 0 {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("Area requires %s", strings.Join(missing, ", ")),
		}
	}
	return GuardResult{Allowed: true}
}
