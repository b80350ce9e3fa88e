// Package robot contains the pure business logic for robots.
// This is part of the Functional Core - no I/O, only pure functions.
package robot

import "net/http"

// FlotillaStatus is the fleet-management state of a robot, distinct from
// the execution status of its mission runs.
type FlotillaStatus string

const (
	StatusNormal     FlotillaStatus = "normal"
	StatusDocked     FlotillaStatus = "docked"
	StatusRecharging FlotillaStatus = "recharging"
)

// ParseFlotillaStatus validates a persisted or user-supplied status.
func ParseFlotillaStatus(s string) (FlotillaStatus, bool) {
	switch st := FlotillaStatus(s); st {
	case StatusNormal, StatusDocked, StatusRecharging:
		return st, true
	}
	return "", false
}

// AcceptsWork reports whether regular (non-emergency) runs may start.
func AcceptsWork(s FlotillaStatus) bool {
	return s == StatusNormal
}

// InitialStatus returns the flotilla status of a newly registered robot.
func InitialStatus() FlotillaStatus {
	return StatusNormal
}

// IsIdleConflict reports whether a controller status code from a stop
// request means the robot was already idle.
func IsIdleConflict(statusCode int) bool {
	return statusCode == http.StatusConflict
}
