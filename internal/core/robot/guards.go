// Package robot contains the pure business logic for robots.
// This is part of the Functional Core - no I/O, only pure functions.
package robot

import "fmt"

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string // Human-readable reason (populated when not allowed)
}

// Error returns the guard result as an error if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// TransitionContext provides context for flotilla status changes.
type TransitionContext struct {
	RobotID      string
	CurrentState FlotillaStatus
	TargetState  FlotillaStatus
}

// CanSendToDock evaluates whether a send-to-dock request changes anything.
// Rule: a robot already in the target status is left alone.
func CanSendToDock(ctx TransitionContext) GuardResult {
	if ctx.CurrentState == ctx.TargetState {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("Did not send robot %s to dock since it was already %s", ctx.RobotID, ctx.TargetState),
		}
	}
	return GuardResult{Allowed: true}
}

// CanReleaseFromDock evaluates whether a release request changes anything.
// Rule: a robot already in the target status is left alone.
func CanReleaseFromDock(ctx TransitionContext) GuardResult {
	if ctx.CurrentState == ctx.TargetState {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("Did not release robot %s from dock since it was already %s", ctx.RobotID, ctx.TargetState),
		}
	}
	return GuardResult{Allowed: true}
}

// RegisterContext provides context for robot registration.
type RegisterContext struct {
	Name       string
	NameInUse  bool
	AreaExists bool
	AreaID     string
}

// CanRegisterRobot evaluates whether a robot can be registered.
// Rule: names are unique; an initial area, when given, must exist.
func CanRegisterRobot(ctx RegisterContext) GuardResult {
	if ctx.Name == "" {
		return GuardResult{Allowed: false, Reason: "Robot name must not be empty"}
	}
	if ctx.NameInUse {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("Robot name %q is already registered", ctx.Name)}
	}
	if ctx.AreaID != "" && !ctx.AreaExists {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("Area %s not found", ctx.AreaID)}
	}
	return GuardResult{Allowed: true}
}
