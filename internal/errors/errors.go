// Package errors classifies the failures that cross the boundary between the
// scheduling engine and its collaborators. Callers branch on the Kind of an
// error rather than on its message or concrete type.
//
// # Kinds
//
//   - NotFound: a robot, area or mission run is absent, or nothing is eligible to start
//   - Conflict: the persisted state changed underneath the caller (stale write)
//   - Dock: a drive-to-dock run could not be scheduled
//   - Mission: the robot controller refused a mission command; carries a status code
//   - Unexpected: everything else
//
// # Usage
//
//	if errors.IsNotFound(err) { return }
//	if errors.KindOf(err) == errors.KindMission && errors.StatusCodeOf(err) == http.StatusConflict { ... }
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library functions so callers only import this package.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Kind is the failure class of an error.
type Kind int

const (
	KindUnexpected Kind = iota
	KindNotFound
	KindConflict
	KindDock
	KindMission
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindDock:
		return "dock"
	case KindMission:
		return "mission"
	default:
		return "unexpected"
	}
}

// Error is a classified error.
type Error struct {
	Kind       Kind
	Op         string // operation that failed, e.g. "start next mission run"
	Entity     string // robot, area, mission run
	ID         string
	StatusCode int // controller status code, only set for KindMission
	Err        error
}

func (e *Error) Error() string {
	var msg string
	switch {
	case e.Entity != "" && e.ID != "":
		msg = fmt.Sprintf("%s %s", e.Entity, e.ID)
	case e.Entity != "":
		msg = e.Entity
	}
	if e.Op != "" {
		if msg != "" {
			msg = e.Op + ": " + msg
		} else {
			msg = e.Op
		}
	}
	if e.Kind == KindNotFound && e.Entity != "" {
		msg += " not found"
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		if msg == "" {
			return e.Err.Error()
		}
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound reports that entity id does not exist.
func NotFound(entity, id string) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, ID: id}
}

// NothingToStart reports that no mission run is eligible for the robot.
func NothingToStart(robotID, reason string) *Error {
	return &Error{Kind: KindNotFound, Op: "no startable mission run for robot " + robotID, Err: errors.New(reason)}
}

// Conflict reports a stale or concurrent persistence write.
func Conflict(op string, err error) *Error {
	return &Error{Kind: KindConflict, Op: op, Err: err}
}

// Dock reports a failure to schedule a drive-to-dock run.
func Dock(op string, err error) *Error {
	return &Error{Kind: KindDock, Op: op, Err: err}
}

// Mission reports a controller failure with its status code.
func Mission(op string, statusCode int, err error) *Error {
	return &Error{Kind: KindMission, Op: op, StatusCode: statusCode, Err: err}
}

// Unexpected wraps err as an unclassified failure.
func Unexpected(op string, err error) *Error {
	return &Error{Kind: KindUnexpected, Op: op, Err: err}
}

// KindOf returns the kind of the first classified error in err's chain.
// Unclassified and nil errors report KindUnexpected.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

// StatusCodeOf returns the controller status code carried by err, or 0.
func StatusCodeOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}

func IsNotFound(err error) bool { return err != nil && KindOf(err) == KindNotFound }
func IsConflict(err error) bool { return err != nil && KindOf(err) == KindConflict }
func IsDock(err error) bool     { return err != nil && KindOf(err) == KindDock }
func IsMission(err error) bool  { return err != nil && KindOf(err) == KindMission }
