// Package events is the in-process domain event bus for the fleet.
//
// Publishers (API commands, watchdogs, the mission dispatcher) call Publish
// with one of the payload types in types.go. Every subscriber for that event
// type runs on its own goroutine, so Publish never blocks on a handler.
// Handler panics are recovered and logged; they never reach the publisher.
//
// Delivery is best-effort and in-process only. Wait blocks until every
// handler started so far, including handlers started by handlers, has
// returned. Close rejects further publishes and then waits.
package events
