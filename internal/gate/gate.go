// Package gate provides the scheduling decision gates: single-holder locks
// that serialize one kind of scheduling decision.
//
// A gate is either keyed per robot (decisions for different robots proceed
// in parallel) or fleet-wide (every decision of that kind is serialized).
// Per-robot locks are created lazily and live for the process.
package gate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// Scope selects how a gate partitions its lock.
type Scope string

const (
	ScopeRobot Scope = "robot"
	ScopeFleet Scope = "fleet"
)

const fleetKey = "*"

// ParseScope validates s.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopeRobot, ScopeFleet:
		return Scope(s), nil
	case "":
		return ScopeRobot, nil
	default:
		return "", fmt.Errorf("unknown gate scope %q (want %q or %q)", s, ScopeRobot, ScopeFleet)
	}
}

// Gate is a named single-permit lock.
type Gate struct {
	name    string
	scope   Scope
	timeout time.Duration

	mu   sync.Mutex
	sems map[string]*semaphore.Weighted
}

// New creates a gate. A zero timeout waits until the gate is free.
func New(name string, scope Scope, timeout time.Duration) *Gate {
	if scope == "" {
		scope = ScopeRobot
	}
	return &Gate{
		name:    name,
		scope:   scope,
		timeout: timeout,
		sems:    make(map[string]*semaphore.Weighted),
	}
}

// Name returns the gate's name.
func (g *Gate) Name() string { return g.name }

// Scope returns the gate's scope.
func (g *Gate) Scope() Scope { return g.scope }

func (g *Gate) semaphore(robotID string) *semaphore.Weighted {
	key := robotID
	if g.scope == ScopeFleet {
		key = fleetKey
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	sem, ok := g.sems[key]
	if !ok {
		sem = semaphore.NewWeighted(1)
		g.sems[key] = sem
	}
	return sem
}

// Acquire takes the gate for robotID. The returned release func must be
// called exactly once.
func (g *Gate) Acquire(ctx context.Context, robotID string) (func(), error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	sem := g.semaphore(robotID)
	if err := sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("acquire %s gate for robot %s: %w", g.name, robotID, err)
	}

	var once sync.Once
	return func() { once.Do(func() { sem.Release(1) }) }, nil
}

// Do runs fn while holding the gate for robotID. The gate is released when
// fn returns or panics.
func (g *Gate) Do(ctx context.Context, robotID string, fn func(ctx context.Context) error) error {
	release, err := g.Acquire(ctx, robotID)
	if err != nil {
		return err
	}
	defer release()
	return fn(ctx)
}
