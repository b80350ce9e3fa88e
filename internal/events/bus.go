package events

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
)

// ErrBusClosed is returned by Publish after Close.
var ErrBusClosed = errors.New("event bus closed")

// Handler handles one event. The context carries the publisher's values but
// is never cancelled by the bus.
type Handler func(ctx context.Context, ev Event)

type subscription struct {
	id        string
	eventType EventType
	handler   Handler
}

// Bus is an asynchronous typed pub-sub bus.
type Bus struct {
	mu            sync.RWMutex
	subscriptions map[EventType][]subscription
	closed        bool

	inflight conc.WaitGroup
	logger   *slog.Logger
	now      func() time.Time
}

// NewBus creates a bus that logs handler panics to logger.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		subscriptions: make(map[EventType][]subscription),
		logger:        logger,
		now:           time.Now,
	}
}

// Subscribe registers handler for eventType and returns a subscription ID.
func (b *Bus) Subscribe(eventType EventType, handler Handler) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := subscription{
		id:        uuid.NewString(),
		eventType: eventType,
		handler:   handler,
	}
	b.subscriptions[eventType] = append(b.subscriptions[eventType], sub)
	return sub.id
}

// Unsubscribe removes a subscription. Returns false if id is unknown.
func (b *Bus) Unsubscribe(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for eventType, subs := range b.subscriptions {
		for i, sub := range subs {
			if sub.id == id {
				b.subscriptions[eventType] = append(subs[:i:i], subs[i+1:]...)
				return true
			}
		}
	}
	return false
}

// Publish wraps payload in an Event and dispatches it to every subscriber of
// its type. It returns as soon as the handlers have been started.
func (b *Bus) Publish(ctx context.Context, payload Payload) (Event, error) {
	ev := Event{
		ID:         uuid.NewString(),
		Type:       payload.EventType(),
		OccurredAt: b.now().UTC(),
		Payload:    payload,
	}

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ev, ErrBusClosed
	}
	subs := make([]subscription, len(b.subscriptions[ev.Type]))
	copy(subs, b.subscriptions[ev.Type])

	// Handlers outlive the publisher's request.
	hctx := context.WithoutCancel(ctx)
	for _, sub := range subs {
		b.inflight.Go(func() { b.safeCall(hctx, sub, ev) })
	}
	b.mu.RUnlock()

	return ev, nil
}

func (b *Bus) safeCall(ctx context.Context, sub subscription, ev Event) {
	var pc panics.Catcher
	pc.Try(func() { sub.handler(ctx, ev) })
	if r := pc.Recovered(); r != nil {
		b.logger.Error("event handler panicked",
			"event", ev.Type.String(),
			"event_id", ev.ID,
			"subscription", sub.id,
			"panic", r.Value,
			"stack", string(r.Stack),
		)
	}
}

// Wait blocks until all in-flight handlers have returned.
func (b *Bus) Wait() {
	b.inflight.Wait()
}

// Close stops accepting events and waits for in-flight handlers.
func (b *Bus) Close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	b.inflight.Wait()
}

// SubscriptionCount returns the number of active subscriptions.
func (b *Bus) SubscriptionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	count := 0
	for _, subs := range b.subscriptions {
		count += len(subs)
	}
	return count
}
