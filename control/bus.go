package control

import (
	"fmt"
	"log/slog"

	"github.com/RegiByte/emergent-boids-sub003/components"
)

// DefaultMaxQueueDepth bounds the external event queue; spec §5 allows
// implementations to cap depth and drop-with-log on overflow.
const DefaultMaxQueueDepth = 4096

// StateView is the minimal read-only surface a Handler needs to make a
// decision (population caps, obstacle count) without ever touching
// mutable engine state directly.
type StateView interface {
	PopulationCount(role components.Role) int
	MaxPopulation(role components.Role) int
	ObstacleCount() int
}

// Executor is the sole mutator of engine state, constructed by the
// engine package (which implements it against its own *State).
type Executor interface {
	Execute(eff Effect) error
}

// HandlerFunc resolves one Event into an effect list. It must be pure:
// (state, event) → effects, never touching the engine or I/O. A missing
// or unrecognized EventKind is a programming error — the closed set is
// enforced at construction time, not here.
type HandlerFunc func(state StateView, ev Event) []Effect

// Bus is the FIFO event queue plus the registered handler. Dispatch adds
// an event; Drain processes the queue to quiescence, executing every
// effect each event produces before moving to the next.
type Bus struct {
	queue         []Event
	handle        HandlerFunc
	maxQueueDepth int
	log           *slog.Logger
}

// NewBus constructs a Bus around a single pure handler (matching the
// teacher's switch-dispatched tagged-enum style rather than a
// per-event-type callback registry).
func NewBus(handle HandlerFunc, log *slog.Logger) *Bus {
	if log == nil {
		log = slog.Default()
	}
	return &Bus{handle: handle, maxQueueDepth: DefaultMaxQueueDepth, log: log}
}

// Dispatch enqueues an external event. If the queue is at capacity the
// event is dropped and logged (spec §5 backpressure policy) rather than
// growing unbounded.
func (b *Bus) Dispatch(ev Event) {
	if len(b.queue) >= b.maxQueueDepth {
		b.log.Warn("control: event queue overflow, dropping event", "kind", ev.Kind.String())
		return
	}
	b.queue = append(b.queue, ev)
}

// Drain processes every queued event to quiescence: each event is handled
// into an effect list, each effect is executed in order, and any
// runtime.dispatch effect appends its wrapped event back onto the FIFO —
// so a handler-triggered chain is fully drained before Drain returns,
// never before the next external event within the same call.
func (b *Bus) Drain(state StateView, exec Executor) error {
	for len(b.queue) > 0 {
		ev := b.queue[0]
		b.queue = b.queue[1:]

		effects := b.handle(state, ev)
		for _, eff := range effects {
			if eff.Kind == EffectRuntimeDispatch {
				if eff.Dispatch == nil {
					continue
				}
				b.queue = append(b.queue, *eff.Dispatch)
				continue
			}
			if err := exec.Execute(eff); err != nil {
				return fmt.Errorf("control: executing effect %s: %w", eff.Kind, err)
			}
		}
	}
	return nil
}

// Pending reports how many events are queued, for diagnostics and tests.
func (b *Bus) Pending() int { return len(b.queue) }
