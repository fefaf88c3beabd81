package control

import (
	"errors"
	"testing"

	"github.com/RegiByte/emergent-boids-sub003/components"
)

type fakeStateView struct {
	pop    map[components.Role]int
	maxPop map[components.Role]int
	obs    int
}

func (f fakeStateView) PopulationCount(role components.Role) int { return f.pop[role] }
func (f fakeStateView) MaxPopulation(role components.Role) int   { return f.maxPop[role] }
func (f fakeStateView) ObstacleCount() int                       { return f.obs }

type recordingExecutor struct {
	executed []Effect
	failOn   EffectKind
}

func (e *recordingExecutor) Execute(eff Effect) error {
	if eff.Kind == e.failOn {
		return errors.New("boom")
	}
	e.executed = append(e.executed, eff)
	return nil
}

func TestBus_DrainAppliesEffectsFromHandler(t *testing.T) {
	handle := func(state StateView, ev Event) []Effect {
		return []Effect{{Kind: EffectStateUpdate, PartialState: map[string]any{"x": 1}}}
	}
	bus := NewBus(handle, nil)
	bus.Dispatch(Event{Kind: EventTimePassed})

	exec := &recordingExecutor{}
	if err := bus.Drain(fakeStateView{}, exec); err != nil {
		t.Fatalf("unexpected error draining: %v", err)
	}
	if len(exec.executed) != 1 {
		t.Fatalf("expected one effect executed, got %d", len(exec.executed))
	}
	if bus.Pending() != 0 {
		t.Errorf("expected queue empty after Drain, got %d pending", bus.Pending())
	}
}

func TestBus_DrainExpandsRuntimeDispatchEffectsWithinOneCall(t *testing.T) {
	calls := 0
	handle := func(state StateView, ev Event) []Effect {
		calls++
		if calls == 1 {
			chained := Event{Kind: EventTimePassed}
			return []Effect{{Kind: EffectRuntimeDispatch, Dispatch: &chained}}
		}
		return []Effect{{Kind: EffectStateUpdate}}
	}
	bus := NewBus(handle, nil)
	bus.Dispatch(Event{Kind: EventTimePassed})

	exec := &recordingExecutor{}
	if err := bus.Drain(fakeStateView{}, exec); err != nil {
		t.Fatalf("unexpected error draining: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected the chained dispatch to be handled within the same Drain call, got %d handler calls", calls)
	}
	if len(exec.executed) != 1 {
		t.Errorf("expected exactly one real effect executed (the dispatch itself re-enqueues, not executes), got %d", len(exec.executed))
	}
}

func TestBus_DrainPropagatesExecutorError(t *testing.T) {
	handle := func(state StateView, ev Event) []Effect {
		return []Effect{{Kind: EffectEngineAddBoid}}
	}
	bus := NewBus(handle, nil)
	bus.Dispatch(Event{Kind: EventTimePassed})

	exec := &recordingExecutor{failOn: EffectEngineAddBoid}
	if err := bus.Drain(fakeStateView{}, exec); err == nil {
		t.Errorf("expected Drain to propagate the executor's error")
	}
}

func TestBus_DispatchDropsOnQueueOverflow(t *testing.T) {
	handle := func(state StateView, ev Event) []Effect { return nil }
	bus := NewBus(handle, nil)
	bus.maxQueueDepth = 2

	bus.Dispatch(Event{Kind: EventTimePassed})
	bus.Dispatch(Event{Kind: EventTimePassed})
	bus.Dispatch(Event{Kind: EventTimePassed}) // should be dropped

	if bus.Pending() != 2 {
		t.Errorf("expected queue capped at maxQueueDepth=2, got %d pending", bus.Pending())
	}
}
