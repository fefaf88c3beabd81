package scheduler

import (
	"testing"

	"github.com/RegiByte/emergent-boids-sub003/components"
	"github.com/RegiByte/emergent-boids-sub003/config"
	"github.com/RegiByte/emergent-boids-sub003/control"
	"github.com/RegiByte/emergent-boids-sub003/engine"
)

func testProfile(preyCount, predatorCount int) *config.Profile {
	return &config.Profile{
		ID:         "test",
		RandomSeed: 7,
		World:      config.World{Width: 500, Height: 500, InitialPreyCount: preyCount, InitialPredatorCount: predatorCount},
		Species: map[string]config.Species{
			"minnow": {
				ID: "minnow", RoleName: "prey", Role: components.RolePrey,
				Movement:     config.Movement{MaxSpeed: 50, MaxForce: 10, TrailLength: 8, SeparationWeight: 1, AlignmentWeight: 1, CohesionWeight: 1, MinDistance: 10},
				Lifecycle:    config.Lifecycle{MaxEnergy: 100, EnergyGainRate: 2, MaxAge: 1000, FearFactor: 2},
				Reproduction: config.Reproduction{Type: config.ReproductionSexual, OffspringCount: 2, OffspringEnergyBonus: 0.3, CooldownTicks: 20},
				Limits:       config.Limits{MaxPopulation: 100},
			},
		},
		Parameters: config.Parameters{
			PerceptionRadius: 80, FearRadius: 140, ChaseRadius: 160, CatchRadius: 14, MateRadius: 24,
			MinDistance: 10, MaxBoids: 100, MaxPreyBoids: 100, MaxPredatorBoids: 20,
			MinReproductionAge: 8, ReproductionEnergyThreshold: 0.7, ReproductionCooldownTicks: 20,
			MatingBuildupTicks: 45, EatingCooldownTicks: 10,
		},
	}
}

func TestAdvance_AccumulatesAndStepsAtFixedRate(t *testing.T) {
	state := engine.New(testProfile(0, 0), nil)
	bus := control.NewBus(control.Handle, nil)
	sched := New(state, bus, nil)

	sched.Advance(1000.0 / DefaultTargetHz)

	if state.Frame() != 1 {
		t.Errorf("expected exactly one fixed step for one timestep's worth of real time, got frame=%d", state.Frame())
	}
}

func TestAdvance_CapsUpdatesPerFrameUnderLargeDt(t *testing.T) {
	state := engine.New(testProfile(0, 0), nil)
	bus := control.NewBus(control.Handle, nil)
	sched := New(state, bus, nil)

	sched.Advance(10_000) // a huge stall

	if state.Frame() > uint64(DefaultMaxUpdatesPerFrame) {
		t.Errorf("expected at most %d steps in one Advance call, got %d", DefaultMaxUpdatesPerFrame, state.Frame())
	}
}

func TestAdvance_PausedStateDoesNotStep(t *testing.T) {
	state := engine.New(testProfile(0, 0), nil)
	bus := control.NewBus(control.Handle, nil)
	sched := New(state, bus, nil)

	state.Time().Pause()
	sched.Advance(1000.0 / DefaultTargetHz)

	if state.Frame() != 0 {
		t.Errorf("expected no step while paused, got frame=%d", state.Frame())
	}
}

func TestAdvance_StepRequestHonoredWhilePaused(t *testing.T) {
	state := engine.New(testProfile(0, 0), nil)
	bus := control.NewBus(control.Handle, nil)
	sched := New(state, bus, nil)

	state.Time().Pause()
	state.Time().Step()
	sched.Advance(1000.0 / DefaultTargetHz)

	if state.Frame() != 1 {
		t.Errorf("expected exactly one step honored via a pending step request while paused, got frame=%d", state.Frame())
	}
	if state.Time().StepRequested() {
		t.Errorf("expected the step request cleared after being honored")
	}
}

func TestAdvance_DrainsDispatchedEventsEachCall(t *testing.T) {
	state := engine.New(testProfile(0, 0), nil)
	bus := control.NewBus(control.Handle, nil)
	sched := New(state, bus, nil)

	sched.Dispatch(control.Event{Kind: control.EventObstacleAdded, X: 1, Y: 2, Radius: 5})
	sched.Advance(0)

	if bus.Pending() != 0 {
		t.Errorf("expected the dispatched event drained within the same Advance call, got %d pending", bus.Pending())
	}
	if state.ObstacleCount() != 1 {
		t.Errorf("expected the obstacle.added event to have added one obstacle, got %d", state.ObstacleCount())
	}
}

func TestAdvance_TimeScaleZeroFreezesAccumulation(t *testing.T) {
	state := engine.New(testProfile(0, 0), nil)
	bus := control.NewBus(control.Handle, nil)
	sched := New(state, bus, nil)

	state.Time().SetTimeScale(0)
	sched.Advance(1000)

	if state.Frame() != 0 {
		t.Errorf("expected zero steps at time scale 0, got frame=%d", state.Frame())
	}
}
