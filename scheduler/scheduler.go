// Package scheduler couples wall time to deterministic simulation ticks:
// a fixed-timestep accumulator for the engine's physics step, plus two
// independently throttled raters for the lifecycle manager and the catch
// detector (spec §4.9).
package scheduler

import (
	"log/slog"

	"github.com/RegiByte/emergent-boids-sub003/config"
	"github.com/RegiByte/emergent-boids-sub003/control"
	"github.com/RegiByte/emergent-boids-sub003/engine"
)

const (
	DefaultTargetHz          = 30.0
	DefaultMaxUpdatesPerFrame = 3
	DefaultMaxAccumulatedMs  = 167.0
	DefaultLifecycleHz       = 1.0
	DefaultCatchHz           = 10.0
)

// rater is a small throttle: it accumulates elapsed time and reports
// whether enough has passed to run its operation again, per spec's
// "Rater" glossary entry.
type rater struct {
	intervalMs float64
	accMs      float64
}

func newRater(hz float64) *rater {
	if hz <= 0 {
		hz = 1
	}
	return &rater{intervalMs: 1000 / hz}
}

func (r *rater) due(elapsedMs float64) bool {
	r.accMs += elapsedMs
	if r.accMs >= r.intervalMs {
		r.accMs -= r.intervalMs
		return true
	}
	return false
}

func (r *rater) setHz(hz float64) {
	if hz <= 0 {
		hz = 1
	}
	r.intervalMs = 1000 / hz
}

// Scheduler owns the accumulator loop. It is driven by repeated calls to
// Advance(realDtMs) from an external frame source (animation frame, or a
// sleep loop in cmd/simctl).
type Scheduler struct {
	log *slog.Logger

	state *engine.State
	bus   *control.Bus
	exec  *engine.Executor

	targetHz           float64
	timestepMs         float64
	maxUpdatesPerFrame int
	maxAccumulatedMs   float64

	accumulatorMs float64

	lifecycleRater *rater
	catchRater     *rater
}

// New constructs a Scheduler around an engine State and control Bus, at
// the spec's default rates (30 Hz simulation, 1 Hz lifecycle, 10 Hz catch
// detection).
func New(state *engine.State, bus *control.Bus, log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{
		log:                log,
		state:              state,
		bus:                bus,
		exec:               engine.NewExecutor(state),
		targetHz:           DefaultTargetHz,
		timestepMs:         1000 / DefaultTargetHz,
		maxUpdatesPerFrame: DefaultMaxUpdatesPerFrame,
		maxAccumulatedMs:   DefaultMaxAccumulatedMs,
		lifecycleRater:     newRater(DefaultLifecycleHz),
		catchRater:         newRater(DefaultCatchHz),
	}
}

// SetTargetHz changes the fixed simulation rate.
func (s *Scheduler) SetTargetHz(hz float64) {
	if hz <= 0 {
		hz = DefaultTargetHz
	}
	s.targetHz = hz
	s.timestepMs = 1000 / hz
}

// SetLifecycleHz changes the lifecycle manager's cadence.
func (s *Scheduler) SetLifecycleHz(hz float64) { s.lifecycleRater.setHz(hz) }

// SetCatchHz changes the catch detector's cadence.
func (s *Scheduler) SetCatchHz(hz float64) { s.catchRater.setHz(hz) }

// Advance runs one outer frame: algorithm per spec §4.9.
//
//  1. Compute scaledDt from realDtMs and the time controller's scale.
//  2. Accumulate; while accumulator >= timestep and under the per-frame
//     cap, step the engine and tick the time controller.
//  3. Clamp the accumulator to maxAccumulatedMs (spiral-of-death guard).
//  4. Run the lifecycle rater if due.
//  5. Run the catch rater if due.
//  6. Honor a pending single-step request regardless of pause state.
//  7. Drain the control bus to quiescence.
func (s *Scheduler) Advance(realDtMs float64) {
	tc := s.state.Time()

	if tc.Paused() && !tc.StepRequested() {
		s.drainEvents()
		return
	}

	scaledDt := realDtMs * float64(tc.TimeScale())
	if !tc.Paused() {
		s.accumulatorMs += scaledDt
	}

	updates := 0
	for s.accumulatorMs >= s.timestepMs && updates < s.maxUpdatesPerFrame {
		s.state.Step(s.timestepMs / 1000)
		updates++
		s.accumulatorMs -= s.timestepMs
	}
	if updates == s.maxUpdatesPerFrame && s.accumulatorMs >= s.timestepMs {
		s.log.Debug("scheduler: timing drift, dropping excess backlog", "accumulatorMs", s.accumulatorMs)
	}

	if s.accumulatorMs > s.maxAccumulatedMs {
		s.accumulatorMs = s.maxAccumulatedMs
	}

	if s.lifecycleRater.due(scaledDt) {
		events := s.state.RunLifecycle(s.lifecycleRater.intervalMs / 1000)
		s.dispatchLifecycleEvents(events)
	}

	if s.catchRater.due(scaledDt) {
		catches := s.state.RunCatches()
		s.dispatchCatchEvents(catches)
	}

	if tc.StepRequested() {
		s.state.Step(s.timestepMs / 1000)
		tc.ClearStepRequest()
	}

	s.drainEvents()
}

func (s *Scheduler) drainEvents() {
	if err := s.bus.Drain(s.state, s.exec); err != nil {
		s.log.Error("scheduler: error draining control bus", "error", err)
	}
}

// Dispatch enqueues an external event (UI click, profile switch, etc.)
// onto the control bus for the next Advance's drain.
func (s *Scheduler) Dispatch(ev control.Event) { s.bus.Dispatch(ev) }

// RegisterProfile makes a loaded profile resolvable by id for a future
// profile.switched event, without installing it as the active profile.
func (s *Scheduler) RegisterProfile(p *config.Profile) { s.exec.RegisterProfile(p) }

// Stop clears the accumulator. It does not drop events already queued on
// the control bus, and it cancels no timers: timer effects are not
// tracked anywhere.
func (s *Scheduler) Stop() {
	s.accumulatorMs = 0
}
