// Package timectl tracks the simulation's frame counter, elapsed simulated
// time, pause state, time scale, and single-step requests (spec §4.2).
package timectl

// MaxScale bounds the configurable time-scale multiplier.
const MaxScale = 8.0

// Controller is the authoritative time state. It holds no wall-clock
// reference itself; the scheduler feeds it real deltas.
type Controller struct {
	frame             uint64
	simulatedElapsedMs float64
	timeScale         float32
	paused            bool
	stepRequested     bool
}

// New creates a Controller at 1x scale, unpaused, frame 0.
func New() *Controller {
	return &Controller{timeScale: 1}
}

// Tick increments the frame counter and adds dtMs*timeScale to the
// elapsed simulated time. Called once per fixed simulation step.
func (c *Controller) Tick(dtMs float64) {
	c.frame++
	c.simulatedElapsedMs += dtMs * float64(c.timeScale)
}

// Frame returns the current frame counter.
func (c *Controller) Frame() uint64 { return c.frame }

// SimulatedElapsedMs returns total simulated milliseconds elapsed.
func (c *Controller) SimulatedElapsedMs() float64 { return c.simulatedElapsedMs }

// Pause stops physics updates until Resume or a Step is requested.
func (c *Controller) Pause() { c.paused = true }

// Resume clears the paused flag.
func (c *Controller) Resume() { c.paused = false }

// Paused reports whether the controller is currently paused.
func (c *Controller) Paused() bool { return c.paused }

// Step requests exactly one fixed-step update regardless of elapsed real
// time, even while paused.
func (c *Controller) Step() { c.stepRequested = true }

// StepRequested reports whether a one-shot step is pending.
func (c *Controller) StepRequested() bool { return c.stepRequested }

// ClearStepRequest clears the pending step request after it has been
// honored.
func (c *Controller) ClearStepRequest() { c.stepRequested = false }

// SetTimeScale clamps s to [0, MaxScale] and installs it.
func (c *Controller) SetTimeScale(s float32) {
	if s < 0 {
		s = 0
	}
	if s > MaxScale {
		s = MaxScale
	}
	c.timeScale = s
}

// TimeScale returns the current time scale multiplier.
func (c *Controller) TimeScale() float32 { return c.timeScale }

// Reset returns the controller to frame 0, zero elapsed time, keeping the
// current paused/scale state (spec §4.10 step 6).
func (c *Controller) Reset() {
	c.frame = 0
	c.simulatedElapsedMs = 0
	c.stepRequested = false
}
