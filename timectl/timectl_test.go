package timectl

import "testing"

func TestNew_StartsAtDefaults(t *testing.T) {
	c := New()
	if c.Frame() != 0 || c.SimulatedElapsedMs() != 0 || c.Paused() || c.TimeScale() != 1 {
		t.Errorf("expected a fresh controller at frame=0, elapsed=0, unpaused, scale=1, got frame=%d elapsed=%v paused=%v scale=%v",
			c.Frame(), c.SimulatedElapsedMs(), c.Paused(), c.TimeScale())
	}
}

func TestTick_AdvancesFrameAndScaledElapsed(t *testing.T) {
	c := New()
	c.SetTimeScale(2)
	c.Tick(10)
	if c.Frame() != 1 {
		t.Errorf("expected frame=1 after one Tick, got %d", c.Frame())
	}
	if c.SimulatedElapsedMs() != 20 {
		t.Errorf("expected elapsed=20 (10ms * 2x scale), got %v", c.SimulatedElapsedMs())
	}
}

func TestSetTimeScale_ClampsToRange(t *testing.T) {
	c := New()
	c.SetTimeScale(-1)
	if c.TimeScale() != 0 {
		t.Errorf("expected negative scale clamped to 0, got %v", c.TimeScale())
	}
	c.SetTimeScale(MaxScale + 10)
	if c.TimeScale() != MaxScale {
		t.Errorf("expected scale clamped to MaxScale=%v, got %v", MaxScale, c.TimeScale())
	}
}

func TestPauseResume_TogglesPausedState(t *testing.T) {
	c := New()
	c.Pause()
	if !c.Paused() {
		t.Errorf("expected Paused()=true after Pause()")
	}
	c.Resume()
	if c.Paused() {
		t.Errorf("expected Paused()=false after Resume()")
	}
}

func TestStep_SetsAndClearsRequest(t *testing.T) {
	c := New()
	if c.StepRequested() {
		t.Errorf("expected no step requested initially")
	}
	c.Step()
	if !c.StepRequested() {
		t.Errorf("expected StepRequested()=true after Step()")
	}
	c.ClearStepRequest()
	if c.StepRequested() {
		t.Errorf("expected StepRequested()=false after ClearStepRequest()")
	}
}

func TestReset_ZeroesFrameAndElapsedButKeepsScaleAndPause(t *testing.T) {
	c := New()
	c.SetTimeScale(3)
	c.Pause()
	c.Tick(100)
	c.Step()

	c.Reset()

	if c.Frame() != 0 {
		t.Errorf("expected frame reset to 0, got %d", c.Frame())
	}
	if c.SimulatedElapsedMs() != 0 {
		t.Errorf("expected elapsed reset to 0, got %v", c.SimulatedElapsedMs())
	}
	if c.StepRequested() {
		t.Errorf("expected pending step request cleared by Reset")
	}
	if c.TimeScale() != 3 {
		t.Errorf("expected time scale preserved across Reset, got %v", c.TimeScale())
	}
	if !c.Paused() {
		t.Errorf("expected paused state preserved across Reset")
	}
}
