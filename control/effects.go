package control

import "github.com/RegiByte/emergent-boids-sub003/components"

// EffectKind is the closed tag identifying an Effect's shape.
type EffectKind uint8

const (
	EffectStateUpdate EffectKind = iota
	EffectTimerSchedule
	EffectTimerCancel
	EffectEngineAddBoid
	EffectEngineRemoveBoid
	EffectProfileLoad
	EffectRuntimeDispatch
)

func (k EffectKind) String() string {
	switch k {
	case EffectStateUpdate:
		return "state.update"
	case EffectTimerSchedule:
		return "timer.schedule"
	case EffectTimerCancel:
		return "timer.cancel"
	case EffectEngineAddBoid:
		return "engine.addBoid"
	case EffectEngineRemoveBoid:
		return "engine.removeBoid"
	case EffectProfileLoad:
		return "profile.load"
	case EffectRuntimeDispatch:
		return "runtime.dispatch"
	default:
		return "unknown"
	}
}

// NewBoid is the payload for an engine.addBoid effect.
type NewBoid struct {
	TypeID   string
	Role     components.Role
	X, Y     float64
	Energy   float64
}

// Effect is a single instruction produced by a pure Handler and consumed
// by the Executor. Only the fields relevant to Kind are populated.
type Effect struct {
	Kind EffectKind

	// state.update
	PartialState map[string]any

	// timer.schedule / timer.cancel
	TimerID string
	DelayMs float64
	OnExpire *Event

	// engine.addBoid / removeBoid
	Boid   NewBoid
	BoidID components.AgentID

	// profile.load
	ProfileID string

	// runtime.dispatch
	Dispatch *Event
}
