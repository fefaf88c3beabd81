package engine

import "github.com/RegiByte/emergent-boids-sub003/components"

// AgentSnapshot is one agent's externally observable state at a tick
// boundary (spec §6 outbound observation).
type AgentSnapshot struct {
	ID                 components.AgentID
	TypeID             string
	Position           [2]float64
	Velocity           [2]float64
	Stance             components.Stance
	Energy             float64
	Health             float64
	Age                float64
	MateID             components.AgentID
	HasMate            bool
	StanceEnteredFrame uint64
}

// Snapshot is the immutable, read-only view external collaborators
// (renderer, analytics — both out of core scope) observe once per tick.
// It is a full copy: callers never alias engine-internal slices.
type Snapshot struct {
	Agents             []AgentSnapshot
	Obstacles          []components.Obstacle
	FoodSources        []components.FoodSource
	DeathMarkers       []components.DeathMarker
	Frame              uint64
	SimulatedElapsedMs float64
	Paused             bool
	TimeScale          float32
}

// Snapshot captures the current authoritative state as an immutable copy,
// safe to retain across ticks and hand off to an external reader. This is
// the publish step the optional worker-thread split (spec §5) would
// replace with a double-buffered atomic swap; the shape is identical.
func (s *State) Snapshot() Snapshot {
	agents := make([]AgentSnapshot, 0, len(s.byID))
	query := s.filter.Query()
	for query.Next() {
		identity, transform, _, vitals, stanceState, _ := query.Get()
		agents = append(agents, AgentSnapshot{
			ID:                 identity.ID,
			TypeID:             identity.TypeID,
			Position:           [2]float64{transform.Position.X, transform.Position.Y},
			Velocity:           [2]float64{transform.Velocity.X, transform.Velocity.Y},
			Stance:             stanceState.Current,
			Energy:             vitals.Energy,
			Health:             vitals.Health,
			Age:                vitals.Age,
			MateID:             vitals.MateID,
			HasMate:            vitals.HasMate,
			StanceEnteredFrame: stanceState.EnteredAtFrame,
		})
	}

	obstacles := make([]components.Obstacle, len(s.obstacles))
	copy(obstacles, s.obstacles)
	food := make([]components.FoodSource, len(s.foodSources))
	copy(food, s.foodSources)
	markers := make([]components.DeathMarker, len(s.markers))
	copy(markers, s.markers)

	return Snapshot{
		Agents:             agents,
		Obstacles:          obstacles,
		FoodSources:        food,
		DeathMarkers:       markers,
		Frame:              s.frame,
		SimulatedElapsedMs: s.time.SimulatedElapsedMs(),
		Paused:             s.time.Paused(),
		TimeScale:          s.time.TimeScale(),
	}
}
