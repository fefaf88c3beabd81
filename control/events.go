// Package control implements the event/effect control plane described in
// spec §4.8: external intents arrive as typed Events, pure Handlers
// resolve them into typed Effects, and a single Executor is the sole
// mutator of engine state. Handlers never touch I/O or engine state
// directly — that asymmetry is the whole point of the split.
package control

import (
	"github.com/RegiByte/emergent-boids-sub003/components"
)

// EventKind is the closed tag identifying an Event's shape. Unknown kinds
// are a fatal programming error (spec §4.8), never silently ignored.
type EventKind uint8

const (
	EventTypeConfigChanged EventKind = iota
	EventPerceptionRadiusChanged
	EventObstacleAvoidanceChanged
	EventObstacleAdded
	EventObstacleRemoved
	EventObstaclesCleared
	EventTimePassed
	EventBoidsCaught
	EventBoidsDied
	EventBoidsReproduced
	EventSpawnPredator
	EventFoodSourceCreated
	EventProfileSwitched
	EventAnalyticsFilterChanged
	EventAnalyticsFilterCleared
	EventBoidAdded
	EventBoidRemoved
)

func (k EventKind) String() string {
	switch k {
	case EventTypeConfigChanged:
		return "controls.typeConfigChanged"
	case EventPerceptionRadiusChanged:
		return "controls.perceptionRadiusChanged"
	case EventObstacleAvoidanceChanged:
		return "controls.obstacleAvoidanceChanged"
	case EventObstacleAdded:
		return "obstacles.added"
	case EventObstacleRemoved:
		return "obstacles.removed"
	case EventObstaclesCleared:
		return "obstacles.cleared"
	case EventTimePassed:
		return "time.passed"
	case EventBoidsCaught:
		return "boids.caught"
	case EventBoidsDied:
		return "boids.died"
	case EventBoidsReproduced:
		return "boids.reproduced"
	case EventSpawnPredator:
		return "boids.spawnPredator"
	case EventFoodSourceCreated:
		return "boids.foodSourceCreated"
	case EventProfileSwitched:
		return "profile.switched"
	case EventAnalyticsFilterChanged:
		return "analytics.filterChanged"
	case EventAnalyticsFilterCleared:
		return "analytics.filterCleared"
	case EventBoidAdded:
		return "boids.added"
	case EventBoidRemoved:
		return "boids.removed"
	default:
		return "unknown"
	}
}

// Event is a single tagged record. Only the fields relevant to Kind are
// populated; this mirrors the teacher's tagged-struct-plus-enum style
// (components.Kind) rather than one struct type per event.
type Event struct {
	Kind EventKind

	// controls.typeConfigChanged / perceptionRadiusChanged / obstacleAvoidanceChanged
	TypeID string
	Field  string
	Value  float64

	// obstacles.added / removed
	X, Y, Radius float64
	Index        int

	// time.passed
	DeltaMs float64

	// boids.caught
	PredatorID   components.AgentID
	PreyID       components.AgentID
	PreyTypeID   string
	PreyEnergy   float64
	PreyPositionX, PreyPositionY float64

	// boids.died
	BoidID components.AgentID
	Reason components.DeathReason

	// boids.reproduced
	ParentID       components.AgentID
	Parent2ID      components.AgentID
	ChildID        components.AgentID
	OffspringCount int

	// boids.spawnPredator
	SpawnX, SpawnY float64

	// boids.foodSourceCreated
	FoodSource components.FoodSource

	// profile.switched
	ProfileID string

	// analytics.filterChanged / filterCleared
	Filter string

	// boids.added (generic, role-agnostic; reuses TypeID/X/Y above)
	Energy float64
}
