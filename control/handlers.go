package control

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/RegiByte/emergent-boids-sub003/components"
)

// Handle is the default pure handler: a switch over the closed EventKind
// set, exactly matching the teacher's tagged-enum dispatch style. Every
// branch returns a known-length effect list (possibly empty); an
// unrecognized Kind is a programming error since EventKind values are
// only ever constructed internally from the closed enum.
func Handle(state StateView, ev Event) []Effect {
	switch ev.Kind {
	case EventTypeConfigChanged:
		return []Effect{{Kind: EffectStateUpdate, PartialState: map[string]any{
			"typeId": ev.TypeID, "field": ev.Field, "value": ev.Value,
		}}}

	case EventPerceptionRadiusChanged:
		return []Effect{{Kind: EffectStateUpdate, PartialState: map[string]any{"perceptionRadius": ev.Value}}}

	case EventObstacleAvoidanceChanged:
		return []Effect{{Kind: EffectStateUpdate, PartialState: map[string]any{"obstacleAvoidanceWeight": ev.Value}}}

	case EventObstacleAdded:
		return []Effect{{Kind: EffectStateUpdate, PartialState: map[string]any{
			"obstacleAdd": components.Obstacle{Position: vecOf(ev.X, ev.Y), Radius: ev.Radius},
		}}}

	case EventObstacleRemoved:
		if ev.Index < 0 || ev.Index >= state.ObstacleCount() {
			// ReferenceMiss: the index no longer exists. Non-fatal no-op.
			return nil
		}
		return []Effect{{Kind: EffectStateUpdate, PartialState: map[string]any{"obstacleRemoveIndex": ev.Index}}}

	case EventObstaclesCleared:
		return []Effect{{Kind: EffectStateUpdate, PartialState: map[string]any{"obstaclesClear": true}}}

	case EventTimePassed:
		return nil // the scheduler advances time directly; this event is a pass-through hook for observers

	case EventBoidsCaught:
		// Notification-only: the catch detector (systems.DetectCatches,
		// applied by engine.State.RunCatches) already removed the prey
		// and deposited the food source directly as part of the tick
		// pipeline. This event exists purely for the outbound stream.
		return nil

	case EventBoidsDied:
		// Notification-only, same reasoning: the lifecycle manager
		// already removed the agent before this event reaches the bus.
		return nil

	case EventBoidsReproduced:
		if state.PopulationCount(components.RolePrey)+state.PopulationCount(components.RolePredator) >= state.MaxPopulation(components.RolePrey)+state.MaxPopulation(components.RolePredator) {
			// CapExceeded: not an error, silently skipped. No effect is
			// produced, so nothing reaches the executor and nothing is
			// logged.
			return nil
		}
		return []Effect{{Kind: EffectStateUpdate, PartialState: map[string]any{
			"reproduced": ev,
		}}}

	case EventSpawnPredator:
		return []Effect{{Kind: EffectEngineAddBoid, Boid: NewBoid{
			Role: components.RolePredator, X: ev.SpawnX, Y: ev.SpawnY,
		}}}

	case EventFoodSourceCreated:
		return []Effect{{Kind: EffectStateUpdate, PartialState: map[string]any{"foodSourceCreate": ev.FoodSource}}}

	case EventProfileSwitched:
		return []Effect{{Kind: EffectProfileLoad, ProfileID: ev.ProfileID}}

	case EventAnalyticsFilterChanged, EventAnalyticsFilterCleared:
		return []Effect{{Kind: EffectStateUpdate, PartialState: map[string]any{"filter": ev.Filter}}}

	case EventBoidAdded:
		return []Effect{{Kind: EffectEngineAddBoid, Boid: NewBoid{
			TypeID: ev.TypeID, X: ev.X, Y: ev.Y, Energy: ev.Energy,
		}}}

	case EventBoidRemoved:
		return []Effect{{Kind: EffectEngineRemoveBoid, BoidID: ev.BoidID}}

	default:
		panic(fmt.Sprintf("control: unhandled event kind %d — the closed set was extended without a handler branch", ev.Kind))
	}
}

func vecOf(x, y float64) r2.Vec {
	return r2.Vec{X: x, Y: y}
}
