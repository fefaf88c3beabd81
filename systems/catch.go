package systems

import "github.com/RegiByte/emergent-boids-sub003/components"

// PREDATOR_FOOD_FROM_PREY_MULTIPLIER converts a caught prey's energy into
// the energy of the predator-food source left at the kill site.
const PREDATOR_FOOD_FROM_PREY_MULTIPLIER = 0.6

// CatchCandidate is one predator's view of nearby prey, pre-filtered to
// those within catchRadius and sorted by (distSq, id) so the smallest-id
// tie-break is just "take the first eligible entry".
type CatchCandidate struct {
	PredatorID components.AgentID
	Prey       []NeighborView // role == prey, within catchRadius, nearest-first
}

// Catch is one successful predation this pass.
type Catch struct {
	PredatorID   components.AgentID
	PreyID       components.AgentID
	PreyTypeID   string
	PreyEnergy   float64
	PreyPosition Vec2
}

// DetectCatches runs the catch detector (spec §4.6): for each predator in
// hunting stance, the nearest eligible prey (not mating, not dead) within
// catchRadius is caught — at most one prey per predator per pass, ties
// resolved by smallest prey id. The claimed set prevents two predators from
// claiming the same prey within a single pass.
func DetectCatches(candidates []CatchCandidate, predatorStance map[components.AgentID]components.Stance) []Catch {
	var catches []Catch
	claimed := make(map[components.AgentID]bool)

	for _, c := range candidates {
		if predatorStance[c.PredatorID] != components.StanceHunting {
			continue
		}
		for _, nb := range c.Prey {
			if nb.Agent.IsDead || nb.Agent.Stance == components.StanceMating {
				continue
			}
			if claimed[nb.Agent.ID] {
				continue
			}
			claimed[nb.Agent.ID] = true
			catches = append(catches, Catch{
				PredatorID:   c.PredatorID,
				PreyID:       nb.Agent.ID,
				PreyTypeID:   nb.Agent.TypeID,
				PreyEnergy:   nb.Agent.Energy,
				PreyPosition: nb.Agent.Position,
			})
			break
		}
	}

	return catches
}
