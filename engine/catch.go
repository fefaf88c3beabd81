package engine

import (
	"github.com/RegiByte/emergent-boids-sub003/components"
	"github.com/RegiByte/emergent-boids-sub003/systems"
)

// RunCatches runs the catch detector (spec §4.6) at its own rater
// cadence: each hunting predator claims at most one prey within
// catchRadius, ties broken by smallest prey id. Each catch removes the
// prey, credits the predator's energy, and deposits a predator food
// source at the kill site.
func (s *State) RunCatches() []systems.Catch {
	stances := make(map[components.AgentID]components.Stance)
	candidates := make([]systems.CatchCandidate, 0)

	query := s.filter.Query()
	for query.Next() {
		identity, transform, _, vitals, stanceState, _ := query.Get()
		if vitals.IsDead {
			continue
		}
		stances[identity.ID] = stanceState.Current
		sp, ok := s.profile.Species[identity.TypeID]
		if !ok || sp.Role != components.RolePredator || stanceState.Current != components.StanceHunting {
			continue
		}

		self := s.agentView(identity, transform, vitals, stanceState)
		_, _, prey := s.neighborsOf(query.Entity(), identity, transform, sp)
		inRange := prey[:0]
		radius := s.profile.Parameters.CatchRadius
		for _, nb := range prey {
			if nb.DistSq <= radius*radius {
				inRange = append(inRange, nb)
			}
		}
		_ = self
		candidates = append(candidates, systems.CatchCandidate{PredatorID: identity.ID, Prey: inRange})
	}

	catches := systems.DetectCatches(candidates, stances)

	for _, c := range catches {
		if predEntity, ok := s.byID[c.PredatorID]; ok {
			if v := s.vitalsMap.Get(predEntity); v != nil {
				sp := s.profile.Species[s.identityMap.Get(predEntity).TypeID]
				v.Energy = minf(v.Energy+sp.Lifecycle.EnergyGainRate, sp.Lifecycle.MaxEnergy)
			}
		}
		if preyEntity, ok := s.byID[c.PreyID]; ok {
			if v := s.vitalsMap.Get(preyEntity); v != nil {
				v.IsDead = true
				v.DeathReason = components.DeathReasonPredation
			}
		}
		s.removeAgent(c.PreyID)

		if s.countFood(components.FoodSourcePredator) < systems.MaxPredatorFoodSources {
			s.foodSources = append(s.foodSources, components.FoodSource{
				ID:          s.nextFoodID,
				Position:    toR2Vec(c.PreyPosition),
				Energy:      c.PreyEnergy * systems.PREDATOR_FOOD_FROM_PREY_MULTIPLIER,
				MaxEnergy:   c.PreyEnergy * systems.PREDATOR_FOOD_FROM_PREY_MULTIPLIER,
				SourceType:  components.FoodSourcePredator,
				CreatedTick: s.frame,
			})
			s.nextFoodID++
		}
	}

	return catches
}

func (s *State) countFood(t components.FoodSourceType) int {
	n := 0
	for _, f := range s.foodSources {
		if f.SourceType == t {
			n++
		}
	}
	return n
}
