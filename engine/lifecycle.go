package engine

import (
	"github.com/RegiByte/emergent-boids-sub003/components"
	"github.com/RegiByte/emergent-boids-sub003/randsrc"
	"github.com/RegiByte/emergent-boids-sub003/systems"
)

// RunLifecycle runs the lifecycle manager's pure stage and applies its
// Changes in this order: remove dead → add offspring respecting caps →
// global cull → food updates → death-marker updates. Deaths are not
// dispatched before removal: the caller receives them in the returned
// TickEvents only after the dead agents are gone (each DeathEvent carries
// the agent's TypeID and position).
func (s *State) RunLifecycle(deltaSeconds float64) TickEvents {
	agents := make([]systems.LifecycleAgent, 0, len(s.byID))
	query := s.filter.Query()
	for query.Next() {
		identity, transform, _, vitals, stanceState, _ := query.Get()
		agents = append(agents, systems.LifecycleAgent{
			ID:                   identity.ID,
			TypeID:               identity.TypeID,
			Role:                 s.profile.Species[identity.TypeID].Role,
			Position:             systems.Vec2{X: transform.Position.X, Y: transform.Position.Y},
			Stance:               stanceState.Current,
			Energy:               vitals.Energy,
			Age:                  vitals.Age,
			ReproductionCooldown: vitals.ReproductionCooldown,
			EatingCooldown:       vitals.EatingCooldown,
			MateID:               vitals.MateID,
			HasMate:              vitals.HasMate,
			MatingBuildupCounter: vitals.MatingBuildupCounter,
			IsDead:               vitals.IsDead,
		})
	}

	in := systems.LifecycleInput{
		Agents:       agents,
		Species:      s.profile.Species,
		Params:       s.profile.Parameters,
		FoodSources:  s.foodSources,
		DeltaSeconds: deltaSeconds,
		Frame:        s.frame,
		FoodEaters:   s.foodEaters(agents),
		WorldWidth:   s.profile.World.Width,
		WorldHeight:  s.profile.World.Height,
		Rng:          s.rng.Domain(randsrc.DomainSpawn),
	}
	changes := systems.ComputeLifecycle(in)

	// Apply aging/energy/cooldown updates before removals, so removal
	// only ever drops agents the pure stage already decided are dead.
	for id, age := range changes.AgeUpdates {
		if e, ok := s.byID[id]; ok {
			if v := s.vitalsMap.Get(e); v != nil {
				v.Age = age
			}
		}
	}
	for id, delta := range changes.EnergyUpdates {
		if e, ok := s.byID[id]; ok {
			if v := s.vitalsMap.Get(e); v != nil {
				v.Energy = delta
			}
		}
	}
	for id, cd := range changes.CooldownUpdates {
		if e, ok := s.byID[id]; ok {
			if v := s.vitalsMap.Get(e); v != nil {
				v.ReproductionCooldown = cd
			}
		}
	}

	// Remove dead. The caller sees changes.Deaths only after this, via
	// the returned TickEvents.
	for _, d := range changes.Deaths {
		s.removeAgent(d.AgentID)
	}

	// Add offspring respecting caps.
	for _, o := range changes.Offspring {
		sp, ok := s.profile.Species[o.TypeID]
		if !ok {
			continue
		}
		if s.PopulationCount(sp.Role) >= s.MaxPopulation(sp.Role) {
			continue
		}
		s.spawnAgent(sp, toR2Vec(o.Position), o.Energy)
	}

	s.enforceGlobalCap()

	for _, fd := range changes.FoodDeltas {
		switch {
		case fd.Add != nil:
			f := *fd.Add
			f.ID = s.nextFoodID
			s.nextFoodID++
			s.foodSources = append(s.foodSources, f)
		case fd.Update != nil:
			for i := range s.foodSources {
				if s.foodSources[i].ID == fd.Update.ID {
					s.foodSources[i].Energy = fd.Update.NewEnergy
				}
			}
		case fd.Remove != 0:
			for i := range s.foodSources {
				if s.foodSources[i].ID == fd.Remove {
					s.foodSources = append(s.foodSources[:i], s.foodSources[i+1:]...)
					break
				}
			}
		}
	}

	for _, md := range changes.MarkerDeltas {
		s.addOrStrengthenMarker(md)
	}

	return TickEvents{Deaths: changes.Deaths, Reproductions: changes.Reproductions}
}

// enforceGlobalCap culls agents at random (spawn domain) until the
// population is at or under maxBoids, spec §4.7's hard safety valve.
func (s *State) enforceGlobalCap() {
	max := s.profile.Parameters.MaxBoids
	if max <= 0 {
		return
	}
	ids := make([]components.AgentID, 0, len(s.byID))
	for id := range s.byID {
		ids = append(ids, id)
	}
	if len(ids) <= max {
		return
	}
	spawn := s.rng.Domain(randsrc.DomainSpawn)
	for len(ids) > max {
		i := spawn.PickIndex(len(ids))
		s.removeAgent(ids[i])
		ids[i] = ids[len(ids)-1]
		ids = ids[:len(ids)-1]
	}
}

// addOrStrengthenMarker merges a new death-marker delta into an existing
// marker within the consolidation radius, or appends a fresh one.
func (s *State) addOrStrengthenMarker(md systems.MarkerDelta) {
	for i := range s.markers {
		m := &s.markers[i]
		dx := m.Position.X - md.Position.X
		dy := m.Position.Y - md.Position.Y
		if dx*dx+dy*dy <= systems.DeathMarkerConsolidationRadius*systems.DeathMarkerConsolidationRadius {
			m.Strength = minf(m.Strength+md.Strength, 5)
			m.RemainingTicks = systems.DeathMarkerBaseLifetimeTicks
			return
		}
	}
	s.markers = append(s.markers, components.DeathMarker{
		Position:         toR2Vec(md.Position),
		RemainingTicks:   systems.DeathMarkerBaseLifetimeTicks,
		Strength:         md.Strength,
		MaxLifetimeTicks: systems.DeathMarkerBaseLifetimeTicks,
		TypeID:           md.TypeID,
	})
}

func (s *State) foodEaters(agents []systems.LifecycleAgent) map[uint32][]components.AgentID {
	result := make(map[uint32][]components.AgentID)
	for _, a := range agents {
		if a.Stance != components.StanceEating || a.IsDead {
			continue
		}
		sp, ok := s.profile.Species[a.TypeID]
		if !ok {
			continue
		}
		view := systems.AgentView{ID: a.ID, Role: sp.Role, Position: a.Position}
		food := s.nearestFood(view, sp)
		if food == nil {
			continue
		}
		radius := s.profile.Parameters.CatchRadius
		if food.DistSq > radius*radius {
			continue
		}
		result[food.ID] = append(result[food.ID], a.ID)
	}
	return result
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
