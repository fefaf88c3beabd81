package engine

import (
	"sort"

	"github.com/mlange-42/ark/ecs"

	"github.com/RegiByte/emergent-boids-sub003/components"
	"github.com/RegiByte/emergent-boids-sub003/config"
	"github.com/RegiByte/emergent-boids-sub003/randsrc"
	"github.com/RegiByte/emergent-boids-sub003/systems"
)

// TickEvents collects the events one fixed step produced, for the caller
// to dispatch onto a control.Bus. Keeping this separate from the control
// package avoids tick.go importing the bus just to enqueue its own
// output.
type TickEvents struct {
	Caughts       []systems.Catch
	Deaths        []systems.DeathEvent
	Reproductions []systems.ReproductionEvent
}

// Step advances the simulation exactly one fixed step: rebuild the
// spatial index, decide stance and steering for every agent, integrate,
// per spec §5's ordering guarantee (rebuild index → stance+steering →
// integrate → lifecycle-if-due → catches-if-due). Lifecycle and catch
// passes are invoked separately by the scheduler's raters.
func (s *State) Step(dt float64) {
	s.rebuildGrid()

	physics := s.rng.Domain(randsrc.DomainPhysics)

	type decision struct {
		entity ecs.Entity
		stance systems.StanceOutput
		accel  systems.Vec2
	}
	decisions := make([]decision, 0, len(s.byID))

	query := s.filter.Query()
	for query.Next() {
		identity, transform, _, vitals, stanceState, _ := query.Get()
		sp, ok := s.profile.Species[identity.TypeID]
		if !ok || vitals.IsDead {
			continue
		}

		self := s.agentView(identity, transform, vitals, stanceState)
		same, predators, prey := s.neighborsOf(query.Entity(), identity, transform, sp)
		food := s.nearestFood(self, sp)

		stIn := systems.StanceInput{
			Self:        self,
			SameSpecies: same,
			Predators:   predators,
			PreyInChaseRange: prey,
			NearestFood: food,
			Species:     sp,
			Params:      s.profile.Parameters,
			Frame:       s.frame,
		}
		out := systems.DecideStance(stIn)

		w, h := s.profile.World.Width, s.profile.World.Height

		var mateDelta systems.Vec2
		hasMate := out.HasMate
		if hasMate {
			if partnerEntity, ok := s.byID[out.MateID]; ok {
				if pt := s.transformMap.Get(partnerEntity); pt != nil {
					dx, dy := systems.ToroidalDelta(transform.Position.X, transform.Position.Y, pt.Position.X, pt.Position.Y, w, h)
					mateDelta = systems.Vec2{X: dx, Y: dy}
				} else {
					hasMate = false
				}
			} else {
				hasMate = false
			}
		}

		var foodDelta systems.Vec2
		hasFood := food != nil
		if hasFood {
			dx, dy := systems.ToroidalDelta(transform.Position.X, transform.Position.Y, food.Position.X, food.Position.Y, w, h)
			foodDelta = systems.Vec2{X: dx, Y: dy}
		}

		ctx := systems.SteeringContext{
			Stance:    out.NextStance,
			Self:      self,
			Same:      same,
			Predators: predators,
			Prey:      prey,
			MateDelta: mateDelta,
			HasMate:   hasMate,
			FoodDelta: foodDelta,
			HasFood:   hasFood,
			Obstacles: s.obstacleViews(),
			Markers:   s.markerViews(),
			Species:   sp,
			Params:    s.profile.Parameters,
			RNG:       physics,
		}
		accel := systems.Steer(ctx)

		decisions = append(decisions, decision{entity: query.Entity(), stance: out, accel: accel})
	}

	for _, d := range decisions {
		identity := s.identityMap.Get(d.entity)
		transform := s.transformMap.Get(d.entity)
		vitals := s.vitalsMap.Get(d.entity)
		stanceState := s.stanceMap.Get(d.entity)
		trail := s.trailMap.Get(d.entity)
		sp := s.profile.Species[identity.TypeID]

		if d.stance.Changed {
			stanceState.Current = d.stance.NextStance
			stanceState.EnteredAtFrame = s.frame
		}
		vitals.MateID = d.stance.MateID
		vitals.HasMate = d.stance.HasMate
		vitals.MatingBuildupCounter = d.stance.MatingBuildupCounter

		systems.Integrate(transform, trail, d.accel, dt, sp.Movement.MaxForce, sp.Movement.MaxSpeed, s.profile.World.Width, s.profile.World.Height)
	}

	s.time.Tick(dt * 1000)
	s.frame++

	s.tickMarkers()
}

func (s *State) rebuildGrid() {
	s.grid.Clear()
	query := s.filter.Query()
	for query.Next() {
		_, transform, _, vitals, _, _ := query.Get()
		if vitals.IsDead {
			continue
		}
		s.grid.Insert(query.Entity(), transform.Position.X, transform.Position.Y)
	}
}

func (s *State) lookupPosition(e ecs.Entity) (float64, float64, bool) {
	t := s.transformMap.Get(e)
	if t == nil {
		return 0, 0, false
	}
	return t.Position.X, t.Position.Y, true
}

func (s *State) agentView(identity *components.Identity, transform *components.Transform, vitals *components.Vitals, stanceState *components.StanceState) systems.AgentView {
	sp := s.profile.Species[identity.TypeID]
	return systems.AgentView{
		ID:                   identity.ID,
		TypeID:               identity.TypeID,
		Role:                 sp.Role,
		Position:             systems.Vec2{X: transform.Position.X, Y: transform.Position.Y},
		Velocity:             systems.Vec2{X: transform.Velocity.X, Y: transform.Velocity.Y},
		Stance:               stanceState.Current,
		Energy:               vitals.Energy,
		MaxEnergy:            sp.Lifecycle.MaxEnergy,
		Age:                  vitals.Age,
		ReproductionCooldown: vitals.ReproductionCooldown,
		EatingCooldown:       vitals.EatingCooldown,
		MateID:               vitals.MateID,
		HasMate:              vitals.HasMate,
		MatingBuildupCounter: vitals.MatingBuildupCounter,
		IsDead:               vitals.IsDead,
	}
}

// neighborsOf queries the grid once around self and buckets results into
// same-species, predator, and in-chase-range-prey views, each sorted by
// (distSq, id) per the spec's deterministic tie-break.
func (s *State) neighborsOf(self ecs.Entity, identity *components.Identity, transform *components.Transform, sp config.Species) (same, predators, prey []systems.NeighborView) {
	params := s.profile.Parameters
	radius := params.PerceptionRadius
	for _, r := range []float64{params.FearRadius, params.ChaseRadius, params.MateRadius} {
		if r > radius {
			radius = r
		}
	}

	buf := s.neighborScratch[:0]
	buf = s.grid.QueryRadiusInto(buf, transform.Position.X, transform.Position.Y, radius, self, s.lookupPosition)
	s.neighborScratch = buf

	for _, n := range buf {
		nIdentity := s.identityMap.Get(n.Entity)
		nTransform := s.transformMap.Get(n.Entity)
		nVitals := s.vitalsMap.Get(n.Entity)
		nStance := s.stanceMap.Get(n.Entity)
		if nIdentity == nil || nVitals == nil {
			continue
		}
		nSp, ok := s.profile.Species[nIdentity.TypeID]
		if !ok {
			continue
		}

		view := systems.AgentView{
			ID:                   nIdentity.ID,
			TypeID:               nIdentity.TypeID,
			Role:                 nSp.Role,
			Position:             systems.Vec2{X: nTransform.Position.X, Y: nTransform.Position.Y},
			Velocity:             systems.Vec2{X: nTransform.Velocity.X, Y: nTransform.Velocity.Y},
			Stance:               nStance.Current,
			Energy:               nVitals.Energy,
			MaxEnergy:            nSp.Lifecycle.MaxEnergy,
			Age:                  nVitals.Age,
			ReproductionCooldown: nVitals.ReproductionCooldown,
			EatingCooldown:       nVitals.EatingCooldown,
			MateID:               nVitals.MateID,
			HasMate:              nVitals.HasMate,
			MatingBuildupCounter: nVitals.MatingBuildupCounter,
			IsDead:               nVitals.IsDead,
		}
		nb := systems.NeighborView{Agent: view, DistSq: n.DistSq, DX: n.DX, DY: n.DY}

		if nSp.Role == components.RolePredator && n.DistSq <= params.FearRadius*params.FearRadius {
			predators = append(predators, nb)
		}
		if nIdentity.TypeID == identity.TypeID && n.DistSq <= params.PerceptionRadius*params.PerceptionRadius {
			same = append(same, nb)
		}
		if sp.Role == components.RolePredator && nSp.Role == components.RolePrey && n.DistSq <= params.ChaseRadius*params.ChaseRadius {
			prey = append(prey, nb)
		}
	}

	sort.Slice(same, func(i, j int) bool { return lessNeighbor(same[i], same[j]) })
	sort.Slice(predators, func(i, j int) bool { return lessNeighbor(predators[i], predators[j]) })
	sort.Slice(prey, func(i, j int) bool { return lessNeighbor(prey[i], prey[j]) })

	return same, predators, prey
}

func lessNeighbor(a, b systems.NeighborView) bool {
	if a.DistSq != b.DistSq {
		return a.DistSq < b.DistSq
	}
	return a.Agent.ID < b.Agent.ID
}
