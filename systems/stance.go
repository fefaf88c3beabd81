package systems

import (
	"github.com/RegiByte/emergent-boids-sub003/components"
	"github.com/RegiByte/emergent-boids-sub003/config"
)

// AgentView is the read-only per-agent snapshot the stance machine and
// steering pipeline reason over. It is deliberately decoupled from the ECS
// storage so both can be unit tested without a live ecs.World.
type AgentView struct {
	ID                   components.AgentID
	TypeID               string
	Role                 components.Role
	Position             Vec2
	Velocity             Vec2
	Stance               components.Stance
	Energy               float64
	MaxEnergy            float64
	Age                  float64
	ReproductionCooldown int
	EatingCooldown       int
	MateID               components.AgentID
	HasMate              bool
	MatingBuildupCounter int
	IsDead               bool
}

// Vec2 mirrors gonum's r2.Vec so systems can avoid importing gonum in
// package-internal pure-decision code paths; integrator.go converts at the
// ECS boundary.
type Vec2 struct {
	X, Y float64
}

// NeighborView pairs a visible agent with its toroidal distance from the
// querying agent, pre-sorted by (distSq, id) per the spec's deterministic
// tie-break. DX/DY is the shortest-path delta from the querying agent to
// Agent on the toroidal world — callers must steer off DX/DY rather than
// subtracting raw positions, which breaks across a wrap boundary.
type NeighborView struct {
	Agent  AgentView
	DistSq float64
	DX, DY float64
}

// FoodView is a food source visible to the stance decision.
type FoodView struct {
	ID         uint32
	Position   Vec2
	DistSq     float64
	SourceType components.FoodSourceType
}

// StanceInput bundles everything DecideStance needs to make a pure
// decision: the agent itself, its sorted same-species and cross-role
// neighbors, the nearest compatible food source, species config, and
// global parameters.
type StanceInput struct {
	Self              AgentView
	SameSpecies       []NeighborView // sorted nearest-first, same typeId
	Predators         []NeighborView // role == predator, any typeId, within fearRadius
	PreyInChaseRange  []NeighborView // role == prey, within chaseRadius (predator only)
	NearestFood       *FoodView
	Species           config.Species
	Params            config.Parameters
	Frame             uint64
	FramesSincePredator int // ticks since any predator was within fearRadius; not read by DecideStance, which returns a fleeing prey to flocking on the first tick with no predator in fearRadius
}

// StanceOutput is the decision: the next stance and any mate-bond updates.
// It never fails (spec §4.4 failure semantics): an absent or dead partner
// always resolves to clearing the bond, never an error.
type StanceOutput struct {
	NextStance           components.Stance
	Changed              bool
	MateID               components.AgentID
	HasMate              bool
	MatingBuildupCounter int
}

func roleDefault(role components.Role) components.Stance {
	if role == components.RolePredator {
		return components.StanceHunting
	}
	return components.StanceFlocking
}

// DecideStance implements the transition table of spec §4.4 as a pure
// function of (agent, neighborhood, species config, parameters). It never
// fails: a missing or dead mate simply clears the bond and falls back to
// the role default.
func DecideStance(in StanceInput) StanceOutput {
	self := in.Self
	out := StanceOutput{
		NextStance:           self.Stance,
		MateID:               self.MateID,
		HasMate:              self.HasMate,
		MatingBuildupCounter: self.MatingBuildupCounter,
	}

	if self.Role == components.RolePredator {
		return decidePredatorStance(in, out)
	}
	return decidePreyStance(in, out)
}

func decidePreyStance(in StanceInput, out StanceOutput) StanceOutput {
	self := in.Self

	// Fleeing dominates every transition except an in-progress mating
	// bond — a mating pair rides out its buildup even with a predator in
	// fearRadius, but eating, seeking, or flocking prey flee immediately.
	if len(in.Predators) > 0 && self.Stance != components.StanceMating {
		return settle(out, components.StanceFleeing, self)
	}

	if self.Stance == components.StanceFleeing {
		return settle(out, components.StanceFlocking, self)
	}

	if self.Stance == components.StanceMating {
		return continueMating(in, out)
	}

	// Eating only applies once fleeing and mating are ruled out above, so
	// it can never preempt either — this also re-evaluates every tick,
	// which is what keeps an already-eating agent eating.
	if eating, ok := tryEating(in, out, self); ok {
		return eating
	}

	if self.Stance == components.StanceSeekingMate {
		if match := findMutualMate(in); match != nil {
			out.MateID = match.Agent.ID
			out.HasMate = true
			out.MatingBuildupCounter = 0
			return settle(out, components.StanceMating, self)
		}
		if !seekingMateEligible(self, in.Species, in.Params) {
			return settle(out, components.StanceFlocking, self)
		}
		return settle(out, components.StanceSeekingMate, self)
	}

	if seekingMateEligible(self, in.Species, in.Params) {
		return settle(out, components.StanceSeekingMate, self)
	}

	return settle(out, components.StanceFlocking, self)
}

func decidePredatorStance(in StanceInput, out StanceOutput) StanceOutput {
	self := in.Self
	lowThreshold := in.Params.ReproductionEnergyThreshold * self.MaxEnergy * 0.5

	if self.Energy < lowThreshold {
		return settle(out, components.StanceIdle, self)
	}
	if self.Stance == components.StanceIdle && self.Energy < in.Species.Lifecycle.MaxEnergy*0.9 {
		// Stay idle until comfortably recovered, avoiding stance chatter
		// right at the threshold.
		return settle(out, components.StanceIdle, self)
	}

	if eating, ok := tryEating(in, out, self); ok {
		return eating
	}

	return settle(out, components.StanceHunting, self)
}

// tryEating reports the eating stance when a compatible food source is
// within consumption range and the cooldown has elapsed. Callers must
// only reach this after ruling out fleeing and mating, so eating never
// preempts either.
func tryEating(in StanceInput, out StanceOutput, self AgentView) (StanceOutput, bool) {
	if in.NearestFood == nil || self.EatingCooldown != 0 {
		return out, false
	}
	radius := foodConsumptionRadius(in.Params)
	if in.NearestFood.DistSq >= radius*radius {
		return out, false
	}
	if !compatibleFood(self.Role, in.NearestFood.SourceType) {
		return out, false
	}
	return settle(out, components.StanceEating, self), true
}

func continueMating(in StanceInput, out StanceOutput) StanceOutput {
	self := in.Self

	partner := findByID(in.SameSpecies, self.MateID)
	if partner == nil || partner.Agent.IsDead {
		out.MateID = 0
		out.HasMate = false
		out.MatingBuildupCounter = 0
		return settle(out, roleDefault(self.Role), self)
	}

	if partner.DistSq > in.Params.MateRadius*in.Params.MateRadius {
		out.MateID = 0
		out.HasMate = false
		out.MatingBuildupCounter = 0
		return settle(out, roleDefault(self.Role), self)
	}

	out.MatingBuildupCounter = self.MatingBuildupCounter + 1
	if out.MatingBuildupCounter >= in.Params.MatingBuildupTicks {
		// Buildup complete; lifecycle.go observes this via the stance
		// transition and emits the reproduction event, then clears the
		// bond on its next pass.
		out.MateID = 0
		out.HasMate = false
		out.MatingBuildupCounter = 0
		return settle(out, roleDefault(self.Role), self)
	}

	return settle(out, components.StanceMating, self)
}

// findMutualMate looks for a same-species seeking_mate agent within
// mateRadius. The tie-break is symmetric: the lower agent id always wins,
// so both sides of a pair independently compute the same partner.
func findMutualMate(in StanceInput) *NeighborView {
	self := in.Self
	for i := range in.SameSpecies {
		n := &in.SameSpecies[i]
		if n.Agent.IsDead || n.Agent.Stance != components.StanceSeekingMate {
			continue
		}
		if n.DistSq > in.Params.MateRadius*in.Params.MateRadius {
			continue
		}
		if !seekingMateEligible(n.Agent, in.Species, in.Params) {
			continue
		}
		return n
	}
	return nil
}

func findByID(neighbors []NeighborView, id components.AgentID) *NeighborView {
	for i := range neighbors {
		if neighbors[i].Agent.ID == id {
			return &neighbors[i]
		}
	}
	return nil
}

func seekingMateEligible(a AgentView, species config.Species, params config.Parameters) bool {
	if a.ReproductionCooldown != 0 {
		return false
	}
	if a.Age < params.MinReproductionAge {
		return false
	}
	threshold := params.ReproductionEnergyThreshold * species.Lifecycle.MaxEnergy
	return a.Energy >= threshold
}

func compatibleFood(role components.Role, sourceType components.FoodSourceType) bool {
	if role == components.RolePredator {
		return sourceType == components.FoodSourcePredator
	}
	return sourceType == components.FoodSourcePrey
}

func foodConsumptionRadius(params config.Parameters) float64 {
	if params.CatchRadius > 0 {
		return params.CatchRadius
	}
	return 10
}

func settle(out StanceOutput, next components.Stance, self AgentView) StanceOutput {
	out.NextStance = next
	out.Changed = next != self.Stance
	return out
}
