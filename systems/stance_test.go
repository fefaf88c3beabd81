package systems

import (
	"testing"

	"github.com/RegiByte/emergent-boids-sub003/components"
	"github.com/RegiByte/emergent-boids-sub003/config"
)

func baseSpecies() config.Species {
	return config.Species{
		ID:   "prey",
		Role: components.RolePrey,
		Movement: config.Movement{
			SeparationWeight: 1, AlignmentWeight: 1, CohesionWeight: 1,
			MaxSpeed: 50, MaxForce: 10, TrailLength: 8,
		},
		Lifecycle: config.Lifecycle{MaxEnergy: 100, FearFactor: 2},
	}
}

func baseParams() config.Parameters {
	return config.Parameters{
		PerceptionRadius:            80,
		FearRadius:                  140,
		ChaseRadius:                 160,
		MateRadius:                  24,
		CatchRadius:                 14,
		MinDistance:                 10,
		MinReproductionAge:          8,
		ReproductionEnergyThreshold: 0.7,
		MatingBuildupTicks:          45,
	}
}

func TestDecideStance_FleeingDominatesWhenPredatorNear(t *testing.T) {
	self := AgentView{ID: 1, Role: components.RolePrey, Stance: components.StanceFlocking, Energy: 50}
	in := StanceInput{
		Self:      self,
		Predators: []NeighborView{{Agent: AgentView{ID: 2, Role: components.RolePredator}, DistSq: 100}},
		Species:   baseSpecies(),
		Params:    baseParams(),
	}

	out := DecideStance(in)
	if out.NextStance != components.StanceFleeing {
		t.Errorf("expected fleeing when a predator is near, got %v", out.NextStance)
	}
	if !out.Changed {
		t.Errorf("expected Changed=true transitioning from flocking to fleeing")
	}
}

func TestDecideStance_FleeingReturnsToFlockingWhenClear(t *testing.T) {
	self := AgentView{ID: 1, Role: components.RolePrey, Stance: components.StanceFleeing}
	in := StanceInput{Self: self, Species: baseSpecies(), Params: baseParams()}

	out := DecideStance(in)
	if out.NextStance != components.StanceFlocking {
		t.Errorf("expected flocking once no predator remains in range, got %v", out.NextStance)
	}
}

func TestDecideStance_SeekingMateRequiresAgeEnergyAndCooldown(t *testing.T) {
	sp := baseSpecies()
	params := baseParams()

	tooYoung := AgentView{ID: 1, Role: components.RolePrey, Stance: components.StanceFlocking, Age: 2, Energy: 90, MaxEnergy: 100}
	out := DecideStance(StanceInput{Self: tooYoung, Species: sp, Params: params})
	if out.NextStance == components.StanceSeekingMate {
		t.Errorf("agent below minReproductionAge should not seek a mate")
	}

	lowEnergy := AgentView{ID: 1, Role: components.RolePrey, Stance: components.StanceFlocking, Age: 10, Energy: 50, MaxEnergy: 100}
	out = DecideStance(StanceInput{Self: lowEnergy, Species: sp, Params: params})
	if out.NextStance == components.StanceSeekingMate {
		t.Errorf("agent below the energy threshold should not seek a mate")
	}

	coolingDown := AgentView{ID: 1, Role: components.RolePrey, Stance: components.StanceFlocking, Age: 10, Energy: 90, MaxEnergy: 100, ReproductionCooldown: 5}
	out = DecideStance(StanceInput{Self: coolingDown, Species: sp, Params: params})
	if out.NextStance == components.StanceSeekingMate {
		t.Errorf("agent with a nonzero reproduction cooldown should not seek a mate")
	}

	eligible := AgentView{ID: 1, Role: components.RolePrey, Stance: components.StanceFlocking, Age: 10, Energy: 90, MaxEnergy: 100}
	out = DecideStance(StanceInput{Self: eligible, Species: sp, Params: params})
	if out.NextStance != components.StanceSeekingMate {
		t.Errorf("expected seeking_mate once age/energy/cooldown are satisfied, got %v", out.NextStance)
	}
}

func TestDecideStance_MatingClearsOnDeadPartner(t *testing.T) {
	self := AgentView{ID: 1, Role: components.RolePrey, Stance: components.StanceMating, MateID: 2, HasMate: true}
	in := StanceInput{
		Self:        self,
		SameSpecies: []NeighborView{{Agent: AgentView{ID: 2, IsDead: true}, DistSq: 4}},
		Species:     baseSpecies(),
		Params:      baseParams(),
	}

	out := DecideStance(in)
	if out.HasMate {
		t.Errorf("expected mate bond cleared when partner is dead")
	}
	if out.NextStance != components.StanceFlocking {
		t.Errorf("expected fallback to flocking when partner is dead, got %v", out.NextStance)
	}
}

func TestDecideStance_PredatorIdleBelowLowEnergyThreshold(t *testing.T) {
	sp := baseSpecies()
	sp.Role = components.RolePredator
	params := baseParams()
	params.ReproductionEnergyThreshold = 0.5

	self := AgentView{ID: 1, Role: components.RolePredator, Stance: components.StanceHunting, Energy: 10, MaxEnergy: 100}
	out := DecideStance(StanceInput{Self: self, Species: sp, Params: params})
	if out.NextStance != components.StanceIdle {
		t.Errorf("expected idle below the low-energy threshold, got %v", out.NextStance)
	}
}
