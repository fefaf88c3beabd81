package systems

import (
	"testing"

	"github.com/RegiByte/emergent-boids-sub003/components"
)

type fixedWanderer struct{ v float64 }

func (f fixedWanderer) Range(lo, hi float64) float64 { return f.v }

func TestSteer_FlockingSeparatesFromCloseNeighbor(t *testing.T) {
	sp := baseSpecies()
	ctx := SteeringContext{
		Stance: components.StanceFlocking,
		Self:   AgentView{ID: 1, Position: Vec2{X: 0, Y: 0}},
		Same: []NeighborView{
			{Agent: AgentView{ID: 2, Position: Vec2{X: 1, Y: 0}}, DistSq: 1, DX: 1, DY: 0},
		},
		Species: sp,
		Params:  baseParams(),
	}

	accel := Steer(ctx)
	if accel.X >= 0 {
		t.Errorf("expected separation to push self away (negative X) from a neighbor at +X, got %+v", accel)
	}
}

func TestSteer_FlockingWithNoNeighborsIsZero(t *testing.T) {
	ctx := SteeringContext{
		Stance:  components.StanceFlocking,
		Self:    AgentView{ID: 1, Position: Vec2{X: 0, Y: 0}},
		Species: baseSpecies(),
		Params:  baseParams(),
	}
	accel := Steer(ctx)
	if accel.X != 0 || accel.Y != 0 {
		t.Errorf("expected zero acceleration with no neighbors, obstacles, or markers, got %+v", accel)
	}
}

func TestSteer_FleeingPushesAwayFromPredator(t *testing.T) {
	sp := baseSpecies()
	ctx := SteeringContext{
		Stance: components.StanceFleeing,
		Self:   AgentView{ID: 1, Position: Vec2{X: 0, Y: 0}},
		Predators: []NeighborView{
			{Agent: AgentView{ID: 9, Position: Vec2{X: 10, Y: 0}}, DistSq: 100, DX: 10, DY: 0},
		},
		Species: sp,
		Params:  baseParams(),
	}

	accel := Steer(ctx)
	if accel.X >= 0 {
		t.Errorf("expected to flee in the -X direction away from a predator at +X, got %+v", accel)
	}
}

func TestSteer_HuntingLeadsMovingPrey(t *testing.T) {
	sp := baseSpecies()
	sp.Role = components.RolePredator
	ctx := SteeringContext{
		Stance: components.StanceHunting,
		Self:   AgentView{ID: 1, Position: Vec2{X: 0, Y: 0}},
		Prey: []NeighborView{
			{Agent: AgentView{ID: 5, Position: Vec2{X: 50, Y: 0}, Velocity: Vec2{X: 10, Y: 0}}, DistSq: 2500, DX: 50, DY: 0},
		},
		Species: sp,
		Params:  baseParams(),
	}

	accel := Steer(ctx)
	if accel.X <= 0 {
		t.Errorf("expected hunting accel to point toward the prey's predicted position (+X), got %+v", accel)
	}
}

func TestSteer_HuntingWithNoPreyIsZero(t *testing.T) {
	sp := baseSpecies()
	sp.Role = components.RolePredator
	ctx := SteeringContext{Stance: components.StanceHunting, Self: AgentView{ID: 1}, Species: sp, Params: baseParams()}
	accel := Steer(ctx)
	if accel.X != 0 || accel.Y != 0 {
		t.Errorf("expected zero acceleration hunting with no prey in range, got %+v", accel)
	}
}

func TestSteer_ObstacleAvoidancePushesAwayWhenInside(t *testing.T) {
	params := baseParams()
	params.ObstacleAvoidanceWeight = 1
	ctx := SteeringContext{
		Stance:    components.StanceFlocking,
		Self:      AgentView{ID: 1, Position: Vec2{X: 0, Y: 0}},
		Obstacles: []ObstacleView{{Position: Vec2{X: 5, Y: 0}, Radius: 10}},
		Species:   baseSpecies(),
		Params:    params,
	}
	accel := Steer(ctx)
	if accel.X >= 0 {
		t.Errorf("expected obstacle avoidance to push away (-X) from an obstacle at +X, got %+v", accel)
	}
}

func TestSteer_IdleDampsVelocityAndWanders(t *testing.T) {
	ctx := SteeringContext{
		Stance:  components.StanceIdle,
		Self:    AgentView{ID: 1, Velocity: Vec2{X: 4, Y: 0}},
		Species: baseSpecies(),
		Params:  baseParams(),
		RNG:     fixedWanderer{v: 1},
	}
	accel := Steer(ctx)
	if accel.X >= 0 {
		t.Errorf("expected idle damping to oppose a +X velocity, got %+v", accel)
	}
}
