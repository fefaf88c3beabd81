package systems

import (
	"github.com/RegiByte/emergent-boids-sub003/components"
	"github.com/RegiByte/emergent-boids-sub003/config"
)

// ObstacleView and MarkerView mirror components.Obstacle/DeathMarker in the
// Vec2 coordinate space steering.go works in.
type ObstacleView struct {
	Position Vec2
	Radius   float64
}

type MarkerView struct {
	Position Vec2
	Strength float64
}

// SteeringContext carries everything Steer needs beyond the stance
// decision itself: the same neighborhoods DecideStance saw, plus obstacles
// and death markers (prey only).
type SteeringContext struct {
	Stance    components.Stance
	Self      AgentView
	Same      []NeighborView
	Predators []NeighborView
	Prey      []NeighborView
	MateDelta Vec2 // toroidal delta from Self to the mate, valid iff HasMate
	HasMate   bool
	FoodDelta Vec2 // toroidal delta from Self to NearestFood, valid iff HasFood
	HasFood   bool
	Obstacles []ObstacleView
	Markers   []MarkerView
	Species   config.Species
	Params    config.Parameters
	RNG       Wanderer
}

// Wanderer supplies randomness for the idle stance's wander term. Kept as
// an interface so steering.go never imports randsrc directly.
type Wanderer interface {
	Range(lo, hi float64) float64
}

// Steer computes the full acceleration contribution for one agent this
// tick: the stance-specific intent, obstacle avoidance, and (for prey)
// death-marker repulsion, all as a weighted sum (spec §4.4).
func Steer(ctx SteeringContext) Vec2 {
	var accel Vec2

	switch ctx.Stance {
	case components.StanceFlocking:
		accel = flockingIntent(ctx)
	case components.StanceFleeing:
		accel = fleeingIntent(ctx)
	case components.StanceSeekingMate:
		accel = seekingMateIntent(ctx)
	case components.StanceMating:
		accel = matingIntent(ctx)
	case components.StanceHunting:
		accel = huntingIntent(ctx)
	case components.StanceIdle:
		accel = idleIntent(ctx)
	case components.StanceEating:
		accel = eatingIntent(ctx)
	}

	accel = addVec(accel, obstacleAvoidance(ctx))
	if ctx.Self.Role == components.RolePrey {
		accel = addVec(accel, markerRepulsion(ctx))
	}

	return accel
}

func flockingIntent(ctx SteeringContext) Vec2 {
	var separation, alignment, cohesionDelta Vec2
	var n int

	for _, nb := range ctx.Same {
		if nb.Agent.IsDead {
			continue
		}
		n++
		d := sqrt(nb.DistSq)
		if d > 0 && d < ctx.Params.MinDistance {
			away := Vec2{X: -nb.DX, Y: -nb.DY}
			separation = addVec(separation, scale(away, 1/d))
		}
		alignment = addVec(alignment, nb.Agent.Velocity)
		cohesionDelta = addVec(cohesionDelta, Vec2{X: nb.DX, Y: nb.DY})
	}

	if n == 0 {
		return Vec2{}
	}

	alignment = scale(alignment, 1/float64(n))
	// cohesionDelta/n is already the delta from Self to the flock's
	// centroid — summing deltas instead of raw positions keeps this
	// correct across a wrap boundary.
	toCenter := scale(cohesionDelta, 1/float64(n))

	m := ctx.Species.Movement
	result := addVec(scale(separation, m.SeparationWeight), scale(alignment, m.AlignmentWeight))
	result = addVec(result, scale(toCenter, m.CohesionWeight))
	return result
}

func fleeingIntent(ctx SteeringContext) Vec2 {
	var repulsion Vec2
	for _, nb := range ctx.Predators {
		d := sqrt(nb.DistSq)
		if d == 0 {
			continue
		}
		away := Vec2{X: -nb.DX, Y: -nb.DY}
		away = scale(away, ctx.Species.Lifecycle.FearFactor/d)
		repulsion = addVec(repulsion, away)
	}

	var separation Vec2
	for _, nb := range ctx.Same {
		d := sqrt(nb.DistSq)
		if d > 0 && d < ctx.Params.MinDistance {
			away := Vec2{X: -nb.DX, Y: -nb.DY}
			separation = addVec(separation, scale(away, 1/d))
		}
	}

	return addVec(repulsion, scale(separation, ctx.Species.Movement.SeparationWeight))
}

func seekingMateIntent(ctx SteeringContext) Vec2 {
	var nearest *NeighborView
	var nearestDistSq float64
	for i := range ctx.Same {
		nb := &ctx.Same[i]
		if nb.Agent.IsDead || nb.Agent.Stance != components.StanceSeekingMate {
			continue
		}
		if nearest == nil || nb.DistSq < nearestDistSq || (nb.DistSq == nearestDistSq && nb.Agent.ID < nearest.Agent.ID) {
			nearest = nb
			nearestDistSq = nb.DistSq
		}
	}
	if nearest == nil {
		return flockingIntent(ctx)
	}
	toward := Vec2{X: nearest.DX, Y: nearest.DY}
	return scale(toward, ctx.Species.Movement.CohesionWeight)
}

func matingIntent(ctx SteeringContext) Vec2 {
	if !ctx.HasMate {
		return Vec2{}
	}
	toward := ctx.MateDelta
	d := length(toward)
	const softCap = 8.0
	if d < softCap {
		return Vec2{}
	}
	return scale(toward, ctx.Species.Movement.CohesionWeight)
}

func huntingIntent(ctx SteeringContext) Vec2 {
	var nearest *NeighborView
	var nearestDistSq float64
	for i := range ctx.Prey {
		nb := &ctx.Prey[i]
		if nb.Agent.IsDead {
			continue
		}
		if nearest == nil || nb.DistSq < nearestDistSq || (nb.DistSq == nearestDistSq && nb.Agent.ID < nearest.Agent.ID) {
			nearest = nb
			nearestDistSq = nb.DistSq
		}
	}
	if nearest == nil {
		return Vec2{}
	}

	// Predicted intercept: lead the target by its current velocity scaled
	// by the closing distance, a cheap first-order intercept estimate,
	// worked entirely in delta space so the lead is wrap-correct too.
	d := sqrt(nearest.DistSq)
	leadTime := d / maxf(ctx.Species.Movement.MaxSpeed, 1)
	toward := Vec2{
		X: nearest.DX + nearest.Agent.Velocity.X*leadTime,
		Y: nearest.DY + nearest.Agent.Velocity.Y*leadTime,
	}
	return scale(toward, ctx.Species.Movement.CohesionWeight)
}

func idleIntent(ctx SteeringContext) Vec2 {
	damping := scale(ctx.Self.Velocity, -0.3)
	if ctx.RNG == nil {
		return damping
	}
	wander := Vec2{X: ctx.RNG.Range(-1, 1), Y: ctx.RNG.Range(-1, 1)}
	return addVec(damping, scale(wander, 0.2))
}

func eatingIntent(ctx SteeringContext) Vec2 {
	if !ctx.HasFood {
		return scale(ctx.Self.Velocity, -0.1)
	}

	d := length(ctx.FoodDelta)
	if d == 0 {
		return scale(ctx.Self.Velocity, -0.1)
	}

	// Orbit: a tangential term (the radius vector rotated 90°) keeps the
	// agent circling the food source, plus a mild inward bias so it
	// settles into a close orbit rather than drifting away.
	radial := scale(ctx.FoodDelta, 1/d)
	tangent := Vec2{X: -radial.Y, Y: radial.X}

	const orbitSpeed = 0.6
	const inwardBias = 0.15
	return addVec(scale(tangent, orbitSpeed), scale(radial, inwardBias))
}

func obstacleAvoidance(ctx SteeringContext) Vec2 {
	const safetyMargin = 12.0
	var total Vec2
	for _, o := range ctx.Obstacles {
		d := distance(ctx.Self.Position.X, ctx.Self.Position.Y, o.Position.X, o.Position.Y)
		threshold := o.Radius + safetyMargin
		if d >= threshold || d == 0 {
			continue
		}
		away := sub(ctx.Self.Position, o.Position)
		strength := (threshold - d) / threshold
		total = addVec(total, scale(away, ctx.Params.ObstacleAvoidanceWeight*strength/d))
	}
	return total
}

func markerRepulsion(ctx SteeringContext) Vec2 {
	var total Vec2
	for _, m := range ctx.Markers {
		d := distance(ctx.Self.Position.X, ctx.Self.Position.Y, m.Position.X, m.Position.Y)
		if d == 0 || d > 150 {
			continue
		}
		away := sub(ctx.Self.Position, m.Position)
		total = addVec(total, scale(away, m.Strength/d))
	}
	return total
}

// Vec2 helpers local to the steering pipeline.

func addVec(a, b Vec2) Vec2   { return Vec2{X: a.X + b.X, Y: a.Y + b.Y} }
func sub(a, b Vec2) Vec2      { return Vec2{X: a.X - b.X, Y: a.Y - b.Y} }
func scale(v Vec2, s float64) Vec2 { return Vec2{X: v.X * s, Y: v.Y * s} }
func length(v Vec2) float64   { return sqrt(v.X*v.X + v.Y*v.Y) }

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
