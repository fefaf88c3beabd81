package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/RegiByte/emergent-boids-sub003/components"
)

// Integrate advances one agent's transform by one fixed step, per spec
// §4.5: clamp acceleration to maxForce, integrate velocity clamped to
// maxSpeed, wrap position on both axes (full torus, unlike the teacher's
// X-wrap/Y-bounce physics), then append to the trail.
func Integrate(t *components.Transform, trail *components.Trail, accel Vec2, dt, maxForce, maxSpeed, width, height float64) {
	a := vecLimit(r2.Vec{X: accel.X, Y: accel.Y}, maxForce)
	t.Acceleration = a

	v := r2.Vec{X: t.Velocity.X + a.X*dt, Y: t.Velocity.Y + a.Y*dt}
	v = vecLimit(v, maxSpeed)
	t.Velocity = v

	p := r2.Vec{X: t.Position.X + v.X*dt, Y: t.Position.Y + v.Y*dt}
	p.X = wrapCoord(p.X, width)
	p.Y = wrapCoord(p.Y, height)
	t.Position = p

	trail.Append(p)
}

// wrapCoord folds a coordinate into [0, span) — math.Mod retains the sign
// of the dividend, so a second addition is needed for negative values.
func wrapCoord(v, span float64) float64 {
	if span <= 0 {
		return 0
	}
	v = math.Mod(v, span)
	if v < 0 {
		v += span
	}
	return v
}
