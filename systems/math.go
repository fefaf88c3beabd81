package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Clamp functions for common value ranges

// clampFloat clamps a float64 value between min and max.
func clampFloat(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// clamp01 clamps a float64 value to the [0, 1] range.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func sqrt(v float64) float64 {
	return math.Sqrt(v)
}

// Angle normalization functions

// normalizeAngle wraps an angle to [-Pi, Pi].
func normalizeAngle(angle float64) float64 {
	for angle > math.Pi {
		angle -= 2 * math.Pi
	}
	for angle < -math.Pi {
		angle += 2 * math.Pi
	}
	return angle
}

// normalizeHeading wraps a heading to [0, 2*Pi].
func normalizeHeading(h float64) float64 {
	const twoPi = 2 * math.Pi
	for h < 0 {
		h += twoPi
	}
	for h >= twoPi {
		h -= twoPi
	}
	return h
}

// Distance functions

// distanceSq returns the squared distance between two points.
func distanceSq(x1, y1, x2, y2 float64) float64 {
	dx := x1 - x2
	dy := y1 - y2
	return dx*dx + dy*dy
}

// distance returns the Euclidean distance between two points.
func distance(x1, y1, x2, y2 float64) float64 {
	return sqrt(distanceSq(x1, y1, x2, y2))
}

// Vector helpers operating on r2.Vec, used throughout the steering pipeline.

// vecLength returns a vector's magnitude.
func vecLength(v r2.Vec) float64 {
	return sqrt(v.X*v.X + v.Y*v.Y)
}

// vecLimit clamps a vector's magnitude to max, preserving direction.
func vecLimit(v r2.Vec, max float64) r2.Vec {
	l := vecLength(v)
	if l <= max || l == 0 {
		return v
	}
	scale := max / l
	return r2.Vec{X: v.X * scale, Y: v.Y * scale}
}

// vecNormalize returns a unit vector in v's direction, or the zero vector
// if v is the zero vector.
func vecNormalize(v r2.Vec) r2.Vec {
	l := vecLength(v)
	if l == 0 {
		return v
	}
	return r2.Vec{X: v.X / l, Y: v.Y / l}
}

// vecScale multiplies a vector by a scalar.
func vecScale(v r2.Vec, s float64) r2.Vec {
	return r2.Vec{X: v.X * s, Y: v.Y * s}
}
