// Package systems implements the simulation's per-tick pipeline: the
// spatial index, stance machine, steering/integrator, catch detector, and
// lifecycle manager.
package systems

import (
	"github.com/mlange-42/ark/ecs"
)

// Neighbor holds a nearby entity with precomputed spatial data, avoiding
// recomputation of toroidal delta and distance in the stance machine and
// catch detector (adapted directly from the teacher's systems/spatial.go).
type Neighbor struct {
	Entity ecs.Entity
	DX, DY float64 // toroidal delta from the query origin
	DistSq float64 // squared distance, avoids sqrt in the hot path
}

// MaxQueryResults caps the number of neighbors returned by a spatial
// query, preventing density spikes from causing unbounded work.
const MaxQueryResults = 256

// Grid is a uniform grid keyed by cell, supporting insert, clear, and
// radius queries with toroidal wrap (spec §4.3). It is cleared and rebuilt
// once per simulation tick before any neighbor query.
type Grid struct {
	cellSize      float64
	cols, rows    int
	width, height float64
	cells         [][]ecs.Entity
}

// NewGrid creates a grid covering [0,width)x[0,height) with the given cell
// size. cellSize should be ~= max(perceptionRadius, chaseRadius,
// fearRadius, mateRadius) clamped to at least twice the largest collision
// radius (see CellSizeFor).
func NewGrid(width, height, cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = 1
	}
	cols := int(width/cellSize) + 1
	rows := int(height/cellSize) + 1
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	cells := make([][]ecs.Entity, cols*rows)
	for i := range cells {
		cells[i] = make([]ecs.Entity, 0, 8)
	}

	return &Grid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		width:    width,
		height:   height,
		cells:    cells,
	}
}

// Clear empties every cell without releasing backing arrays.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds an entity to the grid at the given position.
func (g *Grid) Insert(e ecs.Entity, x, y float64) {
	idx := g.cellIndex(x, y)
	g.cells[idx] = append(g.cells[idx], e)
}

// PositionLookup resolves an entity's current position, reporting false
// if the entity no longer exists (e.g. removed earlier this tick).
type PositionLookup func(e ecs.Entity) (x, y float64, ok bool)

// QueryRadiusInto finds entities within radius of (x,y) and appends them
// to dst (reuse dst across calls to avoid allocation). Radius larger than
// half the world is clamped, preventing the search disc from wrapping onto
// itself twice (spec §4.3 edge case).
func (g *Grid) QueryRadiusInto(dst []Neighbor, x, y, radius float64, exclude ecs.Entity, lookup PositionLookup) []Neighbor {
	if maxR := g.width / 2; radius > maxR {
		radius = maxR
	}
	if maxR := g.height / 2; radius > maxR {
		radius = maxR
	}

	cellRadius := int(radius/g.cellSize) + 1
	centerCol := int(x / g.cellSize)
	centerRow := int(y / g.cellSize)
	radiusSq := radius * radius

	for dc := -cellRadius; dc <= cellRadius; dc++ {
		col := wrapIndex(centerCol+dc, g.cols)
		for dr := -cellRadius; dr <= cellRadius; dr++ {
			row := wrapIndex(centerRow+dr, g.rows)
			idx := row*g.cols + col

			for _, e := range g.cells[idx] {
				if e == exclude {
					continue
				}
				ex, ey, ok := lookup(e)
				if !ok {
					continue
				}

				dx, dy := ToroidalDelta(x, y, ex, ey, g.width, g.height)
				distSq := dx*dx + dy*dy
				if distSq <= radiusSq {
					dst = append(dst, Neighbor{Entity: e, DX: dx, DY: dy, DistSq: distSq})
					if len(dst) >= MaxQueryResults {
						return dst
					}
				}
			}
		}
	}

	return dst
}

func wrapIndex(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// cellIndex returns the flat index for a world position, clamping to the
// valid range so a position exactly at a boundary never indexes out of
// bounds.
func (g *Grid) cellIndex(x, y float64) int {
	col := int(x / g.cellSize)
	row := int(y / g.cellSize)
	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}
	return row*g.cols + col
}

// ToroidalDelta returns the shortest-path delta from (x1,y1) to (x2,y2) on
// a w x h torus.
func ToroidalDelta(x1, y1, x2, y2, w, h float64) (dx, dy float64) {
	dx = x2 - x1
	dy = y2 - y1
	if dx > w/2 {
		dx -= w
	} else if dx < -w/2 {
		dx += w
	}
	if dy > h/2 {
		dy -= h
	} else if dy < -h/2 {
		dy += h
	}
	return dx, dy
}

// ToroidalDistance returns the shortest-path Euclidean distance on the
// torus.
func ToroidalDistance(x1, y1, x2, y2, w, h float64) float64 {
	dx, dy := ToroidalDelta(x1, y1, x2, y2, w, h)
	return sqrt(dx*dx + dy*dy)
}

// CellSizeFor derives the grid cell size from the profile's radii per spec
// §4.3: max(perception, chase, fear, mate) clamped to at least twice the
// largest collision radius.
func CellSizeFor(perception, chase, fear, mate, maxCollisionRadius float64) float64 {
	size := perception
	if chase > size {
		size = chase
	}
	if fear > size {
		size = fear
	}
	if mate > size {
		size = mate
	}
	if minSize := maxCollisionRadius * 2; size < minSize {
		size = minSize
	}
	if size <= 0 {
		size = 1
	}
	return size
}
