package systems

import "testing"

func TestToroidalDelta_WrapsShortestPath(t *testing.T) {
	dx, dy := ToroidalDelta(10, 10, 990, 10, 1000, 1000)
	if dx != -20 {
		t.Errorf("expected dx=-20 (wrap around), got %v", dx)
	}
	if dy != 0 {
		t.Errorf("expected dy=0, got %v", dy)
	}
}

func TestToroidalDelta_NoWrapWhenClose(t *testing.T) {
	dx, dy := ToroidalDelta(500, 500, 510, 505, 1000, 1000)
	if dx != 10 || dy != 5 {
		t.Errorf("expected dx=10,dy=5, got dx=%v,dy=%v", dx, dy)
	}
}

func TestToroidalDistance_MatchesDeltaMagnitude(t *testing.T) {
	d := ToroidalDistance(0, 0, 3, 4, 1000, 1000)
	if d != 5 {
		t.Errorf("expected distance 5 (3-4-5 triangle), got %v", d)
	}
}

func TestCellSizeFor_ClampsToCollisionRadius(t *testing.T) {
	size := CellSizeFor(5, 5, 5, 5, 50)
	if size != 100 {
		t.Errorf("expected cell size clamped to 2*maxCollisionRadius=100, got %v", size)
	}
}

func TestCellSizeFor_UsesLargestRadius(t *testing.T) {
	size := CellSizeFor(80, 160, 140, 24, 5)
	if size != 160 {
		t.Errorf("expected cell size = chaseRadius (160), got %v", size)
	}
}

func TestWrapIndex_HandlesNegativeAndOverflow(t *testing.T) {
	if got := wrapIndex(-1, 5); got != 4 {
		t.Errorf("wrapIndex(-1, 5) = %d, want 4", got)
	}
	if got := wrapIndex(5, 5); got != 0 {
		t.Errorf("wrapIndex(5, 5) = %d, want 0", got)
	}
	if got := wrapIndex(2, 5); got != 2 {
		t.Errorf("wrapIndex(2, 5) = %d, want 2", got)
	}
}

func TestNewGrid_DimensionsCoverWorld(t *testing.T) {
	g := NewGrid(1000, 1000, 80)
	if g.cols < 12 || g.rows < 12 {
		t.Errorf("expected at least 12x12 cells for a 1000x1000 world at cell size 80, got %dx%d", g.cols, g.rows)
	}
}
