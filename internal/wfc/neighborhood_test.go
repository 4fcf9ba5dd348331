package wfc

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNeighborhoodPositions(t *testing.T) {
	g := NewTileGrid(5, 5)

	tests := []struct {
		name   string
		center Position
		metric Metric
		radius int
		want   []Position
	}{
		{
			name:   "chebyshev interior",
			center: Position{2, 2},
			metric: Chebyshev,
			radius: 1,
			want: []Position{
				{1, 1}, {2, 1}, {3, 1},
				{1, 2}, {3, 2},
				{1, 3}, {2, 3}, {3, 3},
			},
		},
		{
			name:   "manhattan interior",
			center: Position{2, 2},
			metric: Manhattan,
			radius: 1,
			want:   []Position{{2, 1}, {1, 2}, {3, 2}, {2, 3}},
		},
		{
			name:   "corner clamps to grid",
			center: Position{0, 0},
			metric: Chebyshev,
			radius: 1,
			want:   []Position{{1, 0}, {0, 1}, {1, 1}},
		},
		{
			name:   "center outside grid",
			center: Position{-1, 2},
			metric: Chebyshev,
			radius: 1,
			want:   []Position{{0, 1}, {0, 2}, {0, 3}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n := NewNeighborhood(g, tc.center, tc.metric, tc.radius)
			if diff := cmp.Diff(tc.want, n.Positions()); diff != "" {
				t.Errorf("Positions() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNeighborhoodEuclideanTrimsCorners(t *testing.T) {
	// With truncated distances the diagonal only falls outside the radius
	// at 3 and beyond: trunc(sqrt(18)) = 4.
	g := NewTileGrid(7, 7)
	n := NewNeighborhood(g, Position{3, 3}, Euclidean, 3)

	positions := n.Positions()
	if len(positions) != 44 {
		t.Errorf("Positions() yielded %d cells, want 44", len(positions))
	}
	for _, corner := range []Position{{0, 0}, {6, 0}, {0, 6}, {6, 6}} {
		for _, p := range positions {
			if p == corner {
				t.Errorf("Positions() includes corner %v beyond the radius", corner)
			}
		}
	}
}

func TestNeighborhoodNeverYieldsCenter(t *testing.T) {
	g := NewTileGrid(4, 4)
	for _, center := range g.Bounds().Positions() {
		n := NewNeighborhood(g, center, Chebyshev, 2)
		for _, p := range n.Positions() {
			if p == center {
				t.Fatalf("neighborhood of %v yielded its own center", center)
			}
			if !g.Contains(p) {
				t.Fatalf("neighborhood of %v yielded out-of-bounds %v", center, p)
			}
		}
	}
}

func TestNeighborhoodCount(t *testing.T) {
	g := NewTileGrid(3, 3)
	g.set(Position{0, 0}, Tile(1))
	g.set(Position{2, 0}, Tile(1))
	g.set(Position{1, 0}, Tile(2))

	n := NewNeighborhood(g, Position{1, 1}, Chebyshev, 1)
	if got := n.Count(Tile(1)); got != 2 {
		t.Errorf("Count(1) = %d, want 2", got)
	}
	if got := n.Count(Tile(2)); got != 1 {
		t.Errorf("Count(2) = %d, want 1", got)
	}
	if got := n.Count(TileNone); got != 5 {
		t.Errorf("Count(TileNone) = %d, want 5", got)
	}
}

func TestNeighborhoodHasOnly(t *testing.T) {
	g := NewTileGrid(3, 3)
	g.set(Position{0, 0}, Tile(1))
	g.set(Position{1, 0}, Tile(1))

	n := NewNeighborhood(g, Position{0, 1}, Manhattan, 1)
	if !n.HasOnly(Tile(1), TileNone) {
		t.Error("HasOnly(1, TileNone) = false, want true")
	}
	if n.HasOnly(Tile(1)) {
		t.Error("HasOnly(1) = true with uncommitted neighbors present")
	}
}

func TestNeighborhoodMostCommon(t *testing.T) {
	g := NewTileGrid(3, 3)
	for _, p := range g.Bounds().Positions() {
		g.set(p, Tile(2))
	}
	g.set(Position{0, 0}, Tile(1))
	g.set(Position{2, 0}, Tile(1))
	g.set(Position{0, 2}, Tile(1))
	g.set(Position{2, 2}, Tile(1))

	n := NewNeighborhood(g, Position{1, 1}, Chebyshev, 1)

	// Four of each: the lower index wins the tie.
	got, ok := n.MostCommon()
	if !ok || got != Tile(1) {
		t.Errorf("MostCommon() = %v, %v, want 1, true", got, ok)
	}

	empty := NewNeighborhood(g, Position{1, 1}, Chebyshev, 0)
	if _, ok := empty.MostCommon(); ok {
		t.Error("MostCommon() on an empty neighborhood reported ok")
	}
}
