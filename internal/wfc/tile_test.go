package wfc

import "testing"

func TestTileValid(t *testing.T) {
	tests := []struct {
		tile Tile
		want bool
	}{
		{TileNone, false},
		{Tile(1), true},
		{Tile(7), true},
		{Tile(-1), false},
	}

	for _, tc := range tests {
		if got := tc.tile.Valid(); got != tc.want {
			t.Errorf("Tile(%d).Valid() = %v, want %v", tc.tile, got, tc.want)
		}
	}
}

func TestTileGridAt(t *testing.T) {
	g := NewTileGrid(4, 3)

	for _, p := range g.Bounds().Positions() {
		if g.Committed(p) {
			t.Errorf("Committed(%v) = true on a fresh grid", p)
		}
		if tile := g.At(p); tile != TileNone {
			t.Errorf("At(%v) = %v on a fresh grid, want TileNone", p, tile)
		}
	}

	p := Position{X: 2, Y: 1}
	g.set(p, Tile(3))

	if tile := g.At(p); tile != Tile(3) {
		t.Errorf("At(%v) = %v after set, want 3", p, tile)
	}
	if !g.Committed(p) {
		t.Errorf("Committed(%v) = false after set", p)
	}

	g.clear(p)
	if g.Committed(p) {
		t.Errorf("Committed(%v) = true after clear", p)
	}
}

func TestTileGridContains(t *testing.T) {
	g := NewTileGrid(3, 2)

	tests := []struct {
		p    Position
		want bool
	}{
		{Position{0, 0}, true},
		{Position{2, 1}, true},
		{Position{3, 1}, false},
		{Position{2, 2}, false},
		{Position{-1, 0}, false},
		{Position{0, -1}, false},
	}

	for _, tc := range tests {
		if got := g.Contains(tc.p); got != tc.want {
			t.Errorf("Contains(%v) = %v, want %v", tc.p, got, tc.want)
		}
	}
}

func TestTileGridSnapshot(t *testing.T) {
	g := NewTileGrid(2, 2)
	g.set(Position{X: 1, Y: 0}, Tile(2))

	snap := g.Snapshot()
	if len(snap) != 4 {
		t.Fatalf("Snapshot() length = %d, want 4", len(snap))
	}
	if snap[1] != Tile(2) {
		t.Errorf("Snapshot()[1] = %v, want 2", snap[1])
	}

	// Snapshot must be detached from the grid.
	snap[0] = Tile(9)
	if g.At(Position{X: 0, Y: 0}) == Tile(9) {
		t.Error("mutating a snapshot changed the grid")
	}
}
