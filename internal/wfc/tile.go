package wfc

// Tile is a value drawn from a dense index set {0, ..., N-1}. Index 0 is the
// reserved "unset" sentinel and is never committed by the solver; callers
// layer meaning (terrain, color, room type) on the remaining indices.
type Tile int

// TileNone is the unset sentinel tile.
const TileNone Tile = 0

// Valid reports whether the tile holds a committed (non-sentinel) value.
func (t Tile) Valid() bool {
	return t != TileNone
}

// Index returns the tile's position in its index set.
func (t Tile) Index() int {
	return int(t)
}

// TileFromIndex returns the tile for a dense index.
func TileFromIndex(i int) Tile {
	return Tile(i)
}

// TileGrid is a width x height tile map with a parallel committed mask.
// Both layers are stored in row-major slices so that region resets walk
// memory linearly without reallocation. The mask and the tiles move
// together: a cell is committed exactly when it holds a non-sentinel tile.
type TileGrid struct {
	Width, Height int

	tiles []Tile
	valid []bool
}

// NewTileGrid returns an empty grid: every cell unset and uncommitted.
func NewTileGrid(width, height int) *TileGrid {
	return &TileGrid{
		Width:  width,
		Height: height,
		tiles:  make([]Tile, width*height),
		valid:  make([]bool, width*height),
	}
}

// Bounds returns the region covering the whole grid.
func (g *TileGrid) Bounds() Region {
	return RegionFromSize(g.Width, g.Height)
}

// Contains reports whether the position lies inside the grid.
func (g *TileGrid) Contains(p Position) bool {
	return p.X >= 0 && p.X < g.Width && p.Y >= 0 && p.Y < g.Height
}

func (g *TileGrid) index(p Position) int {
	return p.Y*g.Width + p.X
}

// At returns the tile at a position. Uncommitted cells hold TileNone.
func (g *TileGrid) At(p Position) Tile {
	return g.tiles[g.index(p)]
}

// Committed reports whether the cell at a position has been committed.
func (g *TileGrid) Committed(p Position) bool {
	return g.valid[g.index(p)]
}

// set commits a tile at a position.
func (g *TileGrid) set(p Position, t Tile) {
	i := g.index(p)
	g.tiles[i] = t
	g.valid[i] = true
}

// clear resets the cell at a position to unset and uncommitted.
func (g *TileGrid) clear(p Position) {
	i := g.index(p)
	g.tiles[i] = TileNone
	g.valid[i] = false
}

// Snapshot returns a copy of the tile layer in row-major order.
func (g *TileGrid) Snapshot() []Tile {
	out := make([]Tile, len(g.tiles))
	copy(out, g.tiles)
	return out
}
