package wfc

// Neighborhood is the set of grid positions around a reference position
// within a metric-distance radius. Methods refer to the cells around the
// center, never the center itself. The center may lie outside the grid;
// enumerated positions are always in bounds.
type Neighborhood struct {
	grid   *TileGrid
	center Position
	metric Metric
	radius int
}

// NewNeighborhood returns the neighborhood of center in the given grid.
func NewNeighborhood(grid *TileGrid, center Position, metric Metric, radius int) *Neighborhood {
	return &Neighborhood{
		grid:   grid,
		center: center,
		metric: metric,
		radius: radius,
	}
}

// Center returns the reference position the neighborhood surrounds.
func (n *Neighborhood) Center() Position {
	return n.center
}

// Positions returns the in-bounds positions within the radius, excluding the
// center, in row-major order.
func (n *Neighborhood) Positions() []Position {
	x0 := maxInt(0, n.center.X-n.radius)
	x1 := minInt(n.grid.Width-1, n.center.X+n.radius)
	y0 := maxInt(0, n.center.Y-n.radius)
	y1 := minInt(n.grid.Height-1, n.center.Y+n.radius)

	var out []Position
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			p := Position{X: x, Y: y}
			if p == n.center {
				continue
			}
			if n.metric.Distance(x-n.center.X, y-n.center.Y) > n.radius {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}

// Tiles returns the tile values of the neighborhood in iteration order.
// Uncommitted cells contribute TileNone.
func (n *Neighborhood) Tiles() []Tile {
	positions := n.Positions()
	out := make([]Tile, len(positions))
	for i, p := range positions {
		out[i] = n.grid.At(p)
	}
	return out
}

// Count returns the number of neighbors holding the given tile value.
func (n *Neighborhood) Count(t Tile) int {
	count := 0
	for _, v := range n.Tiles() {
		if v == t {
			count++
		}
	}
	return count
}

// HasOnly reports whether every neighbor holds one of the allowed values.
// An empty neighborhood trivially satisfies any set.
func (n *Neighborhood) HasOnly(allowed ...Tile) bool {
	for _, v := range n.Tiles() {
		found := false
		for _, a := range allowed {
			if v == a {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// MostCommon returns the tile value with the highest occurrence count among
// the neighbors, lowest index winning ties. The second return is false when
// the neighborhood is empty.
func (n *Neighborhood) MostCommon() (Tile, bool) {
	counts := make(map[Tile]int)
	for _, v := range n.Tiles() {
		counts[v]++
	}
	if len(counts) == 0 {
		return TileNone, false
	}

	best := TileNone
	bestCount := -1
	for t, c := range counts {
		if c > bestCount || (c == bestCount && t < best) {
			best = t
			bestCount = c
		}
	}
	return best, true
}
