package wfc

// Position is an integer cell coordinate in a grid.
type Position struct {
	X, Y int
}

// Add returns the position offset by dx, dy.
func (p Position) Add(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Region is an axis-aligned rectangle of grid positions. Both corners are
// inclusive, so a Region covering a single cell has TopLeft == BottomRight.
type Region struct {
	TopLeft     Position
	BottomRight Position
}

// RegionFromSize returns the region anchored at the origin covering a
// width x height area.
func RegionFromSize(width, height int) Region {
	return Region{
		TopLeft:     Position{X: 0, Y: 0},
		BottomRight: Position{X: width - 1, Y: height - 1},
	}
}

// RegionFromCorners returns the region spanning two inclusive corners.
// The corners may be given in any order.
func RegionFromCorners(a, b Position) Region {
	return Region{
		TopLeft:     Position{X: minInt(a.X, b.X), Y: minInt(a.Y, b.Y)},
		BottomRight: Position{X: maxInt(a.X, b.X), Y: maxInt(a.Y, b.Y)},
	}
}

// RegionAround returns the square region of the given radius centered on a
// position. The top-left corner is clamped to non-negative coordinates; the
// bottom-right corner is not clamped, callers intersect against grid bounds.
func RegionAround(center Position, radius int) Region {
	return Region{
		TopLeft: Position{
			X: maxInt(0, center.X-radius),
			Y: maxInt(0, center.Y-radius),
		},
		BottomRight: Position{X: center.X + radius, Y: center.Y + radius},
	}
}

// Width returns the number of columns covered, 0 for an empty region.
func (r Region) Width() int {
	w := r.BottomRight.X - r.TopLeft.X + 1
	if w < 0 {
		return 0
	}
	return w
}

// Height returns the number of rows covered, 0 for an empty region.
func (r Region) Height() int {
	h := r.BottomRight.Y - r.TopLeft.Y + 1
	if h < 0 {
		return 0
	}
	return h
}

// Empty reports whether the region covers no cells.
func (r Region) Empty() bool {
	return r.Width() == 0 || r.Height() == 0
}

// Center returns the middle position of the region, rounded toward top-left.
func (r Region) Center() Position {
	return Position{
		X: r.TopLeft.X + (r.BottomRight.X-r.TopLeft.X)/2,
		Y: r.TopLeft.Y + (r.BottomRight.Y-r.TopLeft.Y)/2,
	}
}

// Contains reports whether the position lies inside the region.
func (r Region) Contains(p Position) bool {
	return p.X >= r.TopLeft.X && p.X <= r.BottomRight.X &&
		p.Y >= r.TopLeft.Y && p.Y <= r.BottomRight.Y
}

// Intersect returns the overlap of two regions: the greater of the top-left
// corners and the lesser of the bottom-right corners. Intersecting against
// grid bounds clamps a region to the grid; disjoint inputs produce an empty
// region.
func (r Region) Intersect(other Region) Region {
	return Region{
		TopLeft: Position{
			X: maxInt(r.TopLeft.X, other.TopLeft.X),
			Y: maxInt(r.TopLeft.Y, other.TopLeft.Y),
		},
		BottomRight: Position{
			X: minInt(r.BottomRight.X, other.BottomRight.X),
			Y: minInt(r.BottomRight.Y, other.BottomRight.Y),
		},
	}
}

// GrowToInclude returns the smallest region covering both the receiver and
// the given position.
func (r Region) GrowToInclude(p Position) Region {
	return Region{
		TopLeft: Position{
			X: minInt(r.TopLeft.X, p.X),
			Y: minInt(r.TopLeft.Y, p.Y),
		},
		BottomRight: Position{
			X: maxInt(r.BottomRight.X, p.X),
			Y: maxInt(r.BottomRight.Y, p.Y),
		},
	}
}

// Positions returns every position in the region in row-major order
// (x varies fastest).
func (r Region) Positions() []Position {
	if r.Empty() {
		return nil
	}
	out := make([]Position, 0, r.Width()*r.Height())
	for y := r.TopLeft.Y; y <= r.BottomRight.Y; y++ {
		for x := r.TopLeft.X; x <= r.BottomRight.X; x++ {
			out = append(out, Position{X: x, Y: y})
		}
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
