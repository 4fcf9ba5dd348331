package wfc

import "fmt"

// NoProbability marks a cell's probability vector as not yet computed. A
// weighting rule may also place it in slot 0 of its result to declare the
// cell contradictory.
const NoProbability = -1.0

// WeightFunc converts a cell's neighborhood into unnormalized per-tile
// weights. The result must hold exactly one non-negative weight per tile
// index; NoProbability in slot 0 declares the cell contradictory. The
// function must be a deterministic function of the neighborhood contents:
// the solver re-invokes it during backtracking and relies on identical
// answers for identical surroundings.
type WeightFunc func(*Neighborhood) []float64

// probabilityField is the width x height x tiles probability tensor. One
// normalized distribution per evaluated cell, stored in a flat row-major
// slice so region resets are O(area).
type probabilityField struct {
	width, height, tiles int
	data                 []float64
}

func newProbabilityField(width, height, tiles int) *probabilityField {
	f := &probabilityField{
		width:  width,
		height: height,
		tiles:  tiles,
		data:   make([]float64, width*height*tiles),
	}
	for i := range f.data {
		f.data[i] = NoProbability
	}
	return f
}

// at returns the probability vector of a cell as a shared slice view.
func (f *probabilityField) at(p Position) []float64 {
	i := (p.Y*f.width + p.X) * f.tiles
	return f.data[i : i+f.tiles]
}

// reset marks a cell's vector as not yet computed.
func (f *probabilityField) reset(p Position) {
	ps := f.at(p)
	for i := range ps {
		ps[i] = NoProbability
	}
}

// setOneHot freezes a cell's vector to certainty at the committed tile.
func (f *probabilityField) setOneHot(p Position, t Tile) {
	ps := f.at(p)
	for i := range ps {
		ps[i] = 0
	}
	ps[t.Index()] = 1
}

// evaluate derives and stores the normalized probability vector for a cell
// from the weighting rule. It returns ErrContradiction when the rule signals
// impossibility or yields no usable weight mass.
func (f *probabilityField) evaluate(p Position, grid *TileGrid, weigh WeightFunc, metric Metric, radius int) error {
	neighborhood := NewNeighborhood(grid, p, metric, radius)
	ws := weigh(neighborhood)
	if len(ws) != f.tiles {
		return fmt.Errorf("weighting rule returned %d weights, want %d", len(ws), f.tiles)
	}

	if ws[0] == NoProbability {
		return fmt.Errorf("%w: rule declared cell (%d,%d) impossible", ErrContradiction, p.X, p.Y)
	}

	// The sentinel tile is never a candidate, whatever the rule says.
	sum := 0.0
	for i := 1; i < len(ws); i++ {
		if ws[i] < 0 {
			return fmt.Errorf("weighting rule returned negative weight %g for tile %d at (%d,%d)", ws[i], i, p.X, p.Y)
		}
		sum += ws[i]
	}
	if sum <= 0 {
		return fmt.Errorf("%w: no tile has weight at (%d,%d)", ErrContradiction, p.X, p.Y)
	}

	ps := f.at(p)
	ps[0] = 0
	for i := 1; i < len(ws); i++ {
		ps[i] = ws[i] / sum
	}
	return nil
}
