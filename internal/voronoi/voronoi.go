// Package voronoi partitions a grid into cells around seed points, with
// optional boundary detection and Lloyd relaxation to even out cell sizes.
package voronoi

import (
	"fmt"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/lawnchairsociety/mapgen/internal/wfc"
)

// BorderCell marks grid cells that lie on the boundary between two Voronoi
// cells.
const BorderCell = -1

// DefaultRelaxations is the number of Lloyd relaxation rounds applied when
// none is configured.
const DefaultRelaxations = 2

// Center is a Voronoi seed point. Index identifies the cell in the
// assignment map and is preserved across relaxation rounds.
type Center struct {
	X, Y  float64
	Index int
}

// Diagram describes a Voronoi partition to generate over a Width x Height
// grid. BorderCoefficient controls boundary thickness: a grid cell is
// assigned to its nearest center only when the products of the distance
// gaps to the second and third nearest centers clear the coefficient scaled
// by the grid area, so 0 assigns every cell and larger values widen the
// borders.
type Diagram struct {
	Width, Height     int
	BorderCoefficient float64
	Relaxations       int
}

// Result is a computed partition. Assignments holds one entry per grid cell
// in row-major order: a center index, or BorderCell. Regions holds the
// bounding box of each center's cell, indexed by center index.
type Result struct {
	Width, Height int

	Centers     []Center
	Assignments []int
	Regions     []wfc.Region
}

// At returns the assignment of the grid cell at (x, y).
func (r *Result) At(x, y int) int {
	return r.Assignments[y*r.Width+x]
}

// RandomCenters returns n centers uniformly placed over a width x height
// grid, indexed 0 through n-1.
func RandomCenters(n, width, height int, seed int64) []Center {
	rng := rand.New(rand.NewSource(seed))
	centers := make([]Center, n)
	for i := range centers {
		centers[i] = Center{
			X:     rng.Float64() * float64(width),
			Y:     rng.Float64() * float64(height),
			Index: i,
		}
	}
	return centers
}

// Generate computes the partition for the given seed centers: an initial
// assignment pass, then Relaxations rounds of moving each center to its
// cell's centroid and reassigning. The returned centers are the relaxed
// positions.
func (d *Diagram) Generate(centers []Center) (*Result, error) {
	if d.Width <= 0 || d.Height <= 0 {
		return nil, fmt.Errorf("voronoi: invalid size %dx%d", d.Width, d.Height)
	}
	if len(centers) < 3 {
		return nil, fmt.Errorf("voronoi: need at least 3 centers, got %d", len(centers))
	}

	relaxations := d.Relaxations
	if relaxations == 0 {
		relaxations = DefaultRelaxations
	}
	if relaxations < 0 {
		relaxations = 0
	}

	r := &Result{
		Width:       d.Width,
		Height:      d.Height,
		Centers:     append([]Center(nil), centers...),
		Assignments: make([]int, d.Width*d.Height),
	}

	d.assign(r)
	for i := 0; i < relaxations; i++ {
		d.relax(r)
		d.assign(r)
	}
	return r, nil
}

// assign recomputes the assignment map and bounding regions from the
// current centers. Each grid cell is sampled at its middle point.
func (d *Diagram) assign(r *Result) {
	// kdtree.New sorts the collection in place; give it a scratch copy so
	// center order stays aligned with center indices.
	tree := kdtree.New(centerCollection(append([]Center(nil), r.Centers...)), true)
	threshold := d.BorderCoefficient * float64(d.Width*d.Height)

	regions := make([]wfc.Region, len(r.Centers))
	for _, c := range r.Centers {
		cell := wfc.Position{X: clampInt(int(c.X), 0, d.Width-1), Y: clampInt(int(c.Y), 0, d.Height-1)}
		regions[c.Index] = wfc.RegionFromCorners(cell, cell)
	}

	for y := 0; y < d.Height; y++ {
		for x := 0; x < d.Width; x++ {
			query := Center{X: float64(x) + 0.5, Y: float64(y) + 0.5}
			nearest := nearestThree(tree, query)

			// Distance gaps to the runners-up; small gaps mean the
			// cell sits between centers.
			d1 := nearest[1].Dist - nearest[0].Dist
			d2 := nearest[2].Dist - nearest[0].Dist
			if d1*d2 < threshold {
				r.Assignments[y*d.Width+x] = BorderCell
				continue
			}

			index := nearest[0].Comparable.(Center).Index
			r.Assignments[y*d.Width+x] = index
			regions[index] = regions[index].GrowToInclude(wfc.Position{X: x, Y: y})
		}
	}
	r.Regions = regions
}

// relax moves every center to the centroid of its assigned cells. Centers
// whose cells are empty stay in place.
func (d *Diagram) relax(r *Result) {
	counts := make([]float64, len(r.Centers))
	sumX := make([]float64, len(r.Centers))
	sumY := make([]float64, len(r.Centers))

	for y := 0; y < d.Height; y++ {
		for x := 0; x < d.Width; x++ {
			t := r.Assignments[y*d.Width+x]
			if t == BorderCell {
				continue
			}
			counts[t]++
			sumX[t] += float64(x) + 0.5
			sumY[t] += float64(y) + 0.5
		}
	}

	for i := range r.Centers {
		if counts[i] == 0 {
			continue
		}
		r.Centers[i].X = sumX[i] / counts[i]
		r.Centers[i].Y = sumY[i] / counts[i]
	}
}

// nearestThree returns the three nearest centers to the query in increasing
// distance order.
func nearestThree(tree *kdtree.Tree, query Center) []kdtree.ComparableDist {
	keeper := kdtree.NewNKeeper(3)
	tree.NearestSet(keeper, query)

	found := make([]kdtree.ComparableDist, 0, 3)
	for _, item := range keeper.Heap {
		if item.Comparable == nil {
			continue
		}
		found = append(found, item)
	}
	sort.Slice(found, func(i, j int) bool { return found[i].Dist < found[j].Dist })
	return found
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// kd-tree plumbing below follows the gonum spatial/kdtree access pattern.

func (c Center) coord(d kdtree.Dim) float64 {
	if d == 0 {
		return c.X
	}
	return c.Y
}

// Compare returns the signed distance of c from the plane through p along d.
func (c Center) Compare(p kdtree.Comparable, d kdtree.Dim) float64 {
	q := p.(Center)
	return c.coord(d) - q.coord(d)
}

// Dims returns the number of dimensions described by a Center.
func (c Center) Dims() int { return 2 }

// Distance returns the squared Euclidean distance between c and p.
func (c Center) Distance(p kdtree.Comparable) float64 {
	q := p.(Center)
	dx := c.X - q.X
	dy := c.Y - q.Y
	return dx*dx + dy*dy
}

type centerCollection []Center

func (cs centerCollection) Index(i int) kdtree.Comparable { return cs[i] }
func (cs centerCollection) Len() int                      { return len(cs) }
func (cs centerCollection) Pivot(d kdtree.Dim) int {
	return centerPlane{Dim: d, centerCollection: cs}.Pivot()
}
func (cs centerCollection) Slice(start, end int) kdtree.Interface { return cs[start:end] }

// centerPlane sorts the collection along a single dimension.
type centerPlane struct {
	kdtree.Dim
	centerCollection
}

func (p centerPlane) Less(i, j int) bool {
	return p.centerCollection[i].coord(p.Dim) < p.centerCollection[j].coord(p.Dim)
}
func (p centerPlane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p centerPlane) Slice(start, end int) kdtree.SortSlicer {
	p.centerCollection = p.centerCollection[start:end]
	return p
}
func (p centerPlane) Swap(i, j int) {
	p.centerCollection[i], p.centerCollection[j] = p.centerCollection[j], p.centerCollection[i]
}
