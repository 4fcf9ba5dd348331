package voronoi

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lawnchairsociety/mapgen/internal/wfc"
)

func threeCorners() []Center {
	return []Center{
		{X: 2, Y: 2, Index: 0},
		{X: 13, Y: 2, Index: 1},
		{X: 8, Y: 13, Index: 2},
	}
}

func TestGenerateAssignsNearestCenter(t *testing.T) {
	d := &Diagram{Width: 16, Height: 16, Relaxations: -1}

	r, err := d.Generate(threeCorners())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if got := r.At(2, 2); got != 0 {
		t.Errorf("At(2, 2) = %d, want 0", got)
	}
	if got := r.At(13, 2); got != 1 {
		t.Errorf("At(13, 2) = %d, want 1", got)
	}
	if got := r.At(8, 13); got != 2 {
		t.Errorf("At(8, 13) = %d, want 2", got)
	}

	// Zero border coefficient keeps every cell.
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			if r.At(x, y) == BorderCell {
				t.Fatalf("At(%d, %d) = BorderCell with a zero border coefficient", x, y)
			}
		}
	}
}

func TestGenerateBorders(t *testing.T) {
	d := &Diagram{Width: 16, Height: 16, BorderCoefficient: 0.02, Relaxations: -1}

	r, err := d.Generate(threeCorners())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	borders := 0
	for _, a := range r.Assignments {
		if a == BorderCell {
			borders++
		}
	}
	if borders == 0 {
		t.Error("no border cells with a positive border coefficient")
	}
	if borders == len(r.Assignments) {
		t.Error("every cell became border")
	}

	// Cells at the seed points stay assigned.
	if got := r.At(2, 2); got != 0 {
		t.Errorf("At(2, 2) = %d, want 0", got)
	}
}

func TestGenerateRegionsCoverAssignments(t *testing.T) {
	d := &Diagram{Width: 20, Height: 20}

	r, err := d.Generate(RandomCenters(5, 20, 20, 7))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(r.Regions) != 5 {
		t.Fatalf("got %d regions, want 5", len(r.Regions))
	}

	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			index := r.At(x, y)
			if index == BorderCell {
				continue
			}
			if !r.Regions[index].Contains(wfc.Position{X: x, Y: y}) {
				t.Errorf("region %d does not contain its assigned cell (%d, %d)", index, x, y)
			}
		}
	}
}

func TestGenerateRelaxationEvensCells(t *testing.T) {
	// Clustered seeds: relaxation should spread centers and reduce the
	// spread of cell sizes.
	seeds := []Center{
		{X: 1, Y: 1, Index: 0},
		{X: 2, Y: 1, Index: 1},
		{X: 1, Y: 2, Index: 2},
		{X: 30, Y: 30, Index: 3},
	}

	sizeSpread := func(relaxations int) int {
		d := &Diagram{Width: 32, Height: 32, Relaxations: relaxations}
		r, err := d.Generate(append([]Center(nil), seeds...))
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		counts := make([]int, 4)
		for _, a := range r.Assignments {
			counts[a]++
		}
		min, max := counts[0], counts[0]
		for _, c := range counts {
			if c < min {
				min = c
			}
			if c > max {
				max = c
			}
		}
		return max - min
	}

	if before, after := sizeSpread(-1), sizeSpread(2); after >= before {
		t.Errorf("cell size spread did not shrink: %d before relaxation, %d after", before, after)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	run := func() []int {
		d := &Diagram{Width: 24, Height: 24, BorderCoefficient: 0.01}
		r, err := d.Generate(RandomCenters(6, 24, 24, 33))
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		return r.Assignments
	}

	if diff := cmp.Diff(run(), run()); diff != "" {
		t.Errorf("identical inputs produced different partitions (-first +second):\n%s", diff)
	}
}

func TestGenerateValidation(t *testing.T) {
	if _, err := (&Diagram{Width: 0, Height: 10}).Generate(threeCorners()); err == nil {
		t.Error("Generate accepted zero width")
	}
	if _, err := (&Diagram{Width: 10, Height: 10}).Generate(threeCorners()[:2]); err == nil {
		t.Error("Generate accepted fewer than 3 centers")
	}
}
