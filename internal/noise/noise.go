// Package noise generates two-dimensional colored noise by shaping a random
// frequency spectrum and transforming it back to the spatial domain. The
// power spectral density follows f^color, so color -2 yields Brownian "red"
// noise with smooth large-scale features.
package noise

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/dsp/fourier"
)

// DefaultColor is the spectral exponent for Brownian noise.
const DefaultColor = -2.0

// Generator describes a noise field to generate. Color is the exponent
// applied to frequency magnitude; more negative concentrates energy in low
// frequencies. The same Generator always produces the same field.
type Generator struct {
	Width, Height int
	Color         float64
	Seed          int64
}

// Field is a Width x Height grid of noise values in [0, 1), stored
// row-major.
type Field struct {
	Width, Height int
	values        []float64
}

// At returns the noise value at a cell.
func (f *Field) At(x, y int) float64 {
	return f.values[y*f.Width+x]
}

// Values returns the backing row-major slice.
func (f *Field) Values() []float64 {
	return f.values
}

// Frequencies returns the half-spectrum of the noise: Width columns of
// Height/2+1 complex coefficients, column-major (all coefficients of x=0
// first). Each coefficient is a uniform random complex number scaled by
// distance^Color from the spectrum center. Mostly useful for debugging and
// visualization; Generate calls it internally.
func (g *Generator) Frequencies() []complex128 {
	rows := g.Height/2 + 1
	rng := rand.New(rand.NewSource(g.Seed))

	cx := float64(g.Width) / 2
	cy := float64(g.Height) / 2

	coeffs := make([]complex128, g.Width*rows)
	for x := 0; x < g.Width; x++ {
		for y := 0; y < rows; y++ {
			dx := float64(x) - cx
			dy := float64(y) - cy
			distance := math.Sqrt(dx*dx + dy*dy)

			weight := 0.0
			if distance != 0 {
				weight = math.Pow(distance, g.Color)
			}

			re := rng.Float64()*2 - 1
			im := rng.Float64()*2 - 1
			coeffs[x*rows+y] = complex(re*weight, im*weight)
		}
	}
	return coeffs
}

// Generate synthesizes the noise field: an unnormalized inverse FFT along x,
// a complex-to-real inverse along y, then min-max normalization of the
// magnitudes into [0, 1).
func (g *Generator) Generate() (*Field, error) {
	if g.Width <= 0 || g.Height <= 0 {
		return nil, fmt.Errorf("noise: invalid size %dx%d", g.Width, g.Height)
	}

	rows := g.Height/2 + 1
	coeffs := g.Frequencies()

	// Inverse transform along x, one column of W coefficients per
	// spectrum row.
	xfft := fourier.NewCmplxFFT(g.Width)
	column := make([]complex128, g.Width)
	seq := make([]complex128, g.Width)
	work := make([]complex128, g.Width*rows)
	for y := 0; y < rows; y++ {
		for x := 0; x < g.Width; x++ {
			column[x] = coeffs[x*rows+y]
		}
		seq = xfft.Sequence(seq, column)
		for x := 0; x < g.Width; x++ {
			work[x*rows+y] = seq[x]
		}
	}

	// Complex-to-real inverse along y expands each half-spectrum row of
	// H/2+1 coefficients to H samples.
	yfft := fourier.NewFFT(g.Height)
	values := make([]float64, g.Width*g.Height)
	row := make([]float64, g.Height)
	for x := 0; x < g.Width; x++ {
		row = yfft.Sequence(row, work[x*rows:(x+1)*rows])
		for y := 0; y < g.Height; y++ {
			values[y*g.Width+x] = math.Abs(row[y])
		}
	}

	normalize(values)
	return &Field{Width: g.Width, Height: g.Height, values: values}, nil
}

// normalize rescales values to [0, 1). Min-max normalization pins one
// element to exactly 1, which callers quantizing into buckets cannot use,
// so the maximum is nudged just below 1.
func normalize(values []float64) {
	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	d := max - min
	if d == 0 {
		for i := range values {
			values[i] = 0
		}
		return
	}
	for i := range values {
		v := (values[i] - min) / d
		if v >= 1 {
			v = math.Nextafter(1, 0)
		}
		values[i] = v
	}
}
