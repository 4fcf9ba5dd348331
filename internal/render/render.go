// Package render rasterizes generated maps to images.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	xdraw "golang.org/x/image/draw"

	"github.com/lawnchairsociety/mapgen/internal/noise"
	"github.com/lawnchairsociety/mapgen/internal/voronoi"
	"github.com/lawnchairsociety/mapgen/internal/wfc"
)

// Palette maps tile index to pixel color. Index 0 colors unset cells in
// tile maps and border cells in Voronoi maps.
type Palette []color.RGBA

// Color returns the palette entry for an index, cycling for indices past
// the end of the palette.
func (p Palette) Color(i int) color.RGBA {
	if len(p) == 0 {
		return color.RGBA{A: 0xff}
	}
	if i < 0 || i >= len(p) {
		i = ((i % len(p)) + len(p)) % len(p)
	}
	return p[i]
}

// DefaultPalette returns a palette with a dark border color at index 0
// followed by distinguishable map colors.
func DefaultPalette() Palette {
	return Palette{
		{R: 0x20, G: 0x20, B: 0x20, A: 0xff},
		{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
		{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
		{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
		{R: 0xe3, G: 0xc0, B: 0x34, A: 0xff},
		{R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
		{R: 0x8c, G: 0x56, B: 0x4b, A: 0xff},
		{R: 0x17, G: 0xbe, B: 0xcf, A: 0xff},
	}
}

// TileImage rasterizes a tile grid at one pixel per cell.
func TileImage(grid *wfc.TileGrid, palette Palette) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, grid.Width, grid.Height))
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			tile := grid.At(wfc.Position{X: x, Y: y})
			img.SetRGBA(x, y, palette.Color(tile.Index()))
		}
	}
	return img
}

// NoiseImage rasterizes a noise field as 8-bit grayscale.
func NoiseImage(field *noise.Field) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, field.Width, field.Height))
	for y := 0; y < field.Height; y++ {
		for x := 0; x < field.Width; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(field.At(x, y) * 256)})
		}
	}
	return img
}

// VoronoiImage rasterizes a Voronoi partition. Border cells take palette
// index 0, cell interiors the index after their center's.
func VoronoiImage(result *voronoi.Result, palette Palette) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, result.Width, result.Height))
	for y := 0; y < result.Height; y++ {
		for x := 0; x < result.Width; x++ {
			index := result.At(x, y)
			if index == voronoi.BorderCell {
				img.SetRGBA(x, y, palette.Color(0))
				continue
			}
			img.SetRGBA(x, y, palette.Color(index+1))
		}
	}
	return img
}

// Scale enlarges an image by an integer factor with hard pixel edges.
func Scale(src image.Image, factor int) image.Image {
	if factor <= 1 {
		return src
	}
	bounds := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx()*factor, bounds.Dy()*factor))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, bounds, xdraw.Src, nil)
	return dst
}

// WritePNG encodes an image to a file.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
