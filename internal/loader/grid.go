package loader

import (
	"fmt"
	"image"
	"io"
	"os"

	// Grayscale grids arrive as PNG uploads from the capture tooling.
	_ "image/png"

	"github.com/geoagent-data/terrain.report/internal/thermal"
)

// DecodeGrid decodes a grayscale image stream into an intensity grid.
// Colour inputs are converted through the standard gray model, so every
// pixel lands in [0, 255] regardless of source depth.
func DecodeGrid(r io.Reader) (*thermal.Grid, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode grid image: %v: %w", err, ErrDecode)
	}

	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("grid image has no pixels: %w", ErrDecode)
	}

	g := thermal.NewGrid(b.Dx(), b.Dy())
	gray, ok := img.(*image.Gray)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			if ok {
				g.Set(x, y, float64(gray.GrayAt(b.Min.X+x, b.Min.Y+y).Y))
			} else {
				r16, g16, b16, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
				// ITU-R 601 luma, scaled from 16-bit channels to [0, 255].
				luma := (299*float64(r16) + 587*float64(g16) + 114*float64(b16)) / 1000 / 257
				g.Set(x, y, luma)
			}
		}
	}
	return g, nil
}

// LoadGrid reads a grayscale image file from disk.
func LoadGrid(path string) (*thermal.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open grid file: %w", err)
	}
	defer f.Close()
	return DecodeGrid(f)
}
