package thermal

import (
	"errors"
	"fmt"
)

// ErrEmptyGrid is returned when a pipeline is invoked with no pixels.
var ErrEmptyGrid = errors.New("thermal: empty grid")

// ErrBadParams is returned (wrapped) when detection parameters are malformed.
var ErrBadParams = errors.New("thermal: invalid parameters")

// Grid is a row-major raster of scalar intensity values (a temperature
// proxy). It is read-only input for every operation in this package.
type Grid struct {
	Width  int
	Height int
	Values []float64 // len == Width*Height, row-major
}

// NewGrid allocates a zero-filled grid.
func NewGrid(width, height int) *Grid {
	return &Grid{
		Width:  width,
		Height: height,
		Values: make([]float64, width*height),
	}
}

// GridFromRows builds a grid from row slices. All rows must share one width.
func GridFromRows(rows [][]float64) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyGrid
	}
	width := len(rows[0])
	g := NewGrid(width, len(rows))
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("thermal: ragged grid: row %d has %d values, expected %d", y, len(row), width)
		}
		copy(g.Values[y*width:(y+1)*width], row)
	}
	return g, nil
}

// At returns the intensity at column x, row y.
func (g *Grid) At(x, y int) float64 {
	return g.Values[y*g.Width+x]
}

// Set writes the intensity at column x, row y.
func (g *Grid) Set(x, y int, v float64) {
	g.Values[y*g.Width+x] = v
}

// Empty reports whether the grid has no pixels.
func (g *Grid) Empty() bool {
	return g == nil || g.Width == 0 || g.Height == 0 || len(g.Values) == 0
}
