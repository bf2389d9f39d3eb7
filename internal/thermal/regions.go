package thermal

// RegionTemperature holds intensity statistics over one region's pixels.
type RegionTemperature struct {
	Mean float64 `json:"mean"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// Region is one connected component of anomalous pixels that survived the
// minimum-size filter.
type Region struct {
	ID          int               `json:"id"`
	Centroid    [2]float64        `json:"centroid"` // (row, col) mean pixel coordinate
	AreaPixels  int               `json:"area_pixels"`
	Temperature RegionTemperature `json:"temperature"`
}

// pixel is a grid coordinate used by the flood fill.
type pixel struct {
	x, y int
}

// LabelRegions partitions mask pixels into maximal 8-connected regions and
// reports every region of at least minPixels. Components are discovered in
// row-major scan order, so ids are stable for identical input; components
// below the size floor consume an id but are discarded as noise.
func LabelRegions(g *Grid, mask []bool, minPixels int) []Region {
	visited := make([]bool, len(mask))
	var regions []Region
	componentID := 0

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			idx := y*g.Width + x
			if !mask[idx] || visited[idx] {
				continue
			}
			componentID++
			members := collectComponent(g, mask, visited, x, y)
			if len(members) < minPixels {
				continue
			}
			regions = append(regions, summarizeRegion(g, componentID, members))
		}
	}
	return regions
}

// collectComponent gathers one 8-connected component via stack-based flood
// fill starting at (startX, startY).
func collectComponent(g *Grid, mask, visited []bool, startX, startY int) []pixel {
	var members []pixel
	stack := []pixel{{startX, startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.x < 0 || p.x >= g.Width || p.y < 0 || p.y >= g.Height {
			continue
		}
		idx := p.y*g.Width + p.x
		if visited[idx] || !mask[idx] {
			continue
		}
		visited[idx] = true
		members = append(members, p)

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				stack = append(stack, pixel{p.x + dx, p.y + dy})
			}
		}
	}
	return members
}

// summarizeRegion computes the centroid and intensity statistics for one
// component's pixels.
func summarizeRegion(g *Grid, id int, members []pixel) Region {
	n := float64(len(members))
	var sumRow, sumCol, sum float64
	first := g.At(members[0].x, members[0].y)
	minV, maxV := first, first

	for _, p := range members {
		sumRow += float64(p.y)
		sumCol += float64(p.x)
		v := g.At(p.x, p.y)
		sum += v
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}

	return Region{
		ID:         id,
		Centroid:   [2]float64{sumRow / n, sumCol / n},
		AreaPixels: len(members),
		Temperature: RegionTemperature{
			Mean: sum / n,
			Min:  minV,
			Max:  maxV,
		},
	}
}
