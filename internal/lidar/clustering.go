package lidar

import (
	"fmt"
	"math"
)

// Clustering defaults used by callers that do not override parameters.
const (
	// DefaultClusterEps is the default DBSCAN neighbourhood radius in
	// dataset length units.
	DefaultClusterEps = 2.0
	// DefaultClusterMinPts is the default minimum neighbourhood population
	// for a core point, and the minimum size of an emitted cluster.
	DefaultClusterMinPts = 50

	// NoiseLabel marks points not reachable from any core point.
	NoiseLabel = -1

	// estimatedPointsPerCell sizes the spatial index map.
	estimatedPointsPerCell = 4
)

// ClusteringParams configures DBSCAN clustering of the 2D point projection.
type ClusteringParams struct {
	Eps    float64 // neighbourhood radius
	MinPts int     // minimum neighbourhood population for a core point
}

// DefaultClusteringParams returns the parameters used for building-footprint
// extraction when the caller supplies none.
func DefaultClusteringParams() ClusteringParams {
	return ClusteringParams{Eps: DefaultClusterEps, MinPts: DefaultClusterMinPts}
}

// Validate checks the parameters for well-formedness.
func (p ClusteringParams) Validate() error {
	if p.Eps <= 0 {
		return fmt.Errorf("eps must be positive, got %g: %w", p.Eps, ErrBadParams)
	}
	if p.MinPts < 1 {
		return fmt.Errorf("minPts must be at least 1, got %d: %w", p.MinPts, ErrBadParams)
	}
	return nil
}

// cellKey maps a signed 2D cell coordinate to a single map key. Coordinates
// are zigzag-encoded to non-negative integers and combined with Szudzik's
// pairing function so negative cells collide with nothing.
func cellKey(cx, cy int64) int64 {
	var a, b int64
	if cx >= 0 {
		a = 2 * cx
	} else {
		a = -2*cx - 1
	}
	if cy >= 0 {
		b = 2 * cy
	} else {
		b = -2*cy - 1
	}
	if a >= b {
		return a*a + a + b
	}
	return a + b*b
}

// gridIndex accelerates fixed-radius neighbour queries over the planar (x, y)
// projection of a point set. Cell size should match the query radius so a
// 3x3 cell neighbourhood covers every candidate.
type gridIndex struct {
	cellSize float64
	cells    map[int64][]int // cell key -> point indices
	points   []Point3D
}

// newGridIndex builds an index over the planar projection of points.
func newGridIndex(points []Point3D, cellSize float64) *gridIndex {
	gi := &gridIndex{
		cellSize: cellSize,
		cells:    make(map[int64][]int, len(points)/estimatedPointsPerCell+1),
		points:   points,
	}
	for i, p := range points {
		k := gi.keyAt(p.X, p.Y)
		gi.cells[k] = append(gi.cells[k], i)
	}
	return gi
}

func (gi *gridIndex) cellOf(v float64) int64 {
	return int64(math.Floor(v / gi.cellSize))
}

func (gi *gridIndex) keyAt(x, y float64) int64 {
	return cellKey(gi.cellOf(x), gi.cellOf(y))
}

// neighbours returns the indices of all points within eps (2D Euclidean) of
// points[idx], including idx itself.
func (gi *gridIndex) neighbours(idx int, eps float64) []int {
	p := gi.points[idx]
	eps2 := eps * eps
	cx, cy := gi.cellOf(p.X), gi.cellOf(p.Y)

	var out []int
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for _, j := range gi.cells[cellKey(cx+dx, cy+dy)] {
				q := gi.points[j]
				ddx, ddy := q.X-p.X, q.Y-p.Y
				if ddx*ddx+ddy*ddy <= eps2 {
					out = append(out, j)
				}
			}
		}
	}
	return out
}

// ClusterLabels runs DBSCAN over the 2D projection of points and returns a
// per-point label slice plus the number of clusters found. Labels are either
// NoiseLabel or a cluster id in [1, n]. Cluster ids are assigned in input
// scan order, so the partition is deterministic for identical input and
// parameters.
func ClusterLabels(points []Point3D, params ClusteringParams) ([]int, int, error) {
	if err := params.Validate(); err != nil {
		return nil, 0, err
	}
	if len(points) == 0 {
		return nil, 0, nil
	}

	labels := make([]int, len(points)) // 0 = unvisited
	index := newGridIndex(points, params.Eps)
	clusterID := 0

	for i := range points {
		if labels[i] != 0 {
			continue
		}
		seed := index.neighbours(i, params.Eps)
		if len(seed) < params.MinPts {
			labels[i] = NoiseLabel
			continue
		}
		clusterID++
		growCluster(index, labels, i, seed, clusterID, params)
	}

	return labels, clusterID, nil
}

// growCluster expands a cluster outward from a core point, absorbing border
// points and chaining through further core points.
func growCluster(index *gridIndex, labels []int, seedIdx int, frontier []int, clusterID int, params ClusteringParams) {
	labels[seedIdx] = clusterID

	for j := 0; j < len(frontier); j++ {
		idx := frontier[j]

		if labels[idx] == NoiseLabel {
			labels[idx] = clusterID // noise becomes a border point
		}
		if labels[idx] != 0 {
			continue
		}

		labels[idx] = clusterID
		reach := index.neighbours(idx, params.Eps)
		if len(reach) >= params.MinPts {
			frontier = append(frontier, reach...)
		}
	}
}
