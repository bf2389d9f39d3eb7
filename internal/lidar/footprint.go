package lidar

import (
	"sort"

	"github.com/geoagent-data/terrain.report/internal/monitoring"
)

// planarPoint is a point in the 2D footprint projection.
type planarPoint struct {
	x, y float64
}

// cross returns the z component of (b-a) x (c-a). Positive means the turn
// a->b->c is counter-clockwise.
func cross(a, b, c planarPoint) float64 {
	return (b.x-a.x)*(c.y-a.y) - (b.y-a.y)*(c.x-a.x)
}

// convexHullArea computes the area of the convex hull of the planar (x, y)
// projection of a point set using the monotone chain construction. Degenerate
// inputs (fewer than 3 distinct positions, or a collinear set) yield 0.
func convexHullArea(points []Point3D) float64 {
	// Project, sort, and deduplicate.
	pts := make([]planarPoint, len(points))
	for i, p := range points {
		pts[i] = planarPoint{p.X, p.Y}
	}
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].x != pts[j].x {
			return pts[i].x < pts[j].x
		}
		return pts[i].y < pts[j].y
	})
	uniq := pts[:0]
	for i, p := range pts {
		if i == 0 || p != pts[i-1] {
			uniq = append(uniq, p)
		}
	}
	pts = uniq
	if len(pts) < 3 {
		return 0
	}

	// Lower hull, then upper hull.
	hull := make([]planarPoint, 0, 2*len(pts))
	for _, p := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	hull = hull[:len(hull)-1] // last point repeats the first

	if len(hull) < 3 {
		return 0
	}

	// Shoelace formula over the hull polygon.
	var area float64
	for i := range hull {
		j := (i + 1) % len(hull)
		area += hull[i].x*hull[j].y - hull[j].x*hull[i].y
	}
	if area < 0 {
		area = -area
	}
	return area / 2
}

// ExtractBuildings clusters building-candidate points in the 2D projection
// and computes a footprint for every cluster that survives the minimum-size
// filter. If fewer than MinPts candidates exist, clustering is skipped and no
// buildings are reported. Buildings are returned in cluster-id order.
func ExtractBuildings(candidates []Point3D, params ClusteringParams) ([]Building, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if len(candidates) < params.MinPts {
		return nil, nil
	}

	labels, clusterCount, err := ClusterLabels(candidates, params)
	if err != nil {
		return nil, err
	}
	if clusterCount == 0 {
		return nil, nil
	}

	// Group candidate points by cluster id. Noise points are skipped.
	groups := make([][]Point3D, clusterCount+1)
	for i, label := range labels {
		if label == NoiseLabel {
			continue
		}
		groups[label] = append(groups[label], candidates[i])
	}

	buildings := make([]Building, 0, clusterCount)
	for cid := 1; cid <= clusterCount; cid++ {
		pts := groups[cid]
		if len(pts) < params.MinPts {
			continue
		}
		buildings = append(buildings, buildingFromCluster(cid, pts))
	}
	return buildings, nil
}

// buildingFromCluster computes footprint metrics for one cluster.
func buildingFromCluster(id int, pts []Point3D) Building {
	n := float64(len(pts))

	var sumX, sumY, sumZ float64
	zMin, zMax := pts[0].Z, pts[0].Z
	for _, p := range pts {
		sumX += p.X
		sumY += p.Y
		sumZ += p.Z
		if p.Z < zMin {
			zMin = p.Z
		}
		if p.Z > zMax {
			zMax = p.Z
		}
	}

	area := convexHullArea(pts)
	if area == 0 {
		// Degenerate footprint is a fallback, not a failure: the building
		// is still emitted with its other fields.
		monitoring.Logf("lidar: cluster %d has a degenerate footprint (collinear or <3 distinct positions); area set to 0", id)
	}

	return Building{
		ID:         id,
		Centroid:   Point3D{X: sumX / n, Y: sumY / n, Z: sumZ / n},
		Height:     zMax - zMin,
		Area:       area,
		PointCount: len(pts),
	}
}
