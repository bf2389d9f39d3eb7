package lidar

import (
	"math"
	"testing"
)

func TestConvexHullArea_Square(t *testing.T) {
	// Unit square plus interior points: hull area must ignore the interior.
	points := []Point3D{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1},
		{X: 0.5, Y: 0.5}, {X: 0.25, Y: 0.75},
	}
	area := convexHullArea(points)
	if math.Abs(area-1.0) > 1e-12 {
		t.Errorf("expected area 1.0, got %f", area)
	}
}

func TestConvexHullArea_Triangle(t *testing.T) {
	points := []Point3D{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 0, Y: 3}}
	area := convexHullArea(points)
	if math.Abs(area-6.0) > 1e-12 {
		t.Errorf("expected area 6.0, got %f", area)
	}
}

func TestConvexHullArea_Degenerate(t *testing.T) {
	cases := map[string][]Point3D{
		"collinear":  {{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}},
		"two points": {{X: 0, Y: 0}, {X: 5, Y: 5}},
		"one point":  {{X: 2, Y: 3}},
		"duplicates": {{X: 1, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 1}},
	}
	for name, points := range cases {
		if area := convexHullArea(points); area != 0 {
			t.Errorf("%s: expected area 0, got %f", name, area)
		}
	}
}

func TestExtractBuildings_TooFewCandidates(t *testing.T) {
	// Fewer candidates than MinPts: clustering is skipped entirely.
	points := gridCloud(0, 0, 2, 0.5) // 4 points
	buildings, err := ExtractBuildings(points, ClusteringParams{Eps: 1.0, MinPts: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buildings != nil {
		t.Errorf("expected no buildings, got %d", len(buildings))
	}
}

func TestExtractBuildings_SquareFootprint(t *testing.T) {
	params := ClusteringParams{Eps: 1.0, MinPts: 5}

	// 6x6 grid spanning a 5x5 square, heights varying from 10 to 13.
	points := make([]Point3D, 0, 36)
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			points = append(points, Point3D{
				X: float64(i), Y: float64(j),
				Z: 10 + 3*float64(i)/5,
			})
		}
	}

	buildings, err := ExtractBuildings(points, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(buildings) != 1 {
		t.Fatalf("expected 1 building, got %d", len(buildings))
	}

	b := buildings[0]
	if b.PointCount != 36 {
		t.Errorf("expected 36 points, got %d", b.PointCount)
	}
	if math.Abs(b.Area-25.0) > 1e-9 {
		t.Errorf("expected area 25.0, got %f", b.Area)
	}
	if math.Abs(b.Height-3.0) > 1e-9 {
		t.Errorf("expected height 3.0, got %f", b.Height)
	}
	if math.Abs(b.Centroid.X-2.5) > 1e-9 || math.Abs(b.Centroid.Y-2.5) > 1e-9 {
		t.Errorf("expected centroid (2.5, 2.5), got (%f, %f)", b.Centroid.X, b.Centroid.Y)
	}
}

func TestExtractBuildings_CollinearClusterFallsBackToZeroArea(t *testing.T) {
	params := ClusteringParams{Eps: 1.0, MinPts: 4}

	// A dense line of points: clusters fine, but the hull is degenerate.
	points := make([]Point3D, 12)
	for i := range points {
		points[i] = Point3D{X: float64(i) * 0.3, Y: 0, Z: 8}
	}

	buildings, err := ExtractBuildings(points, params)
	if err != nil {
		t.Fatalf("degenerate hull must not fail the pipeline: %v", err)
	}
	if len(buildings) != 1 {
		t.Fatalf("expected 1 building despite degenerate footprint, got %d", len(buildings))
	}
	if buildings[0].Area != 0 {
		t.Errorf("expected fallback area 0, got %f", buildings[0].Area)
	}
	if buildings[0].PointCount != 12 {
		t.Errorf("expected 12 points, got %d", buildings[0].PointCount)
	}
}

func TestExtractBuildings_MinPtsFloor(t *testing.T) {
	params := ClusteringParams{Eps: 1.0, MinPts: 10}

	// A 4x4 grid (16 points) and a second sparse triple. The triple cannot
	// form a cluster, and no emitted building may have fewer than MinPts.
	points := gridCloud(0, 0, 4, 0.5)
	points = append(points,
		Point3D{X: 40, Y: 40}, Point3D{X: 40.2, Y: 40}, Point3D{X: 40, Y: 40.2},
	)

	buildings, err := ExtractBuildings(points, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, b := range buildings {
		if b.PointCount < params.MinPts {
			t.Errorf("building %d has %d points, below MinPts %d", b.ID, b.PointCount, params.MinPts)
		}
	}
}
