package lidar

import (
	"errors"
	"testing"
)

// gridCloud lays out an n x n grid of points with the given spacing around
// (cx, cy). Dense enough grids form a single DBSCAN cluster.
func gridCloud(cx, cy float64, n int, spacing float64) []Point3D {
	points := make([]Point3D, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			points = append(points, Point3D{
				X: cx + float64(i)*spacing,
				Y: cy + float64(j)*spacing,
				Z: 10,
			})
		}
	}
	return points
}

func TestClusterLabels_ParamValidation(t *testing.T) {
	points := gridCloud(0, 0, 3, 0.5)

	if _, _, err := ClusterLabels(points, ClusteringParams{Eps: 0, MinPts: 5}); !errors.Is(err, ErrBadParams) {
		t.Errorf("expected ErrBadParams for eps=0, got %v", err)
	}
	if _, _, err := ClusterLabels(points, ClusteringParams{Eps: -1, MinPts: 5}); !errors.Is(err, ErrBadParams) {
		t.Errorf("expected ErrBadParams for negative eps, got %v", err)
	}
	if _, _, err := ClusterLabels(points, ClusteringParams{Eps: 1, MinPts: 0}); !errors.Is(err, ErrBadParams) {
		t.Errorf("expected ErrBadParams for minPts=0, got %v", err)
	}
}

func TestClusterLabels_EmptyInput(t *testing.T) {
	labels, count, err := ClusterLabels(nil, DefaultClusteringParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if labels != nil || count != 0 {
		t.Errorf("expected no clusters for empty input, got labels=%v count=%d", labels, count)
	}
}

func TestClusterLabels_TwoClustersAndNoise(t *testing.T) {
	params := ClusteringParams{Eps: 1.0, MinPts: 5}

	points := gridCloud(0, 0, 4, 0.5)               // cluster around the origin
	points = append(points, gridCloud(50, 50, 4, 0.5)...) // far-away cluster
	points = append(points, Point3D{X: 200, Y: 200, Z: 10}) // isolated noise

	labels, count, err := ClusterLabels(points, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 clusters, got %d", count)
	}
	if labels[len(labels)-1] != NoiseLabel {
		t.Errorf("isolated point should be noise, got label %d", labels[len(labels)-1])
	}

	// Every point carries exactly one cluster-or-noise assignment.
	for i, label := range labels {
		if label != NoiseLabel && (label < 1 || label > count) {
			t.Errorf("point %d: label %d outside [1, %d] and not noise", i, label, count)
		}
	}

	// The two grids must not share a cluster id.
	if labels[0] == labels[16] {
		t.Errorf("distant grids share cluster id %d", labels[0])
	}
}

func TestClusterLabels_Deterministic(t *testing.T) {
	params := ClusteringParams{Eps: 1.0, MinPts: 5}
	points := gridCloud(0, 0, 5, 0.4)
	points = append(points, gridCloud(30, -10, 5, 0.4)...)
	points = append(points, Point3D{X: -40, Y: 70, Z: 2})

	first, firstCount, err := ClusterLabels(points, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for run := 0; run < 3; run++ {
		labels, count, err := ClusterLabels(points, params)
		if err != nil {
			t.Fatalf("run %d: unexpected error: %v", run, err)
		}
		if count != firstCount {
			t.Fatalf("run %d: cluster count %d != %d", run, count, firstCount)
		}
		for i := range labels {
			if labels[i] != first[i] {
				t.Errorf("run %d: point %d label %d != %d", run, i, labels[i], first[i])
			}
		}
	}
}

func TestClusterLabels_SparsePointsAreNoise(t *testing.T) {
	// Points spaced beyond eps from each other: no core points, all noise.
	points := []Point3D{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 20, Y: 0}, {X: 30, Y: 0}, {X: 40, Y: 0},
	}
	labels, count, err := ClusterLabels(points, ClusteringParams{Eps: 1.0, MinPts: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 clusters, got %d", count)
	}
	for i, label := range labels {
		if label != NoiseLabel {
			t.Errorf("point %d: expected noise, got %d", i, label)
		}
	}
}

func TestGridIndex_NeighboursAcrossCells(t *testing.T) {
	// Two points in adjacent cells but within eps must see each other;
	// negative coordinates exercise the cell key encoding.
	points := []Point3D{
		{X: -0.05, Y: -0.05},
		{X: 0.05, Y: 0.05},
		{X: 5, Y: 5},
	}
	gi := newGridIndex(points, 1.0)
	got := gi.neighbours(0, 1.0)
	if len(got) != 2 {
		t.Fatalf("expected 2 neighbours (self + adjacent), got %d: %v", len(got), got)
	}
}
