package thermal

import (
	"math"
	"testing"
)

// maskFor builds a mask flagging every pixel above the given value.
func maskFor(g *Grid, above float64) []bool {
	mask := make([]bool, len(g.Values))
	for i, v := range g.Values {
		mask[i] = v > above
	}
	return mask
}

func TestLabelRegions_SingleBlock(t *testing.T) {
	g := NewGrid(20, 20)
	for y := 5; y < 11; y++ {
		for x := 5; x < 11; x++ {
			g.Set(x, y, 100)
		}
	}

	regions := LabelRegions(g, maskFor(g, 50), 10)
	if len(regions) != 1 {
		t.Fatalf("expected 1 region, got %d", len(regions))
	}
	r := regions[0]
	if r.AreaPixels != 36 {
		t.Errorf("expected 36 pixels, got %d", r.AreaPixels)
	}
	if r.Temperature.Mean != 100 || r.Temperature.Min != 100 || r.Temperature.Max != 100 {
		t.Errorf("unexpected temperature stats %+v", r.Temperature)
	}
	// Block covers rows/cols 5..10; centroid is 7.5 on both axes.
	if math.Abs(r.Centroid[0]-7.5) > 1e-12 || math.Abs(r.Centroid[1]-7.5) > 1e-12 {
		t.Errorf("expected centroid (7.5, 7.5), got %v", r.Centroid)
	}
}

func TestLabelRegions_MinSizeFilter(t *testing.T) {
	g := NewGrid(20, 20)
	// A 3x3 block (9 pixels, below the floor of 10)...
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			g.Set(x, y, 100)
		}
	}
	// ...and a 4x4 block (16 pixels).
	for y := 10; y < 14; y++ {
		for x := 10; x < 14; x++ {
			g.Set(x, y, 100)
		}
	}

	regions := LabelRegions(g, maskFor(g, 50), 10)
	if len(regions) != 1 {
		t.Fatalf("expected only the 16-pixel region, got %d regions", len(regions))
	}
	if regions[0].AreaPixels != 16 {
		t.Errorf("expected 16 pixels, got %d", regions[0].AreaPixels)
	}
	// The discarded small component still consumed an id.
	if regions[0].ID != 2 {
		t.Errorf("expected surviving region to carry id 2, got %d", regions[0].ID)
	}
}

func TestLabelRegions_DiagonalConnectivity(t *testing.T) {
	// A diagonal chain is a single region under 8-connectivity.
	g := NewGrid(12, 12)
	for i := 0; i < 11; i++ {
		g.Set(i, i, 100)
	}

	regions := LabelRegions(g, maskFor(g, 50), 10)
	if len(regions) != 1 {
		t.Fatalf("expected 1 diagonal region under 8-connectivity, got %d", len(regions))
	}
	if regions[0].AreaPixels != 11 {
		t.Errorf("expected 11 pixels, got %d", regions[0].AreaPixels)
	}
}

func TestLabelRegions_SeparateComponents(t *testing.T) {
	g := NewGrid(30, 10)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			g.Set(x, y, 80)       // component 1
			g.Set(x+20, y+5, 120) // component 2, separated by cold pixels
		}
	}

	regions := LabelRegions(g, maskFor(g, 50), 10)
	if len(regions) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(regions))
	}
	if regions[0].ID == regions[1].ID {
		t.Error("regions share an id")
	}
	if regions[0].Temperature.Mean != 80 || regions[1].Temperature.Mean != 120 {
		t.Errorf("scan-order ids expected (80 then 120), got means %f and %f",
			regions[0].Temperature.Mean, regions[1].Temperature.Mean)
	}
}

func TestLabelRegions_Deterministic(t *testing.T) {
	g := NewGrid(15, 15)
	for y := 2; y < 8; y++ {
		for x := 3; x < 9; x++ {
			g.Set(x, y, 100)
		}
	}
	mask := maskFor(g, 50)

	first := LabelRegions(g, mask, 10)
	for run := 0; run < 3; run++ {
		got := LabelRegions(g, mask, 10)
		if len(got) != len(first) {
			t.Fatalf("run %d: region count %d != %d", run, len(got), len(first))
		}
		for i := range got {
			if got[i] != first[i] {
				t.Errorf("run %d: region %d differs: %+v != %+v", run, i, got[i], first[i])
			}
		}
	}
}
