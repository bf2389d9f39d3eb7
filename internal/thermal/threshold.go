package thermal

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Detection defaults used by callers that do not override parameters.
const (
	// DefaultKMultiplier is the number of standard deviations above the
	// mean at which a pixel becomes anomalous.
	DefaultKMultiplier = 2.0
	// DefaultMinRegionPixels is the smallest connected region reported as
	// an anomaly; smaller regions are treated as noise.
	DefaultMinRegionPixels = 10
)

// Params configures statistical anomaly detection.
type Params struct {
	KMultiplier     float64 // threshold = mean + k*std
	MinRegionPixels int     // discard regions smaller than this
}

// DefaultParams returns the detection parameters used when the caller
// supplies none.
func DefaultParams() Params {
	return Params{KMultiplier: DefaultKMultiplier, MinRegionPixels: DefaultMinRegionPixels}
}

// Validate checks the parameters for well-formedness.
func (p Params) Validate() error {
	if p.KMultiplier < 0 {
		return fmt.Errorf("k multiplier must be non-negative, got %g: %w", p.KMultiplier, ErrBadParams)
	}
	if p.MinRegionPixels < 1 {
		return fmt.Errorf("min region pixels must be at least 1, got %d: %w", p.MinRegionPixels, ErrBadParams)
	}
	return nil
}

// GridStats holds global intensity statistics for a grid.
type GridStats struct {
	Mean float64 `json:"mean_temperature"`
	Max  float64 `json:"max_temperature"`
	Min  float64 `json:"min_temperature"`
	Std  float64 `json:"std_temperature"`
}

// ComputeStats computes global intensity statistics. Standard deviation is
// the population form, matching the reference statistics.
func ComputeStats(g *Grid) GridStats {
	return GridStats{
		Mean: stat.Mean(g.Values, nil),
		Max:  floats.Max(g.Values),
		Min:  floats.Min(g.Values),
		Std:  stat.PopStdDev(g.Values, nil),
	}
}

// ThresholdMask flags every pixel whose value strictly exceeds
// mean + k*std. On a constant-valued grid the threshold equals the mean and
// no pixel exceeds it, so the mask is empty; that is expected, not an error.
func ThresholdMask(g *Grid, k float64) []bool {
	mean := stat.Mean(g.Values, nil)
	std := stat.PopStdDev(g.Values, nil)
	threshold := mean + k*std

	mask := make([]bool, len(g.Values))
	for i, v := range g.Values {
		mask[i] = v > threshold
	}
	return mask
}
