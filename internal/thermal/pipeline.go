package thermal

// Report is the result of one anomaly-detection pass over an intensity grid.
type Report struct {
	Anomalies  []Region  `json:"anomalies"`
	Statistics GridStats `json:"statistics"`
	Method     string    `json:"method"`
}

// DetectAnomalies composes thresholding and connected-component labeling
// into one anomaly report. It is a pure function of its input and parameters
// and is safe to invoke concurrently.
func DetectAnomalies(g *Grid, params Params) (*Report, error) {
	if g.Empty() {
		return nil, ErrEmptyGrid
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	mask := ThresholdMask(g, params.KMultiplier)
	regions := LabelRegions(g, mask, params.MinRegionPixels)

	return &Report{
		Anomalies:  regions,
		Statistics: ComputeStats(g),
		Method:     "statistical",
	}, nil
}
