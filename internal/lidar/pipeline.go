package lidar

// ClassifyPointCloud runs the full rule-based classification pass: height
// banding, building-footprint clustering over the combined upper band, and
// vegetation aggregation. It is a pure function of its input and parameters;
// it holds no state across calls and is safe to invoke concurrently.
func ClassifyPointCloud(points []Point3D, params ClusteringParams) (*ClassificationReport, error) {
	if len(points) == 0 {
		return nil, ErrEmptyInput
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	labels := ClassifyHeights(points)

	// Per-class counts include every class in the enumeration, zeros included.
	counts := make(map[string]int, len(classNames))
	for _, c := range AllClassLabels() {
		counts[c.String()] = 0
	}
	for _, label := range labels {
		counts[label.String()]++
	}

	candidates := make([]Point3D, 0)
	for i, label := range labels {
		if IsBuildingCandidate(label) {
			candidates = append(candidates, points[i])
		}
	}
	buildings, err := ExtractBuildings(candidates, params)
	if err != nil {
		return nil, err
	}

	return &ClassificationReport{
		NumPoints:       len(points),
		Bounds:          BoundsOf(points),
		Classifications: counts,
		Buildings:       buildings,
		Vegetation:      SummarizeVegetation(points, labels),
	}, nil
}
