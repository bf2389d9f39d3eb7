package lidar

import "gonum.org/v1/gonum/stat"

// SummarizeVegetation aggregates height statistics and coverage over all
// vegetation-labeled points. Standard deviation is the population form,
// matching the reference statistics. A set with no vegetation points yields
// all-zero statistics rather than an error.
func SummarizeVegetation(points []Point3D, labels []ClassLabel) VegetationStats {
	heights := make([]float64, 0, len(points))
	for i, label := range labels {
		if IsVegetation(label) {
			heights = append(heights, points[i].Z)
		}
	}
	if len(heights) == 0 {
		return VegetationStats{}
	}

	minH, maxH := heights[0], heights[0]
	for _, h := range heights[1:] {
		if h < minH {
			minH = h
		}
		if h > maxH {
			maxH = h
		}
	}

	return VegetationStats{
		PointCount:      len(heights),
		MeanHeight:      stat.Mean(heights, nil),
		MinHeight:       minH,
		MaxHeight:       maxH,
		StdHeight:       stat.PopStdDev(heights, nil),
		CoveragePercent: float64(len(heights)) / float64(len(points)) * 100,
	}
}
