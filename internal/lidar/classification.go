package lidar

// Height band breakpoints as fractions of the dataset z range. A point's band
// is chosen by where its z falls between z_min and z_max:
//
//	[0.00, 0.10) ground
//	[0.10, 0.30) low vegetation
//	[0.30, 0.60) medium vegetation
//	[0.60, 1.00] high vegetation / building candidates
const (
	GroundBandTop    = 0.10
	LowVegBandTop    = 0.30
	MediumVegBandTop = 0.60
)

// ClassifyHeights assigns a class label to each point from its vertical
// position within the dataset's height range. The returned slice is
// order-preserving with the input. A flat cloud (zero z range) carries no
// height information, so every point stays unclassified. Empty input yields
// an empty label sequence.
func ClassifyHeights(points []Point3D) []ClassLabel {
	if len(points) == 0 {
		return nil
	}

	zMin, zMax := points[0].Z, points[0].Z
	for _, p := range points[1:] {
		if p.Z < zMin {
			zMin = p.Z
		}
		if p.Z > zMax {
			zMax = p.Z
		}
	}

	labels := make([]ClassLabel, len(points))
	zRange := zMax - zMin
	if zRange == 0 {
		return labels // all ClassUnclassified
	}

	groundTop := zMin + GroundBandTop*zRange
	lowVegTop := zMin + LowVegBandTop*zRange
	medVegTop := zMin + MediumVegBandTop*zRange

	for i, p := range points {
		switch {
		case p.Z < groundTop:
			labels[i] = ClassGround
		case p.Z < lowVegTop:
			labels[i] = ClassLowVegetation
		case p.Z < medVegTop:
			labels[i] = ClassMediumVegetation
		default:
			labels[i] = ClassHighVegetation
		}
	}
	return labels
}

// IsBuildingCandidate reports whether a label belongs to the combined upper
// band that feeds footprint clustering.
func IsBuildingCandidate(label ClassLabel) bool {
	return label == ClassHighVegetation || label == ClassBuilding
}

// IsVegetation reports whether a label counts towards vegetation statistics.
// The combined upper band is included: the reference behaviour treats all
// three vegetation codes as vegetation regardless of building extraction.
func IsVegetation(label ClassLabel) bool {
	return label == ClassLowVegetation || label == ClassMediumVegetation || label == ClassHighVegetation
}
