package lidar

// ClassLabel is the LAS-style classification code assigned to each point.
type ClassLabel uint8

const (
	// ClassUnclassified marks points that could not be assigned a class.
	ClassUnclassified ClassLabel = iota
	// ClassGround marks ground-surface returns.
	ClassGround
	// ClassLowVegetation marks low vegetation (10-30% of the height range).
	ClassLowVegetation
	// ClassMediumVegetation marks medium vegetation (30-60% of the height range).
	ClassMediumVegetation
	// ClassHighVegetation marks the combined upper band: tall vegetation or
	// building candidates. Footprint clustering disambiguates the two by
	// geometry, not by this label.
	ClassHighVegetation
	// ClassBuilding marks confirmed building returns.
	ClassBuilding
	// ClassWater marks water-surface returns.
	ClassWater
	// ClassOther marks returns that fit no other category.
	ClassOther
)

// classNames maps class codes to their report keys.
var classNames = [...]string{
	ClassUnclassified:     "unclassified",
	ClassGround:           "ground",
	ClassLowVegetation:    "low_vegetation",
	ClassMediumVegetation: "medium_vegetation",
	ClassHighVegetation:   "high_vegetation",
	ClassBuilding:         "building",
	ClassWater:            "water",
	ClassOther:            "other",
}

// String returns the report key for the class label.
func (c ClassLabel) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return "unknown"
}

// AllClassLabels returns every label in code order. Reports include a count
// for each, including zero counts.
func AllClassLabels() []ClassLabel {
	return []ClassLabel{
		ClassUnclassified, ClassGround, ClassLowVegetation, ClassMediumVegetation,
		ClassHighVegetation, ClassBuilding, ClassWater, ClassOther,
	}
}

// Point3D is a single point sample in Cartesian coordinates.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Bounds is the axis-aligned bounding box of a point set.
type Bounds struct {
	MinX float64 `json:"minX"`
	MaxX float64 `json:"maxX"`
	MinY float64 `json:"minY"`
	MaxY float64 `json:"maxY"`
	MinZ float64 `json:"minZ"`
	MaxZ float64 `json:"maxZ"`
}

// BoundsOf computes the bounds of a non-empty point set. A single-point set
// yields degenerate bounds with min == max on each axis.
func BoundsOf(points []Point3D) Bounds {
	b := Bounds{
		MinX: points[0].X, MaxX: points[0].X,
		MinY: points[0].Y, MaxY: points[0].Y,
		MinZ: points[0].Z, MaxZ: points[0].Z,
	}
	for _, p := range points[1:] {
		if p.X < b.MinX {
			b.MinX = p.X
		}
		if p.X > b.MaxX {
			b.MaxX = p.X
		}
		if p.Y < b.MinY {
			b.MinY = p.Y
		}
		if p.Y > b.MaxY {
			b.MaxY = p.Y
		}
		if p.Z < b.MinZ {
			b.MinZ = p.Z
		}
		if p.Z > b.MaxZ {
			b.MaxZ = p.Z
		}
	}
	return b
}

// Building is a footprint extracted from one building-candidate cluster.
type Building struct {
	ID         int     `json:"id"`
	Centroid   Point3D `json:"centroid"`
	Height     float64 `json:"height"`
	Area       float64 `json:"area"`
	PointCount int     `json:"point_count"`
}

// VegetationStats aggregates height statistics over vegetation-labeled points.
type VegetationStats struct {
	PointCount      int     `json:"point_count"`
	MeanHeight      float64 `json:"mean_height"`
	MinHeight       float64 `json:"min_height"`
	MaxHeight       float64 `json:"max_height"`
	StdHeight       float64 `json:"std_height"`
	CoveragePercent float64 `json:"coverage_percentage"`
}

// ClassificationReport is the result of one full point-cloud classification
// pass. It owns no external resources and exists only for the duration of
// the response.
type ClassificationReport struct {
	NumPoints       int             `json:"numPoints"`
	Bounds          Bounds          `json:"bounds"`
	Classifications map[string]int  `json:"classifications"`
	Buildings       []Building      `json:"buildings"`
	Vegetation      VegetationStats `json:"vegetation"`
}
