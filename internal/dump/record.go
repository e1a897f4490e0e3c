package dump

import (
	"time"

	"github.com/banshee-data/rugged/internal/georef"
)

// AlgorithmRecord names the active DEM intersection algorithm, and, when it
// is CONSTANT_ELEVATION_OVER_ELLIPSOID, the elevation it uses.
type AlgorithmRecord struct {
	Name      string
	Elevation float64
	HasElevation bool
}

// EllipsoidRecord captures the reference ellipsoid in use.
type EllipsoidRecord struct {
	EquatorialRadius float64
	Flattening       float64
	Frame            string
}

// DirectLocationRecord is one direct-location query.
type DirectLocationRecord struct {
	Date        time.Time
	Position    georef.Vector3
	LOS         georef.Vector3
	LightTime   bool
	Aberration  bool
}

// DirectLocationResultRecord is the ground point a direct-location query
// resolved to.
type DirectLocationResultRecord struct {
	Latitude, Longitude, Elevation float64
}

// InverseLocationRecord is one inverse-location query.
type InverseLocationRecord struct {
	SensorName         string
	Latitude, Longitude, Elevation float64
	MinLine, MaxLine   int
	LightTime          bool
	Aberration         bool
}

// InverseLocationResultRecord is the pixel an inverse-location query
// resolved to.
type InverseLocationResultRecord struct {
	LineNumber, PixelNumber float64
}

// SpanRecord describes a SpacecraftToBody interpolator's validity window.
type SpanRecord struct {
	MinDate, MaxDate time.Time
	Step, Tolerance  time.Duration
	InertialFrame    string
}

// TransformRecord is one dense grid point of a SpacecraftToBody
// interpolator: the body->inertial and spacecraft->inertial transforms at a
// given index.
type TransformRecord struct {
	Index int

	BodyRotation     georef.Quaternion
	BodyOmega        georef.Vector3
	BodyOmegaDot     georef.Vector3

	ScPosition       georef.Vector3
	ScVelocity       georef.Vector3
	ScAcceleration   georef.Vector3
	ScRotation       georef.Quaternion
	ScOmega          georef.Vector3
	ScOmegaDot       georef.Vector3
}

// DEMTileRecord describes a tile's raster geometry.
type DEMTileRecord struct {
	Name                   string
	MinLatitude            float64
	LatitudeStep           float64
	Rows                   int
	MinLongitude           float64
	LongitudeStep          float64
	Cols                   int
}

// DEMCellRecord is one elevation sample within a named tile.
type DEMCellRecord struct {
	Name                string
	LatitudeIndex       int
	LongitudeIndex      int
	Elevation           float64
}

// SensorRecord describes a line sensor's static geometry.
type SensorRecord struct {
	Name      string
	NbPixels  int
	Position  georef.Vector3
}

// CachedCrossing is one memoized mean-plane crossing inside a
// SensorMeanPlaneRecord.
type CachedCrossing struct {
	LineNumber      float64
	Date            time.Time
	Target          georef.Vector3
	TargetDirection georef.Vector3
	Derivative      georef.Vector3
}

// SensorMeanPlaneRecord captures a sensor's mean-plane crossing solver
// state, including any memoized crossings.
type SensorMeanPlaneRecord struct {
	SensorName     string
	MinLine, MaxLine int
	MaxEval        int
	Accuracy       float64
	Normal         georef.Vector3
	CachedResults  []CachedCrossing
}

// SensorLOSRecord is one tabulated line-of-sight sample.
type SensorLOSRecord struct {
	SensorName  string
	Date        time.Time
	PixelNumber int
	LOS         georef.Vector3
}

// SensorDatationRecord is one line<->date correspondence.
type SensorDatationRecord struct {
	SensorName string
	LineNumber float64
	Date       time.Time
}

// SensorRateRecord is a sensor's line acquisition rate at a given line.
type SensorRateRecord struct {
	SensorName string
	LineNumber float64
	Rate       float64
}
