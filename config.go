package rugged

import "github.com/banshee-data/rugged/internal/config"

// Config is the JSON-serializable tuning document a Builder is constructed
// from: which algorithm, ellipsoid and frames to use, the interpolator's
// grid step and tolerance, and whether the optional corrections are
// enabled. Every field is optional; see the Get* accessors on Config for
// documented defaults.
type Config = config.Config

// Algorithm names the ground-intersection strategy.
type Algorithm = config.Algorithm

const (
	AlgorithmDuvenhage               = config.AlgorithmDuvenhage
	AlgorithmDuvenhageFlatBody       = config.AlgorithmDuvenhageFlatBody
	AlgorithmBasicSlowExhaustiveScan = config.AlgorithmBasicSlowExhaustiveScan
	AlgorithmConstantElevation       = config.AlgorithmConstantElevation
	AlgorithmIgnoreDEM               = config.AlgorithmIgnoreDEM
)

// EllipsoidName names one of the four reference ellipsoids Builder
// resolves against published constants: see ellipsoids.go.
type EllipsoidName = config.EllipsoidName

const (
	EllipsoidGRS80    = config.EllipsoidGRS80
	EllipsoidWGS84    = config.EllipsoidWGS84
	EllipsoidIERS96   = config.EllipsoidIERS96
	EllipsoidIERS2003 = config.EllipsoidIERS2003
)

// InertialFrameName names one of the inertial frames Config accepts.
type InertialFrameName = config.InertialFrameName

const (
	FrameGCRF     = config.FrameGCRF
	FrameEME2000  = config.FrameEME2000
	FrameMOD      = config.FrameMOD
	FrameTOD      = config.FrameTOD
	FrameVEIS1950 = config.FrameVEIS1950
)

// BodyFrameName names one of the body-fixed frames Config accepts.
type BodyFrameName = config.BodyFrameName

const (
	BodyFrameITRF        = config.BodyFrameITRF
	BodyFrameITRFEquinox = config.BodyFrameITRFEquinox
	BodyFrameGTOD        = config.BodyFrameGTOD
)

// CartesianFilterName and AngularFilterName name the interpolation-order
// filters a Config selects.
type CartesianFilterName = config.CartesianFilterName
type AngularFilterName = config.AngularFilterName

const (
	CartesianUseP   = config.CartesianUseP
	CartesianUsePV  = config.CartesianUsePV
	CartesianUsePVA = config.CartesianUsePVA

	AngularUseR   = config.AngularUseR
	AngularUseRR  = config.AngularUseRR
	AngularUseRRA = config.AngularUseRRA
)

// EmptyConfig returns a Config with every field unset; every Get* accessor
// then reports its documented default.
func EmptyConfig() *Config { return config.EmptyConfig() }

// LoadConfig reads a JSON tuning document from path, applying it over the
// defaults.
func LoadConfig(path string) (*Config, error) { return config.Load(path) }

// Ptr returns a pointer to v, for setting Config's optional fields inline
// (e.g. Algorithm: rugged.Ptr(rugged.AlgorithmIgnoreDEM)).
func Ptr[T any](v T) *T { return &v }
