// Package config implements the JSON-serializable tuning knobs behind a
// Rugged builder: which algorithm, ellipsoid and frames to use, the
// interpolator's grid step and margin, and whether the optional corrections
// are enabled. Every field is optional (a nil pointer means "use the
// default"), so a partial JSON document safely overlays the defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Algorithm names the ground-intersection strategy, matching the Builder
// enumeration's named algorithm constants.
type Algorithm string

const (
	AlgorithmDuvenhage               Algorithm = "DUVENHAGE"
	AlgorithmDuvenhageFlatBody       Algorithm = "DUVENHAGE_FLAT_BODY"
	AlgorithmBasicSlowExhaustiveScan Algorithm = "BASIC_SLOW_EXHAUSTIVE_SCAN_FOR_TESTS_ONLY"
	AlgorithmConstantElevation       Algorithm = "CONSTANT_ELEVATION_OVER_ELLIPSOID"
	AlgorithmIgnoreDEM               Algorithm = "IGNORE_DEM_USE_ELLIPSOID"
)

// EllipsoidName names one of the four reference ellipsoids the Builder
// enumeration supports.
type EllipsoidName string

const (
	EllipsoidGRS80    EllipsoidName = "GRS80"
	EllipsoidWGS84    EllipsoidName = "WGS84"
	EllipsoidIERS96   EllipsoidName = "IERS96"
	EllipsoidIERS2003 EllipsoidName = "IERS2003"
)

// InertialFrameName names one of the inertial frames the Builder
// enumeration supports.
type InertialFrameName string

const (
	FrameGCRF     InertialFrameName = "GCRF"
	FrameEME2000  InertialFrameName = "EME2000"
	FrameMOD      InertialFrameName = "MOD"
	FrameTOD      InertialFrameName = "TOD"
	FrameVEIS1950 InertialFrameName = "VEIS1950"
)

// BodyFrameName names one of the body-fixed frames the Builder enumeration
// supports.
type BodyFrameName string

const (
	BodyFrameITRF        BodyFrameName = "ITRF"
	BodyFrameITRFEquinox BodyFrameName = "ITRF_EQUINOX"
	BodyFrameGTOD        BodyFrameName = "GTOD"
)

// CartesianFilterName and AngularFilterName name the interpolation-order
// filters, matching internal/frames's CartesianFilter/AngularFilter.
type CartesianFilterName string
type AngularFilterName string

const (
	CartesianUseP   CartesianFilterName = "USE_P"
	CartesianUsePV  CartesianFilterName = "USE_PV"
	CartesianUsePVA CartesianFilterName = "USE_PVA"

	AngularUseR   AngularFilterName = "USE_R"
	AngularUseRR  AngularFilterName = "USE_RR"
	AngularUseRRA AngularFilterName = "USE_RRA"
)

// Config is the root tuning document for a Rugged instance. Every field is
// optional; Get* accessors resolve a field to its effective value, falling
// back to the documented default when unset.
type Config struct {
	Algorithm          *Algorithm           `json:"algorithm,omitempty"`
	ConstantElevationM *float64             `json:"constant_elevation_m,omitempty"`
	Ellipsoid          *EllipsoidName       `json:"ellipsoid,omitempty"`
	InertialFrame      *InertialFrameName   `json:"inertial_frame,omitempty"`
	BodyFrame          *BodyFrameName       `json:"body_frame,omitempty"`
	CartesianFilter    *CartesianFilterName `json:"cartesian_filter,omitempty"`
	AngularFilter      *AngularFilterName   `json:"angular_filter,omitempty"`

	InterpolationStep      *string `json:"interpolation_step,omitempty"`      // duration string, e.g. "0.25s"
	InterpolationTolerance *string `json:"interpolation_tolerance,omitempty"` // duration string, e.g. "5s"

	AberrationOfLightEnabled *bool `json:"aberration_of_light_enabled,omitempty"`
	LightTimeEnabled         *bool `json:"light_time_enabled,omitempty"`

	TileCacheCapacity *int `json:"tile_cache_capacity,omitempty"`
}

// EmptyConfig returns a Config with every field unset; every Get* accessor
// then reports its default.
func EmptyConfig() *Config { return &Config{} }

// Load reads a JSON tuning document from path, applying it over the
// defaults; fields absent from the document keep their default value.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := EmptyConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that any set fields hold parseable/sane values.
func (c *Config) Validate() error {
	if c.InterpolationStep != nil {
		if _, err := time.ParseDuration(*c.InterpolationStep); err != nil {
			return fmt.Errorf("invalid interpolation_step %q: %w", *c.InterpolationStep, err)
		}
	}
	if c.InterpolationTolerance != nil {
		if _, err := time.ParseDuration(*c.InterpolationTolerance); err != nil {
			return fmt.Errorf("invalid interpolation_tolerance %q: %w", *c.InterpolationTolerance, err)
		}
	}
	if c.TileCacheCapacity != nil && *c.TileCacheCapacity <= 0 {
		return fmt.Errorf("tile_cache_capacity must be positive, got %d", *c.TileCacheCapacity)
	}
	return nil
}

func (c *Config) GetAlgorithm() Algorithm {
	if c.Algorithm == nil {
		return AlgorithmDuvenhage
	}
	return *c.Algorithm
}

func (c *Config) GetConstantElevationM() float64 {
	if c.ConstantElevationM == nil {
		return 0
	}
	return *c.ConstantElevationM
}

func (c *Config) GetEllipsoid() EllipsoidName {
	if c.Ellipsoid == nil {
		return EllipsoidWGS84
	}
	return *c.Ellipsoid
}

func (c *Config) GetInertialFrame() InertialFrameName {
	if c.InertialFrame == nil {
		return FrameEME2000
	}
	return *c.InertialFrame
}

func (c *Config) GetBodyFrame() BodyFrameName {
	if c.BodyFrame == nil {
		return BodyFrameITRF
	}
	return *c.BodyFrame
}

func (c *Config) GetCartesianFilter() CartesianFilterName {
	if c.CartesianFilter == nil {
		return CartesianUsePV
	}
	return *c.CartesianFilter
}

func (c *Config) GetAngularFilter() AngularFilterName {
	if c.AngularFilter == nil {
		return AngularUseRR
	}
	return *c.AngularFilter
}

func (c *Config) GetInterpolationStep() time.Duration {
	if c.InterpolationStep == nil {
		return 250 * time.Millisecond
	}
	d, err := time.ParseDuration(*c.InterpolationStep)
	if err != nil {
		return 250 * time.Millisecond
	}
	return d
}

func (c *Config) GetInterpolationTolerance() time.Duration {
	if c.InterpolationTolerance == nil {
		return 5 * time.Second
	}
	d, err := time.ParseDuration(*c.InterpolationTolerance)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

func (c *Config) GetAberrationOfLightEnabled() bool {
	if c.AberrationOfLightEnabled == nil {
		return false
	}
	return *c.AberrationOfLightEnabled
}

func (c *Config) GetLightTimeEnabled() bool {
	if c.LightTimeEnabled == nil {
		return false
	}
	return *c.LightTimeEnabled
}

func (c *Config) GetTileCacheCapacity() int {
	if c.TileCacheCapacity == nil {
		return 16
	}
	return *c.TileCacheCapacity
}
