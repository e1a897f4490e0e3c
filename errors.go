package rugged

import (
	"github.com/banshee-data/rugged/internal/config"
	"github.com/banshee-data/rugged/internal/rgerrors"
)

// Error is the single error type every Rugged operation returns, carrying a
// named Code and structured Parts alongside its message.
type Error = rgerrors.Error

// Code enumerates the named failure conditions a caller can switch on via
// IsCode instead of scraping error text.
type Code = rgerrors.Code

// Re-exported codes a host application is expected to branch on: a missing
// DEM tile, a query outside the interpolator's validity span, an unknown
// sensor name, a ground point outside the searched line range, and a line of
// sight that misses the ground.
const (
	CodeNoDEMData                     = rgerrors.NoDEMData
	CodeOutOfTimeRange                = rgerrors.OutOfTimeRange
	CodeUnknownSensor                 = rgerrors.UnknownSensor
	CodeGroundPointOutOfLineRange     = rgerrors.GroundPointOutOfLineRange
	CodeLineOfSightDoesNotReachGround = rgerrors.LineOfSightDoesNotReachGround
)

// IsCode reports whether err is a Rugged *Error carrying code, regardless of
// wrapping.
func IsCode(err error, code Code) bool {
	return rgerrors.Is(err, code)
}

func unknownSensor(name string) error {
	return rgerrors.New(rgerrors.UnknownSensor, map[string]any{"sensor": name}, "unknown sensor %q", name)
}

func unknownEllipsoid(name config.EllipsoidName) error {
	return rgerrors.New(rgerrors.InternalError, map[string]any{"ellipsoid": name}, "unknown ellipsoid preset %q", name)
}

func unsupportedAlgorithm(algo config.Algorithm) error {
	return rgerrors.New(rgerrors.InternalError, map[string]any{"algorithm": algo}, "unsupported algorithm %q", algo)
}

func missingDEMUpdater(algo config.Algorithm) error {
	return rgerrors.New(rgerrors.UninitializedContext, map[string]any{"algorithm": algo},
		"algorithm %q requires a DEM tile updater, none configured on the builder", algo)
}
