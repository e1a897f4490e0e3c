// Package rgerrors implements Rugged's error taxonomy: a closed set of named
// conditions, each carrying a message and structured parts so a caller can
// recover the offending value (a date, a latitude, a line number, …) without
// parsing the message text.
package rgerrors

import "fmt"

// Code enumerates the named failure conditions from the error-handling
// design. Codes are grouped by the subsystem that raises them.
type Code string

const (
	// Config
	InternalError           Code = "INTERNAL_ERROR"
	UninitializedContext     Code = "UNINITIALIZED_CONTEXT"
	DuplicatedParameterName  Code = "DUPLICATED_PARAMETER_NAME"

	// Data / DEM
	OutOfTileIndices                Code = "OUT_OF_TILE_INDICES"
	OutOfTileAngles                 Code = "OUT_OF_TILE_ANGLES"
	NoDEMData                       Code = "NO_DEM_DATA"
	TileWithoutRequiredNeighbors    Code = "TILE_WITHOUT_REQUIRED_NEIGHBORS_SELECTED"
	EmptyTile                       Code = "EMPTY_TILE"
	UnknownTile                     Code = "UNKNOWN_TILE"
	TileAlreadyDefined              Code = "TILE_ALREADY_DEFINED"

	// Timing
	OutOfTimeRange Code = "OUT_OF_TIME_RANGE"

	// Sensor
	UnknownSensor        Code = "UNKNOWN_SENSOR"
	InvalidRangeForLines Code = "INVALID_RANGE_FOR_LINES"
	InvalidStep          Code = "INVALID_STEP"

	// Geometry
	LineOfSightDoesNotReachGround     Code = "LINE_OF_SIGHT_DOES_NOT_REACH_GROUND"
	LineOfSightNeverCrossesLatitude   Code = "LINE_OF_SIGHT_NEVER_CROSSES_LATITUDE"
	LineOfSightNeverCrossesLongitude  Code = "LINE_OF_SIGHT_NEVER_CROSSES_LONGITUDE"
	LineOfSightNeverCrossesAltitude   Code = "LINE_OF_SIGHT_NEVER_CROSSES_ALTITUDE"
	DEMEntryPointIsBehindSpacecraft   Code = "DEM_ENTRY_POINT_IS_BEHIND_SPACECRAFT"
	GroundPointOutOfLineRange         Code = "GROUND_POINT_OUT_OF_LINE_RANGE"

	// Estimation
	EstimatedParametersNumberMismatch Code = "ESTIMATED_PARAMETERS_NUMBER_MISMATCH"

	// Replay
	CannotParseLine                        Code = "CANNOT_PARSE_LINE"
	LightTimeCorrectionRedefined            Code = "LIGHT_TIME_CORRECTION_REDEFINED"
	AberrationOfLightCorrectionRedefined    Code = "ABERRATION_OF_LIGHT_CORRECTION_REDEFINED"
	FramesMismatchWithInterpolatorDump      Code = "FRAMES_MISMATCH_WITH_INTERPOLATOR_DUMP"
	NotInterpolatorDumpData                 Code = "NOT_INTERPOLATOR_DUMP_DATA"
)

// Error is the single error type Rugged returns for every code above. Parts
// holds the structured data named by the error-handling design (an offending
// date, latitude, line number, …) so callers can act on it programmatically
// instead of scraping Message.
type Error struct {
	Code    Code
	Message string
	Parts   map[string]any
}

func (e *Error) Error() string {
	return e.Message
}

// New builds an Error for code, formatting Message from format/args and
// recording parts verbatim.
func New(code Code, parts map[string]any, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Parts:   parts,
	}
}

// Is reports whether err is a Rugged error of the given code. It lets callers
// write `if rgerrors.Is(err, rgerrors.OutOfTimeRange) { … }` regardless of
// wrapping.
func Is(err error, code Code) bool {
	var e *Error
	if !asError(err, &e) {
		return false
	}
	return e.Code == code
}

func asError(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
