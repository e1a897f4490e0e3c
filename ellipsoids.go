package rugged

import (
	"github.com/banshee-data/rugged/internal/config"
	"github.com/banshee-data/rugged/internal/georef"
)

// ellipsoidPresets maps the named ellipsoids from the builder's enumeration
// to their published (a, f) values; ellipsoidFor fills in the body-fixed
// frame identifier.
var ellipsoidPresets = map[config.EllipsoidName]georef.Ellipsoid{
	config.EllipsoidGRS80: {
		Name: "GRS80", A: 6378137.0, F: 1.0 / 298.257222101,
	},
	config.EllipsoidWGS84: {
		Name: "WGS84", A: 6378137.0, F: 1.0 / 298.257223563,
	},
	// IERS96 is the ellipsoid associated with the 1996 IERS conventions.
	config.EllipsoidIERS96: {
		Name: "IERS96", A: 6378136.49, F: 1.0 / 298.25645,
	},
	// IERS2003 is the ellipsoid associated with the 2003 IERS conventions.
	config.EllipsoidIERS2003: {
		Name: "IERS2003", A: 6378136.6, F: 1.0 / 298.25642,
	},
}

func ellipsoidFor(name config.EllipsoidName, bodyFrame string) (georef.Ellipsoid, error) {
	preset, ok := ellipsoidPresets[name]
	if !ok {
		return georef.Ellipsoid{}, unknownEllipsoid(name)
	}
	preset.BodyFrame = bodyFrame
	return preset, nil
}
