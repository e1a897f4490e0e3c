package dem

import "github.com/banshee-data/rugged/internal/georef"

// IntersectionAlgorithm is the strategy a Rugged instance uses to turn a
// sensor ray into a ground point: where the ray first crosses the terrain,
// how to refine a coarse guess, and what elevation the terrain model reports
// at an arbitrary point.
type IntersectionAlgorithm interface {
	Intersection(ellipsoid georef.Ellipsoid, position, los georef.Vector3, centralLongitude float64) (georef.NormalizedGeodeticPoint, error)
	RefineIntersection(ellipsoid georef.Ellipsoid, position, los georef.Vector3, centralLongitude float64, close georef.NormalizedGeodeticPoint) (georef.NormalizedGeodeticPoint, error)
	Elevation(lat, lon float64) (float64, error)
}

// IgnoreDEM intersects the ray with the bare reference ellipsoid, never
// consulting the tile cache. Elevation always reports 0.
type IgnoreDEM struct{}

func (IgnoreDEM) Intersection(ellipsoid georef.Ellipsoid, position, los georef.Vector3, centralLongitude float64) (georef.NormalizedGeodeticPoint, error) {
	return ellipsoid.PointOnGround(position, los, centralLongitude)
}

func (d IgnoreDEM) RefineIntersection(ellipsoid georef.Ellipsoid, position, los georef.Vector3, centralLongitude float64, _ georef.NormalizedGeodeticPoint) (georef.NormalizedGeodeticPoint, error) {
	return d.Intersection(ellipsoid, position, los, centralLongitude)
}

func (IgnoreDEM) Elevation(lat, lon float64) (float64, error) { return 0, nil }

// ConstantElevation intersects the ray with the ellipsoid offset outward by
// a fixed altitude H, a cheap stand-in for a DEM over flat terrain.
type ConstantElevation struct {
	H float64
}

func (c ConstantElevation) Intersection(ellipsoid georef.Ellipsoid, position, los georef.Vector3, centralLongitude float64) (georef.NormalizedGeodeticPoint, error) {
	p, err := ellipsoid.PointAtAltitude(position, los, c.H)
	if err != nil {
		return georef.NormalizedGeodeticPoint{}, err
	}
	return georef.Normalize(ellipsoid.ToGeodetic(p), centralLongitude), nil
}

func (c ConstantElevation) RefineIntersection(ellipsoid georef.Ellipsoid, position, los georef.Vector3, centralLongitude float64, _ georef.NormalizedGeodeticPoint) (georef.NormalizedGeodeticPoint, error) {
	return c.Intersection(ellipsoid, position, los, centralLongitude)
}

func (c ConstantElevation) Elevation(lat, lon float64) (float64, error) { return c.H, nil }
