package dem

import (
	"math"

	"github.com/banshee-data/rugged/internal/georef"
	"github.com/banshee-data/rugged/internal/rgerrors"
)

// Duvenhage walks a ray across the tiles served by a TilesCache, using each
// tile's MinMaxKdTree to skip cells the ray provably cannot reach before
// resolving the exact crossing against a single cell's bilinear elevation
// surface. Within a tile the ray is modeled as locally linear in geodetic
// coordinates (valid at tile scale), which turns the cell-surface crossing
// into the same kind of quadratic as the ellipsoid intersections in georef.
type Duvenhage struct {
	cache    *TilesCache
	flatBody bool
}

// NewDuvenhage builds a Duvenhage intersector over cache. flatBody replaces
// the per-cell bilinear surface with the cell's mean elevation, trading
// accuracy at cell boundaries for a linear (rather than quadratic) crossing
// solve.
func NewDuvenhage(cache *TilesCache, flatBody bool) *Duvenhage {
	return &Duvenhage{cache: cache, flatBody: flatBody}
}

const maxTileHops = 64
const maxCellsPerTile = 4096

// demEntryAltitude bounds the highest elevation the walk expects terrain to
// reach; the inward walk starts where the ray crosses this shell rather than
// the bare ellipsoid, so it never marches past a mountain whose summit sits
// above the reference surface.
const demEntryAltitude = 9000.0

func (d *Duvenhage) Intersection(ellipsoid georef.Ellipsoid, position, los georef.Vector3, centralLongitude float64) (georef.NormalizedGeodeticPoint, error) {
	k0, err := entryParameter(ellipsoid, position, los)
	if err != nil {
		return georef.NormalizedGeodeticPoint{}, err
	}
	p, err := d.walk(ellipsoid, position, los, k0)
	if err != nil {
		return georef.NormalizedGeodeticPoint{}, err
	}
	return georef.Normalize(ellipsoid.ToGeodetic(p), centralLongitude), nil
}

// RefineIntersection re-solves the crossing in the single cell containing a
// coarse guess, rather than walking from the ellipsoid entry point. This is
// the precision pass used once the mean-plane/pixel-crossing solver has a
// close estimate of where on the sensor track the ray meets the ground.
func (d *Duvenhage) RefineIntersection(ellipsoid georef.Ellipsoid, position, los georef.Vector3, centralLongitude float64, close georef.NormalizedGeodeticPoint) (georef.NormalizedGeodeticPoint, error) {
	closeCart := ellipsoid.ToCartesian(close.GeodeticPoint)
	k0 := projectOntoRay(position, los, closeCart)

	tile, err := d.cache.GetTile(close.Latitude, close.Longitude)
	if err != nil {
		return georef.NormalizedGeodeticPoint{}, err
	}
	i := clampIndex(tile.LatitudeIndex(close.Latitude), tile.Rows-2)
	j := clampIndex(tile.LongitudeIndex(close.Longitude), tile.Cols-2)

	gp0 := ellipsoid.ToGeodetic(georef.PointAt(position, los, k0))
	gpPlus := ellipsoid.ToGeodetic(georef.PointAt(position, los, k0+1))
	dlat, dlon, dalt := gpPlus.Latitude-gp0.Latitude, gpPlus.Longitude-gp0.Longitude, gpPlus.Altitude-gp0.Altitude

	if p, _, found := d.cellIntersect(tile, i, j, position, los, k0, gp0, dlat, dlon, dalt); found {
		return georef.Normalize(ellipsoid.ToGeodetic(p), centralLongitude), nil
	}

	p, err := d.walk(ellipsoid, position, los, k0)
	if err != nil {
		return georef.NormalizedGeodeticPoint{}, err
	}
	return georef.Normalize(ellipsoid.ToGeodetic(p), centralLongitude), nil
}

func (d *Duvenhage) Elevation(lat, lon float64) (float64, error) {
	tile, err := d.cache.GetTile(lat, lon)
	if err != nil {
		return 0, err
	}
	return tile.InterpolateElevation(lat, lon)
}

// entryParameter finds where the ray crosses the demEntryAltitude shell
// above the reference ellipsoid, the starting point for the inward walk
// across DEM tiles. If the ray origin already sits below that shell (e.g. an
// airborne sensor), the walk simply starts at k=0.
func entryParameter(ellipsoid georef.Ellipsoid, position, los georef.Vector3) (float64, error) {
	if ellipsoid.ToGeodetic(position).Altitude <= demEntryAltitude {
		return 0, nil
	}
	p, err := ellipsoid.PointAtAltitude(position, los, demEntryAltitude)
	if err != nil {
		return 0, rgerrors.New(rgerrors.DEMEntryPointIsBehindSpacecraft, nil,
			"line of sight never reaches the dem entry shell at %g m", demEntryAltitude)
	}
	k := projectOntoRay(position, los, p)
	if k < 0 {
		return 0, rgerrors.New(rgerrors.DEMEntryPointIsBehindSpacecraft, nil,
			"dem entry point is behind the spacecraft")
	}
	return k, nil
}

// walk advances the ray tile by tile, starting from parameter k0, until a
// terrain crossing is found or the hop budget is exhausted.
func (d *Duvenhage) walk(ellipsoid georef.Ellipsoid, position, los georef.Vector3, k0 float64) (georef.Vector3, error) {
	k := k0
	for hop := 0; hop < maxTileHops; hop++ {
		p := georef.PointAt(position, los, k)
		gp := ellipsoid.ToGeodetic(p)
		tile, err := d.cache.GetTile(gp.Latitude, gp.Longitude)
		if err != nil {
			return georef.Vector3{}, err
		}

		point, exitK, found, err := d.walkTile(ellipsoid, tile, position, los, k)
		if err != nil {
			return georef.Vector3{}, err
		}
		if found {
			return point, nil
		}
		if exitK <= k {
			return georef.Vector3{}, rgerrors.New(rgerrors.InternalError, nil,
				"duvenhage walk failed to progress past k=%g", k)
		}
		k = exitK
	}
	return georef.Vector3{}, rgerrors.New(rgerrors.LineOfSightDoesNotReachGround, nil,
		"duvenhage walk exceeded %d tile hops without reaching the terrain", maxTileHops)
}

// walkTile marches cell by cell across a single tile along the ray's local
// direction, pruning cells the ray's altitude cannot reach using the tile's
// MinMaxKdTree before falling back to an exact per-cell solve. It returns
// either the crossing point, or the ray parameter at which the ray leaves
// the tile so the caller can fetch the next one.
func (d *Duvenhage) walkTile(ellipsoid georef.Ellipsoid, tile *Tile, position, los georef.Vector3, kStart float64) (georef.Vector3, float64, bool, error) {
	const dk = 1.0
	gp0 := ellipsoid.ToGeodetic(georef.PointAt(position, los, kStart))
	gpPlus := ellipsoid.ToGeodetic(georef.PointAt(position, los, kStart+dk))
	dlat := (gpPlus.Latitude - gp0.Latitude) / dk
	dlon := (gpPlus.Longitude - gp0.Longitude) / dk
	dalt := (gpPlus.Altitude - gp0.Altitude) / dk

	i := clampIndex(tile.LatitudeIndex(gp0.Latitude), tile.Rows-2)
	j := clampIndex(tile.LongitudeIndex(gp0.Longitude), tile.Cols-2)
	stepI, stepJ := sign(dlat), sign(dlon)
	tree := tile.Tree()

	for n := 0; n < maxCellsPerTile; n++ {
		if i < 0 || i > tile.Rows-2 || j < 0 || j > tile.Cols-2 {
			return georef.Vector3{}, tileExitParameter(tile, gp0, dlat, dlon, kStart, stepI, stepJ), false, nil
		}

		if node := tree.LeafCellContaining(i, j); node >= 0 {
			_, _, _, _, _, maxElev := tree.Bounds(node)
			if kLo, kHi, ok := cellKRange(tile, i, j, gp0, dlat, dlon, kStart); ok {
				altLo := gp0.Altitude + dalt*(kLo-kStart)
				altHi := gp0.Altitude + dalt*(kHi-kStart)
				if altLo > altHi {
					altLo, altHi = altHi, altLo
				}
				if altLo > maxElev {
					if stepI == 0 && stepJ == 0 {
						break
					}
					i += stepI
					j += stepJ
					continue
				}
			}
		}

		if p, k, found := d.cellIntersect(tile, i, j, position, los, kStart, gp0, dlat, dlon, dalt); found && k >= kStart {
			return p, k, true, nil
		}

		if stepI == 0 && stepJ == 0 {
			break
		}
		i += stepI
		j += stepJ
	}
	return georef.Vector3{}, kStart + dk, false, nil
}

// cellIntersect solves for the ray parameter at which the ray, modeled
// locally as linear in geodetic coordinates, crosses cell (i,j)'s bilinear
// elevation surface (or, in flat-body mode, the cell's mean elevation).
func (d *Duvenhage) cellIntersect(tile *Tile, i, j int, position, los georef.Vector3, kStart float64, gp0 georef.GeodeticPoint, dlat, dlon, dalt float64) (georef.Vector3, float64, bool) {
	e00 := tile.Elevation(i, j)
	e10 := tile.Elevation(i+1, j)
	e01 := tile.Elevation(i, j+1)
	e11 := tile.Elevation(i+1, j+1)

	if d.flatBody {
		avg := (e00 + e10 + e01 + e11) / 4
		return flatCellIntersect(tile, i, j, position, los, kStart, gp0, dlat, dlon, dalt, avg)
	}

	latI := tile.MinLatitude + float64(i)*tile.LatitudeStep
	lonJ := tile.MinLongitude + float64(j)*tile.LongitudeStep
	u0 := (gp0.Latitude - latI) / tile.LatitudeStep
	uSlope := dlat / tile.LatitudeStep
	v0 := (gp0.Longitude - lonJ) / tile.LongitudeStep
	vSlope := dlon / tile.LongitudeStep

	cu := e10 - e00
	cv := e01 - e00
	cuv := e00 - e10 - e01 + e11

	// z(k) = a0z + a1z*t + a2z*t^2 where t = k-kStart, expanding the bilinear
	// surface e00 + cu*u + cv*v + cuv*u*v with u(t) = u0+uSlope*t, v(t) likewise.
	a0z := e00 + cu*u0 + cv*v0 + cuv*u0*v0
	a1z := cu*uSlope + cv*vSlope + cuv*(u0*vSlope+v0*uSlope)
	a2z := cuv * uSlope * vSlope

	// altitude(k) - z(k) = 0 is then a quadratic in t, solved the same
	// numerically stable way as the ellipsoid intersections.
	A := -a2z
	B := dalt - a1z
	C := gp0.Altitude - a0z

	t1, t2, ok := georef.SolveQuadratic(A, B, C)
	if !ok {
		return georef.Vector3{}, 0, false
	}

	tryT := func(t float64) (georef.Vector3, float64, bool) {
		u := u0 + uSlope*t
		v := v0 + vSlope*t
		if u < -1e-9 || u > 1+1e-9 || v < -1e-9 || v > 1+1e-9 {
			return georef.Vector3{}, 0, false
		}
		k := kStart + t
		return georef.PointAt(position, los, k), k, true
	}
	if p, k, found := tryT(t1); found {
		return p, k, true
	}
	return tryT(t2)
}

func flatCellIntersect(tile *Tile, i, j int, position, los georef.Vector3, kStart float64, gp0 georef.GeodeticPoint, dlat, dlon, dalt, elev float64) (georef.Vector3, float64, bool) {
	if math.Abs(dalt) < 1e-15 {
		return georef.Vector3{}, 0, false
	}
	t := (elev - gp0.Altitude) / dalt
	latI := tile.MinLatitude + float64(i)*tile.LatitudeStep
	lonJ := tile.MinLongitude + float64(j)*tile.LongitudeStep
	u := (gp0.Latitude + dlat*t - latI) / tile.LatitudeStep
	v := (gp0.Longitude + dlon*t - lonJ) / tile.LongitudeStep
	if u < -1e-9 || u > 1+1e-9 || v < -1e-9 || v > 1+1e-9 {
		return georef.Vector3{}, 0, false
	}
	k := kStart + t
	return georef.PointAt(position, los, k), k, true
}

// cellKRange bounds the ray parameters at which the ray, under the tile's
// local linear model, lies within cell (i,j)'s lat/lon rectangle.
func cellKRange(tile *Tile, i, j int, gp0 georef.GeodeticPoint, dlat, dlon, kStart float64) (kLo, kHi float64, ok bool) {
	latLo := tile.MinLatitude + float64(i)*tile.LatitudeStep
	latHi := latLo + tile.LatitudeStep
	lonLo := tile.MinLongitude + float64(j)*tile.LongitudeStep
	lonHi := lonLo + tile.LongitudeStep

	kLo, kHi = -math.MaxFloat64, math.MaxFloat64
	if dlat != 0 {
		ka, kb := kStart+(latLo-gp0.Latitude)/dlat, kStart+(latHi-gp0.Latitude)/dlat
		if ka > kb {
			ka, kb = kb, ka
		}
		kLo, kHi = math.Max(kLo, ka), math.Min(kHi, kb)
	}
	if dlon != 0 {
		ka, kb := kStart+(lonLo-gp0.Longitude)/dlon, kStart+(lonHi-gp0.Longitude)/dlon
		if ka > kb {
			ka, kb = kb, ka
		}
		kLo, kHi = math.Max(kLo, ka), math.Min(kHi, kb)
	}
	if kLo > kHi {
		return 0, 0, false
	}
	return kLo, kHi, true
}

// tileExitParameter estimates the ray parameter at which the ray leaves
// tile's bounds, under the same local linear model used to walk it.
func tileExitParameter(tile *Tile, gp0 georef.GeodeticPoint, dlat, dlon, kStart float64, stepI, stepJ int) float64 {
	switch {
	case stepI != 0:
		boundaryLat := tile.MinLatitude
		if stepI > 0 {
			boundaryLat = tile.MaxLatitude()
		}
		return kStart + (boundaryLat-gp0.Latitude)/dlat
	case stepJ != 0:
		boundaryLon := tile.MinLongitude
		if stepJ > 0 {
			boundaryLon = tile.MaxLongitude()
		}
		return kStart + (boundaryLon-gp0.Longitude)/dlon
	default:
		return kStart + 1.0
	}
}

func projectOntoRay(position, los, point georef.Vector3) float64 {
	return point.Sub(position).Dot(los) / los.Dot(los)
}

func clampIndex(i, max int) int {
	if i < 0 {
		return 0
	}
	if i > max {
		return max
	}
	return i
}

func sign(x float64) int {
	switch {
	case x > 1e-15:
		return 1
	case x < -1e-15:
		return -1
	default:
		return 0
	}
}
