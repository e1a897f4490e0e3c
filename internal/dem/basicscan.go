package dem

import (
	"github.com/banshee-data/rugged/internal/georef"
	"github.com/banshee-data/rugged/internal/rgerrors"
)

// BasicExhaustiveScan is the reference, unoptimized ground-intersection
// algorithm: it visits every cell the ray crosses in a tile in order,
// without the MinMaxKdTree pruning Duvenhage uses. It exists to validate
// Duvenhage's pruning against a method whose correctness is obvious by
// inspection, and is too slow for anything but tests.
type BasicExhaustiveScan struct {
	cache *TilesCache
}

// NewBasicExhaustiveScan builds a scan intersector over cache.
func NewBasicExhaustiveScan(cache *TilesCache) *BasicExhaustiveScan {
	return &BasicExhaustiveScan{cache: cache}
}

func (b *BasicExhaustiveScan) Intersection(ellipsoid georef.Ellipsoid, position, los georef.Vector3, centralLongitude float64) (georef.NormalizedGeodeticPoint, error) {
	k0, err := entryParameter(ellipsoid, position, los)
	if err != nil {
		return georef.NormalizedGeodeticPoint{}, err
	}
	p, err := b.walk(ellipsoid, position, los, k0)
	if err != nil {
		return georef.NormalizedGeodeticPoint{}, err
	}
	return georef.Normalize(ellipsoid.ToGeodetic(p), centralLongitude), nil
}

func (b *BasicExhaustiveScan) RefineIntersection(ellipsoid georef.Ellipsoid, position, los georef.Vector3, centralLongitude float64, close georef.NormalizedGeodeticPoint) (georef.NormalizedGeodeticPoint, error) {
	closeCart := ellipsoid.ToCartesian(close.GeodeticPoint)
	k0 := projectOntoRay(position, los, closeCart)
	p, err := b.walk(ellipsoid, position, los, k0-1)
	if err != nil {
		return georef.NormalizedGeodeticPoint{}, err
	}
	return georef.Normalize(ellipsoid.ToGeodetic(p), centralLongitude), nil
}

func (b *BasicExhaustiveScan) Elevation(lat, lon float64) (float64, error) {
	tile, err := b.cache.GetTile(lat, lon)
	if err != nil {
		return 0, err
	}
	return tile.InterpolateElevation(lat, lon)
}

// walk advances the ray tile by tile, visiting every cell of every tile in
// turn with no pruning.
func (b *BasicExhaustiveScan) walk(ellipsoid georef.Ellipsoid, position, los georef.Vector3, k0 float64) (georef.Vector3, error) {
	k := k0
	for hop := 0; hop < maxTileHops; hop++ {
		p := georef.PointAt(position, los, k)
		gp := ellipsoid.ToGeodetic(p)
		tile, err := b.cache.GetTile(gp.Latitude, gp.Longitude)
		if err != nil {
			return georef.Vector3{}, err
		}
		point, exitK, found, err := b.scanTile(ellipsoid, tile, position, los, k)
		if err != nil {
			return georef.Vector3{}, err
		}
		if found {
			return point, nil
		}
		if exitK <= k {
			return georef.Vector3{}, rgerrors.New(rgerrors.InternalError, nil,
				"basic exhaustive scan failed to progress past k=%g", k)
		}
		k = exitK
	}
	return georef.Vector3{}, rgerrors.New(rgerrors.LineOfSightDoesNotReachGround, nil,
		"basic exhaustive scan exceeded %d tile hops without reaching the terrain", maxTileHops)
}

// scanTile checks every cell of tile along the ray's local direction, in
// stepping order, with no min/max pruning.
func (b *BasicExhaustiveScan) scanTile(ellipsoid georef.Ellipsoid, tile *Tile, position, los georef.Vector3, kStart float64) (georef.Vector3, float64, bool, error) {
	const dk = 1.0
	gp0 := ellipsoid.ToGeodetic(georef.PointAt(position, los, kStart))
	gpPlus := ellipsoid.ToGeodetic(georef.PointAt(position, los, kStart+dk))
	dlat := (gpPlus.Latitude - gp0.Latitude) / dk
	dlon := (gpPlus.Longitude - gp0.Longitude) / dk
	dalt := (gpPlus.Altitude - gp0.Altitude) / dk

	i := clampIndex(tile.LatitudeIndex(gp0.Latitude), tile.Rows-2)
	j := clampIndex(tile.LongitudeIndex(gp0.Longitude), tile.Cols-2)
	stepI, stepJ := sign(dlat), sign(dlon)

	scanner := &Duvenhage{flatBody: false}
	for n := 0; n < maxCellsPerTile; n++ {
		if i < 0 || i > tile.Rows-2 || j < 0 || j > tile.Cols-2 {
			return georef.Vector3{}, tileExitParameter(tile, gp0, dlat, dlon, kStart, stepI, stepJ), false, nil
		}
		if p, k, found := scanner.cellIntersect(tile, i, j, position, los, kStart, gp0, dlat, dlon, dalt); found && k >= kStart {
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
