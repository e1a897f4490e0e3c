// Package dem implements the Digital Elevation Model primitives: the Tile
// raster and its MinMaxKdTree, the LRU TilesCache with zipper-tile seam
// synthesis, and the three IntersectionAlgorithm variants (IgnoreDEM,
// ConstantElevation, Duvenhage).
package dem

import (
	"github.com/banshee-data/rugged/internal/rgerrors"
)

// Location classifies a query point relative to a tile's cell grid.
type Location int

const (
	HasInterpolationNeighbors Location = iota
	North
	South
	East
	West
	NorthEast
	NorthWest
	SouthEast
	SouthWest
)

// Tile is a rectangular raster of elevations on a regular lat/lon grid, R
// rows by C columns of sample points (so (R-1)x(C-1) bilinear cells).
type Tile struct {
	MinLatitude  float64
	MinLongitude float64
	LatitudeStep float64
	LongitudeStep float64
	Rows, Cols   int

	elevations []float64
	set        []bool
	nSet       int
	usable     bool
	tree       *MinMaxKdTree
}

// NewTile validates the raster geometry and allocates an empty elevation
// grid. Cells must be filled with Set before the tile is Usable.
func NewTile(minLat, minLon, latStep, lonStep float64, rows, cols int) (*Tile, error) {
	t := &Tile{}
	if err := t.SetGeometry(minLat, minLon, latStep, lonStep, rows, cols); err != nil {
		return nil, err
	}
	return t, nil
}

// NewEmptyTile returns a zero-value tile with no geometry, for use as the
// UpdatableTile handle passed to a TileUpdater.
func NewEmptyTile() *Tile { return &Tile{} }

// SetGeometry configures an empty tile's raster parameters. It is the
// UpdatableTile half of the TileUpdater contract: a TileUpdater calls
// SetGeometry once, then Set for every cell.
func (t *Tile) SetGeometry(minLat, minLon, latStep, lonStep float64, rows, cols int) error {
	if latStep <= 0 || lonStep <= 0 {
		return rgerrors.New(rgerrors.InternalError, nil, "tile steps must be positive")
	}
	if rows < 2 || cols < 2 {
		return rgerrors.New(rgerrors.InternalError, nil, "tile must have at least 2 rows and 2 columns")
	}
	if t.Rows != 0 || t.Cols != 0 {
		return rgerrors.New(rgerrors.TileAlreadyDefined, nil, "tile geometry already set")
	}
	t.MinLatitude = minLat
	t.MinLongitude = minLon
	t.LatitudeStep = latStep
	t.LongitudeStep = lonStep
	t.Rows = rows
	t.Cols = cols
	t.elevations = make([]float64, rows*cols)
	t.set = make([]bool, rows*cols)
	return nil
}

func (t *Tile) MaxLatitude() float64  { return t.MinLatitude + float64(t.Rows-1)*t.LatitudeStep }
func (t *Tile) MaxLongitude() float64 { return t.MinLongitude + float64(t.Cols-1)*t.LongitudeStep }

func (t *Tile) idx(i, j int) int { return i*t.Cols + j }

// Set populates cell (i,j). Setting the same cell twice fails with
// TILE_ALREADY_DEFINED; once every cell has been set, the tile becomes
// Usable and its MinMaxKdTree is built.
func (t *Tile) Set(i, j int, elevation float64) error {
	if i < 0 || i >= t.Rows || j < 0 || j >= t.Cols {
		return rgerrors.New(rgerrors.OutOfTileIndices, map[string]any{"i": i, "j": j}, "cell (%d,%d) out of tile bounds", i, j)
	}
	k := t.idx(i, j)
	if t.set[k] {
		return rgerrors.New(rgerrors.TileAlreadyDefined, map[string]any{"i": i, "j": j}, "cell (%d,%d) already defined", i, j)
	}
	t.elevations[k] = elevation
	t.set[k] = true
	t.nSet++
	if t.nSet == len(t.elevations) {
		t.usable = true
		t.tree = buildKdTree(t)
	}
	return nil
}

// Usable reports whether every cell has been set.
func (t *Tile) Usable() bool { return t.usable }

// Tree returns the tile's MinMaxKdTree, or nil if the tile is not yet
// Usable.
func (t *Tile) Tree() *MinMaxKdTree { return t.tree }

// Elevation returns the raw sample at grid point (i,j).
func (t *Tile) Elevation(i, j int) float64 { return t.elevations[t.idx(i, j)] }

// LatitudeIndex returns floor((lat-minLat)/latStep); -1 or Rows denote
// outside the domain on that axis.
func (t *Tile) LatitudeIndex(lat float64) int {
	return floorDiv(lat-t.MinLatitude, t.LatitudeStep)
}

// LongitudeIndex returns floor((lon-minLon)/lonStep); -1 or Cols denote
// outside the domain on that axis.
func (t *Tile) LongitudeIndex(lon float64) int {
	return floorDiv(lon-t.MinLongitude, t.LongitudeStep)
}

func floorDiv(num, step float64) int {
	q := num / step
	fi := int(q)
	if q < 0 && float64(fi) != q {
		fi--
	}
	return fi
}

// Classify returns the tile's Location classifier for a query point.
func (t *Tile) Classify(lat, lon float64) Location {
	i := t.LatitudeIndex(lat)
	j := t.LongitudeIndex(lon)

	interior := i >= 0 && i <= t.Rows-2 && j >= 0 && j <= t.Cols-2
	if interior {
		return HasInterpolationNeighbors
	}

	north := i >= t.Rows-1
	south := i < 0
	east := j >= t.Cols-1
	west := j < 0

	switch {
	case north && east:
		return NorthEast
	case north && west:
		return NorthWest
	case south && east:
		return SouthEast
	case south && west:
		return SouthWest
	case north:
		return North
	case south:
		return South
	case east:
		return East
	case west:
		return West
	default:
		return HasInterpolationNeighbors
	}
}

// InterpolateElevation bilinearly interpolates the elevation at (lat,lon).
// Fails with OUT_OF_TILE_INDICES if any of the four surrounding cells falls
// outside the tile.
func (t *Tile) InterpolateElevation(lat, lon float64) (float64, error) {
	i := t.LatitudeIndex(lat)
	j := t.LongitudeIndex(lon)
	if i < 0 || i > t.Rows-2 || j < 0 || j > t.Cols-2 {
		return 0, rgerrors.New(rgerrors.OutOfTileIndices, map[string]any{"lat": lat, "lon": lon},
			"point (%g,%g) has no interpolation neighbors in this tile", lat, lon)
	}

	u := (lat - (t.MinLatitude + float64(i)*t.LatitudeStep)) / t.LatitudeStep
	v := (lon - (t.MinLongitude + float64(j)*t.LongitudeStep)) / t.LongitudeStep

	e00 := t.Elevation(i, j)
	e10 := t.Elevation(i+1, j)
	e01 := t.Elevation(i, j+1)
	e11 := t.Elevation(i+1, j+1)

	return (1-u)*(1-v)*e00 + u*(1-v)*e10 + (1-u)*v*e01 + u*v*e11, nil
}
