package dem

import "github.com/banshee-data/rugged/internal/rgerrors"

// UpdatableTile is the write side of the TileUpdater contract: a TileUpdater
// calls SetGeometry once to describe the raster, then Set for every cell.
type UpdatableTile interface {
	SetGeometry(minLat, minLon, latStep, lonStep float64, rows, cols int) error
	Set(i, j int, elevation float64) error
}

var _ UpdatableTile = (*Tile)(nil)

// TileUpdater is the external collaborator that populates a Tile for a
// given (lat, lon) query. It must either cover the requested point or leave
// the tile empty, which the cache reports as NO_DEM_DATA.
type TileUpdater interface {
	UpdateTile(lat, lon float64, out UpdatableTile) error
}

// TileUpdaterFunc adapts a plain function to the TileUpdater interface, the
// same "function type implementing a one-method interface" shape the
// teacher uses for SerialPortOpener.
type TileUpdaterFunc func(lat, lon float64, out UpdatableTile) error

func (f TileUpdaterFunc) UpdateTile(lat, lon float64, out UpdatableTile) error {
	return f(lat, lon, out)
}

// requireUsable returns EMPTY_TILE if the updater populated geometry but
// never filled every cell (e.g. it returned nil without calling Set at all).
func requireUsable(t *Tile) error {
	if !t.Usable() {
		return rgerrors.New(rgerrors.EmptyTile, nil, "tile updater left the tile without elevation data")
	}
	return nil
}
