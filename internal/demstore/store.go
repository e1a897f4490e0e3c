// Package demstore implements a SQLite-backed dem.TileUpdater: tiles are
// loaded lazily from a dem_tiles table, row-per-tile, with the elevation
// raster packed into a single BLOB column. It is the reference persistence
// layer for the tile cache's cache-miss path; any other store need only
// satisfy dem.TileUpdater.
package demstore

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"

	_ "modernc.org/sqlite"

	"github.com/banshee-data/rugged/internal/dem"
	"github.com/banshee-data/rugged/internal/rgerrors"
)

// Store wraps a SQLite connection holding the dem_tiles table. It
// implements dem.TileUpdater, so a *Store can be passed directly to
// dem.NewTilesCache.
type Store struct {
	*sql.DB
}

var _ dem.TileUpdater = (*Store)(nil)

// Open opens (creating if necessary) the SQLite database at path, applies
// the pragmas the tile workload needs, and runs pending migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	store := &Store{DB: db}
	if err := store.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// applyPragmas sets the WAL/synchronous/busy-timeout trio the workload
// needs: tile reads and cache-fill writes happen from concurrent goroutines.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("execute %q: %w", p, err)
		}
	}
	return nil
}

// UpdateTile implements dem.TileUpdater: it looks up the tile row covering
// (lat, lon) and replays it into out via SetGeometry/Set. If no row covers
// the point, out is left untouched, which the cache reports as NO_DEM_DATA.
func (s *Store) UpdateTile(lat, lon float64, out dem.UpdatableTile) error {
	row := s.QueryRow(`
		SELECT min_lat, min_lon, lat_step, lon_step, rows, cols, elevations
		FROM dem_tiles
		WHERE min_lat <= ? AND min_lat + (rows - 1) * lat_step >= ?
		  AND min_lon <= ? AND min_lon + (cols - 1) * lon_step >= ?
		LIMIT 1
	`, lat, lat, lon, lon)

	var minLat, minLon, latStep, lonStep float64
	var rows, cols int
	var blob []byte
	switch err := row.Scan(&minLat, &minLon, &latStep, &lonStep, &rows, &cols, &blob); err {
	case sql.ErrNoRows:
		return nil
	case nil:
		// fall through
	default:
		return rgerrors.New(rgerrors.NoDEMData, nil, "failed to query dem_tiles for (%f, %f): %v", lat, lon, err)
	}

	if err := out.SetGeometry(minLat, minLon, latStep, lonStep, rows, cols); err != nil {
		return err
	}
	elevations, err := decodeElevations(blob, rows*cols)
	if err != nil {
		return rgerrors.New(rgerrors.NoDEMData, nil, "corrupt elevation blob for tile at (%f, %f): %v", minLat, minLon, err)
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if err := out.Set(i, j, elevations[i*cols+j]); err != nil {
				return err
			}
		}
	}
	return nil
}

// StoreTile inserts a new raster tile row, packing elevations row-major.
func (s *Store) StoreTile(minLat, minLon, latStep, lonStep float64, rows, cols int, elevations []float64) error {
	if len(elevations) != rows*cols {
		return fmt.Errorf("elevations has %d entries, want rows*cols=%d", len(elevations), rows*cols)
	}
	blob := encodeElevations(elevations)
	_, err := s.Exec(`
		INSERT INTO dem_tiles (min_lat, min_lon, lat_step, lon_step, rows, cols, elevations)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, minLat, minLon, latStep, lonStep, rows, cols, blob)
	if err != nil {
		return fmt.Errorf("insert dem tile: %w", err)
	}
	return nil
}

// TileCount returns the number of tile rows currently stored, mainly for
// tests asserting on cache-fill behaviour.
func (s *Store) TileCount() (int, error) {
	var n int
	if err := s.QueryRow(`SELECT COUNT(*) FROM dem_tiles`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func encodeElevations(elevations []float64) []byte {
	blob := make([]byte, 8*len(elevations))
	for i, e := range elevations {
		binary.LittleEndian.PutUint64(blob[i*8:], math.Float64bits(e))
	}
	return blob
}

func decodeElevations(blob []byte, n int) ([]float64, error) {
	if len(blob) != 8*n {
		return nil, fmt.Errorf("elevation blob has %d bytes, want %d", len(blob), 8*n)
	}
	elevations := make([]float64, n)
	for i := range elevations {
		elevations[i] = math.Float64frombits(binary.LittleEndian.Uint64(blob[i*8:]))
	}
	return elevations, nil
}
