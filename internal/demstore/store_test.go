package demstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/rugged/internal/dem"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dem.sqlite")
	store, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpenRunsMigrationsAndReportsVersion(t *testing.T) {
	store := openTestStore(t)

	version, dirty, err := store.MigrateVersion()
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.EqualValues(t, 1, version)

	n, err := store.TileCount()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStoreTileRoundTripsThroughUpdateTile(t *testing.T) {
	store := openTestStore(t)

	elevations := []float64{10, 20, 30, 40, 50, 60}
	require.NoError(t, store.StoreTile(45.0, 6.0, 0.5, 0.5, 2, 3, elevations))

	n, err := store.TileCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	tile := dem.NewEmptyTile()
	require.NoError(t, store.UpdateTile(45.2, 6.2, tile))
	require.True(t, tile.Usable())
	assert.Equal(t, 2, tile.Rows)
	assert.Equal(t, 3, tile.Cols)
	assert.Equal(t, 40.0, tile.Elevation(1, 0))
	assert.Equal(t, 60.0, tile.Elevation(1, 2))
}

func TestUpdateTileLeavesTileEmptyWhenNoRowCovers(t *testing.T) {
	store := openTestStore(t)

	tile := dem.NewEmptyTile()
	require.NoError(t, store.UpdateTile(89.0, 179.0, tile))
	assert.False(t, tile.Usable())
}

func TestStoreTileRejectsMismatchedElevationCount(t *testing.T) {
	store := openTestStore(t)
	err := store.StoreTile(0, 0, 1, 1, 3, 3, []float64{1, 2, 3})
	assert.Error(t, err)
}
