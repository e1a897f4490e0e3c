package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyConfigReportsDocumentedDefaults(t *testing.T) {
	c := EmptyConfig()

	assert.Equal(t, AlgorithmDuvenhage, c.GetAlgorithm())
	assert.Equal(t, EllipsoidWGS84, c.GetEllipsoid())
	assert.Equal(t, FrameEME2000, c.GetInertialFrame())
	assert.Equal(t, BodyFrameITRF, c.GetBodyFrame())
	assert.Equal(t, CartesianUsePV, c.GetCartesianFilter())
	assert.Equal(t, AngularUseRR, c.GetAngularFilter())
	assert.Equal(t, 250*time.Millisecond, c.GetInterpolationStep())
	assert.Equal(t, 5*time.Second, c.GetInterpolationTolerance())
	assert.False(t, c.GetAberrationOfLightEnabled())
	assert.False(t, c.GetLightTimeEnabled())
	assert.Equal(t, 16, c.GetTileCacheCapacity())
}

func TestLoadOverlaysOnlySetFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.json")
	doc := map[string]any{
		"ellipsoid":           "GRS80",
		"tile_cache_capacity": 64,
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, EllipsoidGRS80, c.GetEllipsoid())
	assert.Equal(t, 64, c.GetTileCacheCapacity())
	// Untouched fields keep their defaults.
	assert.Equal(t, AlgorithmDuvenhage, c.GetAlgorithm())
	assert.Equal(t, FrameEME2000, c.GetInertialFrame())
}

func TestLoadRejectsNonJSONExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.txt")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsInvalidDuration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.json")
	doc := map[string]any{"interpolation_step": "not-a-duration"}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err = Load(path)
	assert.Error(t, err)
}

func TestValidateRejectsNonPositiveTileCacheCapacity(t *testing.T) {
	capacity := 0
	c := &Config{TileCacheCapacity: &capacity}
	assert.Error(t, c.Validate())
}
