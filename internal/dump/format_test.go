package dump

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDateRoundTrips(t *testing.T) {
	original := time.Date(2024, 3, 17, 9, 41, 2, 123456789, time.UTC)
	text := formatDate(original)
	assert.Equal(t, "2024-03-17T09:41:02.12345678900000Z", text)

	parsed, err := parseDate(text)
	require.NoError(t, err)
	assert.True(t, original.Equal(parsed))
}

func TestFormatFloatRoundTrips(t *testing.T) {
	values := []float64{0, 1, -1, 299792458.0, 1.0 / 298.257223563, -6378137.5}
	for _, v := range values {
		text := formatFloat(v)
		parsed, err := parseFloat(text)
		require.NoError(t, err)
		assert.InDelta(t, v, parsed, 1e-8*(1+absValue(v)))
	}
}

func absValue(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func TestFormatBoolRoundTrips(t *testing.T) {
	for _, b := range []bool{true, false} {
		parsed, err := parseBool(formatBool(b))
		require.NoError(t, err)
		assert.Equal(t, b, parsed)
	}
}
