package sensor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAffineLineDatationRoundTrips(t *testing.T) {
	ref := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	d := AffineLineDatation{ReferenceLine: 1000, ReferenceDate: ref, LinesPerSecond: 500}

	date := d.DateAtLine(1500)
	assert.Equal(t, float64(1500), d.LineAtDate(date))

	back := d.DateAtLine(d.LineAtDate(ref.Add(3 * time.Second)))
	assert.WithinDuration(t, ref.Add(3*time.Second), back, time.Microsecond)
}
