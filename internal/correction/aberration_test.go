package correction

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/banshee-data/rugged/internal/georef"
)

func TestAberrationOfLightIsIdentityWithZeroVelocity(t *testing.T) {
	lobs := georef.Vector3{X: 0, Y: 0, Z: -1}
	corrected := AberrationOfLight(lobs, georef.Vector3{})

	assert.InDelta(t, 0, corrected.X, 1e-9)
	assert.InDelta(t, 0, corrected.Y, 1e-9)
	assert.InDelta(t, -1, corrected.Z, 1e-9)
}

func TestAberrationOfLightShiftsAgainstVelocity(t *testing.T) {
	lobs := georef.Vector3{X: 0, Y: 0, Z: -1}
	vsat := georef.Vector3{X: 7500, Y: 0, Z: 0}

	corrected := AberrationOfLight(lobs, vsat)

	assert.InDelta(t, 1.0, corrected.Norm(), 1e-6)
	assert.Less(t, corrected.X, 0.0)
}

func TestAberrationOfLightHandlesNegativeDotProduct(t *testing.T) {
	lobs := georef.Vector3{X: 0, Y: 0, Z: -1}
	vsat := georef.Vector3{X: 0, Y: 0, Z: 7500}

	corrected := AberrationOfLight(lobs, vsat)
	assert.InDelta(t, 1.0, corrected.Norm(), 1e-6)
}
