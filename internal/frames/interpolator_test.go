package frames

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/rugged/internal/georef"
	"github.com/banshee-data/rugged/internal/rgerrors"
)

func constantVelocitySamples(start time.Time, n int, step time.Duration, p0, v georef.Vector3) []TimeStampedTransform {
	out := make([]TimeStampedTransform, n)
	for i := 0; i < n; i++ {
		dt := time.Duration(i) * step
		out[i] = TimeStampedTransform{
			Date:        start.Add(dt),
			Translation: TranslationState{P: p0.Add(v.Scale(dt.Seconds())), V: v},
			Rotation:    RotationState{Q: georef.IdentityQuaternion},
		}
	}
	return out
}

func TestNewFromSamplesExactlyReproducesConstantVelocityMotion(t *testing.T) {
	start := epoch
	v := georef.Vector3{X: 7200, Y: -100, Z: 3}
	samples := constantVelocitySamples(start, 6, time.Minute, georef.Vector3{X: 1000, Y: 2000, Z: 3000}, v)

	cfg := Config{
		MinDate: start, MaxDate: start.Add(5 * time.Minute),
		Step: 10 * time.Second, Tolerance: time.Second,
		InertialFrame: "EME2000", BodyFrame: "ITRF",
	}
	interp, err := NewFromSamples(cfg, samples, samples, UsePV, UseR)
	require.NoError(t, err)

	mid := start.Add(137 * time.Second)
	xf, err := interp.ScToInertial(mid)
	require.NoError(t, err)

	want := georef.Vector3{X: 1000, Y: 2000, Z: 3000}.Add(v.Scale(137))
	assert.InDelta(t, want.X, xf.Translation.P.X, 1e-6)
	assert.InDelta(t, want.Y, xf.Translation.P.Y, 1e-6)
	assert.InDelta(t, want.Z, xf.Translation.P.Z, 1e-6)
}

func TestQueryOutsideRangeReturnsOutOfTimeRange(t *testing.T) {
	start := epoch
	samples := constantVelocitySamples(start, 4, time.Minute, georef.Vector3{}, georef.Vector3{X: 1})
	cfg := Config{
		MinDate: start, MaxDate: start.Add(3 * time.Minute),
		Step: 30 * time.Second, Tolerance: time.Second,
	}
	interp, err := NewFromSamples(cfg, samples, samples, UsePV, UseR)
	require.NoError(t, err)

	_, err = interp.ScToInertial(start.Add(-time.Hour))
	require.Error(t, err)
	assert.True(t, rgerrors.Is(err, rgerrors.OutOfTimeRange))
}

func TestNewFromPropagatorEvaluatesAtEveryGridPoint(t *testing.T) {
	start := epoch
	cfg := Config{
		MinDate: start, MaxDate: start.Add(time.Minute),
		Step: 10 * time.Second, Tolerance: time.Second,
	}
	calls := 0
	propagate := func(date time.Time) (TimeStampedTransform, TimeStampedTransform, error) {
		calls++
		xf := TimeStampedTransform{
			Date:        date,
			Translation: TranslationState{P: georef.Vector3{X: float64(date.Sub(start).Seconds())}},
			Rotation:    RotationState{Q: georef.IdentityQuaternion},
		}
		return xf, xf, nil
	}
	interp, err := NewFromPropagator(cfg, propagate)
	require.NoError(t, err)
	assert.Equal(t, gridSize(cfg), calls)

	xf, err := interp.BodyToInertial(start.Add(25 * time.Second))
	require.NoError(t, err)
	assert.InDelta(t, 25, xf.Translation.P.X, 1e-6)
}

func TestInvalidStepRejected(t *testing.T) {
	cfg := Config{MinDate: epoch, MaxDate: epoch.Add(time.Minute), Step: 0}
	_, err := NewFromSamples(cfg, nil, nil, UseP, UseR)
	require.Error(t, err)
	assert.True(t, rgerrors.Is(err, rgerrors.InvalidStep))
}

func TestBodyToScComposesInertialLegs(t *testing.T) {
	start := epoch
	bodySamples := constantVelocitySamples(start, 4, time.Minute, georef.Vector3{}, georef.Vector3{})
	scSamples := constantVelocitySamples(start, 4, time.Minute, georef.Vector3{X: 500}, georef.Vector3{})
	cfg := Config{
		MinDate: start, MaxDate: start.Add(3 * time.Minute),
		Step: 30 * time.Second, Tolerance: time.Second,
	}
	interp, err := NewFromSamples(cfg, bodySamples, scSamples, UsePV, UseR)
	require.NoError(t, err)

	mid := start.Add(90 * time.Second)
	xf, err := interp.BodyToSc(mid)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, xf.Rotation.Q.Norm(), 1e-9)
}
