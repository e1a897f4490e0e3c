package numerics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecantFindsLinearRoot(t *testing.T) {
	f := func(x float64) float64 { return 3*x - 9 }
	root, err := Secant(f, 0, 1, DefaultSecantConfig)
	require.NoError(t, err)
	assert.InDelta(t, 3, root, 1e-8)
}

func TestSecantFindsTranscendentalRoot(t *testing.T) {
	f := func(x float64) float64 { return math.Cos(x) - x }
	root, err := Secant(f, 0, 1, DefaultSecantConfig)
	require.NoError(t, err)
	assert.InDelta(t, math.Cos(root), root, 1e-9)
}

func TestSecantReportsStallOnFlatFunction(t *testing.T) {
	f := func(x float64) float64 { return 5 }
	_, err := Secant(f, 0, 1, SecantConfig{MaxIterations: 10, Tolerance: 1e-12})
	require.Error(t, err)
}

func TestBrentFindsPolynomialRoot(t *testing.T) {
	f := func(x float64) float64 { return x*x - 2 }
	root, err := Brent(f, 0, 2, DefaultBrentConfig)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt2, root, 1e-9)
}

func TestBrentFindsRootNearBracketEdge(t *testing.T) {
	f := func(x float64) float64 { return x - 1.999999 }
	root, err := Brent(f, 0, 2, DefaultBrentConfig)
	require.NoError(t, err)
	assert.InDelta(t, 1.999999, root, 1e-7)
}

func TestBrentRejectsNonBracketingInterval(t *testing.T) {
	f := func(x float64) float64 { return x*x + 1 }
	_, err := Brent(f, -1, 1, DefaultBrentConfig)
	require.Error(t, err)
}

func TestBrentHandlesAsymmetricBracket(t *testing.T) {
	f := func(x float64) float64 { return math.Sin(x) }
	root, err := Brent(f, -0.5, 3, DefaultBrentConfig)
	require.NoError(t, err)
	assert.InDelta(t, 0, math.Sin(root), 1e-9)
}
