package dem

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatTile(t *testing.T, rows, cols int, fill func(i, j int) float64) *Tile {
	t.Helper()
	tile, err := NewTile(0, 0, 1.0/1201, 1.0/1201, rows, cols)
	require.NoError(t, err)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			require.NoError(t, tile.Set(i, j, fill(i, j)))
		}
	}
	require.True(t, tile.Usable())
	return tile
}

func TestMinMaxOfRangeMatchesBruteForce(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	tile := flatTile(t, 17, 13, func(i, j int) float64 { return rnd.Float64() * 3000 })
	tree := tile.Tree()
	require.NotNil(t, tree)

	for trial := 0; trial < 50; trial++ {
		iMin := rnd.Intn(tile.Rows - 1)
		iMax := iMin + rnd.Intn(tile.Rows-1-iMin)
		jMin := rnd.Intn(tile.Cols - 1)
		jMax := jMin + rnd.Intn(tile.Cols-1-jMin)

		wantMin, wantMax := bruteMinMax(tile, iMin, iMax, jMin, jMax)
		gotMin, gotMax := tree.MinMaxOfRange(iMin, iMax, jMin, jMax)
		assert.InDelta(t, wantMin, gotMin, 1e-9)
		assert.InDelta(t, wantMax, gotMax, 1e-9)
	}
}

func bruteMinMax(tile *Tile, iMin, iMax, jMin, jMax int) (float64, float64) {
	mn, mx := tile.Elevation(iMin, jMin), tile.Elevation(iMin, jMin)
	for i := iMin; i <= iMax; i++ {
		for j := jMin; j <= jMax; j++ {
			for _, e := range []float64{tile.Elevation(i, j), tile.Elevation(i+1, j), tile.Elevation(i, j+1), tile.Elevation(i+1, j+1)} {
				if e < mn {
					mn = e
				}
				if e > mx {
					mx = e
				}
			}
		}
	}
	return mn, mx
}

func TestLeafCellContaining(t *testing.T) {
	tile := flatTile(t, 5, 5, func(i, j int) float64 { return float64(i*5 + j) })
	tree := tile.Tree()

	node := tree.LeafCellContaining(2, 3)
	require.GreaterOrEqual(t, node, 0)
	iMin, iMax, jMin, jMax, _, _ := tree.Bounds(node)
	assert.True(t, tree.IsLeaf(node))
	assert.Equal(t, 2, iMin)
	assert.Equal(t, 2, iMax)
	assert.Equal(t, 3, jMin)
	assert.Equal(t, 3, jMax)

	assert.Equal(t, -1, tree.LeafCellContaining(10, 10))
}

func TestSiblingAndParentNavigation(t *testing.T) {
	tile := flatTile(t, 4, 4, func(i, j int) float64 { return float64(i + j) })
	tree := tile.Tree()

	leaf := tree.LeafCellContaining(0, 0)
	parent := tree.Parent(leaf)
	require.GreaterOrEqual(t, parent, 0)
	sibling := tree.Sibling(leaf)
	require.GreaterOrEqual(t, sibling, 0)
	assert.Equal(t, parent, tree.Parent(sibling))
	assert.NotEqual(t, leaf, sibling)
}
