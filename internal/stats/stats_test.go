package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOneHotRoundTrip(t *testing.T) {
	labels := []int{1, 2, 3, 4, 0, 4}

	encoded, err := OneHotEncode(labels)
	require.NoError(t, err)
	require.Len(t, encoded, len(labels))
	require.Len(t, encoded[0], 5, "width is max label + 1")
	assert.Equal(t, []float64{0, 1, 0, 0, 0}, encoded[0])

	decoded, err := OneHotDecode(encoded)
	require.NoError(t, err)
	assert.Equal(t, labels, decoded)
}

func TestOneHotEncodeErrors(t *testing.T) {
	_, err := OneHotEncode(nil)
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = OneHotEncode([]int{0, -1})
	assert.ErrorIs(t, err, ErrNegativeLabel)
}

func TestOneHotDecodeErrors(t *testing.T) {
	_, err := OneHotDecode(nil)
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = OneHotDecode([][]float64{{1, 0}, {1}})
	assert.ErrorIs(t, err, ErrRaggedMatrix)
}

func TestNormalize(t *testing.T) {
	out, err := Normalize([]float64{1, 3})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.25, 0.75}, out, 1e-12)

	_, err = Normalize([]float64{1, -1})
	assert.ErrorIs(t, err, ErrZeroSum)

	_, err = Normalize(nil)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestColumnSums(t *testing.T) {
	sums, err := ColumnSums([][]float64{
		{1, 2, 3},
		{4, 5, 6},
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 7, 9}, sums)

	_, err = ColumnSums([][]float64{{1}, {1, 2}})
	assert.ErrorIs(t, err, ErrRaggedMatrix)
}

func TestBootstrapSplits(t *testing.T) {
	const n = 100
	splits, err := BootstrapSplits(n, 5, 0.1, NewRand(42))
	require.NoError(t, err)
	require.Len(t, splits, 5)

	for _, split := range splits {
		assert.Len(t, split.Train, 90)
		assert.Len(t, split.Test, 10)

		// Train and test are disjoint and cover [0, n).
		seen := make(map[int]bool, n)
		for _, idx := range split.Train {
			assert.False(t, seen[idx])
			seen[idx] = true
		}
		for _, idx := range split.Test {
			assert.False(t, seen[idx])
			seen[idx] = true
		}
		assert.Len(t, seen, n)
	}
}

func TestBootstrapSplitsDeterministic(t *testing.T) {
	a, err := BootstrapSplits(50, 3, 0.2, NewRand(7))
	require.NoError(t, err)
	b, err := BootstrapSplits(50, 3, 0.2, NewRand(7))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestBootstrapSplitsValidation(t *testing.T) {
	rng := NewRand(1)

	_, err := BootstrapSplits(0, 1, 0.1, rng)
	assert.Error(t, err)

	_, err = BootstrapSplits(10, 0, 0.1, rng)
	assert.Error(t, err)

	_, err = BootstrapSplits(10, 1, 1.0, rng)
	assert.Error(t, err)

	_, err = BootstrapSplits(10, 1, -0.1, rng)
	assert.Error(t, err)
}
