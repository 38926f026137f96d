package seqs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntersect(t *testing.T) {
	assert.Equal(t, []string{"b", "c"}, Intersect([]string{"a", "b", "c"}, []string{"b", "c", "d"}))
	assert.Equal(t, []string{"b"}, Intersect([]string{"b", "b", "a"}, []string{"b"}))
	assert.Empty(t, Intersect([]string{"a"}, []string{"z"}))
	assert.Empty(t, Intersect(nil, []string{"a"}))
}

func TestDifference(t *testing.T) {
	assert.Equal(t, []string{"a"}, Difference([]string{"a", "b", "c"}, []string{"b", "c", "d"}))
	assert.Equal(t, []string{"a", "c"}, Difference([]string{"a", "a", "c"}, []string{"b"}))
	assert.Empty(t, Difference([]string{"a"}, []string{"a"}))
}

func TestUnion(t *testing.T) {
	assert.Equal(t,
		[]string{"a", "b", "c", "d", "e", "f"},
		Union([]string{"a", "b", "a", "c", "b"}, []string{"a", "b", "d", "e", "f"}))
	assert.Equal(t, []int{1, 2}, Union([]int{1}, []int{2}))
	assert.Empty(t, Union[string](nil, nil))
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{"x", "y"}, Dedupe([]string{"x", "y", "x", "x"}))
	assert.Empty(t, Dedupe[int](nil))
}

func TestWithSuffixes(t *testing.T) {
	assert.Equal(t,
		[]string{"a_l4w", "a_l2w", "b_l4w", "b_l2w"},
		WithSuffixes([]string{"a", "b"}, []string{"_l4w", "_l2w"}, false))

	assert.Equal(t,
		[]string{"a", "a_x", "b", "b_x"},
		WithSuffixes([]string{"a", "b"}, []string{"_x"}, true))

	// Overlapping combinations collapse.
	assert.Equal(t,
		[]string{"a_x"},
		WithSuffixes([]string{"a", "a"}, []string{"_x"}, false))
}

func TestWrap(t *testing.T) {
	v := "solo"
	assert.Equal(t, []string{"solo"}, Wrap(&v))
	assert.Equal(t, []string{}, Wrap[string](nil))
}
