// Package stats implements the small array and sampling helpers used around
// model training: one-hot codecs, normalization, and bootstrap index
// generation.
package stats

import (
	"errors"
	"fmt"
)

// Helper errors.
var (
	ErrNegativeLabel = errors.New("labels must be non-negative")
	ErrZeroSum       = errors.New("values sum to zero")
	ErrEmptyInput    = errors.New("input cannot be empty")
	ErrRaggedMatrix  = errors.New("matrix rows must have equal width")
)

// OneHotEncode converts integer labels into a one-hot matrix. The width is
// max(labels)+1; negative labels are rejected.
func OneHotEncode(labels []int) ([][]float64, error) {
	if len(labels) == 0 {
		return nil, ErrEmptyInput
	}

	width := 0
	for _, l := range labels {
		if l < 0 {
			return nil, fmt.Errorf("%w: got %d", ErrNegativeLabel, l)
		}
		if l+1 > width {
			width = l + 1
		}
	}

	out := make([][]float64, len(labels))
	for i, l := range labels {
		row := make([]float64, width)
		row[l] = 1
		out[i] = row
	}
	return out, nil
}

// OneHotDecode converts a one-hot (or score) matrix back to labels by
// taking the argmax of each row.
func OneHotDecode(matrix [][]float64) ([]int, error) {
	if len(matrix) == 0 {
		return nil, ErrEmptyInput
	}

	width := len(matrix[0])
	labels := make([]int, len(matrix))
	for i, row := range matrix {
		if len(row) != width || width == 0 {
			return nil, ErrRaggedMatrix
		}
		best := 0
		for j, v := range row {
			if v > row[best] {
				best = j
			}
		}
		labels[i] = best
	}
	return labels, nil
}

// Normalize scales values so they sum to 1. A zero sum is rejected.
func Normalize(values []float64) ([]float64, error) {
	if len(values) == 0 {
		return nil, ErrEmptyInput
	}

	var total float64
	for _, v := range values {
		total += v
	}
	if total == 0 {
		return nil, ErrZeroSum
	}

	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v / total
	}
	return out, nil
}

// ColumnSums sums a matrix column-wise.
func ColumnSums(matrix [][]float64) ([]float64, error) {
	if len(matrix) == 0 {
		return nil, ErrEmptyInput
	}

	width := len(matrix[0])
	sums := make([]float64, width)
	for _, row := range matrix {
		if len(row) != width {
			return nil, ErrRaggedMatrix
		}
		for j, v := range row {
			sums[j] += v
		}
	}
	return sums, nil
}
