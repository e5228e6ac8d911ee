package topsis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// VectorNormalize divides every column by its Euclidean norm so each
// criterion has unit length. The input is left untouched; the column norms
// are returned alongside the new matrix.
//
// Columns are first divided by their largest magnitude, so subnormal and
// near-overflow values normalize like any others.
func VectorNormalize(m mat.Matrix) (*mat.Dense, []float64, error) {
	rows, cols := m.Dims()

	normalized := mat.NewDense(rows, cols, nil)
	norms := make([]float64, cols)

	for colIdx := range cols {
		column := mat.Col(nil, colIdx, m)

		scale := math.Max(math.Abs(floats.Max(column)), math.Abs(floats.Min(column)))
		if scale == 0 {
			return nil, nil, fmt.Errorf("%w: criterion %d is all zeros", ErrDegenerateColumn, colIdx)
		}
		divide(column, scale)

		unit := floats.Norm(column, 2)
		divide(column, unit)

		normalized.SetCol(colIdx, column)
		norms[colIdx] = scale * unit
	}

	return normalized, norms, nil
}

// divide is floats.Scale(1/d, s) without materializing 1/d, which
// overflows for subnormal d.
func divide(s []float64, d float64) {
	for i := range s {
		s[i] /= d
	}
}

// ApplyWeights returns a copy of m with column j multiplied by weights[j].
func ApplyWeights(m mat.Matrix, weights []float64) *mat.Dense {
	rows, cols := m.Dims()

	weighted := mat.NewDense(rows, cols, nil)
	for colIdx := range cols {
		column := mat.Col(nil, colIdx, m)
		floats.Scale(weights[colIdx], column)
		weighted.SetCol(colIdx, column)
	}

	return weighted
}
