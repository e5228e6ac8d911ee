package topsis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	// MinAlternatives is the smallest number of rows a decision matrix may have.
	MinAlternatives = 1
	// MinCriteria is the smallest number of columns a decision matrix may have.
	MinCriteria = 2
)

// NewDecisionMatrix copies rows into a dense matrix, rejecting ragged,
// undersized or non-finite input.
func NewDecisionMatrix(rows [][]float64) (*mat.Dense, error) {
	if len(rows) < MinAlternatives {
		return nil, fmt.Errorf("%w: no alternatives", ErrMalformedInput)
	}
	cols := len(rows[0])
	if cols < MinCriteria {
		return nil, fmt.Errorf("%w: need at least %d criteria, got %d", ErrMalformedInput, MinCriteria, cols)
	}

	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrMalformedInput, i, len(row), cols)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: row %d column %d is %v", ErrNonNumericData, i, j, v)
			}
		}
		data = append(data, row...)
	}

	return mat.NewDense(len(rows), cols, data), nil
}

// Validate checks the preconditions of Score without computing anything.
func Validate(m mat.Matrix, weights []float64, impacts []Impact) error {
	if m == nil {
		return fmt.Errorf("%w: nil matrix", ErrMalformedInput)
	}
	rows, cols := m.Dims()
	if rows < MinAlternatives {
		return fmt.Errorf("%w: no alternatives", ErrMalformedInput)
	}
	if cols < MinCriteria {
		return fmt.Errorf("%w: need at least %d criteria, got %d", ErrMalformedInput, MinCriteria, cols)
	}
	if len(weights) != cols {
		return fmt.Errorf("%w: %d weights for %d criteria", ErrDimensionMismatch, len(weights), cols)
	}
	if len(impacts) != cols {
		return fmt.Errorf("%w: %d impacts for %d criteria", ErrDimensionMismatch, len(impacts), cols)
	}

	for j, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return fmt.Errorf("%w: weight %d is %v", ErrInvalidWeight, j, w)
		}
	}
	for j, impact := range impacts {
		if !impact.valid() {
			return fmt.Errorf("%w: impact %d is %v", ErrInvalidImpactSymbol, j, impact)
		}
	}

	for i := range rows {
		for j := range cols {
			if v := m.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: row %d column %d is %v", ErrNonNumericData, i, j, v)
			}
		}
	}

	return nil
}
