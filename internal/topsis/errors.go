package topsis

import "errors"

// Every input-side failure is one of these sentinels, usually wrapped with
// positional context via fmt.Errorf("...: %w", ErrX). Match with errors.Is.
var (
	// ErrMalformedInput is returned for a non-rectangular table or one with
	// fewer than two criteria or no alternatives.
	ErrMalformedInput = errors.New("topsis: malformed input")

	// ErrDimensionMismatch is returned when the weight or impact count does
	// not match the number of criteria.
	ErrDimensionMismatch = errors.New("topsis: dimension mismatch")

	// ErrInvalidImpactSymbol is returned for an impact that is neither a
	// benefit nor a cost marker.
	ErrInvalidImpactSymbol = errors.New("topsis: invalid impact symbol")

	// ErrNonNumericData is returned when a criterion value is not a finite real.
	ErrNonNumericData = errors.New("topsis: non-numeric data")

	// ErrInvalidWeight is returned for a negative, NaN or infinite weight.
	ErrInvalidWeight = errors.New("topsis: invalid weight")

	// ErrDegenerateColumn is returned when a criterion column is all zeros and
	// cannot be vector-normalized.
	ErrDegenerateColumn = errors.New("topsis: degenerate column")

	// ErrDegenerateRow is returned when an alternative sits on both ideal
	// points at once, leaving its closeness undefined.
	ErrDegenerateRow = errors.New("topsis: degenerate row")
)

var inputErrors = []error{
	ErrMalformedInput,
	ErrDimensionMismatch,
	ErrInvalidImpactSymbol,
	ErrNonNumericData,
	ErrInvalidWeight,
	ErrDegenerateColumn,
	ErrDegenerateRow,
}

// IsInputError reports whether err was caused by bad caller input rather
// than an internal failure.
func IsInputError(err error) bool {
	for _, target := range inputErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
