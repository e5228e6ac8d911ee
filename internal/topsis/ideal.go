package topsis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// IdealPoints builds the ideal-best and ideal-worst reference vectors from
// a weighted matrix. Benefit criteria take the column maximum as best and
// the minimum as worst; cost criteria swap the two.
func IdealPoints(weighted mat.Matrix, impacts []Impact) (best, worst []float64) {
	_, cols := weighted.Dims()

	best = make([]float64, cols)
	worst = make([]float64, cols)

	for colIdx := range cols {
		column := mat.Col(nil, colIdx, weighted)
		hi, lo := floats.Max(column), floats.Min(column)

		if impacts[colIdx] == Cost {
			best[colIdx], worst[colIdx] = lo, hi
		} else {
			best[colIdx], worst[colIdx] = hi, lo
		}
	}

	return best, worst
}

// Distances returns the Euclidean distance of every row of weighted to the
// best and worst reference points.
func Distances(weighted mat.Matrix, best, worst []float64) (dBest, dWorst []float64) {
	rows, _ := weighted.Dims()

	dBest = make([]float64, rows)
	dWorst = make([]float64, rows)

	for rowIdx := range rows {
		row := mat.Row(nil, rowIdx, weighted)
		dBest[rowIdx] = floats.Distance(row, best, 2)
		dWorst[rowIdx] = floats.Distance(row, worst, 2)
	}

	return dBest, dWorst
}

// Closeness computes dWorst / (dBest + dWorst) per row. A row whose two
// distances are both zero has no defined closeness and fails the whole call.
// Both distances are divided by the larger one first so the sum cannot
// overflow.
func Closeness(dBest, dWorst []float64) ([]float64, error) {
	scores := make([]float64, len(dBest))

	for i := range dBest {
		larger := math.Max(dBest[i], dWorst[i])
		if larger == 0 {
			return nil, fmt.Errorf("%w: alternative %d coincides with both ideal points", ErrDegenerateRow, i)
		}

		best, worst := dBest[i]/larger, dWorst[i]/larger
		score := worst / (best + worst)
		if math.IsNaN(score) {
			return nil, fmt.Errorf("%w: alternative %d has undefined closeness", ErrDegenerateRow, i)
		}
		scores[i] = score
	}

	return scores, nil
}
