package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tensorplex-labs/topsis/internal/topsis"
)

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// ParseWeights parses a comma separated weight list with exactly n entries.
func ParseWeights(s string, n int) ([]float64, error) {
	parts := splitList(s)
	if len(parts) != n {
		return nil, fmt.Errorf("%w: weights, impacts and columns mismatch, %d weights for %d criteria",
			topsis.ErrDimensionMismatch, len(parts), n)
	}

	weights := make([]float64, n)
	for i, p := range parts {
		w, err := strconv.ParseFloat(p, 64)
		if err != nil || math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return nil, fmt.Errorf("%w: weight %d is %q", topsis.ErrInvalidWeight, i+1, p)
		}
		weights[i] = w
	}

	return weights, nil
}

// ParseImpacts parses a comma separated impact list with exactly n entries.
func ParseImpacts(s string, n int) ([]topsis.Impact, error) {
	parts := splitList(s)
	if len(parts) != n {
		return nil, fmt.Errorf("%w: weights, impacts and columns mismatch, %d impacts for %d criteria",
			topsis.ErrDimensionMismatch, len(parts), n)
	}

	impacts := make([]topsis.Impact, n)
	for i, p := range parts {
		impact, err := topsis.ParseImpact(p)
		if err != nil {
			return nil, err
		}
		impacts[i] = impact
	}

	return impacts, nil
}

// FormatImpacts is the inverse of ParseImpacts.
func FormatImpacts(impacts []topsis.Impact) string {
	parts := make([]string, len(impacts))
	for i, impact := range impacts {
		parts[i] = impact.String()
	}
	return strings.Join(parts, ",")
}
