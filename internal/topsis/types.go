package topsis

import (
	"fmt"
	"strings"
)

// Impact is the preferred direction of a criterion.
type Impact int

const (
	// Benefit criteria prefer larger raw values.
	Benefit Impact = iota + 1
	// Cost criteria prefer smaller raw values.
	Cost
)

func (i Impact) String() string {
	switch i {
	case Benefit:
		return "+"
	case Cost:
		return "-"
	default:
		return fmt.Sprintf("Impact(%d)", int(i))
	}
}

func (i Impact) valid() bool {
	return i == Benefit || i == Cost
}

// ParseImpact accepts "+" or "benefit" and "-" or "cost", ignoring case and
// surrounding whitespace.
func ParseImpact(s string) (Impact, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "+", "benefit":
		return Benefit, nil
	case "-", "cost":
		return Cost, nil
	}
	return 0, fmt.Errorf("%w: %q, impacts must be + or -", ErrInvalidImpactSymbol, s)
}

// RankMethod decides how alternatives with equal scores are ranked.
type RankMethod string

const (
	// RankDense gives tied scores the same rank and the next score rank+1: 1,2,2,3.
	RankDense RankMethod = "dense"
	// RankOrdinal gives every row a distinct rank, ties broken by row order: 1,2,3,4.
	RankOrdinal RankMethod = "ordinal"
	// RankCompetition gives tied scores the same rank and skips the group size: 1,2,2,4.
	RankCompetition RankMethod = "competition"
)

// ParseRankMethod maps a configuration string to a RankMethod. The empty
// string selects RankDense.
func ParseRankMethod(s string) (RankMethod, error) {
	switch m := RankMethod(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return RankDense, nil
	case RankDense, RankOrdinal, RankCompetition:
		return m, nil
	}
	return "", fmt.Errorf("unknown rank method %q (want dense, ordinal or competition)", s)
}

// Result holds the per-alternative outcome of one scoring run together with
// the intermediate reference points used to produce it.
type Result struct {
	Scores        []float64 // 1D: closeness to the ideal best, in [0,1]
	Ranks         []int     // 1D: 1 is best
	IdealBest     []float64 // 1D: per criterion, weighted
	IdealWorst    []float64 // 1D: per criterion, weighted
	DistanceBest  []float64 // 1D: per alternative
	DistanceWorst []float64 // 1D: per alternative
}

// Order returns row indices from best to worst rank. Rows sharing a rank
// keep their input order.
func (r *Result) Order() []int {
	order := make([]int, len(r.Ranks))
	for i := range order {
		order[i] = i
	}
	sortStableBy(order, func(a, b int) bool {
		return r.Ranks[a] < r.Ranks[b]
	})
	return order
}
