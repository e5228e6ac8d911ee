package topsis

import "sort"

// Rank assigns 1-based ranks to scores, highest score first. Scores are
// tied only when they are exactly equal; method decides what a tie means.
// An unrecognised method ranks densely.
func Rank(scores []float64, method RankMethod) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sortStableBy(order, func(a, b int) bool {
		return scores[a] > scores[b]
	})

	ranks := make([]int, len(scores))
	current := 0
	for pos, rowIdx := range order {
		tied := pos > 0 && scores[rowIdx] == scores[order[pos-1]]

		switch method {
		case RankOrdinal:
			current = pos + 1
		case RankCompetition:
			if !tied {
				current = pos + 1
			}
		default:
			if !tied {
				current++
			}
		}

		ranks[rowIdx] = current
	}

	return ranks
}

func sortStableBy(idx []int, less func(a, b int) bool) {
	sort.SliceStable(idx, func(i, j int) bool {
		return less(idx[i], idx[j])
	})
}
