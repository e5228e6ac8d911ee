package topsis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRank(t *testing.T) {
	// two ties: rows 1 and 3 share the second best score, rows 0 and 4 the worst
	scores := []float64{0.1, 0.7, 0.9, 0.7, 0.1, 0.5}

	tests := []struct {
		method RankMethod
		want   []int
	}{
		{RankDense, []int{4, 2, 1, 2, 4, 3}},
		{RankCompetition, []int{5, 2, 1, 2, 5, 4}},
		{RankOrdinal, []int{5, 2, 1, 3, 6, 4}},
		{RankMethod("bogus"), []int{4, 2, 1, 2, 4, 3}},
	}

	for _, tt := range tests {
		t.Run(string(tt.method), func(t *testing.T) {
			assert.Equal(t, tt.want, Rank(scores, tt.method))
		})
	}
}

func TestRank_EdgeCases(t *testing.T) {
	assert.Empty(t, Rank(nil, RankDense))
	assert.Equal(t, []int{1}, Rank([]float64{0.3}, RankOrdinal))
	assert.Equal(t, []int{1, 1, 1}, Rank([]float64{0.5, 0.5, 0.5}, RankDense))
	assert.Equal(t, []int{1, 1, 1}, Rank([]float64{0.5, 0.5, 0.5}, RankCompetition))
	assert.Equal(t, []int{1, 2, 3}, Rank([]float64{0.5, 0.5, 0.5}, RankOrdinal))
}

func TestParseRankMethod(t *testing.T) {
	for in, want := range map[string]RankMethod{
		"":            RankDense,
		"dense":       RankDense,
		" Ordinal ":   RankOrdinal,
		"COMPETITION": RankCompetition,
	} {
		got, err := ParseRankMethod(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseRankMethod("average")
	assert.Error(t, err)
}

func TestParseImpact(t *testing.T) {
	for in, want := range map[string]Impact{
		"+":       Benefit,
		" - ":     Cost,
		"benefit": Benefit,
		"Cost":    Cost,
	} {
		got, err := ParseImpact(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "*", "plus", "++"} {
		_, err := ParseImpact(bad)
		assert.ErrorIs(t, err, ErrInvalidImpactSymbol, bad)
	}

	assert.Equal(t, "+", Benefit.String())
	assert.Equal(t, "-", Cost.String())
	assert.Equal(t, "Impact(9)", Impact(9).String())
}
