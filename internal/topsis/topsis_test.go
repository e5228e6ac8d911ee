package topsis

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

const epsGolden = 1e-12

// four alternatives, two benefit criteria and one cost criterion
func goldenInput(t *testing.T) (*mat.Dense, []float64, []Impact) {
	t.Helper()
	m, err := NewDecisionMatrix([][]float64{
		{250, 16, 12}, // A
		{200, 16, 8},  // B
		{300, 32, 16}, // C
		{275, 32, 8},  // D
	})
	require.NoError(t, err)
	return m, []float64{0.25, 0.25, 0.5}, []Impact{Benefit, Benefit, Cost}
}

func TestScore_Golden(t *testing.T) {
	m, weights, impacts := goldenInput(t)

	res, err := Score(m, weights, impacts)
	require.NoError(t, err)

	wantScores := []float64{0.42938058981961086, 0.6526818308480425, 0.3473181691519575, 0.941593610158306}
	assert.InDeltaSlice(t, wantScores, res.Scores, epsGolden)
	assert.Equal(t, []int{3, 2, 4, 1}, res.Ranks)
	assert.Equal(t, []int{3, 1, 0, 2}, res.Order())

	assert.InDeltaSlice(t, []float64{0.14484136487558028, 0.15811388300841897, 0.17407765595569785}, res.IdealBest, epsGolden)
	assert.InDeltaSlice(t, []float64{0.09656090991705352, 0.07905694150420949, 0.3481553119113957}, res.IdealWorst, epsGolden)
	assert.InDeltaSlice(t, []float64{0.12003544542554151, 0.09263369975879367, 0.17407765595569785, 0.012070113739631683}, res.DistanceBest, epsGolden)
	assert.InDeltaSlice(t, []float64{0.09032446046618914, 0.17407765595569785, 0.09263369975879367, 0.1945873046070044}, res.DistanceWorst, epsGolden)
}

func TestScore_DoesNotMutateInputs(t *testing.T) {
	m, weights, impacts := goldenInput(t)
	mCopy := mat.DenseCopyOf(m)
	wCopy := append([]float64(nil), weights...)
	iCopy := append([]Impact(nil), impacts...)

	_, err := Score(m, weights, impacts)
	require.NoError(t, err)

	assert.True(t, mat.Equal(mCopy, m))
	assert.Equal(t, wCopy, weights)
	assert.Equal(t, iCopy, impacts)
}

func TestScore_Idempotent(t *testing.T) {
	m, weights, impacts := goldenInput(t)
	s := NewScorer()

	first, err := s.Score(m, weights, impacts)
	require.NoError(t, err)
	second, err := s.Score(m, weights, impacts)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func randomProblem(r *rand.Rand, rows, cols int) (*mat.Dense, []float64, []Impact) {
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = 1 + r.Float64()*99
	}
	weights := make([]float64, cols)
	impacts := make([]Impact, cols)
	for j := range cols {
		weights[j] = r.Float64()
		impacts[j] = Benefit
		if r.IntN(2) == 0 {
			impacts[j] = Cost
		}
	}
	return mat.NewDense(rows, cols, data), weights, impacts
}

func TestScore_Properties(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))

	for trial := range 25 {
		t.Run(fmt.Sprintf("trial%d", trial), func(t *testing.T) {
			rows, cols := 2+r.IntN(12), 2+r.IntN(5)
			m, weights, impacts := randomProblem(r, rows, cols)

			res, err := Score(m, weights, impacts)
			require.NoError(t, err)

			best := 0
			for i, s := range res.Scores {
				assert.GreaterOrEqual(t, s, 0.0)
				assert.LessOrEqual(t, s, 1.0)
				if s > res.Scores[best] {
					best = i
				}
			}
			assert.Equal(t, 1, res.Ranks[best])

			order := res.Order()
			for k := 1; k < len(order); k++ {
				prev, cur := order[k-1], order[k]
				assert.GreaterOrEqual(t, res.Scores[prev], res.Scores[cur])
				assert.LessOrEqual(t, res.Ranks[prev], res.Ranks[cur])
			}
		})
	}
}

func TestScore_WeightScaleInvariance(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))
	m, weights, impacts := randomProblem(r, 10, 4)

	base, err := Score(m, weights, impacts)
	require.NoError(t, err)

	for _, factor := range []float64{0.01, 3, 1000, 1e300} {
		scaled := make([]float64, len(weights))
		for j, w := range weights {
			scaled[j] = w * factor
		}
		res, err := Score(m, scaled, impacts)
		require.NoError(t, err)
		assert.Equal(t, base.Ranks, res.Ranks, "factor %v", factor)
		assert.InDeltaSlice(t, base.Scores, res.Scores, 1e-9)
	}

	// pre-normalizing to sum to one is just another positive rescale
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	unit := make([]float64, len(weights))
	for j, w := range weights {
		unit[j] = w / sum
	}
	res, err := Score(m, unit, impacts)
	require.NoError(t, err)
	assert.Equal(t, base.Ranks, res.Ranks)
}

func TestScore_NearMaxWeights(t *testing.T) {
	m := mat.NewDense(3, 2, []float64{
		1, 9,
		2, 1,
		3, 5,
	})
	impacts := []Impact{Benefit, Benefit}

	base, err := Score(m, []float64{1, 1}, impacts)
	require.NoError(t, err)
	require.Equal(t, []int{2, 3, 1}, base.Ranks)

	// distances stay finite but their sum would not
	res, err := Score(m, []float64{1.5e308, 1.5e308}, impacts)
	require.NoError(t, err)
	assert.Greater(t, res.DistanceBest[0]+res.DistanceWorst[0], math.MaxFloat64)
	assert.Equal(t, base.Ranks, res.Ranks)
	assert.InDeltaSlice(t, base.Scores, res.Scores, 1e-9)
}

func TestScore_TinyColumns(t *testing.T) {
	tests := []struct {
		name  string
		tiny  []float64
		plain []float64
	}{
		{"subnormal column", []float64{1e-310, 2e-310, 3e-310}, []float64{1, 2, 3}},
		{"smallest subnormal", []float64{5e-324, 0, 5e-324}, []float64{1, 0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := []float64{1, 2, 5}
			build := func(col []float64) *mat.Dense {
				m := mat.NewDense(3, 2, nil)
				m.SetCol(0, col)
				m.SetCol(1, other)
				return m
			}
			weights, impacts := []float64{1, 1}, []Impact{Benefit, Cost}

			want, err := Score(build(tt.plain), weights, impacts)
			require.NoError(t, err)

			got, err := Score(build(tt.tiny), weights, impacts)
			require.NoError(t, err)
			assert.Equal(t, want.Ranks, got.Ranks)
			assert.InDeltaSlice(t, want.Scores, got.Scores, 1e-9)
		})
	}
}

func TestScore_ColumnScaleInvariance(t *testing.T) {
	r := rand.New(rand.NewPCG(13, 17))
	m, weights, impacts := randomProblem(r, 8, 3)

	base, err := Score(m, weights, impacts)
	require.NoError(t, err)

	scaled := mat.DenseCopyOf(m)
	rows, _ := scaled.Dims()
	for i := range rows {
		scaled.Set(i, 1, scaled.At(i, 1)*250)
	}

	res, err := Score(scaled, weights, impacts)
	require.NoError(t, err)
	assert.Equal(t, base.Ranks, res.Ranks)
	assert.InDeltaSlice(t, base.Scores, res.Scores, 1e-9)
}

func TestScore_ImpactFlipWithNegatedColumn(t *testing.T) {
	m, weights, impacts := goldenInput(t)

	base, err := Score(m, weights, impacts)
	require.NoError(t, err)

	flipped := mat.DenseCopyOf(m)
	rows, _ := flipped.Dims()
	for i := range rows {
		flipped.Set(i, 0, -flipped.At(i, 0))
	}
	flippedImpacts := []Impact{Cost, Benefit, Cost}

	res, err := Score(flipped, weights, flippedImpacts)
	require.NoError(t, err)
	assert.Equal(t, base.Ranks, res.Ranks)
	assert.InDeltaSlice(t, base.Scores, res.Scores, epsGolden)
}

func TestScore_ZeroWeightIsNoOp(t *testing.T) {
	m, _, impacts := goldenInput(t)

	res, err := Score(m, []float64{0.25, 0.25, 0}, impacts)
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float64{0.22603065115643695, 0, 1, 0.8781106981978164}, res.Scores, epsGolden)
	assert.Equal(t, []int{3, 4, 1, 2}, res.Ranks)
	assert.Equal(t, res.IdealBest[2], res.IdealWorst[2])
}

func TestScore_TiedRows(t *testing.T) {
	m, err := NewDecisionMatrix([][]float64{{1, 2}, {1, 2}, {3, 1}, {2, 2}})
	require.NoError(t, err)
	weights := []float64{1, 1}
	impacts := []Impact{Benefit, Benefit}

	tests := []struct {
		method RankMethod
		want   []int
	}{
		{RankDense, []int{3, 3, 1, 2}},
		{RankCompetition, []int{3, 3, 1, 2}},
		{RankOrdinal, []int{3, 4, 1, 2}},
	}

	for _, tt := range tests {
		t.Run(string(tt.method), func(t *testing.T) {
			res, err := NewScorer(WithRankMethod(tt.method)).Score(m, weights, impacts)
			require.NoError(t, err)
			assert.Equal(t, res.Scores[0], res.Scores[1])
			assert.InDelta(t, 0.34941838074426707, res.Scores[0], epsGolden)
			assert.Equal(t, tt.want, res.Ranks)
		})
	}
}

func TestScore_Errors(t *testing.T) {
	good, weights, impacts := goldenInput(t)

	tests := []struct {
		name    string
		m       mat.Matrix
		weights []float64
		impacts []Impact
		want    error
	}{
		{"nil matrix", nil, weights, impacts, ErrMalformedInput},
		{"one criterion", mat.NewDense(3, 1, []float64{1, 2, 3}), []float64{1}, []Impact{Benefit}, ErrMalformedInput},
		{"short weights", good, []float64{1, 1}, impacts, ErrDimensionMismatch},
		{"long impacts", good, weights, []Impact{Benefit, Benefit, Cost, Cost}, ErrDimensionMismatch},
		{"negative weight", good, []float64{1, -1, 1}, impacts, ErrInvalidWeight},
		{"nan weight", good, []float64{1, math.NaN(), 1}, impacts, ErrInvalidWeight},
		{"unknown impact", good, weights, []Impact{Benefit, 0, Cost}, ErrInvalidImpactSymbol},
		{"infinite value", mat.NewDense(2, 2, []float64{1, math.Inf(1), 3, 4}), []float64{1, 1}, []Impact{Benefit, Cost}, ErrNonNumericData},
		{"zero column", mat.NewDense(2, 2, []float64{1, 0, 3, 0}), []float64{1, 1}, []Impact{Benefit, Cost}, ErrDegenerateColumn},
		{"single row", mat.NewDense(1, 3, []float64{5, 6, 7}), weights, impacts, ErrDegenerateRow},
		{"identical rows", mat.NewDense(2, 2, []float64{1, 2, 1, 2}), []float64{1, 1}, []Impact{Benefit, Cost}, ErrDegenerateRow},
		{"all weights zero", good, []float64{0, 0, 0}, impacts, ErrDegenerateRow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Score(tt.m, tt.weights, tt.impacts)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)
			assert.True(t, IsInputError(err))
		})
	}
}

func TestNewDecisionMatrix(t *testing.T) {
	m, err := NewDecisionMatrix([][]float64{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, err)
	r, c := m.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, 6.0, m.At(1, 2))

	_, err = NewDecisionMatrix(nil)
	assert.ErrorIs(t, err, ErrMalformedInput)

	_, err = NewDecisionMatrix([][]float64{{1}, {2}})
	assert.ErrorIs(t, err, ErrMalformedInput)

	_, err = NewDecisionMatrix([][]float64{{1, 2}, {3}})
	assert.ErrorIs(t, err, ErrMalformedInput)

	_, err = NewDecisionMatrix([][]float64{{1, 2}, {3, math.NaN()}})
	assert.ErrorIs(t, err, ErrNonNumericData)
}

func TestIsInputError(t *testing.T) {
	assert.True(t, IsInputError(fmt.Errorf("ctx: %w", ErrDegenerateColumn)))
	assert.False(t, IsInputError(errors.New("boom")))
	assert.False(t, IsInputError(nil))
}

func BenchmarkScore(b *testing.B) {
	sizes := []struct {
		alternatives int
		criteria     int
	}{
		{50, 4},
		{250, 5},
		{1000, 10},
	}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("Alternatives%d_Criteria%d", size.alternatives, size.criteria), func(b *testing.B) {
			r := rand.New(rand.NewPCG(1, 2))
			m, weights, impacts := randomProblem(r, size.alternatives, size.criteria)
			s := NewScorer()

			b.ResetTimer()
			for b.Loop() {
				_, _ = s.Score(m, weights, impacts)
			}
		})
	}
}
