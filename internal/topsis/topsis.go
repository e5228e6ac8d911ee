// Package topsis ranks alternatives with the Technique for Order Preference
// by Similarity to Ideal Solution.
//
// The scorer is a pure function of its inputs: it copies the decision
// matrix, never reads process-wide configuration and keeps no state between
// calls, so a single Scorer may be shared across goroutines.
//
// Weights are used exactly as given. Callers that want weights summing to
// one must rescale them first; since columns are vector-normalized the
// ranking is the same either way.
package topsis

import "gonum.org/v1/gonum/mat"

// Scorer runs the vector-normalization TOPSIS procedure.
type Scorer struct {
	RankMethod RankMethod
}

type Option func(*Scorer)

// WithRankMethod sets the tie policy used when ranking scores.
func WithRankMethod(method RankMethod) Option {
	return func(s *Scorer) {
		s.RankMethod = method
	}
}

// NewScorer returns a Scorer using dense ranking unless overridden.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		RankMethod: RankDense,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Score ranks the rows of m. weights and impacts must have one entry per
// column of m. No partial result is returned on error.
func (s *Scorer) Score(m mat.Matrix, weights []float64, impacts []Impact) (*Result, error) {
	if err := Validate(m, weights, impacts); err != nil {
		return nil, err
	}

	// 1. vector normalization
	normalized, _, err := VectorNormalize(m)
	if err != nil {
		return nil, err
	}

	// 2. weighting
	weighted := ApplyWeights(normalized, weights)

	// 3. ideal best / ideal worst
	best, worst := IdealPoints(weighted, impacts)

	// 4. distances to both reference points
	dBest, dWorst := Distances(weighted, best, worst)

	// 5. closeness
	scores, err := Closeness(dBest, dWorst)
	if err != nil {
		return nil, err
	}

	return &Result{
		Scores:        scores,
		Ranks:         Rank(scores, s.RankMethod),
		IdealBest:     best,
		IdealWorst:    worst,
		DistanceBest:  dBest,
		DistanceWorst: dWorst,
	}, nil
}

// Score is shorthand for NewScorer().Score.
func Score(m mat.Matrix, weights []float64, impacts []Impact) (*Result, error) {
	return NewScorer().Score(m, weights, impacts)
}
