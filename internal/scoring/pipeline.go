// Package scoring glues CSV tables to the TOPSIS scorer: it parses the
// criteria, runs the scorer and writes the score and rank columns back.
package scoring

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"

	"github.com/tensorplex-labs/topsis/internal/config"
	"github.com/tensorplex-labs/topsis/internal/table"
	"github.com/tensorplex-labs/topsis/internal/topsis"
	"github.com/tensorplex-labs/topsis/internal/utils/logger"
)

type Pipeline struct {
	Params Params
	scorer *topsis.Scorer
}

type PipelineOption func(*Pipeline)

func WithRankMethod(method topsis.RankMethod) PipelineOption {
	return func(p *Pipeline) {
		p.Params.RankMethod = method
	}
}

func WithPrecision(precision int) PipelineOption {
	return func(p *Pipeline) {
		p.Params.Precision = precision
	}
}

func WithColumns(cols table.Columns) PipelineOption {
	return func(p *Pipeline) {
		p.Params.Columns = cols
	}
}

func WithParams(params Params) PipelineOption {
	return func(p *Pipeline) {
		p.Params = params
	}
}

func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		Params: DefaultParams(),
	}

	for _, opt := range opts {
		opt(p)
	}

	p.scorer = topsis.NewScorer(topsis.WithRankMethod(p.Params.RankMethod))
	return p
}

// ParamsFromEnv converts the environment scorer settings into Params.
func ParamsFromEnv(cfg config.ScorerEnvConfig) (Params, error) {
	method, err := topsis.ParseRankMethod(cfg.RankMethod)
	if err != nil {
		return Params{}, err
	}

	params := DefaultParams()
	params.RankMethod = method
	params.Precision = cfg.Precision
	if cfg.ScoreColumn != "" {
		params.Columns.Score = cfg.ScoreColumn
	}
	if cfg.RankColumn != "" {
		params.Columns.Rank = cfg.RankColumn
	}
	return params, nil
}

// ProcessMatrix scores an already numeric decision matrix.
func (p *Pipeline) ProcessMatrix(m mat.Matrix, weights []float64, impacts []topsis.Impact) (*topsis.Result, error) {
	rows, cols := m.Dims()
	log.Debug().Int("alternatives", rows).Int("criteria", cols).Str("rankMethod", string(p.Params.RankMethod)).Msg("scoring decision matrix")

	res, err := p.scorer.Score(m, weights, impacts)
	if err != nil {
		return nil, err
	}

	log.Trace().Floats64("scores", res.Scores).Ints("ranks", res.Ranks).Msg("scored decision matrix")
	return res, nil
}

// Process scores every row of tbl and returns it with the result columns
// appended. tbl itself is left untouched.
func (p *Pipeline) Process(tbl *table.Table, weights []float64, impacts []topsis.Impact) (*Processed, error) {
	logger.Sugar().Infow("Processing table with params", "params", p.Params, "alternatives", len(tbl.Records))

	m, err := tbl.Criteria()
	if err != nil {
		return nil, err
	}

	res, err := p.ProcessMatrix(m, weights, impacts)
	if err != nil {
		return nil, err
	}

	out, err := tbl.WithScores(res.Scores, res.Ranks, p.Params.Columns, p.Params.Precision)
	if err != nil {
		return nil, fmt.Errorf("append results: %w", err)
	}

	return &Processed{Table: out, Result: res}, nil
}

// ProcessRaw is Process with comma separated weights and impacts, as they
// arrive from the command line or a query string.
func (p *Pipeline) ProcessRaw(tbl *table.Table, weights, impacts string) (*Processed, error) {
	n := tbl.NumCriteria()

	w, err := table.ParseWeights(weights, n)
	if err != nil {
		return nil, err
	}
	imp, err := table.ParseImpacts(impacts, n)
	if err != nil {
		return nil, err
	}

	return p.Process(tbl, w, imp)
}
