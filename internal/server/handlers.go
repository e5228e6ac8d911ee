package server

import (
	"bytes"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/tensorplex-labs/topsis/internal/scoring"
	"github.com/tensorplex-labs/topsis/internal/table"
	"github.com/tensorplex-labs/topsis/internal/topsis"
	"github.com/tensorplex-labs/topsis/pkg/api"
)

func handleHealth(c *fiber.Ctx) error {
	return c.JSON(createResponse(api.HealthResponse{Status: "ok"}, nil))
}

// pipelineFor returns the server pipeline, or a copy of it when the caller
// asks for another tie policy.
func (s *Server) pipelineFor(rankMethod string) (*scoring.Pipeline, error) {
	if rankMethod == "" {
		return s.pipeline, nil
	}

	method, err := topsis.ParseRankMethod(rankMethod)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	params := s.pipeline.Params
	params.RankMethod = method
	return scoring.NewPipeline(scoring.WithParams(params)), nil
}

func (s *Server) handleScore(c *fiber.Ctx, req api.ScoreRequest) (resp api.ScoreResponse, err error) {
	timer := s.metrics.StartTimer(api.ScoreRoute)
	defer func() { timer.Stop(outcomeFor(err)) }()

	pipeline, err := s.pipelineFor(req.RankMethod)
	if err != nil {
		return resp, err
	}

	rows := make([][]float64, len(req.Alternatives))
	for i, alt := range req.Alternatives {
		rows[i] = alt.Values
	}
	m, err := topsis.NewDecisionMatrix(rows)
	if err != nil {
		return resp, err
	}
	if _, cols := m.Dims(); len(req.Criteria) > 0 && len(req.Criteria) != cols {
		return resp, fmt.Errorf("%w: %d criteria named, %d values per alternative",
			topsis.ErrDimensionMismatch, len(req.Criteria), cols)
	}

	impacts := make([]topsis.Impact, len(req.Impacts))
	for i, symbol := range req.Impacts {
		if impacts[i], err = topsis.ParseImpact(symbol); err != nil {
			return resp, fmt.Errorf("impact %d: %w", i+1, err)
		}
	}

	res, err := pipeline.ProcessMatrix(m, req.Weights, impacts)
	if err != nil {
		return resp, err
	}
	s.metrics.ObserveAlternatives(len(req.Alternatives))

	resp.Results = make([]api.AlternativeScore, len(req.Alternatives))
	for i, alt := range req.Alternatives {
		resp.Results[i] = api.AlternativeScore{
			ID:            alt.ID,
			Score:         res.Scores[i],
			Rank:          res.Ranks[i],
			DistanceBest:  res.DistanceBest[i],
			DistanceWorst: res.DistanceWorst[i],
		}
	}
	resp.IdealBest = res.IdealBest
	resp.IdealWorst = res.IdealWorst
	resp.RankMethod = string(pipeline.Params.RankMethod)

	log.Info().
		Str("request_id", requestID(c)).
		Int("alternatives", len(req.Alternatives)).
		Str("rankMethod", resp.RankMethod).
		Msg("Scored request")

	return resp, nil
}

// handleCSV scores an uploaded table, sent either as the multipart field
// "file" or as the raw request body, and returns it as result.csv.
func (s *Server) handleCSV(c *fiber.Ctx) error {
	timer := s.metrics.StartTimer(api.CSVRoute)

	processed, err := s.scoreCSV(c)
	timer.Stop(outcomeFor(err))
	if err != nil {
		return err
	}
	s.metrics.ObserveAlternatives(len(processed.Table.Records))

	log.Info().
		Str("request_id", requestID(c)).
		Int("alternatives", len(processed.Table.Records)).
		Msg("Scored table")

	var buf bytes.Buffer
	if err := processed.Table.Write(&buf); err != nil {
		return err
	}

	c.Attachment(api.ResultFilename)
	return c.Send(buf.Bytes())
}

func (s *Server) scoreCSV(c *fiber.Ctx) (*scoring.Processed, error) {
	pipeline, err := s.pipelineFor(param(c, api.RankMethodParam))
	if err != nil {
		return nil, err
	}

	var r io.Reader = bytes.NewReader(c.Body())
	if fh, ferr := c.FormFile(api.FileField); ferr == nil {
		f, err := fh.Open()
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		defer f.Close()
		r = f
	}

	tbl, err := table.Read(r)
	if err != nil {
		return nil, err
	}

	return pipeline.ProcessRaw(tbl, param(c, api.WeightsParam), param(c, api.ImpactsParam))
}

// param reads key from the query string, then from the form.
func param(c *fiber.Ctx, key string) string {
	if v := c.Query(key); v != "" {
		return v
	}
	return c.FormValue(key)
}
