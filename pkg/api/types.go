// Package api holds the wire types shared by the TOPSIS server and client.
package api

const (
	// HTTP routes
	ScoreRoute   = "/ScoreRequest"
	CSVRoute     = "/csv"
	HealthRoute  = "/health"
	MetricsRoute = "/metrics"

	// Query parameters and form fields accepted by CSVRoute
	WeightsParam    = "weights"
	ImpactsParam    = "impacts"
	RankMethodParam = "rank_method"
	FileField       = "file"

	// RequestIDHeader correlates client and server logs. The server
	// generates one when the client did not send it.
	RequestIDHeader = "X-Request-ID"

	// ResultFilename is the attachment name of a scored CSV.
	ResultFilename = "result.csv"
)

// StdResponse represents the standardized response structure
type StdResponse[T any] struct {
	Body  T       `json:"body"`
	Error *string `json:"error,omitempty"`
}

// Alternative is one row of the decision matrix.
type Alternative struct {
	ID     string    `json:"id"`
	Values []float64 `json:"values"`
}

// ScoreRequest asks the server to rank Alternatives. Impacts are "+" or "-"
// per criterion, in the same order as Values and Weights. Criteria names
// are optional; when given there must be one per value.
type ScoreRequest struct {
	Criteria     []string      `json:"criteria,omitempty"`
	Alternatives []Alternative `json:"alternatives"`
	Weights      []float64     `json:"weights"`
	Impacts      []string      `json:"impacts"`
	RankMethod   string        `json:"rank_method,omitempty"`
}

type AlternativeScore struct {
	ID            string  `json:"id"`
	Score         float64 `json:"score"`
	Rank          int     `json:"rank"`
	DistanceBest  float64 `json:"distance_best"`
	DistanceWorst float64 `json:"distance_worst"`
}

// ScoreResponse lists results in request order.
type ScoreResponse struct {
	Results    []AlternativeScore `json:"results"`
	IdealBest  []float64          `json:"ideal_best"`
	IdealWorst []float64          `json:"ideal_worst"`
	RankMethod string             `json:"rank_method"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
