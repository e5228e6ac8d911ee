// Package client talks to a running TOPSIS server.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"github.com/tensorplex-labs/topsis/internal/config"
	"github.com/tensorplex-labs/topsis/pkg/api"
)

const (
	DefaultServerURL       = "http://127.0.0.1:8888"
	DefaultClientTimeout   = 30 * time.Second
	DefaultBreakerFailures = 5
	DefaultBreakerTimeout  = 30 * time.Second
)

// ResponseError is a non-2xx reply, carrying the server's error message when
// one was sent.
type ResponseError struct {
	StatusCode int
	Message    string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("HTTP error %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	config  *config.ClientEnvConfig
	resty   *resty.Client
	breaker *gobreaker.CircuitBreaker
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewClient builds a client from cfg. nil selects the defaults.
func NewClient(cfg *config.ClientEnvConfig) (*Client, error) {
	if cfg == nil {
		cfg = &config.ClientEnvConfig{Zstd: true, RetryMax: 3}
	}
	if cfg.ServerURL == "" {
		cfg.ServerURL = DefaultServerURL
	}
	if cfg.ClientTimeout == 0 {
		cfg.ClientTimeout = DefaultClientTimeout
	}
	if cfg.BreakerFailures <= 0 {
		cfg.BreakerFailures = DefaultBreakerFailures
	}
	if cfg.BreakerTimeout == 0 {
		cfg.BreakerTimeout = DefaultBreakerTimeout
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.RetryMax
	retryClient.RetryWaitMin = 200 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.HTTPClient.Timeout = cfg.ClientTimeout
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.Logger = nil

	restyClient := resty.NewWithClient(retryClient.StandardClient()).
		SetBaseURL(strings.TrimSuffix(cfg.ServerURL, "/")).
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal)

	c := &Client{
		config:  cfg,
		resty:   restyClient,
		breaker: newBreaker(cfg),
	}

	if cfg.Zstd {
		restyClient.SetHeader("Accept-Encoding", "zstd")

		encoder, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
		}
		decoder, err := zstd.NewReader(nil)
		if err != nil {
			encoder.Close()
			return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
		}
		c.encoder, c.decoder = encoder, decoder
	}

	log.Debug().
		Str("server_url", cfg.ServerURL).
		Int("retry_max", retryClient.RetryMax).
		Str("timeout", cfg.ClientTimeout.String()).
		Bool("zstd", cfg.Zstd).
		Msg("client initialized")

	return c, nil
}

// newBreaker opens after BreakerFailures consecutive transport failures or
// 5xx replies. Rejected input does not count against the server.
func newBreaker(cfg *config.ClientEnvConfig) *gobreaker.CircuitBreaker {
	failures := uint32(cfg.BreakerFailures)
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "topsis-server",
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			var respErr *ResponseError
			return err == nil || (errors.As(err, &respErr) && respErr.StatusCode < http.StatusInternalServerError)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker changed state")
		},
	})
}

// Close cleans up client resources
func (c *Client) Close() {
	if c.encoder != nil {
		c.encoder.Close()
	}
	if c.decoder != nil {
		c.decoder.Close()
	}
}

func (c *Client) newRequest(ctx context.Context, contentType string, body []byte) *resty.Request {
	req := c.resty.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetHeader(api.RequestIDHeader, uuid.NewString())
	if c.encoder != nil && len(body) > 0 {
		return req.SetHeader("Content-Encoding", "zstd").SetBody(c.encoder.EncodeAll(body, nil))
	}
	if len(body) > 0 {
		req.SetBody(body)
	}
	return req
}

// readBody decompresses the response when needed and turns error statuses
// into a *ResponseError.
func (c *Client) readBody(resp *resty.Response) ([]byte, error) {
	body := resp.Body()
	if c.decoder != nil && resp.Header().Get("Content-Encoding") == "zstd" {
		decompressed, err := c.decoder.DecodeAll(body, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress response: %w", err)
		}
		body = decompressed
	}

	if resp.IsError() {
		msg := string(body)
		var std api.StdResponse[map[string]any]
		if err := sonic.Unmarshal(body, &std); err == nil && std.Error != nil {
			msg = *std.Error
		}
		return nil, &ResponseError{StatusCode: resp.StatusCode(), Message: msg}
	}
	return body, nil
}

// execute sends req through the breaker and returns the decoded body.
func (c *Client) execute(req *resty.Request, method, route string) ([]byte, error) {
	out, err := c.breaker.Execute(func() (any, error) {
		log.Trace().
			Str("method", method).
			Str("route", route).
			Str("request_id", req.Header.Get(api.RequestIDHeader)).
			Msg("sending request")

		resp, err := req.Execute(method, route)
		if err != nil {
			return nil, fmt.Errorf("failed to make request: %w", err)
		}
		return c.readBody(resp)
	})
	if err != nil {
		return nil, err
	}
	return out.([]byte), nil
}

func decodeStd[T any](body []byte) (*T, error) {
	var std api.StdResponse[T]
	if err := sonic.Unmarshal(body, &std); err != nil {
		return nil, fmt.Errorf("failed to unmarshal StdResponse: %w", err)
	}
	if std.Error != nil {
		return nil, fmt.Errorf("server error: %s", *std.Error)
	}
	return &std.Body, nil
}

// Score posts req to the JSON scoring route.
func (c *Client) Score(ctx context.Context, req api.ScoreRequest) (*api.ScoreResponse, error) {
	payload, err := sonic.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	body, err := c.execute(c.newRequest(ctx, "application/json", payload), http.MethodPost, api.ScoreRoute)
	if err != nil {
		return nil, err
	}
	return decodeStd[api.ScoreResponse](body)
}

// ScoreCSV uploads a CSV table and returns the scored table as CSV.
func (c *Client) ScoreCSV(ctx context.Context, csv io.Reader, weights, impacts, rankMethod string) ([]byte, error) {
	data, err := io.ReadAll(csv)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	req := c.newRequest(ctx, "text/csv", data).
		SetQueryParam(api.WeightsParam, weights).
		SetQueryParam(api.ImpactsParam, impacts)
	if rankMethod != "" {
		req.SetQueryParam(api.RankMethodParam, rankMethod)
	}

	return c.execute(req, http.MethodPost, api.CSVRoute)
}

// Health reports whether the server is up.
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	body, err := c.execute(c.newRequest(ctx, "application/json", nil), http.MethodGet, api.HealthRoute)
	if err != nil {
		return nil, err
	}
	return decodeStd[api.HealthResponse](body)
}
