// Package server exposes the scorer over HTTP.
package server

import (
	"context"
	"fmt"
	"net"
	"reflect"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"

	"github.com/tensorplex-labs/topsis/internal/config"
	"github.com/tensorplex-labs/topsis/internal/metrics"
	"github.com/tensorplex-labs/topsis/internal/scoring"
	"github.com/tensorplex-labs/topsis/pkg/api"
)

const (
	DefaultServerHost = "0.0.0.0"
	DefaultServerPort = 8888
	DefaultBodyLimit  = 4 * 1024 * 1024 // 4MB
)

// Server serves the scoring routes.
type Server struct {
	App      *fiber.App
	config   *config.ServerEnvConfig
	pipeline *scoring.Pipeline
	metrics  *metrics.Registry
}

// RouterHandler is a generic handler function type
type RouterHandler[Req, Resp any] func(*fiber.Ctx, Req) (Resp, error)

// NewServer builds the fiber app and registers every route. nil arguments
// fall back to defaults.
func NewServer(cfg *config.ServerEnvConfig, pipeline *scoring.Pipeline, reg *metrics.Registry) *Server {
	if cfg == nil {
		cfg = &config.ServerEnvConfig{
			Address:       DefaultServerHost,
			Port:          DefaultServerPort,
			BodySizeLimit: DefaultBodyLimit,
		}
	}
	if pipeline == nil {
		pipeline = scoring.NewPipeline()
	}
	if reg == nil {
		reg = metrics.NewRegistry()
	}

	log.Info().
		Any("serverConfig", cfg).
		Any("params", pipeline.Params).
		Msg("Server configuration loaded")

	app := fiber.New(fiber.Config{
		Prefork:               false,
		DisableStartupMessage: true,
		ErrorHandler:          fiberErrHandler,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		BodyLimit:             cfg.BodySizeLimit,
	})

	app.Use(recover.New()) // add panic recovery
	app.Use(RequestIDMiddleware())

	whitelistedRoutes := []string{api.HealthRoute, api.MetricsRoute}
	app.Use(ZstdMiddleware(whitelistedRoutes))

	s := &Server{
		App:      app,
		config:   cfg,
		pipeline: pipeline,
		metrics:  reg,
	}

	ServeRoute(s, s.handleScore)
	app.Post(api.CSVRoute, s.handleCSV)
	app.Get(api.HealthRoute, handleHealth)
	app.Get(api.MetricsRoute, adaptor.HTTPHandler(reg.Handler()))

	return s
}

func fiberErrHandler(ctx *fiber.Ctx, err error) error {
	code := statusFor(err)

	log.Error().
		Err(err).
		Int("status_code", code).
		Str("request_id", requestID(ctx)).
		Str("path", ctx.Path()).
		Str("method", ctx.Method()).
		Msg("Fiber error handler triggered")

	return ctx.Status(code).JSON(createResponse(map[string]any{}, err))
}

// ServeRoute registers handler as POST /<name of Req>.
func ServeRoute[Req, Resp any](s *Server, handler RouterHandler[Req, Resp]) {
	var zero Req
	route := "/" + reflect.TypeOf(zero).Name()

	s.App.Post(route, func(c *fiber.Ctx) error {
		var req Req
		if err := c.BodyParser(&req); err != nil {
			log.Error().
				Err(err).
				Str("route", route).
				Msg("Failed to parse request body")
			return c.Status(fiber.StatusBadRequest).
				JSON(createResponse(map[string]any{}, err))
		}

		resp, err := handler(c, req)
		if err != nil {
			code := statusFor(err)
			log.Error().
				Err(err).
				Int("status_code", code).
				Str("request_id", requestID(c)).
				Str("route", route).
				Msg("Handler returned error")
			var zero Resp
			return c.Status(code).JSON(createResponse(zero, err))
		}

		return c.JSON(createResponse(resp, nil))
	})
}

// Start listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.config.Address, strconv.Itoa(s.config.Port))

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("address", addr).Msg("Server listening")
		errCh <- s.App.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen on %s: %w", addr, err)
	case <-ctx.Done():
	}

	log.Info().Dur("timeout", s.config.ShutdownTimeout).Msg("Shutting down server")
	return s.Shutdown()
}

func (s *Server) Shutdown() error {
	if s.config.ShutdownTimeout > 0 {
		return s.App.ShutdownWithTimeout(s.config.ShutdownTimeout)
	}
	return s.App.Shutdown()
}
