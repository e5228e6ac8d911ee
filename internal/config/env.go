// Package config defines environment configuration structs and loaders.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type AppConfig struct {
	ScorerEnvConfig
	ServerEnvConfig
	ClientEnvConfig
}

func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// LoadServerConfig parses only what the server binary needs.
func LoadServerConfig() (*ServerEnvConfig, *ScorerEnvConfig, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	return &cfg.ServerEnvConfig, &cfg.ScorerEnvConfig, nil
}

// ScorerEnvConfig holds scoring defaults shared by the CLI and the server.
type ScorerEnvConfig struct {
	RankMethod  string `env:"TOPSIS_RANK_METHOD" envDefault:"dense"`
	Precision   int    `env:"TOPSIS_PRECISION" envDefault:"6"`
	ScoreColumn string `env:"TOPSIS_SCORE_COLUMN" envDefault:"Topsis Score"`
	RankColumn  string `env:"TOPSIS_RANK_COLUMN" envDefault:"Rank"`
}

// ServerEnvConfig configures the server.
type ServerEnvConfig struct {
	Address         string        `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port            int           `env:"SERVER_PORT" envDefault:"8888"`
	BodySizeLimit   int           `env:"SERVER_BODY_LIMIT" envDefault:"4194304"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// ClientEnvConfig configures the client.
type ClientEnvConfig struct {
	ServerURL     string        `env:"TOPSIS_SERVER_URL" envDefault:"http://127.0.0.1:8888"`
	ClientTimeout time.Duration `env:"CLIENT_TIMEOUT" envDefault:"30s"`
	RetryMax      int           `env:"CLIENT_RETRY_MAX" envDefault:"3"`
	Zstd          bool          `env:"CLIENT_ZSTD" envDefault:"true"`

	// consecutive failed calls before the breaker opens, and how long it stays open
	BreakerFailures int           `env:"CLIENT_BREAKER_FAILURES" envDefault:"5"`
	BreakerTimeout  time.Duration `env:"CLIENT_BREAKER_TIMEOUT" envDefault:"30s"`
}
