package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "dense", cfg.RankMethod)
	assert.Equal(t, 6, cfg.Precision)
	assert.Equal(t, "Topsis Score", cfg.ScoreColumn)
	assert.Equal(t, "Rank", cfg.RankColumn)

	assert.Equal(t, "0.0.0.0", cfg.Address)
	assert.Equal(t, 8888, cfg.Port)
	assert.Equal(t, 4*1024*1024, cfg.BodySizeLimit)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)

	assert.Equal(t, "http://127.0.0.1:8888", cfg.ServerURL)
	assert.Equal(t, 30*time.Second, cfg.ClientTimeout)
	assert.Equal(t, 3, cfg.RetryMax)
	assert.True(t, cfg.Zstd)
	assert.Equal(t, 5, cfg.BreakerFailures)
	assert.Equal(t, 30*time.Second, cfg.BreakerTimeout)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("TOPSIS_RANK_METHOD", "ordinal")
	t.Setenv("TOPSIS_PRECISION", "3")
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("CLIENT_TIMEOUT", "2s")
	t.Setenv("CLIENT_ZSTD", "false")

	server, scorer, err := LoadServerConfig()
	require.NoError(t, err)
	assert.Equal(t, "ordinal", scorer.RankMethod)
	assert.Equal(t, 3, scorer.Precision)
	assert.Equal(t, 9999, server.Port)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.ClientTimeout)
	assert.False(t, cfg.Zstd)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("SERVER_PORT", "eighty")

	_, err := LoadConfig()
	assert.Error(t, err)
}
