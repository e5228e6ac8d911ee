// Package logger provides a global logger for the application
package logger

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger backs Sugar. It is a no-op until Init runs so packages may log
// from tests without initialising anything.
var Logger = zap.NewNop()

// Options override what the environment selects.
type Options struct {
	Debug bool
	Trace bool
	Out   io.Writer // defaults to os.Stderr
}

func initLogger(opts Options) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("Error loading .env file")
	}

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: out}).With().Timestamp().Caller().Logger()

	environment := strings.ToLower(os.Getenv("ENVIRONMENT"))
	if environment == "" {
		environment = "prod"
	}

	var logLevel zerolog.Level
	switch environment {
	case "dev", "test":
		logLevel = zerolog.TraceLevel
	case "prod":
		logLevel = zerolog.InfoLevel
	default:
		logLevel = zerolog.InfoLevel
		log.Warn().Str("environment", environment).Msg("Unknown environment - defaulting to production log level (info and above)")
	}

	if opts.Debug {
		logLevel = zerolog.DebugLevel
	} else if opts.Trace {
		logLevel = zerolog.TraceLevel
	}

	zerolog.SetGlobalLevel(logLevel)
	Logger = newZap(environment, logLevel, out)

	log.Debug().Str("environment", environment).Str("level", logLevel.String()).Msg("Logger initialised")
}

// newZap builds the sugared logger on the same writer as zerolog, so
// callers that redirect output (the CLI, tests) capture both.
func newZap(environment string, level zerolog.Level, out io.Writer) *zap.Logger {
	var cfg zap.Config
	if environment == "prod" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	if level <= zerolog.DebugLevel {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	var encoder zapcore.Encoder
	if cfg.Encoding == "json" {
		encoder = zapcore.NewJSONEncoder(cfg.EncoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(cfg.EncoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(out), cfg.Level)
	return zap.New(core, zap.AddCaller())
}

// Init initializes the logger with the configuration from the environment
// and the given overrides.
// It sets up the global logger to use zerolog with console output.
// Example usage:
//
//	logger.Init(logger.Options{Debug: debug}) <- inside whichever main() function in your entrypoint
//
// Then, `go run ./cmd/topsis --debug data.csv 1,1,1 +,+,- out.csv`
func Init(opts Options) {
	initLogger(opts)
}

// Sugar returns a sugared logger for easier use
func Sugar() *zap.SugaredLogger {
	return Logger.Sugar()
}
