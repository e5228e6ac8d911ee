package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tensorplex-labs/topsis/internal/config"
	"github.com/tensorplex-labs/topsis/internal/metrics"
	"github.com/tensorplex-labs/topsis/internal/scoring"
	"github.com/tensorplex-labs/topsis/internal/server"
	"github.com/tensorplex-labs/topsis/internal/utils/logger"
)

func main() {
	var debug, trace bool
	var port int

	rootCmd := &cobra.Command{
		Use:           "topsis-server",
		Short:         "Serve TOPSIS scoring over HTTP",
		Long:          "Starts the HTTP service with /ScoreRequest, /csv, /health and /metrics endpoints",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.Init(logger.Options{Debug: debug, Trace: trace})
			log.Info().Msg("Starting server...")

			serverCfg, scorerCfg, err := config.LoadServerConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				serverCfg.Port = port
			}

			params, err := scoring.ParamsFromEnv(*scorerCfg)
			if err != nil {
				return err
			}

			s := server.NewServer(serverCfg, scoring.NewPipeline(scoring.WithParams(params)), metrics.NewRegistry())
			return s.Start(cmd.Context())
		},
	}

	rootCmd.Flags().IntVar(&port, "port", server.DefaultServerPort, "listen port (default from SERVER_PORT)")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.Flags().BoolVar(&trace, "trace", false, "enable trace logging")

	// setup signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
	log.Info().Msg("Server stopped")
}
