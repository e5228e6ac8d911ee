package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tensorplex-labs/topsis/internal/client"
	"github.com/tensorplex-labs/topsis/internal/config"
	"github.com/tensorplex-labs/topsis/internal/scoring"
	"github.com/tensorplex-labs/topsis/internal/table"
	"github.com/tensorplex-labs/topsis/internal/topsis"
	"github.com/tensorplex-labs/topsis/internal/utils/logger"
)

const successMessage = "TOPSIS completed successfully"

type options struct {
	rankMethod string
	precision  int
	plot       bool
	remote     string
	debug      bool
	trace      bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "topsis <inputfile> <weights> <impacts> <outputfile>",
		Short: "Rank alternatives in a CSV table with TOPSIS",
		Long: `topsis scores every row of a CSV decision table with the Technique for Order
Preference by Similarity to Ideal Solution and writes the table back with a
score and a rank column appended.

The first column identifies each alternative; every further column is a
numeric criterion. Weights and impacts are comma separated with one entry
per criterion; impacts are + (benefit) or - (cost).`,
		Example:       `  topsis data.csv "1,1,1,2" "+,+,-,+" result.csv`,
		Args:          exactArgs(4),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(logger.Options{Debug: opts.debug, Trace: opts.trace, Out: cmd.ErrOrStderr()})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.rankMethod, "rank-method", "", "tie policy: dense, ordinal or competition (default from TOPSIS_RANK_METHOD)")
	flags.IntVar(&opts.precision, "precision", scoring.DefaultPrecision, "decimals written for each score, negative for shortest exact")
	flags.BoolVar(&opts.plot, "plot", false, "draw the scores as a terminal bar chart")
	flags.StringVar(&opts.remote, "remote", "", "score on a running server at this URL instead of locally")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	flags.BoolVar(&opts.trace, "trace", false, "enable trace logging")

	return cmd
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return fmt.Errorf("wrong number of parameters, usage: %s", cmd.Use)
		}
		return nil
	}
}

// params merges environment defaults with whatever flags were set.
func params(cmd *cobra.Command, cfg *config.AppConfig, opts *options) (scoring.Params, error) {
	p, err := scoring.ParamsFromEnv(cfg.ScorerEnvConfig)
	if err != nil {
		return p, err
	}

	if cmd.Flags().Changed("rank-method") {
		method, err := topsis.ParseRankMethod(opts.rankMethod)
		if err != nil {
			return p, err
		}
		p.RankMethod = method
	}
	if cmd.Flags().Changed("precision") {
		p.Precision = opts.precision
	}
	return p, nil
}

func run(cmd *cobra.Command, args []string, opts *options) error {
	input, weights, impacts, output := args[0], args[1], args[2], args[3]
	out := cmd.OutOrStdout()

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	p, err := params(cmd, cfg, opts)
	if err != nil {
		return err
	}

	tbl, err := table.ReadFile(input)
	if err != nil {
		return err
	}

	log.Debug().
		Str("input", input).
		Str("output", output).
		Int("alternatives", len(tbl.Records)).
		Int("criteria", tbl.NumCriteria()).
		Msg("Table loaded")

	var scored *table.Table
	if opts.remote != "" {
		clientCfg := cfg.ClientEnvConfig
		clientCfg.ServerURL = opts.remote
		scored, err = scoreRemote(cmd.Context(), &clientCfg, tbl, weights, impacts, p)
	} else {
		var processed *scoring.Processed
		processed, err = scoring.NewPipeline(scoring.WithParams(p)).ProcessRaw(tbl, weights, impacts)
		if processed != nil {
			scored = processed.Table
		}
	}
	if err != nil {
		return err
	}

	if err := scored.WriteFile(output); err != nil {
		return err
	}

	if opts.plot {
		if err := plot(out, scored); err != nil {
			return err
		}
	}

	log.Info().Str("output", output).Msg("Result written")
	fmt.Fprintln(out, successMessage)
	return nil
}

func scoreRemote(ctx context.Context, cfg *config.ClientEnvConfig, tbl *table.Table, weights, impacts string, p scoring.Params) (*table.Table, error) {
	c, err := client.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	var buf bytes.Buffer
	if err := tbl.Write(&buf); err != nil {
		return nil, err
	}

	body, err := c.ScoreCSV(ctx, &buf, weights, impacts, string(p.RankMethod))
	if err != nil {
		return nil, err
	}
	return table.Read(bytes.NewReader(body))
}

// plot reads the score back from the second to last column of a scored table.
func plot(w io.Writer, scored *table.Table) error {
	col := len(scored.Header) - 2
	scores := make([]float64, len(scored.Records))
	for i, rec := range scored.Records {
		v, err := strconv.ParseFloat(rec[col], 64)
		if err != nil {
			return fmt.Errorf("parse score of row %d: %w", i+1, err)
		}
		scores[i] = v
	}

	scoring.PlotScoresTerminal(w, scored.IDs(), scores, "TOPSIS Scores")
	return nil
}
