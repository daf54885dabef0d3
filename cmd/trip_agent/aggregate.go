package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/trip-consensus/internal/observability"
	"github.com/jonathan/trip-consensus/internal/preference"
	"github.com/spf13/cobra"
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Aggregate survey submissions into a trip consensus view",
	Long: `Read a survey submissions JSON file, ingest every submission, and print
the aggregated consensus for each trip: mean soft preferences, unioned hard
constraints, detected conflicts, coverage and readiness.`,
	RunE: runAggregate,
}

var (
	aggSurveysFile  string
	aggTrip         string
	aggExpectedSize int
	aggProvider     string
	aggDimension    int
	aggJSON         bool
	aggConfigFile   string
)

func init() {
	aggregateCmd.Flags().StringVarP(&aggSurveysFile, "surveys", "s", "", "Path to survey submissions JSON file")
	aggregateCmd.Flags().StringVar(&aggTrip, "trip", defaultTripID, "Trip ID for submissions that carry none")
	aggregateCmd.Flags().IntVar(&aggExpectedSize, "expected-size", 0, "Expected roster size for coverage (0 = assume everyone answered)")
	aggregateCmd.Flags().StringVar(&aggProvider, "provider", "local", "Embedding provider (gemini or local)")
	aggregateCmd.Flags().IntVar(&aggDimension, "dimension", 0, "Local embedder dimension (0 = default)")
	aggregateCmd.Flags().BoolVar(&aggJSON, "json", false, "Print aggregates as JSON instead of formatted boxes")
	aggregateCmd.Flags().StringVar(&aggConfigFile, "config", "", "JSON config file supplying flag defaults")

	rootCmd.AddCommand(aggregateCmd)
}

func runAggregate(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)

	if aggConfigFile != "" {
		cfg, err := loadCLIConfig(aggConfigFile)
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("surveys") && cfg.Surveys != "" {
			aggSurveysFile = cfg.Surveys
		}
		if !cmd.Flags().Changed("trip") && cfg.Trip != "" {
			aggTrip = cfg.Trip
		}
		if !cmd.Flags().Changed("expected-size") && cfg.ExpectedSize != 0 {
			aggExpectedSize = cfg.ExpectedSize
		}
		if !cmd.Flags().Changed("provider") && cfg.EmbeddingProvider != "" {
			aggProvider = cfg.EmbeddingProvider
		}
		if !cmd.Flags().Changed("dimension") && cfg.EmbeddingDimension != 0 {
			aggDimension = cfg.EmbeddingDimension
		}
	}
	if aggSurveysFile == "" {
		return fmt.Errorf("--surveys is required (flag or config file)")
	}

	reqs, err := loadSurveys(aggSurveysFile)
	if err != nil {
		return err
	}
	if len(reqs) == 0 {
		return fmt.Errorf("surveys file contains no submissions")
	}

	embedder, err := newCLIEmbedder(ctx, aggProvider, aggDimension)
	if err != nil {
		return err
	}
	defer embedder.Close() //nolint:errcheck

	var opts []preference.Option
	if aggExpectedSize > 0 {
		opts = append(opts, preference.WithExpectedSize(func(string) int {
			return aggExpectedSize
		}))
	}
	engine := preference.NewEngine(embedder, opts...)

	trips, err := ingestSurveys(ctx, engine, aggTrip, reqs)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	for _, tripID := range trips {
		agg := engine.Aggregate(tripID)
		if aggJSON {
			if err := encoder.Encode(agg); err != nil {
				return fmt.Errorf("failed to encode aggregate: %w", err)
			}
		} else {
			printer.PrintTripAggregate(&agg)
		}
	}

	return nil
}
