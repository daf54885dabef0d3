package main

import (
	"fmt"
	"os"

	"github.com/jonathan/trip-consensus/internal/observability"
	"github.com/jonathan/trip-consensus/internal/preference"
	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest survey submissions and print the normalized profiles",
	Long: `Read a survey submissions JSON file, normalize each submission into a
preference profile, and print the resulting profiles. Useful for checking how
raw survey answers translate into weights and constraints before serving.`,
	RunE: runIngest,
}

var (
	ingestSurveysFile string
	ingestTrip        string
	ingestProvider    string
	ingestDimension   int
	ingestVerbose     bool
)

func init() {
	ingestCmd.Flags().StringVarP(&ingestSurveysFile, "surveys", "s", "", "Path to survey submissions JSON file (required)")
	ingestCmd.Flags().StringVar(&ingestTrip, "trip", defaultTripID, "Trip ID for submissions that carry none")
	ingestCmd.Flags().StringVar(&ingestProvider, "provider", "local", "Embedding provider (gemini or local)")
	ingestCmd.Flags().IntVar(&ingestDimension, "dimension", 0, "Local embedder dimension (0 = default)")
	ingestCmd.Flags().BoolVarP(&ingestVerbose, "verbose", "v", false, "Print each normalized profile")

	ingestCmd.MarkFlagRequired("surveys") //nolint:errcheck

	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)

	reqs, err := loadSurveys(ingestSurveysFile)
	if err != nil {
		return err
	}
	if len(reqs) == 0 {
		return fmt.Errorf("surveys file contains no submissions")
	}

	embedder, err := newCLIEmbedder(ctx, ingestProvider, ingestDimension)
	if err != nil {
		return err
	}
	defer embedder.Close() //nolint:errcheck

	engine := preference.NewEngine(embedder)
	trips, err := ingestSurveys(ctx, engine, ingestTrip, reqs)
	if err != nil {
		return err
	}

	if ingestVerbose {
		printer := observability.NewPrinter(os.Stdout)
		for i := range reqs {
			tripID := reqs[i].TripID
			if tripID == "" {
				tripID = ingestTrip
			}
			if profile, ok := engine.GetProfile(tripID, reqs[i].UserID); ok {
				printer.PrintProfile(profile)
			}
		}
	}

	fmt.Fprintf(os.Stdout, "Ingested %d submissions across %d trip(s) using %s embeddings (%d dimensions)\n",
		len(reqs), len(trips), embedder.ModelName(), embedder.Dimension())

	return nil
}
