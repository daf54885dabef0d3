package main

import (
	"fmt"
	"os"

	"github.com/jonathan/trip-consensus/internal/observability"
	"github.com/jonathan/trip-consensus/internal/preference"
	"github.com/jonathan/trip-consensus/internal/scoring"
	"github.com/jonathan/trip-consensus/internal/types"
	"github.com/spf13/cobra"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank candidate items against aggregated trip preferences",
	Long: `Read survey submissions and a candidates JSON file, ingest the surveys,
and rank the candidates by blended score: cosine similarity against the trip
centroid (or one member's vector with --user) weighted against how well each
candidate's category matches the group's vibe weights.`,
	RunE: runRank,
}

var (
	rankSurveysFile    string
	rankCandidatesFile string
	rankTrip           string
	rankUser           string
	rankAlpha          float64
	rankTop            int
	rankProvider       string
	rankDimension      int
	rankConfigFile     string
)

func init() {
	rankCmd.Flags().StringVarP(&rankSurveysFile, "surveys", "s", "", "Path to survey submissions JSON file")
	rankCmd.Flags().StringVarP(&rankCandidatesFile, "candidates", "c", "", "Path to item candidates JSON file")
	rankCmd.Flags().StringVar(&rankTrip, "trip", defaultTripID, "Trip ID to rank for")
	rankCmd.Flags().StringVar(&rankUser, "user", "", "Rank against one member's vector instead of the trip centroid")
	rankCmd.Flags().Float64Var(&rankAlpha, "alpha", scoring.DefaultAlpha, "Cosine weight in the blended score (0-1)")
	rankCmd.Flags().IntVar(&rankTop, "top", 0, "Only print the top N items (0 = all)")
	rankCmd.Flags().StringVar(&rankProvider, "provider", "local", "Embedding provider (gemini or local)")
	rankCmd.Flags().IntVar(&rankDimension, "dimension", 0, "Local embedder dimension (0 = default)")
	rankCmd.Flags().StringVar(&rankConfigFile, "config", "", "JSON config file supplying flag defaults")

	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)

	if rankConfigFile != "" {
		cfg, err := loadCLIConfig(rankConfigFile)
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("surveys") && cfg.Surveys != "" {
			rankSurveysFile = cfg.Surveys
		}
		if !cmd.Flags().Changed("candidates") && cfg.Candidates != "" {
			rankCandidatesFile = cfg.Candidates
		}
		if !cmd.Flags().Changed("trip") && cfg.Trip != "" {
			rankTrip = cfg.Trip
		}
		if !cmd.Flags().Changed("alpha") && cfg.Alpha != 0 {
			rankAlpha = cfg.Alpha
		}
		if !cmd.Flags().Changed("top") && cfg.TopK != 0 {
			rankTop = cfg.TopK
		}
		if !cmd.Flags().Changed("provider") && cfg.EmbeddingProvider != "" {
			rankProvider = cfg.EmbeddingProvider
		}
		if !cmd.Flags().Changed("dimension") && cfg.EmbeddingDimension != 0 {
			rankDimension = cfg.EmbeddingDimension
		}
	}
	if rankSurveysFile == "" {
		return fmt.Errorf("--surveys is required (flag or config file)")
	}
	if rankCandidatesFile == "" {
		return fmt.Errorf("--candidates is required (flag or config file)")
	}

	reqs, err := loadSurveys(rankSurveysFile)
	if err != nil {
		return err
	}
	if len(reqs) == 0 {
		return fmt.Errorf("surveys file contains no submissions")
	}

	rawCandidates, err := loadCandidates(rankCandidatesFile)
	if err != nil {
		return err
	}
	if len(rawCandidates) == 0 {
		return fmt.Errorf("candidates file contains no items")
	}

	embedder, err := newCLIEmbedder(ctx, rankProvider, rankDimension)
	if err != nil {
		return err
	}
	defer embedder.Close() //nolint:errcheck

	engine := preference.NewEngine(embedder)
	if _, err := ingestSurveys(ctx, engine, rankTrip, reqs); err != nil {
		return err
	}

	var query []float32
	if rankUser != "" {
		vec, ok := engine.UserVector(rankTrip, rankUser)
		if !ok {
			return fmt.Errorf("no preference profile found for user %s in trip %s", rankUser, rankTrip)
		}
		query = vec
	} else {
		vec, ok := engine.TripVector(rankTrip)
		if !ok {
			return fmt.Errorf("no preferences have been submitted for trip %s", rankTrip)
		}
		query = vec
	}

	candidates := make([]types.ItemCandidate, 0, len(rawCandidates))
	for _, c := range rawCandidates {
		emb := c.Embedding
		if len(emb) == 0 && c.Text != "" {
			if emb, err = embedder.Embed(ctx, c.Text); err != nil {
				return fmt.Errorf("failed to embed candidate %s: %w", c.ID, err)
			}
		}
		candidates = append(candidates, types.ItemCandidate{
			ID:        c.ID,
			Category:  c.Category,
			Embedding: emb,
			Metadata:  c.Metadata,
		})
	}

	items := scoring.RankItems(query, candidates, scoring.Options{
		Alpha: rankAlpha,
		Soft:  engine.Aggregate(rankTrip).SoftMean,
	})
	if rankTop > 0 && rankTop < len(items) {
		items = items[:rankTop]
	}

	observability.NewPrinter(os.Stdout).PrintRankedItems(items)

	return nil
}
