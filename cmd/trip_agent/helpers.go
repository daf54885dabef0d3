package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/jonathan/trip-consensus/internal/config"
	"github.com/jonathan/trip-consensus/internal/embedding"
	"github.com/jonathan/trip-consensus/internal/preference"
	"github.com/jonathan/trip-consensus/internal/schemas"
	"github.com/jonathan/trip-consensus/internal/survey"
	"github.com/jonathan/trip-consensus/internal/types"
	"github.com/spf13/cobra"
)

const defaultTripID = "default"

// candidateFile is one entry of a candidates JSON file. Either embedding or
// text must be present; text is embedded locally when no embedding is given.
type candidateFile struct {
	ID        string            `json:"id"`
	Category  string            `json:"category"`
	Text      string            `json:"text,omitempty"`
	Embedding []float32         `json:"embedding,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// validateAgainstSchema validates a JSON file against a repo schema when the
// schema can be located; commands still work from odd working directories.
func validateAgainstSchema(schemaName, jsonPath string) error {
	schemaPath := schemas.ResolveSchemaPath("schemas/" + schemaName)
	if schemaPath == "" {
		return nil
	}
	if err := schemas.ValidateJSON(schemaPath, jsonPath); err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			return fmt.Errorf("%s does not match %s: %w", jsonPath, schemaName, err)
		}
		return fmt.Errorf("failed to validate %s: %w", jsonPath, err)
	}
	return nil
}

// loadSurveys reads and validates a survey submissions file.
func loadSurveys(path string) ([]types.PreferenceRequest, error) {
	if err := validateAgainstSchema("survey_submission.schema.json", path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read surveys file: %w", err)
	}

	var reqs []types.PreferenceRequest
	if err := json.Unmarshal(data, &reqs); err != nil {
		return nil, fmt.Errorf("failed to parse surveys file: %w", err)
	}
	for i := range reqs {
		if err := reqs[i].Validate(); err != nil {
			return nil, fmt.Errorf("invalid survey %d (%s): %w", i, reqs[i].UserID, err)
		}
	}
	return reqs, nil
}

// loadCandidates reads and validates an item candidates file.
func loadCandidates(path string) ([]candidateFile, error) {
	if err := validateAgainstSchema("item_candidates.schema.json", path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read candidates file: %w", err)
	}

	var candidates []candidateFile
	if err := json.Unmarshal(data, &candidates); err != nil {
		return nil, fmt.Errorf("failed to parse candidates file: %w", err)
	}
	return candidates, nil
}

// newCLIEmbedder builds an embedder from flags and environment. The Gemini
// backend is used only when explicitly requested.
func newCLIEmbedder(ctx context.Context, provider string, dimension int) (embedding.Embedder, error) {
	switch provider {
	case "gemini":
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required for the gemini provider")
		}
		return embedding.NewGeminiEmbedder(ctx, apiKey, "")
	case "local", "":
		return embedding.NewHashEmbedder(dimension), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", provider)
	}
}

// ingestSurveys feeds every submission into the engine under its trip,
// falling back to the given default trip. Returns the set of trips touched
// in first-seen order.
func ingestSurveys(ctx context.Context, engine *preference.Engine, trip string, reqs []types.PreferenceRequest) ([]string, error) {
	seen := make(map[string]bool)
	var trips []string

	for i := range reqs {
		req := &reqs[i]
		tripID := req.TripID
		if tripID == "" {
			tripID = trip
		}
		if _, err := engine.IngestSurvey(ctx, tripID, req.UserID, survey.InputFromRequest(req)); err != nil {
			return nil, fmt.Errorf("failed to ingest survey for %s: %w", req.UserID, err)
		}
		if !seen[tripID] {
			seen[tripID] = true
			trips = append(trips, tripID)
		}
	}
	return trips, nil
}

// loadCLIConfig loads and validates a JSON config file used as flag defaults.
func loadCLIConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
