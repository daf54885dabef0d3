package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jonathan/trip-consensus/internal/db"
	"github.com/jonathan/trip-consensus/internal/survey"
	"github.com/jonathan/trip-consensus/internal/types"
	"github.com/jonathan/trip-consensus/internal/vectorindex"
	"golang.org/x/sync/errgroup"
)

// submitConcurrency bounds parallel embedding calls during a bulk re-ingest.
const submitConcurrency = 4

// PreferenceResponse is returned after adding or updating a preference.
type PreferenceResponse struct {
	Success bool   `json:"success"`
	UserID  string `json:"user_id"`
	TripID  string `json:"trip_id"`
	Message string `json:"message"`
}

// SubmitResponse is returned after replaying stored submissions into the engine.
type SubmitResponse struct {
	Success             bool   `json:"success"`
	TripID              string `json:"trip_id"`
	PreferencesIngested int    `json:"preferences_ingested"`
	Message             string `json:"message"`
}

// TripAggregateResponse is the consensus view served to clients.
type TripAggregateResponse struct {
	TripID          string              `json:"trip_id"`
	Members         []string            `json:"members"`
	MemberCount     int                 `json:"member_count"`
	Coverage        float64             `json:"coverage"`
	ReadyForOptions bool                `json:"ready_for_options"`
	SoftPreferences map[string]float64  `json:"soft_preferences"`
	HardConstraints map[string][]string `json:"hard_constraints"`
	Conflicts       []types.Conflict    `json:"conflicts"`
}

// UserProfileResponse is an individual member's normalized profile.
type UserProfileResponse struct {
	UserID          string             `json:"user_id"`
	TripID          string             `json:"trip_id"`
	HardConstraints map[string]string  `json:"hard_constraints"`
	SoftPreferences map[string]float64 `json:"soft_preferences"`
	Summary         string             `json:"summary"`
	VectorID        string             `json:"vector_id"`
	UpdatedAt       string             `json:"updated_at"`
}

// handleAddPreference stores a member's submission and ingests it into the
// engine in one request, mirroring the original single-call flow.
func (s *Server) handleAddPreference(w http.ResponseWriter, r *http.Request) {
	var req types.PreferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid preference: "+err.Error())
		return
	}

	tripID := req.TripID
	if tripID == "" {
		tripID = DefaultTripID
	}

	isUpdate := false
	if s.db != nil {
		existing, err := s.db.GetPreference(r.Context(), tripID, req.UserID)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
			return
		}
		isUpdate = existing != nil

		if _, err := s.db.UpsertPreference(r.Context(), &db.Preference{
			TripID:         tripID,
			UserID:         req.UserID,
			BudgetLevel:    req.BudgetLevel,
			Vibes:          req.Vibes,
			DealBreaker:    req.DealBreaker,
			Notes:          req.Notes,
			AvailableDates: req.AvailableDates,
		}); err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
			return
		}
	}

	if _, err := s.engine.IngestSurvey(r.Context(), tripID, req.UserID, survey.InputFromRequest(&req)); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to ingest preference: "+err.Error())
		return
	}

	s.hub.Broadcast(tripID, s.engine.Aggregate(tripID))

	message := "Preference created and ingested"
	if isUpdate {
		message = "Preference updated and ingested"
	}
	s.jsonResponse(w, http.StatusCreated, PreferenceResponse{
		Success: true,
		UserID:  req.UserID,
		TripID:  tripID,
		Message: message,
	})
}

// replaySubmissions re-ingests stored submissions, oldest first. Embeddings
// run concurrently, but profiles are applied strictly in the given order so
// the engine's member order matches first-submission order.
func (s *Server) replaySubmissions(ctx context.Context, tripID string, prefs []db.Preference) error {
	inputs := make([]types.SurveyInput, len(prefs))
	vectors := make([][]float32, len(prefs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(submitConcurrency)
	for i := range prefs {
		pref := &prefs[i]
		inputs[i] = survey.InputFromRequest(&types.PreferenceRequest{
			TripID:      pref.TripID,
			UserID:      pref.UserID,
			BudgetLevel: pref.BudgetLevel,
			Vibes:       pref.Vibes,
			DealBreaker: pref.DealBreaker,
			Notes:       pref.Notes,
		})
		g.Go(func() error {
			vec, err := s.embedder.Embed(gctx, strings.TrimSpace(inputs[i].Text))
			if err != nil {
				return err
			}
			vectors[i] = vec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i := range prefs {
		s.engine.IngestSurveyVector(tripID, prefs[i].UserID, inputs[i], vectors[i])
	}
	return nil
}

// handleSubmitPreferences replays every stored submission for a trip into the
// engine.
func (s *Server) handleSubmitPreferences(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		err := &ErrNoDatabase{}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	tripID := r.URL.Query().Get("trip_id")
	if tripID == "" {
		tripID = DefaultTripID
	}

	prefs, err := s.db.ListPreferencesByTrip(r.Context(), tripID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if len(prefs) == 0 {
		notFound := &ErrTripNotFound{TripID: tripID}
		s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
		return
	}

	if err := s.replaySubmissions(r.Context(), tripID, prefs); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to ingest preferences: "+err.Error())
		return
	}

	s.hub.Broadcast(tripID, s.engine.Aggregate(tripID))

	s.jsonResponse(w, http.StatusOK, SubmitResponse{
		Success:             true,
		TripID:              tripID,
		PreferencesIngested: len(prefs),
		Message:             "Preferences submitted to engine successfully",
	})
}

// handleGetAggregate serves the consensus aggregate for a trip.
func (s *Server) handleGetAggregate(w http.ResponseWriter, r *http.Request) {
	tripID := r.URL.Query().Get("trip_id")
	if tripID == "" {
		tripID = DefaultTripID
	}

	agg := s.engine.Aggregate(tripID)
	if len(agg.Members) == 0 {
		notFound := &ErrTripNotFound{TripID: tripID}
		s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, aggregateResponse(agg))
}

// handleGetUserProfile serves one member's normalized profile.
func (s *Server) handleGetUserProfile(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user_id")
	tripID := r.URL.Query().Get("trip_id")
	if tripID == "" {
		tripID = DefaultTripID
	}

	profile, ok := s.engine.GetProfile(tripID, userID)
	if !ok {
		notFound := &ErrProfileNotFound{TripID: tripID, UserID: userID}
		s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, UserProfileResponse{
		UserID:          profile.UserID,
		TripID:          profile.TripID,
		HardConstraints: profile.Hard,
		SoftPreferences: profile.Soft,
		Summary:         profile.Summary,
		VectorID:        vectorindex.ProfileKey(profile.TripID, profile.UserID),
		UpdatedAt:       profile.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	})
}

func aggregateResponse(agg types.TripAggregate) TripAggregateResponse {
	return TripAggregateResponse{
		TripID:          agg.TripID,
		Members:         agg.Members,
		MemberCount:     len(agg.Members),
		Coverage:        agg.Coverage,
		ReadyForOptions: agg.ReadyForOptions,
		SoftPreferences: agg.SoftMean,
		HardConstraints: agg.HardUnion,
		Conflicts:       agg.Conflicts,
	}
}
