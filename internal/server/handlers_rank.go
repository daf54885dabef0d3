package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/trip-consensus/internal/scoring"
	"github.com/jonathan/trip-consensus/internal/types"
)

// RankCandidate is one item to score. Candidates may carry a precomputed
// embedding or a text to embed server-side.
type RankCandidate struct {
	ID        string    `json:"id"`
	Category  string    `json:"category"`
	Text      string    `json:"text,omitempty"`
	Embedding []float32 `json:"embedding,omitempty"`
}

// RankRequest scores candidates against a user's vector, or the trip centroid
// when user_id is absent.
type RankRequest struct {
	TripID     string          `json:"trip_id"`
	UserID     string          `json:"user_id"`
	Alpha      *float64        `json:"alpha,omitempty"`
	TopK       int             `json:"top_k"`
	Candidates []RankCandidate `json:"candidates"`
}

// RankResponse is the sorted ranking.
type RankResponse struct {
	TripID string             `json:"trip_id"`
	UserID string             `json:"user_id,omitempty"`
	Alpha  float64            `json:"alpha"`
	Items  []types.ScoredItem `json:"items"`
}

// handleRankItems ranks candidate items by blended score.
func (s *Server) handleRankItems(w http.ResponseWriter, r *http.Request) {
	var req RankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Candidates) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "At least one candidate is required")
		return
	}
	if req.TripID == "" {
		req.TripID = DefaultTripID
	}

	var (
		query []float32
		ok    bool
	)
	if req.UserID != "" {
		query, ok = s.engine.UserVector(req.TripID, req.UserID)
		if !ok {
			notFound := &ErrProfileNotFound{TripID: req.TripID, UserID: req.UserID}
			s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
			return
		}
	} else {
		query, ok = s.engine.TripVector(req.TripID)
		if !ok {
			notFound := &ErrTripNotFound{TripID: req.TripID}
			s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
			return
		}
	}

	candidates := make([]types.ItemCandidate, 0, len(req.Candidates))
	for _, c := range req.Candidates {
		emb := c.Embedding
		if len(emb) == 0 && c.Text != "" {
			var err error
			emb, err = s.embedder.Embed(r.Context(), c.Text)
			if err != nil {
				s.errorResponse(w, http.StatusInternalServerError, "Failed to embed candidate "+c.ID+": "+err.Error())
				return
			}
		}
		candidates = append(candidates, types.ItemCandidate{
			ID:        c.ID,
			Category:  c.Category,
			Embedding: emb,
		})
	}

	alpha := scoring.DefaultAlpha
	if req.Alpha != nil {
		alpha = *req.Alpha
	}

	items := scoring.RankItems(query, candidates, scoring.Options{
		Alpha: alpha,
		Soft:  s.engine.Aggregate(req.TripID).SoftMean,
	})
	if req.TopK > 0 && req.TopK < len(items) {
		items = items[:req.TopK]
	}

	s.jsonResponse(w, http.StatusOK, RankResponse{
		TripID: req.TripID,
		UserID: req.UserID,
		Alpha:  alpha,
		Items:  items,
	})
}
