package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/trip-consensus/internal/db"
)

// TripRequest creates or updates a trip record.
type TripRequest struct {
	Name string `json:"name"`
	// ExpectedSize is the roster-size hint used for coverage; 0 means unknown.
	ExpectedSize int `json:"expected_size"`
}

// handleUpsertTrip creates or updates a trip's roster-size hint.
func (s *Server) handleUpsertTrip(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		err := &ErrNoDatabase{}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	tripID := r.PathValue("id")

	var req TripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.ExpectedSize < 0 {
		s.errorResponse(w, http.StatusBadRequest, "expected_size must not be negative")
		return
	}

	trip := &db.Trip{ID: tripID, Name: req.Name, ExpectedSize: req.ExpectedSize}
	if err := s.db.UpsertTrip(r.Context(), trip); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, trip)
}

// handleGetTrip retrieves a trip record.
func (s *Server) handleGetTrip(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		err := &ErrNoDatabase{}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	tripID := r.PathValue("id")

	trip, err := s.db.GetTrip(r.Context(), tripID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if trip == nil {
		notFound := &ErrTripNotFound{TripID: tripID}
		s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, trip)
}
