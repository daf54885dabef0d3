package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/jonathan/trip-consensus/internal/db"
)

// ActivityRequest creates a candidate activity for a trip.
type ActivityRequest struct {
	TripID      string  `json:"trip_id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Score       float64 `json:"score"`
}

// handleListActivities lists a trip's activities sorted by score, with
// optional category, min_score and limit filters.
func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		err := &ErrNoDatabase{}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	q := r.URL.Query()
	tripID := q.Get("trip_id")
	if tripID == "" {
		tripID = DefaultTripID
	}

	filter := db.ActivityFilter{Category: q.Get("category")}
	if raw := q.Get("min_score"); raw != "" {
		minScore, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid min_score: "+raw)
			return
		}
		filter.MinScore = &minScore
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			s.errorResponse(w, http.StatusBadRequest, "Invalid limit: "+raw)
			return
		}
		filter.Limit = limit
	}

	activities, err := s.db.ListActivities(r.Context(), tripID, filter)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if activities == nil {
		activities = []db.Activity{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"trip_id":    tripID,
		"activities": activities,
		"count":      len(activities),
	})
}

// handleCreateActivity stores a candidate activity.
func (s *Server) handleCreateActivity(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		err := &ErrNoDatabase{}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	var req ActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Name == "" {
		s.errorResponse(w, http.StatusBadRequest, "Activity name is required")
		return
	}
	if req.TripID == "" {
		req.TripID = DefaultTripID
	}

	activity := &db.Activity{
		TripID:      req.TripID,
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Score:       req.Score,
	}
	id, err := s.db.CreateActivity(r.Context(), activity)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	activity.ID = id

	s.jsonResponse(w, http.StatusCreated, activity)
}
