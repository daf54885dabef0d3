// Package server provides the HTTP REST API for the trip consensus engine.
package server

import (
	"fmt"
	"net/http"
)

// ErrTripNotFound indicates no preferences exist for a trip
type ErrTripNotFound struct {
	TripID string
}

func (e *ErrTripNotFound) Error() string {
	return fmt.Sprintf("no preferences have been submitted for trip: %s", e.TripID)
}

// ErrProfileNotFound indicates no profile exists for a (trip, user) pair
type ErrProfileNotFound struct {
	TripID string
	UserID string
}

func (e *ErrProfileNotFound) Error() string {
	return fmt.Sprintf("no preference profile found for user %s in trip %s", e.UserID, e.TripID)
}

// ErrNoDatabase indicates a persistence endpoint was hit in engine-only mode
type ErrNoDatabase struct{}

func (e *ErrNoDatabase) Error() string {
	return "database not configured"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrTripNotFound, *ErrProfileNotFound:
		return http.StatusNotFound
	case *ErrValidation:
		return http.StatusBadRequest
	case *ErrNoDatabase:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
