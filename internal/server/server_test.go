package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jonathan/trip-consensus/internal/embedding"
	"github.com/jonathan/trip-consensus/internal/preference"
)

// newTestServer creates an engine-only server backed by the deterministic
// local embedder. No database, so persistence endpoints return 503.
func newTestServer() *Server {
	embedder := embedding.NewHashEmbedder(32)
	return &Server{
		engine:   preference.NewEngine(embedder),
		embedder: embedder,
		hub:      NewHub(),
	}
}

// TestHealthEndpoint tests the /health endpoint
func TestHealthEndpoint(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	s.handleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	if resp["status"] != "ok" {
		t.Errorf("expected status 'ok', got '%s'", resp["status"])
	}
}

// TestCORSMiddleware tests CORS headers are set
func TestCORSMiddleware(t *testing.T) {
	s := newTestServer()

	handler := s.withCORS(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected CORS header Access-Control-Allow-Origin: *")
	}
	if w.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Error("expected CORS header Access-Control-Allow-Methods")
	}
}

// TestCORSMiddleware_OPTIONS tests OPTIONS preflight request
func TestCORSMiddleware_OPTIONS(t *testing.T) {
	s := newTestServer()

	handler := s.withCORS(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("should not reach here")) //nolint:errcheck
	}))

	req := httptest.NewRequest(http.MethodOptions, "/test", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200 for OPTIONS, got %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Error("OPTIONS response should have empty body")
	}
}

// TestLoggingMiddleware tests that logging middleware passes through
func TestLoggingMiddleware(t *testing.T) {
	s := newTestServer()

	called := false
	handler := s.withLogging(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if !called {
		t.Error("logging middleware should call next handler")
	}
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
}

// TestSSEWriter tests SSE event writing
func TestSSEWriter(t *testing.T) {
	w := httptest.NewRecorder()

	sse, err := NewSSEWriter(w)
	if err != nil {
		t.Fatalf("failed to create SSE writer: %v", err)
	}

	event := map[string]string{"trip_id": "default"}
	if err := sse.WriteEvent("aggregate", event); err != nil {
		t.Fatalf("failed to write event: %v", err)
	}

	if !bytes.Contains(w.Body.Bytes(), []byte("event: aggregate")) {
		t.Error("expected 'event: aggregate' in output")
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("data:")) {
		t.Error("expected 'data:' in output")
	}
}

// TestJSONResponse tests jsonResponse helper
func TestJSONResponse(t *testing.T) {
	s := newTestServer()
	w := httptest.NewRecorder()

	s.jsonResponse(w, http.StatusOK, map[string]string{"key": "value"})

	if w.Header().Get("Content-Type") != "application/json" {
		t.Error("expected Content-Type: application/json")
	}
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}
	if resp["key"] != "value" {
		t.Errorf("expected key='value', got '%s'", resp["key"])
	}
}

// TestErrorResponse tests errorResponse helper
func TestErrorResponse(t *testing.T) {
	s := newTestServer()
	w := httptest.NewRecorder()

	s.errorResponse(w, http.StatusBadRequest, "test error")

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}
	if resp["error"] != "test error" {
		t.Errorf("expected error='test error', got '%s'", resp["error"])
	}
}

// TestExtractClientID tests client IP extraction from RemoteAddr
func TestExtractClientID(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = "192.0.2.1:54321"

	if got := s.extractClientID(req); got != "192.0.2.1" {
		t.Errorf("expected client ID '192.0.2.1', got '%s'", got)
	}
}

// TestHTTPStatus tests the error-to-status mapping
func TestHTTPStatus(t *testing.T) {
	if got := HTTPStatus(&ErrTripNotFound{TripID: "x"}); got != http.StatusNotFound {
		t.Errorf("expected 404 for trip not found, got %d", got)
	}
	if got := HTTPStatus(&ErrProfileNotFound{TripID: "x", UserID: "y"}); got != http.StatusNotFound {
		t.Errorf("expected 404 for profile not found, got %d", got)
	}
	if got := HTTPStatus(&ErrNoDatabase{}); got != http.StatusServiceUnavailable {
		t.Errorf("expected 503 for missing database, got %d", got)
	}
	if got := HTTPStatus(&ErrValidation{Field: "f", Message: "m"}); got != http.StatusBadRequest {
		t.Errorf("expected 400 for validation error, got %d", got)
	}
}
