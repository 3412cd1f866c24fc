// Package api exposes the learning operations over HTTP with JSON bodies.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/fabuabedbl-oss/askora-ai-service/internal/ai"
	"github.com/fabuabedbl-oss/askora-ai-service/internal/content"
	"github.com/fabuabedbl-oss/askora-ai-service/internal/tutor"
)

// Server holds the HTTP handlers over the tutor service.
type Server struct {
	svc *tutor.Service
}

// NewServer creates a Server.
func NewServer(svc *tutor.Service) *Server {
	return &Server{svc: svc}
}

// Routes builds the request router.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /explain", s.handleExplain)
	mux.HandleFunc("POST /exercise", s.handleExercise)
	mux.HandleFunc("POST /exercise/evaluate", s.handleExerciseEvaluate)
	mux.HandleFunc("POST /quiz", s.handleQuiz)
	mux.HandleFunc("POST /quiz/evaluate", s.handleQuizEvaluate)
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("POST /student/level", s.handleStudentLevel)
	mux.HandleFunc("GET /healthz", handleHealthz)
	return mux
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decode fills dst from the request body, answering 400 itself on invalid
// JSON. The caller stops when it returns false.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("writing response", "error", err)
	}
}

// writeError maps service errors onto the HTTP surface: unknown topics are
// the caller's fault, an exhausted generation gateway is a temporary outage,
// anything else is internal.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, content.ErrUnsupportedTopic):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, ai.ErrUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "generation unavailable, try again later"})
	default:
		slog.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
