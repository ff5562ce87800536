package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/abhisek/mcqgen/internal/mcq"
	"github.com/abhisek/mcqgen/internal/questiongen"
)

// maxBodyBytes bounds request bodies; source images are sent inline.
const maxBodyBytes = 10 << 20

const generationFailedMessage = "We couldn't generate questions right now. Please try again in a moment or adjust your topic."

// AuditRequest is the body of POST /api/v1/audit.
type AuditRequest struct {
	Questions []mcq.Record `json:"questions"`
	Topic     string       `json:"topic"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req questiongen.Request
	if err := decodeBody(w, r, &req); err != nil {
		s.logger.Debug("bad generate request", zap.Error(err))
		writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	res, err := s.engine.Generate(r.Context(), req)
	if err != nil {
		var genErr *questiongen.GenerationError
		switch {
		case errors.As(err, &genErr):
			s.logger.Warn("generation failed", zap.Error(err))
			writeError(w, http.StatusBadGateway, generationFailedMessage)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			writeError(w, http.StatusServiceUnavailable, "Request cancelled")
		default:
			s.logger.Error("generation error", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	var req AuditRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.logger.Debug("bad audit request", zap.Error(err))
		writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	writeJSON(w, http.StatusOK, s.engine.Audit(r.Context(), req.Questions, req.Topic))
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The status line is already sent; a failed write means the client left.
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
