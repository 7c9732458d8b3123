// Package api serves the assistant over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/spherical-ai/hoidap/internal/dispatch"
	"github.com/spherical-ai/hoidap/internal/observability"
)

// Asker answers questions; *session.Session satisfies it.
type Asker interface {
	ID() string
	Ask(ctx context.Context, question string) dispatch.Response
	Samples() []string
}

// Handler serves question and sample endpoints.
type Handler struct {
	logger  *observability.Logger
	asker   Asker
	metrics *Metrics
}

// NewHandler creates a new handler.
func NewHandler(logger *observability.Logger, asker Asker, metrics *Metrics) *Handler {
	return &Handler{logger: logger, asker: asker, metrics: metrics}
}

// AskRequestDTO is the request body of POST /api/v1/ask.
type AskRequestDTO struct {
	Question string `json:"question"`
}

// AskResponseDTO is the response body of POST /api/v1/ask.
type AskResponseDTO struct {
	SessionID  string          `json:"sessionId"`
	RequestID  string          `json:"requestId,omitempty"`
	Kind       string          `json:"kind"`
	Intent     string          `json:"intent"`
	Text       string          `json:"text,omitempty"`
	Answer     string          `json:"answer,omitempty"`
	Suggestion string          `json:"suggestion,omitempty"`
	Table      *dispatch.Table `json:"table,omitempty"`
	LatencyMs  int64           `json:"latencyMs"`
}

// SamplesResponseDTO is the response body of GET /api/v1/samples.
type SamplesResponseDTO struct {
	Samples []string `json:"samples"`
}

// Ask handles POST /api/v1/ask.
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		h.writeError(w, http.StatusBadRequest, "question is required", "")
		return
	}

	start := time.Now()
	resp := h.asker.Ask(r.Context(), req.Question)
	elapsed := time.Since(start)
	h.metrics.Observe(resp, elapsed)

	if resp.Kind == dispatch.KindError {
		h.logger.Warn().
			Err(resp.Err).
			Str("intent", string(resp.Intent)).
			Msg("Lookup failed")
	}

	h.writeJSON(w, http.StatusOK, AskResponseDTO{
		SessionID:  h.asker.ID(),
		RequestID:  chimiddleware.GetReqID(r.Context()),
		Kind:       string(resp.Kind),
		Intent:     string(resp.Intent),
		Text:       resp.Text,
		Answer:     resp.Answer,
		Suggestion: resp.Suggestion,
		Table:      resp.Table,
		LatencyMs:  elapsed.Milliseconds(),
	})
}

// Samples handles GET /api/v1/samples.
func (h *Handler) Samples(w http.ResponseWriter, _ *http.Request) {
	samples := h.asker.Samples()
	if samples == nil {
		samples = []string{}
	}
	h.writeJSON(w, http.StatusOK, SamplesResponseDTO{Samples: samples})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message, detail string) {
	resp := map[string]string{
		"error":   message,
		"message": message,
	}
	if detail != "" {
		resp["detail"] = detail
	}
	h.writeJSON(w, status, resp)
}
