// Package api exposes the advisor over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/etnz/fiadvisor"
	"github.com/etnz/fiadvisor/agent"
	"github.com/etnz/fiadvisor/fimcp"
	"github.com/etnz/fiadvisor/renderer"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Handler serves personas, profiles and answers.
type Handler struct {
	fetcher fimcp.Fetcher
	advisor *agent.Advisor
	logger  *zap.Logger
}

// NewHandler creates a Handler. advisor may be nil, then /ask is not served.
func NewHandler(f fimcp.Fetcher, advisor *agent.Advisor, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{fetcher: f, advisor: advisor, logger: logger}
}

// Router returns the routes with the global middleware.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/health"))
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes adds the api routes to r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/personas", h.ListPersonas)
	r.Route("/profiles/{persona}", func(r chi.Router) {
		r.Get("/", h.GetProfile)
		r.Get("/snapshot", h.GetSnapshot)
	})
	if h.advisor != nil {
		r.Post("/ask", h.Ask)
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// ListPersonas returns the persona catalog.
func (h *Handler) ListPersonas(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, fiadvisor.Personas())
}

// GetProfile returns the profile of a persona, given by name or phone.
// A failed handshake is a 502, failed records are inline markers.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	persona, profile, ok := h.fetch(w, r)
	if !ok {
		return
	}
	JSON(w, http.StatusOK, map[string]any{
		"persona": persona,
		"profile": profile,
	})
}

// GetSnapshot returns the markdown snapshot of a persona.
func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	persona, profile, ok := h.fetch(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(renderer.Snapshot(persona, profile)))
}

func (h *Handler) fetch(w http.ResponseWriter, r *http.Request) (fiadvisor.Persona, *fiadvisor.Profile, bool) {
	persona := fiadvisor.ResolvePersona(chi.URLParam(r, "persona"))
	profile, err := h.fetcher.FetchProfile(r.Context(), persona.Phone)
	if err != nil {
		h.logger.Warn("cannot fetch profile", zap.String("phone", persona.Phone), zap.Error(err))
		Error(w, statusOf(err), err.Error())
		return persona, nil, false
	}
	return persona, profile, true
}

// statusOf maps a handshake error to a gateway status.
func statusOf(err error) int {
	var te *fimcp.TransportError
	if errors.As(err, &te) && te.Timeout() {
		return http.StatusGatewayTimeout
	}
	return http.StatusBadGateway
}

// AskRequest is the body of POST /ask.
type AskRequest struct {
	Persona  string `json:"persona"`
	Question string `json:"question"`
}

// AskResponse is the reply of POST /ask. Error is set when no narrative could be produced,
// Answer then carries the message to display.
type AskResponse struct {
	Persona fiadvisor.Persona `json:"persona"`
	Answer  string            `json:"answer"`
	Error   string            `json:"error,omitempty"`
}

// Ask answers a question about a persona.
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Question = strings.TrimSpace(req.Question)
	if req.Persona == "" || req.Question == "" {
		Error(w, http.StatusBadRequest, "persona and question are required")
		return
	}

	persona := fiadvisor.ResolvePersona(req.Persona)
	profile, err := h.fetcher.FetchProfile(r.Context(), persona.Phone)
	if err != nil {
		// the advisor explains that data is missing.
		h.logger.Warn("cannot fetch profile", zap.String("phone", persona.Phone), zap.Error(err))
		profile = nil
	}

	result := h.advisor.Answer(r.Context(), agent.Query{Persona: persona.Name, Question: req.Question, Profile: profile})
	resp := AskResponse{Persona: persona, Answer: result.Display()}
	if result.Err != nil {
		resp.Error = result.Err.Error()
	}
	JSON(w, http.StatusOK, resp)
}
