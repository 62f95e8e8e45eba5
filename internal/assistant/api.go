package assistant

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/surge-sentinel/platform/internal/ai"
	"github.com/surge-sentinel/platform/internal/auth"
	"github.com/surge-sentinel/platform/internal/shared/errors"
)

// Handler provides HTTP handlers for the assistant module
type Handler struct {
	svc *Service
}

// NewHandler creates a new assistant handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Routes registers the assistant routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(auth.RequirePermission(auth.PermChatUse)).Post("/chat", h.Chat)
	r.With(auth.RequirePermission(auth.PermResearchAnalyze)).Post("/research", h.Research)
	r.With(auth.RequirePermission(auth.PermRiskAssess)).Post("/risk", h.Risk)
	r.Get("/news", h.News)

	return r
}

type chatRequest struct {
	Message string       `json:"message"`
	History []ai.Message `json:"history"`
}

// Chat answers a health question with the prior turns as context.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	reply, err := h.svc.Chat(r.Context(), req.Message, req.History)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

type researchRequest struct {
	Query string `json:"query"`
}

// Research analyzes a free-text research query.
func (h *Handler) Research(w http.ResponseWriter, r *http.Request) {
	var req researchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	reply, err := h.svc.Research(r.Context(), req.Query)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

type riskRequest struct {
	Series []map[string]any `json:"series"`
}

// Risk assesses an outbreak time series.
func (h *Handler) Risk(w http.ResponseWriter, r *http.Request) {
	var req riskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	reply, err := h.svc.Risk(r.Context(), req.Series)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

// News returns the health news digest.
func (h *Handler) News(w http.ResponseWriter, r *http.Request) {
	reply, err := h.svc.News(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")

	if appErr, ok := err.(*errors.AppError); ok {
		w.WriteHeader(appErr.HTTPStatus)
		json.NewEncoder(w).Encode(map[string]any{
			"error":   appErr.Message,
			"code":    appErr.Code,
			"details": appErr.Details,
		})
		return
	}

	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{"error": "internal server error"})
}
