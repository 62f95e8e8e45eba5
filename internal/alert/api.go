package alert

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/surge-sentinel/platform/internal/auth"
	"github.com/surge-sentinel/platform/internal/shared/errors"
)

// Handler provides HTTP handlers for the alert module
type Handler struct {
	svc *Service
}

// NewHandler creates a new alert handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Routes registers the alert routes. The SSE stream is mounted separately
// so it can sit outside the request timeout chain.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Recent)
	r.With(auth.RequirePermission(auth.PermAlertBroadcast)).Post("/", h.Broadcast)

	return r
}

// Broadcast appends a new alert to the log.
func (h *Handler) Broadcast(w http.ResponseWriter, r *http.Request) {
	var req BroadcastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	sender := ""
	if identity := auth.GetIdentity(r.Context()); identity != nil {
		sender = identity.Account.DisplayName
	}

	a, err := h.svc.Broadcast(r.Context(), req, sender)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, a)
}

// Recent returns the newest alerts, most recent first.
func (h *Handler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := DefaultWindow
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, errors.BadRequest("limit must be a positive integer"))
			return
		}
		limit = n
	}

	alerts, err := h.svc.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if alerts == nil {
		alerts = []*SystemAlert{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"alerts": alerts})
}

// Stream pushes the live alert window over SSE.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	h.svc.Hub().Serve(w, r, func() (any, bool) {
		snap, ok := h.svc.Snapshot()
		return snap, ok
	})
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
