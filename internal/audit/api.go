package audit

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/surge-sentinel/platform/internal/auth"
)

// Handler provides HTTP handlers for the activity trail
type Handler struct {
	recorder *Recorder
}

// NewHandler creates a new audit handler
func NewHandler(recorder *Recorder) *Handler {
	return &Handler{recorder: recorder}
}

// Routes registers the audit routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(auth.RequirePermission(auth.PermHospitalViewAll)).Get("/", h.Recent)

	return r
}

// Recent returns the newest activity entries first.
func (h *Handler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	entries := h.recorder.Recent(limit)
	if entries == nil {
		entries = []Entry{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{"entries": entries})
}
