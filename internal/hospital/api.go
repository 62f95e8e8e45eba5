package hospital

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/surge-sentinel/platform/internal/auth"
	"github.com/surge-sentinel/platform/internal/shared/errors"
	"github.com/surge-sentinel/platform/internal/shared/types"
)

// Handler provides HTTP handlers for the hospital module
type Handler struct {
	svc *Service
}

// NewHandler creates a new hospital handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Routes registers the hospital routes. The SSE stream is mounted
// separately so it can sit outside the request timeout chain.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.With(auth.RequirePermission(auth.PermHospitalUpsert)).Post("/", h.Upsert)
	r.With(auth.RequirePermission(auth.PermHospitalUpsert)).Delete("/{hospitalID}", h.Delete)

	return r
}

// List returns every hospital snapshot.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	all, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if all == nil {
		all = []*Stats{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"hospitals": all})
}

type upsertRequest struct {
	Name     string `json:"name"`
	OP       int    `json:"op"`
	IP       int    `json:"ip"`
	ER       int    `json:"er"`
	Capacity int    `json:"capacity"`
	Severity string `json:"severity"`
}

// Upsert writes a hospital snapshot directly, without going through the
// advisory flow. Used by the manage-hospitals page and the HIS poller.
func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req upsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	stats, err := h.svc.Sync(r.Context(), req.Name, req.OP, req.IP, req.ER, req.Capacity, req.Severity)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// Delete removes a hospital record.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseID(chi.URLParam(r, "hospitalID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid hospital ID"))
		return
	}

	if h.svc.repo == nil {
		writeError(w, errors.Unavailable("database", nil))
		return
	}
	if err := h.svc.repo.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Stream pushes the live region view over SSE. New subscribers get the
// last known good snapshot immediately.
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
