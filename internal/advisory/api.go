package advisory

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/surge-sentinel/platform/internal/auth"
	"github.com/surge-sentinel/platform/internal/shared/errors"
)

// Handler provides HTTP handlers for the advisory module
type Handler struct {
	svc *Service
}

// NewHandler creates a new advisory handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Routes registers the advisory routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(auth.RequirePermission(auth.PermAdvisoryGenerate)).
		Post("/generate", h.Generate)

	return r
}

// Generate runs the advisory flow for the caller's hospital figures.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	actor := ""
	if identity := auth.GetIdentity(r.Context()); identity != nil {
		actor = identity.Account.Email
	}

	resp, err := h.svc.Generate(r.Context(), req, actor)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
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
