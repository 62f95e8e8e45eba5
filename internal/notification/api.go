package notification

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/surge-sentinel/platform/internal/shared/errors"
)

// Handler provides HTTP handlers for the notification center
type Handler struct {
	center *Center
}

// NewHandler creates a new notification handler
func NewHandler(center *Center) *Handler {
	return &Handler{center: center}
}

// Routes registers the notification routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Recent)
	r.Post("/read", h.MarkAllRead)

	return r
}

// Recent lists the newest notifications with the unread count.
func (h *Handler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, errors.BadRequest("limit must be a positive integer"))
			return
		}
		limit = n
	}

	notifications := h.center.Recent(limit)
	if notifications == nil {
		notifications = []*Notification{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"notifications": notifications,
		"unread":        h.center.Unread(),
	})
}

// MarkAllRead clears the unread badge.
func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	marked := h.center.MarkAllRead()
	writeJSON(w, http.StatusOK, map[string]any{"marked": marked})
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
