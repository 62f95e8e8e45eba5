package session

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/surge-sentinel/platform/internal/auth"
	"github.com/surge-sentinel/platform/internal/navigation"
	"github.com/surge-sentinel/platform/internal/shared/config"
	"github.com/surge-sentinel/platform/internal/shared/errors"
)

// Handler provides HTTP handlers for session and navigation state.
type Handler struct {
	store *Store
	cfg   config.AuthConfig
}

// NewHandler creates a new session handler.
func NewHandler(store *Store, cfg config.AuthConfig) *Handler {
	return &Handler{store: store, cfg: cfg}
}

// PublicRoutes registers routes that do not require a token. Role
// selection is the login, so it cannot sit behind the token middleware.
func (h *Handler) PublicRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/login", h.SelectRole)
	return r
}

// Routes registers authenticated session routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetSession)
	r.Post("/navigate", h.Navigate)
	r.Post("/language", h.SetLanguage)
	r.Delete("/", h.Logout)
	return r
}

type selectRoleRequest struct {
	Role string `json:"role"`
}

type sessionResponse struct {
	Account    auth.Account      `json:"account"`
	ActivePage string            `json:"activePage"`
	Language   Language          `json:"language"`
	Navigation navigation.Config `json:"navigation"`
	Token      string            `json:"token,omitempty"`
}

func (h *Handler) respond(w http.ResponseWriter, status int, state State, token string) {
	writeJSON(w, status, sessionResponse{
		Account:    state.Account,
		ActivePage: state.ActivePage,
		Language:   state.Language,
		Navigation: navigation.For(state.Account.Role),
		Token:      token,
	})
}

// SelectRole logs a client in as one of the four demo identities and
// returns a token carrying the role and session ID.
func (h *Handler) SelectRole(w http.ResponseWriter, r *http.Request) {
	var req selectRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	state, err := State{}.SelectRole(req.Role)
	if err != nil {
		writeError(w, errors.BadRequest("unknown role: "+req.Role))
		return
	}

	sessionID := h.store.Create(state)

	token, err := auth.IssueToken(h.cfg, state.Account, sessionID)
	if err != nil {
		writeError(w, errors.Wrap(err, "failed to issue token"))
		return
	}

	h.respond(w, http.StatusCreated, state, token)
}

// GetSession returns the current session state, rehydrating from the token
// when the server no longer holds it.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	identity := auth.GetIdentity(r.Context())
	if identity == nil {
		writeError(w, errors.Unauthorized("missing identity"))
		return
	}

	state := h.store.Get(identity.SessionID, identity)
	h.respond(w, http.StatusOK, state, "")
}

type navigateRequest struct {
	Page string `json:"page"`
}

// Navigate sets the active page for the session.
func (h *Handler) Navigate(w http.ResponseWriter, r *http.Request) {
	identity := auth.GetIdentity(r.Context())
	if identity == nil {
		writeError(w, errors.Unauthorized("missing identity"))
		return
	}

	var req navigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	state := h.store.Get(identity.SessionID, identity)
	state, err := state.Navigate(req.Page)
	if err != nil {
		writeError(w, errors.Unauthorized("not logged in"))
		return
	}
	h.store.Update(identity.SessionID, state)

	h.respond(w, http.StatusOK, state, "")
}

type languageRequest struct {
	Language string `json:"language"`
}

// SetLanguage updates the session's UI language.
func (h *Handler) SetLanguage(w http.ResponseWriter, r *http.Request) {
	identity := auth.GetIdentity(r.Context())
	if identity == nil {
		writeError(w, errors.Unauthorized("missing identity"))
		return
	}

	var req languageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	state := h.store.Get(identity.SessionID, identity)
	state, err := state.SetLanguage(req.Language)
	if err != nil {
		writeError(w, errors.Unauthorized("not logged in"))
		return
	}
	h.store.Update(identity.SessionID, state)

	h.respond(w, http.StatusOK, state, "")
}

// Logout deletes the session. The token becomes a dangling credential that
// rehydrates a fresh session if reused, matching a new login.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	identity := auth.GetIdentity(r.Context())
	if identity == nil {
		writeError(w, errors.Unauthorized("missing identity"))
		return
	}

	h.store.Delete(identity.SessionID)
	w.WriteHeader(http.StatusNoContent)
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
