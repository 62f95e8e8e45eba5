package simulation

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/surge-sentinel/platform/internal/alert"
	"github.com/surge-sentinel/platform/internal/hospital"
	"github.com/surge-sentinel/platform/internal/shared/errors"
)

// senderName labels simulated broadcasts in the alert log.
const senderName = "Surge Simulation"

// Handler provides HTTP handlers for demo scenarios
type Handler struct {
	hospitals *hospital.Service
	alerts    *alert.Service
	log       *zap.Logger
}

// NewHandler creates a new simulation handler
func NewHandler(hospitals *hospital.Service, alerts *alert.Service, log *zap.Logger) *Handler {
	return &Handler{hospitals: hospitals, alerts: alerts, log: log}
}

// Routes registers the simulation routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/scenarios", h.ListScenarios)
	r.Post("/run", h.Run)

	return r
}

// ListScenarios returns the available demo scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"scenarios": Scenarios()})
}

// Run executes one scenario against the live region.
func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Scenario string `json:"scenario"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	var (
		updated int
		alertID string
		err     error
	)

	switch req.Scenario {
	case "baseline":
		updated, err = h.runBaseline(r.Context())
	case "city-surge":
		updated, alertID, err = h.runCitySurge(r.Context())
	case "regional-wave":
		updated, err = h.runRegionalWave(r.Context())
	default:
		writeError(w, errors.BadRequest("unknown scenario"))
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	h.log.Info("simulation scenario applied",
		zap.String("scenario", req.Scenario),
		zap.Int("hospitals", updated))

	resp := map[string]any{
		"scenario":         req.Scenario,
		"hospitalsUpdated": updated,
	}
	if alertID != "" {
		resp["alertId"] = alertID
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) runBaseline(ctx context.Context) (int, error) {
	for _, seed := range seedRegion {
		_, err := h.hospitals.Sync(ctx, seed.Name,
			jitter(seed.OP), jitter(seed.IP), jitter(seed.ER), seed.Capacity, "")
		if err != nil {
			return 0, err
		}
	}
	return len(seedRegion), nil
}

func (h *Handler) runCitySurge(ctx context.Context) (int, string, error) {
	for _, seed := range seedRegion {
		op, ip, er, severity := jitter(seed.OP), jitter(seed.IP), jitter(seed.ER), ""
		if seed.Name == "City General" {
			op, ip, er, severity = surge(seed.OP), surge(seed.IP), surge(seed.ER), "High"
		}
		if _, err := h.hospitals.Sync(ctx, seed.Name, op, ip, er, seed.Capacity, severity); err != nil {
			return 0, "", err
		}
	}

	a, err := h.alerts.Broadcast(ctx, alert.BroadcastRequest{
		Title:    "Surge Protocol Activated",
		Message:  "City General has exceeded capacity. Divert non-critical admissions to neighboring facilities.",
		Severity: string(alert.SeverityCritical),
	}, senderName)
	if err != nil {
		return 0, "", err
	}
	return len(seedRegion), a.ID.String(), nil
}

func (h *Handler) runRegionalWave(ctx context.Context) (int, error) {
	for _, seed := range seedRegion {
		_, err := h.hospitals.Sync(ctx, seed.Name,
			surge(seed.OP), surge(seed.IP), surge(seed.ER), seed.Capacity, "Medium")
		if err != nil {
			return 0, err
		}
	}
	return len(seedRegion), nil
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
