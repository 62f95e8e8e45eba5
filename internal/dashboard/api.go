package dashboard

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/surge-sentinel/platform/internal/advisory"
	"github.com/surge-sentinel/platform/internal/auth"
	"github.com/surge-sentinel/platform/internal/shared/errors"
)

// Handler provides HTTP handlers for the dashboard module
type Handler struct{}

// NewHandler creates a new dashboard handler
func NewHandler() *Handler {
	return &Handler{}
}

// Routes registers the dashboard routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/view", h.View)
	r.Get("/datasets/weekly-trend", h.WeeklyTrend)
	r.Get("/datasets/risk-series", h.RiskSeriesData)
	r.Get("/datasets/heatmap", h.HeatmapData)
	r.With(auth.RequirePermission(auth.PermReportExport)).Post("/reports/hospital", h.HospitalReportPayload)
	r.With(auth.RequirePermission(auth.PermHospitalViewAll)).Get("/reports/admin", h.AdminReportPayload)

	return r
}

// View resolves the caller's view for a page.
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	identity := auth.GetIdentity(r.Context())
	if identity == nil {
		writeError(w, errors.Unauthorized("missing identity"))
		return
	}

	page := r.URL.Query().Get("page")
	if page == "" {
		writeError(w, errors.BadRequest("page is required"))
		return
	}

	writeJSON(w, http.StatusOK, ViewFor(identity.Account.Role, page))
}

// WeeklyTrend returns the weekly intake trend dataset.
func (h *Handler) WeeklyTrend(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"points": WeeklySurgeTrend()})
}

// RiskSeriesData returns the outbreak model series.
func (h *Handler) RiskSeriesData(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"points": RiskSeries()})
}

// HeatmapData returns the intensity grid for a region.
func (h *Handler) HeatmapData(w http.ResponseWriter, r *http.Request) {
	region, grid := Heatmap(r.URL.Query().Get("region"))
	writeJSON(w, http.StatusOK, map[string]any{
		"region":  region,
		"regions": HeatmapRegions,
		"grid":    grid,
	})
}

type hospitalReportRequest struct {
	Hospital string           `json:"hospital"`
	OP       int              `json:"op"`
	IP       int              `json:"ip"`
	ER       int              `json:"er"`
	Advisory advisory.Content `json:"advisory"`
}

// HospitalReportPayload composes the daily report for a hospital.
func (h *Handler) HospitalReportPayload(w http.ResponseWriter, r *http.Request) {
	var req hospitalReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}
	if req.Hospital == "" {
		writeError(w, errors.BadRequest("hospital is required"))
		return
	}

	writeJSON(w, http.StatusOK, NewHospitalReport(req.Hospital, req.OP, req.IP, req.ER, req.Advisory))
}

// AdminReportPayload composes the system report for the admin role.
func (h *Handler) AdminReportPayload(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, NewAdminReport())
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
