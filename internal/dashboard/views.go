package dashboard

import (
	"github.com/surge-sentinel/platform/internal/auth"
	"github.com/surge-sentinel/platform/internal/navigation"
)

// View describes what a page renders for a role. Widgets name the panels
// in display order; the client maps them to components.
type View struct {
	Role    auth.Role `json:"role"`
	Page    string    `json:"page"`
	Title   string    `json:"title"`
	Widgets []string  `json:"widgets"`
	Found   bool      `json:"found"`
}

// NotFoundView is returned for any page outside the role's navigation.
// Rendering it is the defined outcome of navigating out of range; the
// session keeps the page it was asked for.
func NotFoundView(role auth.Role, page string) View {
	return View{
		Role:    role,
		Page:    page,
		Title:   "Page Not Found",
		Widgets: []string{"not-found"},
		Found:   false,
	}
}

// ViewFor resolves the view for a role and page. The switch is closed
// over the four roles; anything else is not found.
func ViewFor(role auth.Role, page string) View {
	if !navigation.Contains(role, page) {
		return NotFoundView(role, page)
	}

	view := View{Role: role, Page: page, Title: page, Found: true}

	switch role {
	case auth.RoleAdmin:
		view.Widgets = adminWidgets(page)
	case auth.RoleHospital:
		view.Widgets = hospitalWidgets(page)
	case auth.RoleResearcher:
		view.Widgets = researcherWidgets(page)
	case auth.RoleUser:
		view.Widgets = userWidgets(page)
	default:
		return NotFoundView(role, page)
	}

	if view.Widgets == nil {
		return NotFoundView(role, page)
	}
	return view
}

func adminWidgets(page string) []string {
	switch page {
	case navigation.PageRegionalDashboard:
		return []string{"region-summary", "surge-heatmap", "hospital-table", "health-news"}
	case navigation.PageManageHospitals:
		return []string{"hospital-editor", "hospital-table"}
	case navigation.PageAlerts:
		return []string{"alert-composer", "recent-alerts"}
	case navigation.PageAIAssistant:
		return []string{"assistant-chat"}
	}
	return nil
}

func hospitalWidgets(page string) []string {
	switch page {
	case navigation.PageDashboard:
		return []string{"intake-form", "advisory-card", "staffing-recommendations", "surge-trend"}
	case navigation.PageAdvisories:
		return []string{"advisory-card", "advisory-languages"}
	case navigation.PageReports:
		return []string{"daily-report", "surge-trend"}
	case navigation.PageAIAssistant:
		return []string{"assistant-chat"}
	}
	return nil
}

func researcherWidgets(page string) []string {
	switch page {
	case navigation.PageDashboard:
		return []string{"epidemic-metrics", "risk-analysis", "risk-assessment"}
	case navigation.PageAIAnalytics:
		return []string{"research-query", "risk-assessment"}
	case navigation.PageDatasets:
		return []string{"weekly-trend-dataset", "risk-series-dataset"}
	case navigation.PageAIAssistant:
		return []string{"assistant-chat"}
	}
	return nil
}

func userWidgets(page string) []string {
	switch page {
	case navigation.PageLiveAdvisories:
		return []string{"advisory-feed", "alert-feed"}
	case navigation.PageAIChatbot:
		return []string{"assistant-chat"}
	case navigation.PageHealthTips:
		return []string{"health-news", "health-tips"}
	}
	return nil
}
