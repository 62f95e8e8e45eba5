// Package navigation holds the role-keyed page configuration that drives the
// side menu and gates which dashboard view renders.
package navigation

import "github.com/surge-sentinel/platform/internal/auth"

// Page names. Shared names ("Dashboard", "AI Assistant") deliberately repeat
// across roles; the (role, page) pair is what selects a view.
const (
	PageRegionalDashboard = "Regional Dashboard"
	PageManageHospitals   = "Manage Hospitals"
	PageAlerts            = "Alerts"
	PageAIAssistant       = "AI Assistant"
	PageDashboard         = "Dashboard"
	PageAdvisories        = "Advisories"
	PageReports           = "Reports"
	PageAIAnalytics       = "AI Analytics"
	PageDatasets          = "Datasets"
	PageLiveAdvisories    = "Live Advisories"
	PageAIChatbot         = "AI Chatbot"
	PageHealthTips        = "Health Tips"
)

// Config is one role's navigation: its ordered page list and help text.
// The first page in Pages is the role's default page.
type Config struct {
	Pages    []string `json:"pages"`
	HelpText string   `json:"helpText"`
}

var configs = map[auth.Role]Config{
	auth.RoleAdmin: {
		Pages:    []string{PageRegionalDashboard, PageManageHospitals, PageAlerts, PageAIAssistant},
		HelpText: "Tip: Monitor your region's hospitals from the dashboard. Use 'Alerts' to broadcast important messages to all managed facilities.",
	},
	auth.RoleHospital: {
		Pages:    []string{PageDashboard, PageAdvisories, PageReports, PageAIAssistant},
		HelpText: "Tip: Enter daily patient counts in 'Patient Intake' and click 'Generate AI Advisory' to get instant surge analysis and staffing suggestions.",
	},
	auth.RoleResearcher: {
		Pages:    []string{PageDashboard, PageAIAnalytics, PageDatasets, PageAIAssistant},
		HelpText: "Tip: Use the 'AI Analytics' card to query the assistant with natural language questions about the anonymized data.",
	},
	auth.RoleUser: {
		Pages:    []string{PageLiveAdvisories, PageAIChatbot, PageHealthTips},
		HelpText: "Tip: Use the 'AI Chatbot' for safe, non-diagnostic guidance. Check 'Live Advisories' for real-time updates in your area.",
	},
}

// For returns the navigation config for a role. Every valid role has one.
func For(role auth.Role) Config {
	return configs[role]
}

// DefaultPage returns the first/primary page of the role's list.
func DefaultPage(role auth.Role) string {
	cfg := configs[role]
	if len(cfg.Pages) == 0 {
		return ""
	}
	return cfg.Pages[0]
}

// Contains reports whether page is in the role's page list.
func Contains(role auth.Role, page string) bool {
	for _, p := range configs[role].Pages {
		if p == page {
			return true
		}
	}
	return false
}
