package dashboard

import (
	"time"

	"github.com/surge-sentinel/platform/internal/advisory"
)

// HospitalReport is the printable daily surge report for one hospital.
type HospitalReport struct {
	Hospital    string           `json:"hospital"`
	GeneratedAt time.Time        `json:"generatedAt"`
	OP          int              `json:"op"`
	IP          int              `json:"ip"`
	ER          int              `json:"er"`
	Total       int              `json:"total"`
	Advisory    advisory.Content `json:"advisory"`
	WeeklyTrend []TrendPoint     `json:"weeklyTrend"`
}

// NewHospitalReport composes the daily report payload.
func NewHospitalReport(hospital string, op, ip, er int, adv advisory.Content) HospitalReport {
	return HospitalReport{
		Hospital:    hospital,
		GeneratedAt: time.Now().UTC(),
		OP:          op,
		IP:          ip,
		ER:          er,
		Total:       op + ip + er,
		Advisory:    adv,
		WeeklyTrend: WeeklySurgeTrend(),
	}
}

// LogLine is one entry of the system log shown on the admin report.
type LogLine struct {
	Level     string `json:"level"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// ActivityLine is one entry of the user activity feed on the admin report.
type ActivityLine struct {
	User      string `json:"user"`
	Action    string `json:"action"`
	Timestamp string `json:"timestamp"`
}

// AdminReport is the system health and activity report for the admin role.
type AdminReport struct {
	GeneratedAt time.Time      `json:"generatedAt"`
	Logs        []LogLine      `json:"logs"`
	Activity    []ActivityLine `json:"activity"`
}

// NewAdminReport composes the admin report from the fixed demo feeds.
func NewAdminReport() AdminReport {
	return AdminReport{
		GeneratedAt: time.Now().UTC(),
		Logs: []LogLine{
			{Level: "INFO", Message: "User 'admin@medflux.ai' logged in from IP 192.168.1.1.", Timestamp: "2023-10-27 09:00:15"},
			{Level: "WARN", Message: "API latency high for region 'North'. Average response time: 1200ms.", Timestamp: "2023-10-27 09:05:22"},
			{Level: "INFO", Message: "Generated advisory for 'City General'. Severity: Medium.", Timestamp: "2023-10-27 09:10:03"},
			{Level: "ERROR", Message: "Failed to export dataset for 'research@medflux.ai'. Reason: Timeout.", Timestamp: "2023-10-27 09:12:45"},
			{Level: "INFO", Message: "Hospital 'St. Jude's' updated patient intake.", Timestamp: "2023-10-27 09:15:30"},
		},
		Activity: []ActivityLine{
			{User: "Super Admin", Action: "Accessed System Health panel.", Timestamp: "2023-10-27 08:55:00"},
			{User: "Regional Admin", Action: "Broadcasted alert to 15 hospitals.", Timestamp: "2023-10-27 08:40:10"},
			{User: "Dr. Anya Sharma", Action: "Ran AI analytics query on seasonal trends.", Timestamp: "2023-10-27 08:30:55"},
			{User: "City General", Action: "Generated new AI advisory.", Timestamp: "2023-10-27 08:25:00"},
		},
	}
}
