// Package auth provides role, permission and session-token types.
package auth

// Role represents one of the four fixed access levels.
type Role string

const (
	RoleAdmin      Role = "Admin"      // Regional administrator, sees all hospitals
	RoleHospital   Role = "Hospital"   // Hospital operator, enters counts and generates advisories
	RoleResearcher Role = "Researcher" // Epidemiology researcher, analytics access
	RoleUser       Role = "User"       // Public user, advisories and chatbot only
)

// AllRoles lists every valid role. Order matters nowhere; membership does.
var AllRoles = []Role{RoleAdmin, RoleHospital, RoleResearcher, RoleUser}

// ParseRole validates a role string. Unknown values return false, which
// callers treat as a no-op rather than an error surface.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleHospital, RoleResearcher, RoleUser:
		return Role(s), true
	}
	return "", false
}

// Permission represents a specific action on a resource.
type Permission string

const (
	PermAdvisoryGenerate Permission = "advisory.generate"
	PermAdvisoryRead     Permission = "advisory.read"
	PermStaffingRead     Permission = "staffing.read"
	PermHospitalUpsert   Permission = "hospital.upsert"
	PermHospitalViewAll  Permission = "hospital.view_all"
	PermAlertBroadcast   Permission = "alert.broadcast"
	PermAlertRead        Permission = "alert.read"
	PermResearchAnalyze  Permission = "research.analyze"
	PermRiskAssess       Permission = "risk.assess"
	PermChatUse          Permission = "chat.use"
	PermReportExport     Permission = "report.export"
)

// RolePermissions maps roles to their default permissions.
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermAdvisoryRead, PermHospitalViewAll,
		PermAlertBroadcast, PermAlertRead,
		PermChatUse, PermReportExport,
	},
	RoleHospital: {
		PermAdvisoryGenerate, PermAdvisoryRead, PermStaffingRead,
		PermHospitalUpsert, PermAlertBroadcast, PermAlertRead,
		PermChatUse, PermReportExport,
	},
	RoleResearcher: {
		PermAdvisoryRead, PermResearchAnalyze, PermRiskAssess,
		PermAlertBroadcast, PermAlertRead, PermChatUse,
	},
	RoleUser: {
		PermAdvisoryRead, PermAlertRead, PermChatUse,
	},
}

// HasPermission checks if a role has a specific permission.
func HasPermission(role Role, perm Permission) bool {
	for _, p := range RolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}

// Account is the fixed demo identity assigned at role selection. The real
// identity provider is out of scope; selecting a role yields its demo
// account, exactly one active per client session.
type Account struct {
	Email       string `json:"email"`
	Role        Role   `json:"role"`
	DisplayName string `json:"displayName"`
}

// DemoAccounts maps each role to its fixed demo identity.
var DemoAccounts = map[Role]Account{
	RoleAdmin:      {Email: "admin@medflux.ai", Role: RoleAdmin, DisplayName: "Regional Admin"},
	RoleHospital:   {Email: "hospital@medflux.ai", Role: RoleHospital, DisplayName: "City General"},
	RoleResearcher: {Email: "research@medflux.ai", Role: RoleResearcher, DisplayName: "Dr. Anya Sharma"},
	RoleUser:       {Email: "public@medflux.ai", Role: RoleUser, DisplayName: "Guest User"},
}
