package auth

// Roles known to the dashboard. Capabilities are resolved from a static
// table; a mutation route must pass the matching capability check before
// its handler runs.
const (
	RoleAdmin     = "admin"
	RoleManager   = "manager"
	RoleCaregiver = "caregiver"
	RoleViewer    = "viewer"
)

const (
	CapAttendanceWrite = "attendance:write"
	CapReportsEdit     = "reports:edit"
	CapReportsLock     = "reports:lock"
	CapRatesManage     = "rates:manage"
	CapInvoicesRead    = "invoices:read"
)

var roleCapabilities = map[string]map[string]struct{}{
	RoleAdmin: {
		CapAttendanceWrite: {},
		CapReportsEdit:     {},
		CapReportsLock:     {},
		CapRatesManage:     {},
		CapInvoicesRead:    {},
	},
	RoleManager: {
		CapAttendanceWrite: {},
		CapReportsEdit:     {},
		CapReportsLock:     {},
		CapInvoicesRead:    {},
	},
	RoleCaregiver: {
		CapAttendanceWrite: {},
		CapReportsEdit:     {},
	},
	RoleViewer: {},
}

// Allowed: role→capability oracle. Unknown roles hold nothing.
func Allowed(role, capability string) bool {
	caps, ok := roleCapabilities[role]
	if !ok {
		return false
	}
	_, ok = caps[capability]
	return ok
}
