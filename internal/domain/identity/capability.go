package identity

import "slices"

// Capability is a named permission granting access to one feature area
type Capability string

const (
	CapViewDashboard     Capability = "VIEW_DASHBOARD"
	CapViewSchedule      Capability = "VIEW_SCHEDULE"
	CapEditSchedule      Capability = "EDIT_SCHEDULE"
	CapViewInventory     Capability = "VIEW_INVENTORY"
	CapManageInventory   Capability = "MANAGE_INVENTORY"
	CapViewSituations    Capability = "VIEW_SITUATIONS"
	CapViewEvaluation    Capability = "VIEW_EVALUATION"
	CapViewAnnouncements Capability = "VIEW_ANNOUNCEMENTS"
	CapViewTraining      Capability = "VIEW_TRAINING"
	CapManageTraining    Capability = "MANAGE_TRAINING"
	CapManageContent     Capability = "MANAGE_CONTENT"
	CapManageUsers       Capability = "MANAGE_USERS"
	CapViewStatistics    Capability = "VIEW_STATISTICS"
	CapManageSystem      Capability = "MANAGE_SYSTEM"
)

// AllCapabilities lists the fixed capability set
var AllCapabilities = []Capability{
	CapViewDashboard,
	CapViewSchedule,
	CapEditSchedule,
	CapViewInventory,
	CapManageInventory,
	CapViewSituations,
	CapViewEvaluation,
	CapViewAnnouncements,
	CapViewTraining,
	CapManageTraining,
	CapManageContent,
	CapManageUsers,
	CapViewStatistics,
	CapManageSystem,
}

// leaderCapabilities is shared by the service and bar leaders
var leaderCapabilities = []Capability{
	CapViewDashboard,
	CapViewSchedule,
	CapEditSchedule,
	CapViewInventory,
	CapManageInventory,
	CapViewSituations,
	CapViewEvaluation,
	CapViewAnnouncements,
	CapViewTraining,
	CapManageTraining,
	CapManageContent,
}

var staffCapabilities = []Capability{
	CapViewDashboard,
	CapViewSchedule,
	CapViewInventory,
	CapViewSituations,
	CapViewAnnouncements,
	CapViewTraining,
}

var newHireCapabilities = []Capability{
	CapViewDashboard,
	CapViewSchedule,
	CapViewSituations,
	CapViewAnnouncements,
	CapViewTraining,
}

// rolePermissions is the static role table, built once at init and never
// mutated. ADMIN and SUPER_ADMIN are absent: HasPermission grants them
// everything before consulting it.
var rolePermissions = map[Role]map[Capability]struct{}{
	RoleManager:       capabilitySet(append(slices.Clone(leaderCapabilities), CapViewStatistics)),
	RoleServiceLeader: capabilitySet(leaderCapabilities),
	RoleBarLeader:     capabilitySet(leaderCapabilities),
	RoleService:       capabilitySet(staffCapabilities),
	RoleBar:           capabilitySet(staffCapabilities),
	RoleNewService:    capabilitySet(newHireCapabilities),
	RoleNewBar:        capabilitySet(newHireCapabilities),
}

func capabilitySet(caps []Capability) map[Capability]struct{} {
	set := make(map[Capability]struct{}, len(caps))
	for _, c := range caps {
		set[c] = struct{}{}
	}
	return set
}

// HasPermission reports whether role holds capability.
// Unknown roles hold nothing.
func HasPermission(role Role, capability Capability) bool {
	if role.IsSuperuser() {
		return true
	}
	caps, ok := rolePermissions[role]
	if !ok {
		return false
	}
	_, ok = caps[capability]
	return ok
}

// HasAny reports whether role holds at least one of the capabilities
func HasAny(role Role, capabilities ...Capability) bool {
	for _, c := range capabilities {
		if HasPermission(role, c) {
			return true
		}
	}
	return false
}

// HasAll reports whether role holds every one of the capabilities.
// It is false for unknown roles even when no capability is requested.
func HasAll(role Role, capabilities ...Capability) bool {
	if !role.IsValid() {
		return false
	}
	for _, c := range capabilities {
		if !HasPermission(role, c) {
			return false
		}
	}
	return true
}

// CapabilitiesOf returns the capabilities of role in canonical order.
// The returned slice is a copy.
func CapabilitiesOf(role Role) []Capability {
	result := make([]Capability, 0, len(AllCapabilities))
	for _, c := range AllCapabilities {
		if HasPermission(role, c) {
			result = append(result, c)
		}
	}
	return result
}
