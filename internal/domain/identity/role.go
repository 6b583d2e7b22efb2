package identity

// Role is one of the nine fixed job functions a user can hold
type Role string

const (
	RoleSuperAdmin    Role = "SUPER_ADMIN"
	RoleAdmin         Role = "ADMIN"
	RoleManager       Role = "MANAGER"
	RoleServiceLeader Role = "SERVICE_LEADER"
	RoleBarLeader     Role = "BAR_LEADER"
	RoleService       Role = "SERVICE"
	RoleBar           Role = "BAR"
	RoleNewService    Role = "NEW_SERVICE"
	RoleNewBar        Role = "NEW_BAR"
)

// AllRoles lists every role, most privileged first
var AllRoles = []Role{
	RoleSuperAdmin,
	RoleAdmin,
	RoleManager,
	RoleServiceLeader,
	RoleBarLeader,
	RoleService,
	RoleBar,
	RoleNewService,
	RoleNewBar,
}

var roleTitles = map[Role]string{
	RoleSuperAdmin:    "超級管理者",
	RoleAdmin:         "管理者",
	RoleManager:       "店長",
	RoleServiceLeader: "外場幹部",
	RoleBarLeader:     "吧檯幹部",
	RoleService:       "外場人員",
	RoleBar:           "吧檯人員",
	RoleNewService:    "外場新進人員",
	RoleNewBar:        "吧檯新進人員",
}

// IsValid reports whether r is one of the nine known roles
func (r Role) IsValid() bool {
	_, ok := roleTitles[r]
	return ok
}

// IsSuperuser reports whether r bypasses every capability check
func (r Role) IsSuperuser() bool {
	return r == RoleSuperAdmin || r == RoleAdmin
}

// Title returns the display title of the role
func (r Role) Title() string {
	if t, ok := roleTitles[r]; ok {
		return t
	}
	return string(r)
}

// ParseRole converts a string into a known Role
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.IsValid()
}
