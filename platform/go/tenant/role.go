package tenant

import "strings"

// Role is the tenant-scoped permission tier attached to a membership.
type Role string

const (
	RoleOwner      Role = "owner"
	RoleAdmin      Role = "admin"
	RoleHR         Role = "hr"
	RoleManager    Role = "manager"
	RoleEmployee   Role = "employee"
	RoleMember     Role = "member"
	RoleSuperadmin Role = "superadmin"
)

var knownRoles = map[Role]struct{}{
	RoleOwner:      {},
	RoleAdmin:      {},
	RoleHR:         {},
	RoleManager:    {},
	RoleEmployee:   {},
	RoleMember:     {},
	RoleSuperadmin: {},
}

// ParseRole normalizes a stored role string. Unknown or empty values collapse
// to the least-privileged member tier.
func ParseRole(s string) Role {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := knownRoles[r]; !ok {
		return RoleMember
	}
	return r
}

// Alias maps owner to admin for permission checks. This is a plain alias, not
// inheritance: owner gains nothing beyond what admin has.
func (r Role) Alias() Role {
	if r == RoleOwner {
		return RoleAdmin
	}
	return r
}

// Elevated reports whether the role may manage other employees' records.
func (r Role) Elevated() bool {
	switch r.Alias() {
	case RoleAdmin, RoleHR, RoleManager, RoleSuperadmin:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}
