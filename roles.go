package adminauth

// Role is one of the application's closed role set.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleCS         Role = "cs"
	RoleAdv        Role = "adv"
	RoleMerchant   Role = "merchant"
	RoleGuest      Role = "guest"
)

// IsValid checks if the role is one of the predefined valid roles
func (r Role) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleCS, RoleAdv, RoleMerchant, RoleGuest:
		return true
	default:
		return false
	}
}

// AllRoles returns all predefined roles
func AllRoles() []Role {
	return []Role{
		RoleSuperAdmin,
		RoleAdmin,
		RoleCS,
		RoleAdv,
		RoleMerchant,
		RoleGuest,
	}
}

// ParseRole safely parses a string into a Role type
func ParseRole(roleStr string) (Role, bool) {
	role := Role(roleStr)
	return role, role.IsValid()
}

// roleSources maps the raw backend role identifier carried on a
// profile to the application role set.
var roleSources = map[int]Role{
	1: RoleSuperAdmin,
	2: RoleAdmin,
	3: RoleCS,
	4: RoleAdv,
}

// DeriveRole computes the effective role for a session. The profile's
// role source wins over the stored role because the profile can be
// refreshed independently of the session record; callers must recompute
// on every read and never cache the result.
func DeriveRole(user UserProfile, stored Role) Role {
	if id, ok := user.RoleSourceID(); ok {
		if role, mapped := roleSources[id]; mapped {
			return role
		}
	}
	if stored.IsValid() {
		return stored
	}
	return RoleGuest
}
