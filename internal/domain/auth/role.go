package auth

import "strings"

// Role identifies a category of user. Roles are flat keys into the permission
// catalog; there is no hierarchy between them.
type Role string

const (
	RoleAdministrator     Role = "administrator"
	RoleAssociationMember Role = "association_member"
	RolePlanter           Role = "planter"
	RoleHauler            Role = "hauler"
	RoleDriver            Role = "driver"
	RoleSupplier          Role = "supplier"
	RoleUnaffiliated      Role = "unaffiliated"

	// Legacy roles still present on older profiles.
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleOperator Role = "operator"
	RolePlanner  Role = "planner"
	RoleAnalyst  Role = "analyst"
	RoleViewer   Role = "viewer"
)

// KnownRoles lists every role the catalog has an entry for.
func KnownRoles() []Role {
	return []Role{
		RoleAdministrator,
		RoleAssociationMember,
		RolePlanter,
		RoleHauler,
		RoleDriver,
		RoleSupplier,
		RoleUnaffiliated,
		RoleAdmin,
		RoleManager,
		RoleOperator,
		RolePlanner,
		RoleAnalyst,
		RoleViewer,
	}
}

// Known reports whether the catalog has an entry for r.
func (r Role) Known() bool {
	for _, known := range KnownRoles() {
		if r == known {
			return true
		}
	}
	return false
}

// DeriveRole normalises a free-text user type into a role identifier:
// surrounding whitespace is dropped, the text is lowercased and every run of
// whitespace becomes a single underscore.
func DeriveRole(userType string) Role {
	fields := strings.Fields(strings.ToLower(userType))
	return Role(strings.Join(fields, "_"))
}
