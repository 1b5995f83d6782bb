package auth

import "sort"

// Permission names a single capability. Permissions are compared verbatim.
type Permission string

const (
	// PermissionAll grants every permission check.
	PermissionAll Permission = "all"

	PermissionDashboard             Permission = "dashboard"
	PermissionProfile               Permission = "profile"
	PermissionUserManagement        Permission = "user_management"
	PermissionFarmManagement        Permission = "farm_management"
	PermissionPlanterManagement     Permission = "planter_management"
	PermissionAssociationManagement Permission = "association_management"
	PermissionSugarMillManagement   Permission = "sugar_mill_management"
	PermissionEquipmentBooking      Permission = "equipment_booking"
	PermissionEquipmentManagement   Permission = "equipment_management"
	PermissionTruckManagement       Permission = "truck_management"
	PermissionDriverManagement      Permission = "driver_management"
	PermissionInventoryManagement   Permission = "inventory_management"
	PermissionTripLogs              Permission = "trip_logs"
	PermissionPriceLists            Permission = "price_lists"
	PermissionRateCalculator        Permission = "rate_calculator"
	PermissionReports               Permission = "reports"
	PermissionAnalytics             Permission = "analytics"
	PermissionProductionPlanning    Permission = "production_planning"
)

// PermissionSet is an unordered set of permissions.
type PermissionSet map[Permission]struct{}

func newPermissionSet(perms ...Permission) PermissionSet {
	set := make(PermissionSet, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// Contains reports whether p is literally present in the set.
func (s PermissionSet) Contains(p Permission) bool {
	_, ok := s[p]
	return ok
}

// Allows reports whether the set satisfies p, either through the all sentinel
// or an exact match.
func (s PermissionSet) Allows(p Permission) bool {
	return s.Contains(PermissionAll) || s.Contains(p)
}

// Slice returns the permissions sorted by name.
func (s PermissionSet) Slice() []Permission {
	out := make([]Permission, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Privileged reports whether role resolves to the all sentinel.
func Privileged(role Role) bool {
	return ResolvePermissions(role).Contains(PermissionAll)
}

// Equal reports whether both sets hold the same permissions.
func (s PermissionSet) Equal(other PermissionSet) bool {
	if len(s) != len(other) {
		return false
	}
	for p := range s {
		if !other.Contains(p) {
			return false
		}
	}
	return true
}

// ResolvePermissions returns the permissions granted to role. Unknown roles
// resolve to an empty set. Every call builds a fresh set.
func ResolvePermissions(role Role) PermissionSet {
	switch role {
	case RoleAdministrator, RoleAdmin:
		return newPermissionSet(PermissionAll)
	case RoleAssociationMember:
		return newPermissionSet(
			PermissionDashboard,
			PermissionPlanterManagement,
			PermissionAssociationManagement,
			PermissionFarmManagement,
			PermissionEquipmentBooking,
			PermissionPriceLists,
			PermissionReports,
			PermissionRateCalculator,
			PermissionProfile,
		)
	case RolePlanter:
		return newPermissionSet(
			PermissionDashboard,
			PermissionFarmManagement,
			PermissionEquipmentBooking,
			PermissionPriceLists,
			PermissionRateCalculator,
			PermissionProfile,
		)
	case RoleHauler:
		return newPermissionSet(
			PermissionDashboard,
			PermissionTruckManagement,
			PermissionDriverManagement,
			PermissionEquipmentBooking,
			PermissionProfile,
		)
	case RoleDriver:
		return newPermissionSet(PermissionDashboard, PermissionTripLogs, PermissionProfile)
	case RoleSupplier:
		return newPermissionSet(
			PermissionDashboard,
			PermissionInventoryManagement,
			PermissionEquipmentManagement,
			PermissionProfile,
		)
	case RoleUnaffiliated:
		return newPermissionSet(PermissionProfile)
	case RoleManager:
		return newPermissionSet(
			PermissionDashboard,
			PermissionUserManagement,
			PermissionPlanterManagement,
			PermissionSugarMillManagement,
			PermissionAssociationManagement,
			PermissionPriceLists,
			PermissionReports,
			PermissionAnalytics,
		)
	case RoleOperator:
		return newPermissionSet(
			PermissionDashboard,
			PermissionEquipmentManagement,
			PermissionEquipmentBooking,
			PermissionTruckManagement,
		)
	case RolePlanner:
		return newPermissionSet(
			PermissionDashboard,
			PermissionProductionPlanning,
			PermissionFarmManagement,
			PermissionReports,
		)
	case RoleAnalyst:
		return newPermissionSet(
			PermissionDashboard,
			PermissionAnalytics,
			PermissionReports,
			PermissionPriceLists,
		)
	case RoleViewer:
		return newPermissionSet(PermissionDashboard, PermissionPriceLists, PermissionReports)
	default:
		return PermissionSet{}
	}
}
