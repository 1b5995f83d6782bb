package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePermissions(t *testing.T) {
	t.Run("known roles are deterministic", func(t *testing.T) {
		for _, role := range KnownRoles() {
			first := ResolvePermissions(role)
			second := ResolvePermissions(role)
			require.NotEmpty(t, first, "role %s should grant something", role)
			assert.True(t, first.Equal(second), "role %s resolved differently", role)
		}
	})

	t.Run("unknown roles resolve to the empty set", func(t *testing.T) {
		for _, role := range []Role{"", "superuser", "Planter", " planter", "association member"} {
			perms := ResolvePermissions(role)
			assert.NotNil(t, perms)
			assert.Empty(t, perms, "role %q", role)
			assert.False(t, role.Known())
		}
	})

	t.Run("administrators hold the all sentinel", func(t *testing.T) {
		assert.True(t, ResolvePermissions(RoleAdministrator).Contains(PermissionAll))
		assert.True(t, ResolvePermissions(RoleAdmin).Contains(PermissionAll))
		assert.False(t, ResolvePermissions(RoleManager).Contains(PermissionAll))
	})

	t.Run("returned sets are independent copies", func(t *testing.T) {
		perms := ResolvePermissions(RoleDriver)
		perms[PermissionUserManagement] = struct{}{}
		assert.False(t, ResolvePermissions(RoleDriver).Contains(PermissionUserManagement))
	})

	t.Run("price lists", func(t *testing.T) {
		assert.True(t, ResolvePermissions(RoleViewer).Allows(PermissionPriceLists))
		assert.True(t, ResolvePermissions(RolePlanter).Allows(PermissionPriceLists))
		assert.False(t, ResolvePermissions(RoleDriver).Allows(PermissionPriceLists))
	})
}

func TestPermissionSet(t *testing.T) {
	t.Run("all allows anything", func(t *testing.T) {
		set := newPermissionSet(PermissionAll)
		assert.True(t, set.Allows("farm_management"))
		assert.True(t, set.Allows("not_a_real_permission"))
	})

	t.Run("matching is exact", func(t *testing.T) {
		set := newPermissionSet(PermissionPriceLists)
		assert.True(t, set.Allows("price_lists"))
		assert.False(t, set.Allows("Price_Lists"))
		assert.False(t, set.Allows("price_lists "))
		assert.False(t, set.Allows("price"))
	})

	t.Run("slice is sorted", func(t *testing.T) {
		set := newPermissionSet(PermissionReports, PermissionDashboard, PermissionPriceLists)
		assert.Equal(t, []Permission{PermissionDashboard, PermissionPriceLists, PermissionReports}, set.Slice())
	})
}

func TestPrivileged(t *testing.T) {
	assert.True(t, Privileged(RoleAdministrator))
	assert.True(t, Privileged(RoleAdmin))
	for _, role := range []Role{RoleManager, RolePlanter, RoleUnaffiliated, "pirate"} {
		assert.False(t, Privileged(role), "role %s", role)
	}
}
