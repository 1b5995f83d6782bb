package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveRole(t *testing.T) {
	tests := []struct {
		userType string
		want     Role
	}{
		{"Planter", RolePlanter},
		{"Association Member", RoleAssociationMember},
		{"association_member", RoleAssociationMember},
		{"ASSOCIATION   MEMBER", RoleAssociationMember},
		{"Association\tMember", RoleAssociationMember},
		{"  Hauler  ", RoleHauler},
		{"administrator", RoleAdministrator},
		{"Sugar Mill Owner", Role("sugar_mill_owner")},
		{"", Role("")},
	}

	for _, tt := range tests {
		t.Run(tt.userType, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveRole(tt.userType))
		})
	}
}

func TestUserRole(t *testing.T) {
	u := &User{UserType: "Association Member"}
	assert.Equal(t, RoleAssociationMember, u.Role())
	assert.True(t, u.Role().Known())
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "alice", DisplayName("alice@example.com"))
	assert.Equal(t, "no-at-sign", DisplayName("no-at-sign"))
	assert.Equal(t, "", DisplayName("@example.com"))
}

func TestNewSession(t *testing.T) {
	s := NewSession("u-1", "alice@example.com", RolePlanter)
	assert.Equal(t, "alice", s.Name)
	assert.True(t, s.Permissions.Equal(ResolvePermissions(RolePlanter)))
	assert.True(t, s.Can(PermissionFarmManagement))
	assert.False(t, s.Can(PermissionUserManagement))

	var nilSession *Session
	assert.False(t, nilSession.Can(PermissionProfile))
}
