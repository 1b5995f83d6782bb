package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuard(t *testing.T) {
	admin := NewSession("1", "root@example.com", RoleAdministrator)
	viewer := NewSession("2", "view@example.com", RoleViewer)
	driver := NewSession("3", "drive@example.com", RoleDriver)
	planter := NewSession("4", "plant@example.com", RolePlanter)
	stranger := NewSession("5", "who@example.com", Role("ghost"))

	tests := []struct {
		name    string
		session *Session
		req     Requirement
		want    Outcome
	}{
		{
			name: "no session is unauthenticated",
			req:  Requirement{},
			want: Outcome{Decision: DecisionUnauthenticated},
		},
		{
			name: "no session is unauthenticated regardless of requirement",
			req:  Requirement{Permission: PermissionProfile, Role: RolePlanter},
			want: Outcome{Decision: DecisionUnauthenticated},
		},
		{
			name:    "authenticated with no requirement",
			session: driver,
			want:    Outcome{Decision: DecisionAllowed},
		},
		{
			name:    "all sentinel satisfies any permission",
			session: admin,
			req:     Requirement{Permission: "anything_at_all"},
			want:    Outcome{Decision: DecisionAllowed},
		},
		{
			name:    "role checks never escalate through all",
			session: admin,
			req:     Requirement{Role: RolePlanter},
			want:    Outcome{Decision: DecisionForbidden, Reason: ReasonRole, Required: "planter", Actual: "administrator"},
		},
		{
			name:    "viewer may read price lists",
			session: viewer,
			req:     Requirement{Permission: PermissionPriceLists},
			want:    Outcome{Decision: DecisionAllowed},
		},
		{
			name:    "driver may not read price lists",
			session: driver,
			req:     Requirement{Permission: PermissionPriceLists},
			want:    Outcome{Decision: DecisionForbidden, Reason: ReasonPermission, Required: "price_lists", Actual: "driver"},
		},
		{
			name:    "unknown role has no permissions",
			session: stranger,
			req:     Requirement{Permission: PermissionProfile},
			want:    Outcome{Decision: DecisionForbidden, Reason: ReasonPermission, Required: "profile", Actual: "ghost"},
		},
		{
			name:    "both checks pass",
			session: planter,
			req:     Requirement{Permission: PermissionFarmManagement, Role: RolePlanter},
			want:    Outcome{Decision: DecisionAllowed},
		},
		{
			name:    "permission passes but role fails",
			session: viewer,
			req:     Requirement{Permission: PermissionPriceLists, Role: RolePlanter},
			want:    Outcome{Decision: DecisionForbidden, Reason: ReasonRole, Required: "planter", Actual: "viewer"},
		},
		{
			name:    "permission is checked before role",
			session: driver,
			req:     Requirement{Permission: PermissionPriceLists, Role: RolePlanter},
			want:    Outcome{Decision: DecisionForbidden, Reason: ReasonPermission, Required: "price_lists", Actual: "driver"},
		},
		{
			name:    "role match is exact",
			session: planter,
			req:     Requirement{Role: "Planter"},
			want:    Outcome{Decision: DecisionForbidden, Reason: ReasonRole, Required: "Planter", Actual: "planter"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Guard(tt.session, tt.req)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Decision == DecisionAllowed, got.Allowed())
		})
	}
}
