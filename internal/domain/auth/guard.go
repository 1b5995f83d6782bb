package auth

// Decision is the kind of outcome produced by Guard.
type Decision string

const (
	DecisionAllowed         Decision = "allowed"
	DecisionUnauthenticated Decision = "unauthenticated"
	DecisionForbidden       Decision = "forbidden"
)

// ForbiddenReason names the check that denied access.
type ForbiddenReason string

const (
	ReasonPermission ForbiddenReason = "permission"
	ReasonRole       ForbiddenReason = "role"
)

// Requirement describes what a protected unit of work needs. Zero fields are
// not checked.
type Requirement struct {
	Permission Permission
	Role       Role
}

// Outcome is the result of a guard evaluation. It carries no side effect;
// callers translate it into a redirect, an error view or a status code.
type Outcome struct {
	Decision Decision        `json:"decision"`
	Reason   ForbiddenReason `json:"reason,omitempty"`
	Required string          `json:"required,omitempty"`
	Actual   string          `json:"actual,omitempty"`
}

// Allowed reports whether access was granted.
func (o Outcome) Allowed() bool {
	return o.Decision == DecisionAllowed
}

// Guard evaluates req against session. Authentication is checked first, then
// the permission, then the role; all present checks must pass. The all
// sentinel satisfies permission checks only. Role checks are exact.
func Guard(session *Session, req Requirement) Outcome {
	if session == nil {
		return Outcome{Decision: DecisionUnauthenticated}
	}

	if req.Permission != "" && !session.Permissions.Allows(req.Permission) {
		return Outcome{
			Decision: DecisionForbidden,
			Reason:   ReasonPermission,
			Required: string(req.Permission),
			Actual:   string(session.Role),
		}
	}

	if req.Role != "" && session.Role != req.Role {
		return Outcome{
			Decision: DecisionForbidden,
			Reason:   ReasonRole,
			Required: string(req.Role),
			Actual:   string(session.Role),
		}
	}

	return Outcome{Decision: DecisionAllowed}
}
