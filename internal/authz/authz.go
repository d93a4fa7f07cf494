package authz

// Roles understood by the gate.
const (
	RoleAdmin         = "admin"
	RoleAgent         = "agent"
	RolePropertyOwner = "property_owner"
	RoleClient        = "client"
)

// Actor is the authenticated principal attached to every request.
type Actor struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

// IsAdmin reports whether the actor carries the admin role.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// CanMutate applies the uniform role/ownership policy:
//   - admins may perform any action;
//   - admin-only actions are denied to everyone else regardless of ownership;
//   - otherwise the actor must match one of the owner/assignee ids.
//
// Callers establish existence first, so a false result maps to 403 not 404.
func CanMutate(actor Actor, adminOnly bool, owners ...string) bool {
	if actor.IsAdmin() {
		return true
	}
	if adminOnly {
		return false
	}
	for _, id := range owners {
		if id != "" && id == actor.ID {
			return true
		}
	}
	return false
}
