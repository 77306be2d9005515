package domain

// Principal is the authenticated identity bound to a single request. It is
// derived from a User record by the authentication pipeline and carries no
// credentials, only what authorization needs.
type Principal struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// NewPrincipal builds the request-scoped identity for a stored user.
func NewPrincipal(u *User) Principal {
	return Principal{Username: u.Username, Role: u.Role}
}

// Authorities returns the granted role set; an account holds exactly one role.
func (p Principal) Authorities() []Role {
	return []Role{p.Role}
}

// HasAnyRole reports whether the principal's role is among roles.
func (p Principal) HasAnyRole(roles ...Role) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}
