package models

// Role is the closed set of actor roles known to the core.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleProfessional Role = "professional"
	RoleCandidate    Role = "candidate"
)

// Valid reports whether the role is one of the known variants.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleProfessional, RoleCandidate:
		return true
	}
	return false
}

// Actor is a pre-authenticated caller identity. Session issuance lives in
// an external auth layer; the core only checks capability per operation.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
