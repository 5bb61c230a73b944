package actor

// Role classifies a caller for quota purposes.
type Role string

const (
	RoleClinician Role = "clinician"
	RoleNurse     Role = "nurse"
	RoleResident  Role = "resident"
	RoleAdmin     Role = "admin"
)

// knownRoles is the closed set of roles the gateway recognizes.
var knownRoles = map[Role]bool{
	RoleClinician: true,
	RoleNurse:     true,
	RoleResident:  true,
	RoleAdmin:     true,
}

// ParseRole parses a role string. Unknown roles return ErrUnknownRole.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !knownRoles[r] {
		return "", ErrUnknownRole
	}
	return r, nil
}

// Valid reports whether the role is one of the recognized roles.
func (r Role) Valid() bool {
	return knownRoles[r]
}

// Identity represents an authenticated caller.
//
// Contract:
// - Ownership: the caller owns the identity; the gateway only reads it.
type Identity struct {
	// ID is the opaque caller identifier (e.g. a user or service ID).
	ID string

	// Role determines the caller's daily quota magnitude.
	Role Role
}

// IsZero reports whether the identity carries no caller ID.
func (id Identity) IsZero() bool {
	return id.ID == ""
}
