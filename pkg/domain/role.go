package domain

// Role is the account role carried in the bearer token claims.
type Role string

const (
	RoleUser    Role = "USER"
	RoleAirline Role = "AIRLINE"
	RoleAdmin   Role = "ADMIN"
)

// Roles lists every role the backends know about.
var Roles = []Role{RoleUser, RoleAirline, RoleAdmin}

// ParseRole maps a raw claims value onto a known role. Anything
// unrecognized collapses to RoleUser so a forged or garbled claim can
// never unlock an elevated view.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAirline:
		return RoleAirline
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleUser
	}
}

// ValidRole reports whether s names a known role exactly.
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleUser, RoleAirline, RoleAdmin:
		return true
	}
	return false
}

// ManagesFlights reports whether the role may maintain flight inventory.
func (r Role) ManagesFlights() bool {
	return r == RoleAirline || r == RoleAdmin
}
