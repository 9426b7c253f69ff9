package domain

// Account is the auth service's view of a registered user, as returned
// by registration and internal account creation.
type Account struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
}
