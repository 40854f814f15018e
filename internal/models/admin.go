package models

// Admin roles.
const (
	RoleSuperuser = "superuser"
	RoleEditor    = "editor"
)

// ValidRole reports whether role is a known admin role.
func ValidRole(role string) bool {
	return role == RoleSuperuser || role == RoleEditor
}

// Admin is an operator account. PasswordHash never leaves the service.
type Admin struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash,omitempty"`
	Role         string `json:"role"`
}

// Safe returns a copy without the password hash.
func (a Admin) Safe() Admin {
	a.PasswordHash = ""
	return a
}

// AdminCreate is the input for creating an admin.
type AdminCreate struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// AdminUpdate carries optional changes to an admin.
type AdminUpdate struct {
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
	Role     string `json:"role,omitempty"`
}
