package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin     = "administrador"
	RoleVendedor  = "vendedor"
	RoleComprador = "comprador"
)

// ValidRole indica si el rol existe.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleVendedor, RoleComprador:
		return true
	}
	return false
}

// User representa un usuario del sistema.
type User struct {
	ID           int64
	Username     string
	PasswordHash string // bcrypt
	Name         string
	Role         string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
