package entity

import "time"

// Role es el rol de un usuario dentro del sistema. Enum cerrado: admin u operador.
type Role string

// Roles válidos para User.
const (
	RoleAdmin    Role = "admin"
	RoleOperador Role = "operador"
)

// Valid indica si el rol pertenece al enum.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleOperador
}

// CanManage indica si el rol tiene permisos de gestión (usuarios, borrado de
// productos y categorías). Solo admin gestiona; operador registra movimientos
// y consulta.
func (r Role) CanManage() bool {
	return r == RoleAdmin
}

// User representa un usuario del sistema.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         Role
	Active       bool // false = cuenta desactivada, no puede iniciar sesión
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
