package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin            = "admin"
	RoleSuperAdmin       = "super_admin" // sin empresa, acceso cross-tenant
	RoleWarehouseManager = "warehouse_manager"
	RoleWarehouseStaff   = "warehouse_staff"
	RoleRepairManager    = "repair_manager"
	RoleTechnician       = "technician"
	RoleBranchManager    = "branch_manager"
	RoleSalesStaff       = "sales_staff"
)

// User representa un usuario del sistema (pertenece a una Company,
// salvo super_admin cuyo CompanyID queda vacío).
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor es la identidad resuelta de una petición autenticada. Cada caso de
// uso la recibe como parámetro explícito; nunca hay estado global de sesión.
type Actor struct {
	UserID    string
	CompanyID string
	Role      string
}
