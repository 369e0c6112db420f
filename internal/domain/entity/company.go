package entity

import "time"

// Planes de suscripción disponibles.
const (
	PlanBasic      = "basic"
	PlanPro        = "pro"
	PlanEnterprise = "enterprise"
)

// Company representa una empresa/tenant del sistema. Todos los dispositivos,
// usuarios, envíos y clientes pertenecen a exactamente una Company.
type Company struct {
	ID        string
	Name      string
	Plan      string // basic, pro, enterprise
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
