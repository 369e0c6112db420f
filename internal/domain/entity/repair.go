package entity

import "time"

// Estados de una reparación.
const (
	RepairPending    = "pending"
	RepairInProgress = "in_progress"
	RepairCompleted  = "completed"
	RepairCancelled  = "cancelled"
)

// Prioridades de reparación.
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
)

// Repair es una orden de trabajo mutable sobre un dispositivo en
// needs_repair. La empresa dueña del dispositivo se re-verifica en cada
// mutación, nunca se cachea.
type Repair struct {
	ID               string
	CompanyID        string
	DeviceID         string
	IssueDescription string
	AssignedTo       string // UserID del técnico, vacío si sin asignar
	Priority         string // low, normal, high
	Status           string // pending, in_progress, completed, cancelled
	CompletionNote   string
	CompletedAt      *time.Time
	CreatedBy        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsTerminal indica si la reparación ya no admite mutaciones.
func (r *Repair) IsTerminal() bool {
	return r.Status == RepairCompleted || r.Status == RepairCancelled
}
