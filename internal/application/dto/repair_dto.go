package dto

import "time"

// CreateRepairRequest apertura de orden de reparación sobre un dispositivo
// en needs_repair.
type CreateRepairRequest struct {
	DeviceID         string `json:"device_id" validate:"required"`
	IssueDescription string `json:"issue_description" validate:"required"`
	Priority         string `json:"priority" validate:"omitempty,oneof=low normal high"`
	AssignedTo       string `json:"assigned_to"`
}

// AssignRepairRequest asignación de técnico.
type AssignRepairRequest struct {
	AssignedTo string `json:"assigned_to" validate:"required"`
}

// CompleteRepairRequest cierre de la reparación. La re-inspección técnica
// viaja en la misma petición y se registra en la misma transacción.
type CompleteRepairRequest struct {
	CompletionNote string                 `json:"completion_note" validate:"required"`
	Recheck        RecordTechnicalRequest `json:"recheck" validate:"required"`
}

// ListRepairsRequest filtros de listado.
type ListRepairsRequest struct {
	PageRequest
	Status     string `query:"status"`
	AssignedTo string `query:"assigned_to"`
}

// RepairResponse orden de reparación en respuestas.
type RepairResponse struct {
	ID               string     `json:"id"`
	CompanyID        string     `json:"company_id"`
	DeviceID         string     `json:"device_id"`
	IssueDescription string     `json:"issue_description"`
	AssignedTo       string     `json:"assigned_to,omitempty"`
	Priority         string     `json:"priority"`
	Status           string     `json:"status"`
	CompletionNote   string     `json:"completion_note,omitempty"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
