package dto

import "time"

// CreateCompanyRequest alta de empresa. Struct explícito: los campos
// opcionales y sus defaults están enumerados aquí, nada de payloads dinámicos.
type CreateCompanyRequest struct {
	Name string `json:"name" validate:"required"`
	Plan string `json:"plan" validate:"omitempty,oneof=basic pro enterprise"`
}

// CompanyResponse empresa en respuestas.
type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Plan      string    `json:"plan"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
