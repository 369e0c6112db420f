package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateDeviceRequest alta manual de un dispositivo (estado inicial received).
type CreateDeviceRequest struct {
	AssetID       string          `json:"asset_id" validate:"required"`
	Model         string          `json:"model" validate:"required"`
	SerialNumber  string          `json:"serial_number" validate:"required"`
	Manufacturer  string          `json:"manufacturer"`
	Condition     string          `json:"condition" validate:"omitempty,oneof=A B C"`
	Location      string          `json:"location"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	Notes         string          `json:"notes"`
}

// UpdateDeviceRequest edición de campos descriptivos. El estado nunca se
// toca por aquí: solo las operaciones de transición lo mutan.
type UpdateDeviceRequest struct {
	Model        string `json:"model"`
	Manufacturer string `json:"manufacturer"`
	Condition    string `json:"condition" validate:"omitempty,oneof=A B C"`
	Notes        string `json:"notes"`
}

// TransferDeviceRequest traslado de un dispositivo ready_for_sale a sucursal.
type TransferDeviceRequest struct {
	Branch string `json:"branch" validate:"required"`
}

// ScrapDeviceRequest baja definitiva de un dispositivo irrecuperable.
type ScrapDeviceRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// ListDevicesRequest filtros de listado.
type ListDevicesRequest struct {
	PageRequest
	Status     string `query:"status"`
	ShipmentID string `query:"shipment_id"`
}

// DeviceResponse dispositivo en respuestas.
type DeviceResponse struct {
	ID            string          `json:"id"`
	CompanyID     string          `json:"company_id"`
	ShipmentID    string          `json:"shipment_id,omitempty"`
	AssetID       string          `json:"asset_id"`
	Model         string          `json:"model"`
	SerialNumber  string          `json:"serial_number"`
	Manufacturer  string          `json:"manufacturer,omitempty"`
	Status        string          `json:"status"`
	Condition     string          `json:"condition,omitempty"`
	Location      string          `json:"location,omitempty"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
