package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateShipmentRequest alta de un envío (contenedor vacío).
type CreateShipmentRequest struct {
	VendorID     string    `json:"vendor_id" validate:"required"`
	VendorName   string    `json:"vendor_name"`
	DeliveryDate time.Time `json:"delivery_date" validate:"required"`
	Notes        string    `json:"notes"`
}

// IntakeDeviceLine un dispositivo recibido dentro del envío.
type IntakeDeviceLine struct {
	AssetID       string          `json:"asset_id" validate:"required"`
	Model         string          `json:"model" validate:"required"`
	SerialNumber  string          `json:"serial_number" validate:"required"`
	Manufacturer  string          `json:"manufacturer"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
}

// IntakeDevicesRequest recepción de dispositivos contra un envío. Todos se
// crean en estado received dentro de una sola transacción.
type IntakeDevicesRequest struct {
	Devices []IntakeDeviceLine `json:"devices" validate:"required,min=1,dive"`
}

// ShipmentResponse envío con su rollup derivado.
type ShipmentResponse struct {
	ID           string         `json:"id"`
	CompanyID    string         `json:"company_id"`
	VendorID     string         `json:"vendor_id"`
	VendorName   string         `json:"vendor_name,omitempty"`
	DeliveryDate time.Time      `json:"delivery_date"`
	Notes        string         `json:"notes,omitempty"`
	DeviceCount  int            `json:"device_count"`
	ByStatus     map[string]int `json:"by_status,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}
