package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de un dispositivo.
const (
	StatusReceived           = "received"
	StatusPendingInspection  = "pending_inspection"
	StatusPhysicalInspection = "in_physical_inspection"
	StatusTechInspection     = "in_technical_inspection"
	StatusReadyForSale       = "ready_for_sale"
	StatusNeedsRepair        = "needs_repair"
	StatusInRepair           = "in_repair"
	StatusInBranch           = "in_branch"
	StatusSold               = "sold"
	StatusScrap              = "scrap"
)

// Grados cosméticos de condición.
const (
	ConditionA = "A"
	ConditionB = "B"
	ConditionC = "C"
)

// Device es la entidad central: un equipo usado dentro del pipeline de
// reacondicionamiento. AssetID es único por empresa (constraint en DB).
type Device struct {
	ID              string
	CompanyID       string
	ShipmentID      string // vacío si fue ingreso manual
	AssetID         string
	Model           string
	SerialNumber    string
	Manufacturer    string
	Status          string
	Condition       string // A, B, C (grado cosmético)
	CurrentLocation string
	PurchasePrice   decimal.Decimal
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsTerminal indica si el estado no admite más transiciones (sold, scrap).
func (d *Device) IsTerminal() bool {
	return d.Status == StatusSold || d.Status == StatusScrap
}
