package entity

import "time"

// Shipment agrupa los dispositivos recibidos en una misma entrega de un
// proveedor. No es dueño del ciclo de vida de los dispositivos: estos solo
// la referencian por ShipmentID. DeviceCount siempre se deriva contando
// dispositivos adjuntos, nunca se almacena como campo mutable.
type Shipment struct {
	ID           string
	CompanyID    string
	VendorID     string
	VendorName   string
	DeliveryDate time.Time
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ShipmentSummary es el rollup de un envío: conteo derivado de dispositivos
// y desglose por estado.
type ShipmentSummary struct {
	Shipment    *Shipment
	DeviceCount int
	ByStatus    map[string]int
}
