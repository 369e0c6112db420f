package dto

import "github.com/shopspring/decimal"

// DashboardResponse resumen financiero de la empresa. Todos los montos son
// decimales exactos redondeados a 2 cifras.
type DashboardResponse struct {
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	TotalCost        decimal.Decimal `json:"total_cost"`
	TotalProfit      decimal.Decimal `json:"total_profit"`
	TotalCollected   decimal.Decimal `json:"total_collected"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	InvoiceCount     int             `json:"invoice_count"`
}
