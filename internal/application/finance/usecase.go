// Package finance implementa el dashboard financiero: ingresos, costo,
// utilidad y cartera pendiente, todo en aritmética decimal exacta.
package finance

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Renovatec-api/internal/application/dto"
	"github.com/jhoicas/Renovatec-api/internal/domain"
	"github.com/jhoicas/Renovatec-api/internal/domain/entity"
	"github.com/jhoicas/Renovatec-api/internal/domain/repository"
)

// UseCase casos de uso financieros.
type UseCase struct {
	financeRepo repository.FinanceRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(financeRepo repository.FinanceRepository) *UseCase {
	return &UseCase{financeRepo: financeRepo}
}

// Dashboard calcula el resumen financiero de la empresa del actor.
// Ingresos = suma de totales facturados; costo = suma de precios de compra de
// los dispositivos vendidos; utilidad = ingresos - costo. Los totales se
// redondean a 2 cifras solo al final, nunca por fila.
func (uc *UseCase) Dashboard(ctx context.Context, actor entity.Actor) (*dto.DashboardResponse, error) {
	if !entity.CanViewFinance(actor.Role) {
		return nil, domain.ErrForbidden
	}
	rows, err := uc.financeRepo.GetInvoiceFinancials(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	outstanding, err := uc.financeRepo.GetOutstandingTotal(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}

	revenue := decimal.Zero
	cost := decimal.Zero
	collected := decimal.Zero
	for _, row := range rows {
		revenue = revenue.Add(row.TotalAmount)
		cost = cost.Add(row.DeviceCost)
		collected = collected.Add(row.AmountPaid)
	}
	return &dto.DashboardResponse{
		TotalRevenue:     revenue.Round(2),
		TotalCost:        cost.Round(2),
		TotalProfit:      revenue.Sub(cost).Round(2),
		TotalCollected:   collected.Round(2),
		TotalOutstanding: outstanding.Round(2),
		InvoiceCount:     len(rows),
	}, nil
}
