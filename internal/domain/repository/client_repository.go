package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Renovatec-api/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para Client.
type ClientRepository interface {
	Create(client *entity.Client) error
	GetByID(id string) (*entity.Client, error)
	GetByCompanyAndPhone(companyID, phone string) (*entity.Client, error)
	Update(client *entity.Client) error
	// AdjustBalance suma delta (positivo o negativo) al balance del cliente
	// de forma atómica a nivel de fila.
	AdjustBalance(id string, delta decimal.Decimal) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Client, error)
}
