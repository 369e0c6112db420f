package billing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Renovatec-api/internal/application/dto"
	"github.com/jhoicas/Renovatec-api/internal/domain"
	"github.com/jhoicas/Renovatec-api/internal/domain/entity"
	"github.com/jhoicas/Renovatec-api/internal/domain/repository"
)

// ClientUseCase casos de uso de clientes (compradores).
type ClientUseCase struct {
	clientRepo repository.ClientRepository
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(clientRepo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{clientRepo: clientRepo}
}

// Create da de alta un cliente. El teléfono es único por empresa.
func (uc *ClientUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	if !entity.CanSell(actor.Role) {
		return nil, domain.ErrForbidden
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Phone) == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.clientRepo.GetByCompanyAndPhone(actor.CompanyID, in.Phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	c := &entity.Client{
		ID:        uuid.New().String(),
		CompanyID: actor.CompanyID,
		Name:      in.Name,
		Phone:     in.Phone,
		Email:     in.Email,
		Balance:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.clientRepo.Create(c); err != nil {
		return nil, err
	}
	return toClientResponse(c), nil
}

// Get obtiene un cliente de la empresa del actor.
func (uc *ClientUseCase) Get(ctx context.Context, actor entity.Actor, id string) (*dto.ClientResponse, error) {
	c, err := uc.clientRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if !actor.SameTenant(c.CompanyID) {
		return nil, domain.ErrForbidden
	}
	return toClientResponse(c), nil
}

// List lista clientes de la empresa con paginación.
func (uc *ClientUseCase) List(ctx context.Context, actor entity.Actor, page dto.PageRequest) ([]*dto.ClientResponse, error) {
	page.DefaultPage()
	list, err := uc.clientRepo.ListByCompany(actor.CompanyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ClientResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toClientResponse(c))
	}
	return out, nil
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:        c.ID,
		CompanyID: c.CompanyID,
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		Balance:   c.Balance,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
