// Package company administra las empresas/tenants. Solo super_admin opera
// sobre empresas distintas a la propia.
package company

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Renovatec-api/internal/application/dto"
	"github.com/jhoicas/Renovatec-api/internal/domain"
	"github.com/jhoicas/Renovatec-api/internal/domain/entity"
	"github.com/jhoicas/Renovatec-api/internal/domain/repository"
)

// UseCase aplica reglas de negocio para empresas.
type UseCase struct {
	repo repository.CompanyRepository
}

// NewUseCase construye el caso de uso con el puerto de persistencia.
func NewUseCase(repo repository.CompanyRepository) *UseCase {
	return &UseCase{repo: repo}
}

// Create crea una nueva empresa. Genera ID y estado inicial.
// Solo super_admin da de alta tenants.
func (uc *UseCase) Create(actor entity.Actor, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	if actor.Role != entity.RoleSuperAdmin {
		return nil, domain.ErrForbidden
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	plan := in.Plan
	if plan == "" {
		plan = entity.PlanBasic
	}
	now := time.Now()
	company := &entity.Company{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Plan:      plan,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(company); err != nil {
		return nil, err
	}
	return toCompanyResponse(company), nil
}

// Get obtiene una empresa por ID. Un actor regular solo ve la suya.
func (uc *UseCase) Get(actor entity.Actor, id string) (*dto.CompanyResponse, error) {
	if !actor.SameTenant(id) {
		return nil, domain.ErrForbidden
	}
	company, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return toCompanyResponse(company), nil
}

// List lista empresas con paginación. Reservado a super_admin.
func (uc *UseCase) List(actor entity.Actor, page dto.PageRequest) ([]*dto.CompanyResponse, error) {
	if actor.Role != entity.RoleSuperAdmin {
		return nil, domain.ErrForbidden
	}
	page.DefaultPage()
	list, err := uc.repo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCompanyResponse(c))
	}
	return out, nil
}

func toCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	if c == nil {
		return nil
	}
	return &dto.CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		Plan:      c.Plan,
		Status:    c.Status,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
