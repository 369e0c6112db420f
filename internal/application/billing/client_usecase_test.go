package billing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Renovatec-api/internal/application/apptest"
	"github.com/jhoicas/Renovatec-api/internal/application/billing"
	"github.com/jhoicas/Renovatec-api/internal/application/dto"
	"github.com/jhoicas/Renovatec-api/internal/domain"
	"github.com/jhoicas/Renovatec-api/internal/domain/entity"
)

func newClientUseCase() (*billing.ClientUseCase, *apptest.Store) {
	store := apptest.NewStore()
	return billing.NewClientUseCase(apptest.NewClientRepo(store)), store
}

func TestCreateClient_AltaNueva_BalanceEnCero(t *testing.T) {
	uc, _ := newClientUseCase()

	out, err := uc.Create(context.Background(), sellerActor(), dto.CreateClientRequest{
		Name:  "Comercial Pérez",
		Phone: "3001234567",
		Email: "compras@perez.co",
	})
	require.NoError(t, err)
	assert.True(t, out.Balance.IsZero())
	assert.Equal(t, companyA, out.CompanyID)
}

func TestCreateClient_TelefonoDuplicadoEnEmpresa_RetornaDuplicate(t *testing.T) {
	uc, store := newClientUseCase()
	seedClient(store, "c1", companyA)

	_, err := uc.Create(context.Background(), sellerActor(), dto.CreateClientRequest{
		Name:  "Otro",
		Phone: store.Clients["c1"].Phone,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreateClient_MismoTelefonoOtraEmpresa_EsValido(t *testing.T) {
	uc, store := newClientUseCase()
	seedClient(store, "c1", companyB)

	_, err := uc.Create(context.Background(), sellerActor(), dto.CreateClientRequest{
		Name:  "Otro",
		Phone: store.Clients["c1"].Phone,
	})
	assert.NoError(t, err, "la unicidad del teléfono es por empresa")
}

func TestCreateClient_RolSinVenta_RetornaForbidden(t *testing.T) {
	uc, _ := newClientUseCase()
	actor := entity.Actor{UserID: "w1", CompanyID: companyA, Role: entity.RoleWarehouseStaff}

	_, err := uc.Create(context.Background(), actor, dto.CreateClientRequest{Name: "X", Phone: "300"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestGetClient_DeOtraEmpresa_RetornaForbidden(t *testing.T) {
	uc, store := newClientUseCase()
	seedClient(store, "c1", companyB)

	_, err := uc.Get(context.Background(), sellerActor(), "c1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestListClients_SoloLaEmpresaDelActor(t *testing.T) {
	uc, store := newClientUseCase()
	seedClient(store, "c1", companyA)
	seedClient(store, "c2", companyB)

	out, err := uc.List(context.Background(), sellerActor(), dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "c1", out[0].ID)
}
