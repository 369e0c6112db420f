package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Renovatec-api/internal/application/apptest"
	"github.com/jhoicas/Renovatec-api/internal/application/auth"
	"github.com/jhoicas/Renovatec-api/internal/application/dto"
	"github.com/jhoicas/Renovatec-api/internal/domain"
	"github.com/jhoicas/Renovatec-api/internal/domain/entity"
	pkgjwt "github.com/jhoicas/Renovatec-api/pkg/jwt"
)

const companyA = "00000000-0000-0000-0000-00000000000a"

var testJWT = auth.JWTConfig{Secret: "test-secret", ExpMinutes: 60, Issuer: "renovatec-test"}

func newUseCase() (*auth.AuthUseCase, *apptest.Store) {
	store := apptest.NewStore()
	store.Companies[companyA] = &entity.Company{ID: companyA, Name: "Renovatec SAS", Status: "active"}
	uc := auth.NewAuthUseCase(apptest.NewUserRepo(store), apptest.NewCompanyRepo(store), testJWT)
	return uc, store
}

func seedUser(store *apptest.Store, email, password, role, status string) *entity.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u := &entity.User{
		ID:           "u-" + email,
		CompanyID:    companyA,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Status:       status,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	store.Users[u.ID] = u
	return u
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_UsuarioNuevo_QuedaActivoConRolPorDefecto(t *testing.T) {
	uc, store := newUseCase()

	out, err := uc.RegisterUser(dto.RegisterRequest{
		CompanyID: companyA,
		Email:     "nuevo@renovatec.test",
		Password:  "contraseña-larga",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleWarehouseStaff, out.Role)
	assert.Equal(t, "active", out.Status)

	stored := store.Users[out.ID]
	require.NotNil(t, stored)
	assert.NotEqual(t, "contraseña-larga", stored.PasswordHash, "la contraseña nunca se guarda en claro")
}

func TestRegister_EmailDuplicadoEnEmpresa_RetornaEmailAlreadyExists(t *testing.T) {
	uc, store := newUseCase()
	seedUser(store, "dup@renovatec.test", "x", entity.RoleAdmin, "active")

	_, err := uc.RegisterUser(dto.RegisterRequest{
		CompanyID: companyA,
		Email:     "dup@renovatec.test",
		Password:  "otra-clave",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegister_RolSuperAdmin_NoSeRegistraPorEstaVia(t *testing.T) {
	uc, _ := newUseCase()

	_, err := uc.RegisterUser(dto.RegisterRequest{
		CompanyID: companyA,
		Email:     "root@renovatec.test",
		Password:  "clave",
		Role:      entity.RoleSuperAdmin,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegister_EmpresaInexistente_RetornaNotFound(t *testing.T) {
	uc, _ := newUseCase()

	_, err := uc.RegisterUser(dto.RegisterRequest{
		CompanyID: "no-existe",
		Email:     "x@renovatec.test",
		Password:  "clave",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// usersRepoCaido simula un repositorio que falla al consultar por email.
type usersRepoCaido struct {
	*apptest.UserRepo
	err error
}

func (r *usersRepoCaido) GetByEmailAndCompany(email, companyID string) (*entity.User, error) {
	return nil, r.err
}

func TestRegister_FallaElRepositorio_PropagaElError(t *testing.T) {
	store := apptest.NewStore()
	store.Companies[companyA] = &entity.Company{ID: companyA, Name: "Renovatec SAS", Status: "active"}
	repoErr := errors.New("conexión perdida")
	uc := auth.NewAuthUseCase(
		&usersRepoCaido{UserRepo: apptest.NewUserRepo(store), err: repoErr},
		apptest.NewCompanyRepo(store),
		testJWT,
	)

	_, err := uc.RegisterUser(dto.RegisterRequest{
		CompanyID: companyA,
		Email:     "x@renovatec.test",
		Password:  "clave",
	})
	require.ErrorIs(t, err, repoErr, "un fallo del repositorio no debe tratarse como email disponible")
	assert.Empty(t, store.Users, "no se crea usuario si la verificación de duplicados falló")
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_CredencialesValidas_EmiteTokenConRol(t *testing.T) {
	uc, store := newUseCase()
	seedUser(store, "tech@renovatec.test", "clave-correcta", entity.RoleTechnician, "active")

	out, err := uc.Login(dto.LoginRequest{Email: "tech@renovatec.test", Password: "clave-correcta"})
	require.NoError(t, err)
	require.NotEmpty(t, out.Token)

	userID, gotCompany, role, err := pkgjwt.Parse(testJWT.Secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, userID)
	assert.Equal(t, companyA, gotCompany)
	assert.Equal(t, entity.RoleTechnician, role)
}

func TestLogin_PasswordIncorrecta_RetornaUnauthorized(t *testing.T) {
	uc, store := newUseCase()
	seedUser(store, "tech@renovatec.test", "clave-correcta", entity.RoleTechnician, "active")

	_, err := uc.Login(dto.LoginRequest{Email: "tech@renovatec.test", Password: "equivocada"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInexistente_RetornaUserNotFound(t *testing.T) {
	uc, _ := newUseCase()

	_, err := uc.Login(dto.LoginRequest{Email: "nadie@renovatec.test", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestLogin_UsuarioSuspendido_RetornaForbidden(t *testing.T) {
	uc, store := newUseCase()
	seedUser(store, "sus@renovatec.test", "clave", entity.RoleAdmin, "suspended")

	_, err := uc.Login(dto.LoginRequest{Email: "sus@renovatec.test", Password: "clave"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
