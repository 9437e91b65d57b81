package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/gestion-comercial/internal/application/auth"
	"github.com/jhoicas/gestion-comercial/internal/application/dto"
	"github.com/jhoicas/gestion-comercial/internal/domain"
	"github.com/jhoicas/gestion-comercial/internal/infrastructure/memory"
	pkgjwt "github.com/jhoicas/gestion-comercial/pkg/jwt"
)

const secret = "test-secret"

func newUseCase() *auth.AuthUseCase {
	store := memory.NewStore()
	return auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: secret, ExpMinutes: 5, Issuer: "test"}).
		WithHashCost(bcrypt.MinCost)
}

func TestRegisterYLogin(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()

	u, err := uc.RegisterUser(ctx, dto.RegisterRequest{Username: " Ana ", Password: "secreta123", Role: "comprador"})
	require.NoError(t, err)
	assert.Equal(t, "ana", u.Username)
	assert.Equal(t, "comprador", u.Role)
	assert.True(t, u.Active)

	resp, err := uc.Login(ctx, dto.LoginRequest{Username: "ANA", Password: "secreta123"})
	require.NoError(t, err)
	claims, err := pkgjwt.Parse(secret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "comprador", claims.Role)

	me, err := uc.Me(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana", me.Username)
}

func TestRegister_Validaciones(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()

	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Username: "", Password: "secreta123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Username: "ana", Password: "corta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Username: "ana", Password: "secreta123", Role: "root"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	u, err := uc.RegisterUser(ctx, dto.RegisterRequest{Username: "ana", Password: "secreta123"})
	require.NoError(t, err)
	assert.Equal(t, "vendedor", u.Role, "rol por defecto")

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Username: "ana", Password: "otra-clave"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Username: "ana", Password: "secreta123"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Username: "nadie", Password: "secreta123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
