package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jcamargo/invenly-api/internal/application/dto"
	"github.com/jcamargo/invenly-api/internal/application/usecase"
	"github.com/jcamargo/invenly-api/internal/domain"
	"github.com/jcamargo/invenly-api/internal/domain/entity"
)

type fakeUserRepo struct {
	users map[string]*entity.User // por ID
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) List(_ context.Context, _, _ int) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserRepo) ToggleActive(_ context.Context, id string) error {
	if u, ok := f.users[id]; ok {
		u.Active = !u.Active
		return nil
	}
	return domain.ErrUserNotFound
}

func newUserUC() (*usecase.UserUseCase, *fakeUserRepo) {
	repo := &fakeUserRepo{users: make(map[string]*entity.User)}
	return usecase.NewUserUseCase(repo), repo
}

func TestCreateUser_HasheaPassword(t *testing.T) {
	uc, repo := newUserUC()

	out, err := uc.Create(context.Background(), dto.CreateUserRequest{
		Email:    "Ana@Example.com",
		Password: "clave-segura-1",
		Name:     "Ana Ruiz",
		Role:     "operador",
	})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", out.Email, "el email se normaliza a minúsculas")
	assert.Equal(t, "operador", out.Role)
	assert.True(t, out.Active)

	stored := repo.users[out.ID]
	require.NotNil(t, stored)
	assert.NotEqual(t, "clave-segura-1", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("clave-segura-1")))
}

func TestCreateUser_Validaciones(t *testing.T) {
	uc, _ := newUserUC()

	cases := []struct {
		name string
		in   dto.CreateUserRequest
	}{
		{"sin email", dto.CreateUserRequest{Password: "clave-segura-1", Name: "X", Role: "admin"}},
		{"password corto", dto.CreateUserRequest{Email: "x@y.com", Password: "corto", Name: "X", Role: "admin"}},
		{"rol inválido", dto.CreateUserRequest{Email: "x@y.com", Password: "clave-segura-1", Name: "X", Role: "superuser"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestCreateUser_EmailDuplicado(t *testing.T) {
	uc, _ := newUserUC()

	in := dto.CreateUserRequest{
		Email:    "ana@example.com",
		Password: "clave-segura-1",
		Name:     "Ana Ruiz",
		Role:     "admin",
	}
	_, err := uc.Create(context.Background(), in)
	require.NoError(t, err)

	_, err = uc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestToggleActive_AlternaEstado(t *testing.T) {
	uc, repo := newUserUC()

	created, err := uc.Create(context.Background(), dto.CreateUserRequest{
		Email:    "ana@example.com",
		Password: "clave-segura-1",
		Name:     "Ana Ruiz",
		Role:     "operador",
	})
	require.NoError(t, err)

	out, err := uc.ToggleActive(context.Background(), "otro-admin", created.ID)
	require.NoError(t, err)
	assert.False(t, out.Active)
	assert.False(t, repo.users[created.ID].Active)

	out, err = uc.ToggleActive(context.Background(), "otro-admin", created.ID)
	require.NoError(t, err)
	assert.True(t, out.Active)
}

func TestToggleActive_NoPermiteAutoDesactivarse(t *testing.T) {
	uc, _ := newUserUC()

	created, err := uc.Create(context.Background(), dto.CreateUserRequest{
		Email:    "admin@example.com",
		Password: "clave-segura-1",
		Name:     "Admin",
		Role:     "admin",
	})
	require.NoError(t, err)

	_, err = uc.ToggleActive(context.Background(), created.ID, created.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestToggleActive_UsuarioInexistente(t *testing.T) {
	uc, _ := newUserUC()

	_, err := uc.ToggleActive(context.Background(), "actor", "no-existe")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
