package auth

import (
	"context"

	"github.com/jcamargo/invenly-api/internal/application/dto"
	"github.com/jcamargo/invenly-api/internal/domain"
	"github.com/jcamargo/invenly-api/internal/domain/entity"
	"github.com/jcamargo/invenly-api/internal/domain/repository"
	"github.com/jcamargo/invenly-api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// ProfileCache cachea el perfil del usuario autenticado (nombre y rol) para no
// consultar la DB en cada /me. Puede ser nil: todo pasa a resolverse en DB.
type ProfileCache interface {
	Get(ctx context.Context, userID string) (*dto.UserResponse, error) // (nil, nil) en miss
	Set(ctx context.Context, profile *dto.UserResponse) error
}

// AuthUseCase casos de uso de autenticación: login y perfil.
type AuthUseCase struct {
	userRepo repository.UserRepository
	cache    ProfileCache
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth. cache puede ser nil.
func NewAuthUseCase(userRepo repository.UserRepository, cache ProfileCache, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, cache: cache, jwtCfg: jwtCfg}
}

// Login verifica email/password, exige cuenta activa, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.Active {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, string(user.Role), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	profile := toUserResponse(user)
	if uc.cache != nil {
		// Fallo de caché no bloquea el login.
		_ = uc.cache.Set(ctx, profile)
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *profile,
	}, nil
}

// Profile devuelve el perfil del usuario autenticado, primero desde caché.
func (uc *AuthUseCase) Profile(ctx context.Context, userID string) (*dto.UserResponse, error) {
	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, userID); err == nil && cached != nil {
			return cached, nil
		}
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	profile := toUserResponse(user)
	if uc.cache != nil {
		_ = uc.cache.Set(ctx, profile)
	}
	return profile, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
