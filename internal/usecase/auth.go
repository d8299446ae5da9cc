package usecase

import (
	"context"
	"errors"

	"datenight/internal/domain/user"
	"datenight/internal/pkg/jwt"
	"datenight/internal/pkg/password"
	"datenight/internal/usecase/queries"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrTokenGeneration      = errors.New("token generation failed")
	ErrTokenValidation      = errors.New("token validation failed")
)

type AuthUseCase interface {
	Login(ctx context.Context, email, plainPassword string) (string, *queries.AuthorizedUserView, error)
	ValidateToken(tokenString string) (uuid.UUID, user.Role, error)
}

type authUseCaseImpl struct {
	users      queries.UserReadStore
	jwtService *jwt.Service
}

func NewAuthUseCase(users queries.UserReadStore, jwtService *jwt.Service) AuthUseCase {
	return &authUseCaseImpl{
		users:      users,
		jwtService: jwtService,
	}
}

func (a *authUseCaseImpl) Login(ctx context.Context, email, plainPassword string) (string, *queries.AuthorizedUserView, error) {
	view, hashed, err := a.users.FindByEmail(ctx, email)
	if err != nil || view == nil {
		return "", nil, ErrUserNotFound
	}

	if err := password.Compare(hashed, plainPassword); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	role, err := user.ParseRole(view.Role)
	if err != nil {
		return "", nil, ErrAuthenticationFailed
	}

	token, err := a.jwtService.GenerateToken(view.ID, role)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}

	return token, view, nil
}

func (a *authUseCaseImpl) ValidateToken(tokenString string) (uuid.UUID, user.Role, error) {
	claims, err := a.jwtService.ValidateToken(tokenString)
	if err != nil {
		return uuid.Nil, "", ErrTokenValidation
	}

	role, err := user.ParseRole(claims.Role)
	if err != nil {
		return uuid.Nil, "", ErrTokenValidation
	}

	return claims.UserID, role, nil
}
