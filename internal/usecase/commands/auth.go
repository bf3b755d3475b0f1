package commands

import (
	"context"

	"ponabri-api/internal/domain/user"
	"ponabri-api/internal/infra"
	"ponabri-api/internal/pkg/errs"
	"ponabri-api/internal/pkg/jwt"
	"ponabri-api/internal/pkg/password"
	"ponabri-api/internal/usecase/queries"
	"ponabri-api/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrEmailAlreadyRegistered = errs.New("email already registered")
	ErrInvalidCredentials     = errs.New("invalid email or password")
	ErrInvalidUserData        = errs.New("invalid user data")
)

type AuthCommands interface {
	Register(ctx context.Context, name, email, plainPassword string) (uuid.UUID, error)
	Login(ctx context.Context, email, plainPassword string) (string, *queries.UserView, error)
}

// TokenValidator is what the auth middleware needs: the two authorization
// facts every lifecycle and query operation takes.
type TokenValidator interface {
	ValidateToken(token string) (uuid.UUID, user.Role, error)
}

type authUseCaseImpl struct {
	uow shared.UnitOfWork
	jwt *jwt.Service
}

func NewAuthUseCase(uow shared.UnitOfWork, jwtService *jwt.Service) AuthCommands {
	return &authUseCaseImpl{uow: uow, jwt: jwtService}
}

func (uc *authUseCaseImpl) Register(ctx context.Context, name, email, plainPassword string) (uuid.UUID, error) {
	hash, err := password.HashPassword(plainPassword)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrInvalidUserData)
	}

	entity, err := user.NewUser(name, email, hash, user.RoleUser)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrInvalidUserData)
	}

	var createdID uuid.UUID
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		id, err := tx.Users().Create(ctx, entity)
		if err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return ErrEmailAlreadyRegistered
			}
			return err
		}
		createdID = id
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return createdID, nil
}

func (uc *authUseCaseImpl) Login(ctx context.Context, email, plainPassword string) (string, *queries.UserView, error) {
	var entity *user.User
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		found, err := tx.Users().FindByEmail(ctx, email)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrInvalidCredentials
			}
			return err
		}
		entity = found
		return nil
	})
	if err != nil {
		return "", nil, err
	}

	if err := password.ComparePassword(entity.PasswordHash(), plainPassword); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := uc.jwt.GenerateToken(entity.ID(), entity.Role())
	if err != nil {
		return "", nil, err
	}

	view := &queries.UserView{
		ID:        entity.ID(),
		Name:      entity.Name(),
		Email:     entity.Email(),
		Role:      entity.Role().String(),
		CreatedAt: entity.CreatedAt(),
	}
	return token, view, nil
}

type jwtTokenValidator struct {
	jwt *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &jwtTokenValidator{jwt: jwtService}
}

func (v *jwtTokenValidator) ValidateToken(token string) (uuid.UUID, user.Role, error) {
	claims, err := v.jwt.ValidateToken(token)
	if err != nil {
		return uuid.Nil, "", err
	}
	role, err := user.NewRole(claims.Role)
	if err != nil {
		return uuid.Nil, "", err
	}
	return claims.UserID, role, nil
}
