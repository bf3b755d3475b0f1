package repository

import (
	"context"
	"time"

	"ponabri-api/internal/domain/user"
	"ponabri-api/internal/infra"

	"github.com/google/uuid"
)

type UserRepository struct {
	db infra.Queryer
}

func NewUserRepository(db infra.Queryer) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = "id, name, email, password_hash, role, created_at"

func (r *UserRepository) Create(ctx context.Context, u *user.User) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
		RETURNING id`,
		u.ID(), u.Name(), u.Email(), u.PasswordHash(), u.Role().String(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create user", err, infra.KindFromPgErr(err))
	}
	return id, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func scanUser(row rowScanner) (*user.User, error) {
	var (
		id           uuid.UUID
		name         string
		email        string
		passwordHash string
		roleStr      string
		createdAt    time.Time
	)
	if err := row.Scan(&id, &name, &email, &passwordHash, &roleStr, &createdAt); err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to scan user", err)
	}

	role, err := user.NewRole(roleStr)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid role stored for user", err)
	}
	return user.ReconstructUser(id, name, email, passwordHash, role, createdAt), nil
}
