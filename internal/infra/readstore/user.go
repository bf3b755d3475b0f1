package readstore

import (
	"context"

	"ponabri-api/internal/infra"
	"ponabri-api/internal/usecase/queries"

	"github.com/google/uuid"
)

type UserReadStore struct {
	db infra.Queryer
}

var _ queries.UserReadStore = (*UserReadStore)(nil)

func NewUserReadStore(db infra.Queryer) *UserReadStore {
	return &UserReadStore{db: db}
}

func (s *UserReadStore) FindViewByID(ctx context.Context, id uuid.UUID) (*queries.UserView, error) {
	var v queries.UserView
	err := s.db.QueryRow(ctx, `
		SELECT id, name, email, role, created_at
		FROM users
		WHERE id = $1`,
		id,
	).Scan(&v.ID, &v.Name, &v.Email, &v.Role, &v.CreatedAt)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user view", err)
	}
	return &v, nil
}
