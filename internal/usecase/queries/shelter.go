package queries

import (
	"context"

	"ponabri-api/internal/infra"
	"ponabri-api/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrShelterNotFound = errs.New("shelter not found")

type ShelterQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ShelterView, error)
	List(ctx context.Context, region *string) ([]*ShelterListItem, error)
}

type ShelterReadStore interface {
	FindViewByID(ctx context.Context, id uuid.UUID) (*ShelterView, error)
	ListSummaries(ctx context.Context, region *string) ([]*ShelterListItem, error)
}

type shelterQueriesImpl struct {
	store ShelterReadStore
}

func NewShelterQueries(store ShelterReadStore) ShelterQueries {
	return &shelterQueriesImpl{store: store}
}

func (q *shelterQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*ShelterView, error) {
	view, err := q.store.FindViewByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrShelterNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *shelterQueriesImpl) List(ctx context.Context, region *string) ([]*ShelterListItem, error) {
	return q.store.ListSummaries(ctx, region)
}
