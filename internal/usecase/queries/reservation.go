package queries

import (
	"context"

	"ponabri-api/internal/infra"
	"ponabri-api/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrReservationNotFound = errs.New("reservation not found")
	ErrReservationAccess   = errs.New("access to reservation denied")
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type ReservationQueries interface {
	// GetByID applies role scoping: admins read any reservation, users only
	// their own.
	GetByID(ctx context.Context, id, actorID uuid.UUID, actorIsAdmin bool) (*ReservationView, error)
	// GetByIDSystem bypasses scoping for internal read-after-write.
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	List(ctx context.Context, actorID uuid.UUID, actorIsAdmin bool, filterUserID *uuid.UUID, page, pageSize int) ([]*ReservationListItem, int64, error)
	// ValidateByCode is a boolean business answer for unauthenticated
	// check-in devices. An unknown, cancelled or completed code all yield the
	// same invalid result.
	ValidateByCode(ctx context.Context, code string) (*ValidationResult, error)
}

type ReservationReadStore interface {
	FindViewByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	ListPage(ctx context.Context, filterUserID *uuid.UUID, limit, offset int32) ([]*ReservationListItem, int64, error)
	FindActiveSummaryByCode(ctx context.Context, code string) (*CheckInSummary, error)
}

type reservationQueriesImpl struct {
	store ReservationReadStore
}

func NewReservationQueries(store ReservationReadStore) ReservationQueries {
	return &reservationQueriesImpl{store: store}
}

func (q *reservationQueriesImpl) GetByID(ctx context.Context, id, actorID uuid.UUID, actorIsAdmin bool) (*ReservationView, error) {
	view, err := q.store.FindViewByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	if !actorIsAdmin && view.UserID != actorID {
		return nil, ErrReservationAccess
	}
	return view, nil
}

func (q *reservationQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*ReservationView, error) {
	view, err := q.store.FindViewByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *reservationQueriesImpl) List(ctx context.Context, actorID uuid.UUID, actorIsAdmin bool, filterUserID *uuid.UUID, page, pageSize int) ([]*ReservationListItem, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	// Non-admins are always scoped to themselves, whatever filter they pass.
	scope := filterUserID
	if !actorIsAdmin {
		scope = &actorID
	}

	offset := (page - 1) * pageSize
	return q.store.ListPage(ctx, scope, int32(pageSize), int32(offset))
}

func (q *reservationQueriesImpl) ValidateByCode(ctx context.Context, code string) (*ValidationResult, error) {
	summary, err := q.store.FindActiveSummaryByCode(ctx, code)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return &ValidationResult{Valid: false}, nil
		}
		return nil, err
	}
	return &ValidationResult{Valid: true, Summary: summary}, nil
}
