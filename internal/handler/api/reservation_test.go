//go:build unit

package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ponabri-api/internal/domain/user"
	"ponabri-api/internal/handler/api"
	resdto "ponabri-api/internal/handler/dto/response"
	"ponabri-api/internal/usecase/commands"
	usecasemock "ponabri-api/internal/usecase/mock"
	"ponabri-api/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

func performRequest(t *testing.T, router *gin.Engine, method, url string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return out
}

func reservationView(ownerID uuid.UUID) *queries.ReservationView {
	now := time.Now().UTC()
	return &queries.ReservationView{
		ID:              uuid.New(),
		Code:            "PONABRI-A1B2C3D4",
		UserID:          ownerID,
		UserName:        "Maria Silva",
		UserEmail:       "maria@example.com",
		ShelterID:       uuid.New(),
		ShelterName:     "Abrigo Central",
		ShelterAddress:  "Rua das Flores 100",
		PersonCount:     3,
		UsedVehicleSlot: true,
		Status:          "active",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

type ReservationHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *usecasemock.MockReservationCommands
	mockQueries  *usecasemock.MockReservationQueries
	handler      *api.ReservationHandler

	actorID uuid.UUID
	role    user.Role
}

func (s *ReservationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = usecasemock.NewMockReservationCommands(s.mockCtrl)
	s.mockQueries = usecasemock.NewMockReservationQueries(s.mockCtrl)
	s.handler = api.NewReservationHandler(s.mockCommands, s.mockQueries)

	s.actorID = uuid.New()
	s.role = user.RoleUser

	// Mock middleware behavior: inject the authenticated actor the way
	// RequireAuth does.
	authed := func(next gin.HandlerFunc) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set("user_id", s.actorID)
			c.Set("user_role", s.role)
			next(c)
		}
	}

	s.router.POST("/reservations", authed(s.handler.CreateReservation))
	s.router.GET("/reservations", authed(s.handler.ListReservations))
	s.router.GET("/reservations/validate/:code", s.handler.ValidateCode)
	s.router.GET("/reservations/:id", authed(s.handler.GetReservation))
	s.router.POST("/reservations/:id/cancel", authed(s.handler.CancelReservation))
	s.router.POST("/reservations/:id/complete", authed(s.handler.CompleteReservation))
}

func (s *ReservationHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestReservationHandlerSuite(t *testing.T) {
	suite.Run(t, new(ReservationHandlerTestSuite))
}

func (s *ReservationHandlerTestSuite) TestCreateReservation() {
	url := "/reservations"
	reqBody := map[string]any{
		"shelter_id":         uuid.New().String(),
		"person_count":       3,
		"wants_vehicle_slot": true,
	}

	s.Run("success: returns 201 Created with the reservation view", func() {
		view := reservationView(s.actorID)
		s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any(), s.actorID).
			Return(view, nil).Times(1)

		rec := performRequest(s.T(), s.router, http.MethodPost, url, reqBody)

		s.Equal(http.StatusCreated, rec.Code)
		resp := decodeBody[resdto.ReservationResponse](s.T(), rec)
		s.Equal(view.ID, resp.ID)
		s.Equal(view.Code, resp.Code)
		s.Equal(view.PersonCount, resp.PersonCount)
		s.True(resp.UsedVehicleSlot)
	})

	s.Run("error: 400 Bad Request on malformed body", func() {
		cases := []struct {
			name string
			body map[string]any
		}{
			{name: "missing shelter_id", body: map[string]any{"person_count": 2}},
			{name: "missing person_count", body: map[string]any{"shelter_id": uuid.New().String()}},
			{name: "shelter_id not a uuid", body: map[string]any{"shelter_id": "nope", "person_count": 2}},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				rec := performRequest(s.T(), s.router, http.MethodPost, url, tc.body)
				s.Equal(http.StatusBadRequest, rec.Code)
			})
		}
	})

	s.Run("error: use case failures map to status codes", func() {
		cases := []struct {
			name       string
			err        error
			expectCode int
		}{
			{name: "unknown shelter", err: commands.ErrShelterNotFound, expectCode: http.StatusNotFound},
			{name: "invalid person count", err: commands.ErrInvalidPersonCount, expectCode: http.StatusBadRequest},
			{name: "shelter not accepting", err: commands.ErrNotAcceptingReservations, expectCode: http.StatusConflict},
			{name: "person slots exhausted", err: commands.ErrInsufficientPersonSlots, expectCode: http.StatusConflict},
			{name: "vehicle slot exhausted", err: commands.ErrInsufficientVehicleSlot, expectCode: http.StatusConflict},
			{name: "write retries exhausted", err: commands.ErrWriteRetryExhausted, expectCode: http.StatusConflict},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any(), s.actorID).
					Return(nil, tc.err).Times(1)
				rec := performRequest(s.T(), s.router, http.MethodPost, url, reqBody)
				s.Equal(tc.expectCode, rec.Code)
			})
		}
	})
}

func (s *ReservationHandlerTestSuite) TestGetReservation() {
	s.Run("success: returns 200 OK with the view", func() {
		view := reservationView(s.actorID)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), view.ID, s.actorID, false).
			Return(view, nil).Times(1)

		rec := performRequest(s.T(), s.router, http.MethodGet, "/reservations/"+view.ID.String(), nil)

		s.Equal(http.StatusOK, rec.Code)
		resp := decodeBody[resdto.ReservationResponse](s.T(), rec)
		s.Equal(view.ID, resp.ID)
		s.Equal(view.ShelterName, resp.ShelterName)
	})

	s.Run("admin role is forwarded to the query layer", func() {
		s.role = user.RoleAdmin
		defer func() { s.role = user.RoleUser }()

		view := reservationView(uuid.New())
		s.mockQueries.EXPECT().GetByID(gomock.Any(), view.ID, s.actorID, true).
			Return(view, nil).Times(1)

		rec := performRequest(s.T(), s.router, http.MethodGet, "/reservations/"+view.ID.String(), nil)
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("error: 400 Bad Request for a malformed id", func() {
		rec := performRequest(s.T(), s.router, http.MethodGet, "/reservations/not-a-uuid", nil)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("error: 404 Not Found for an unknown reservation", func() {
		id := uuid.New()
		s.mockQueries.EXPECT().GetByID(gomock.Any(), id, s.actorID, false).
			Return(nil, queries.ErrReservationNotFound).Times(1)

		rec := performRequest(s.T(), s.router, http.MethodGet, "/reservations/"+id.String(), nil)
		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("error: 403 Forbidden for someone else's reservation", func() {
		id := uuid.New()
		s.mockQueries.EXPECT().GetByID(gomock.Any(), id, s.actorID, false).
			Return(nil, queries.ErrReservationAccess).Times(1)

		rec := performRequest(s.T(), s.router, http.MethodGet, "/reservations/"+id.String(), nil)
		s.Equal(http.StatusForbidden, rec.Code)
	})
}

func (s *ReservationHandlerTestSuite) TestListReservations() {
	s.Run("success: returns 200 OK with normalized paging", func() {
		items := []*queries.ReservationListItem{
			{ID: uuid.New(), Code: "PONABRI-11111111", UserID: s.actorID, Status: "active"},
			{ID: uuid.New(), Code: "PONABRI-22222222", UserID: s.actorID, Status: "cancelled"},
		}
		s.mockQueries.EXPECT().List(gomock.Any(), s.actorID, false, nil, 2, 500).
			Return(items, int64(120), nil).Times(1)

		rec := performRequest(s.T(), s.router, http.MethodGet, "/reservations?page=2&page_size=500", nil)

		s.Equal(http.StatusOK, rec.Code)
		resp := decodeBody[resdto.ReservationListResponse](s.T(), rec)
		s.Len(resp.Items, 2)
		s.Equal(int64(120), resp.Total)
		s.Equal(2, resp.Page)
		s.Equal(100, resp.PageSize)
	})

	s.Run("success: user_id filter is parsed and forwarded", func() {
		filter := uuid.New()
		s.mockQueries.EXPECT().List(gomock.Any(), s.actorID, false, gomock.Cond(func(got *uuid.UUID) bool {
			return got != nil && *got == filter
		}), 1, 10).
			Return(nil, int64(0), nil).Times(1)

		rec := performRequest(s.T(), s.router, http.MethodGet, "/reservations?user_id="+filter.String(), nil)
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("error: 400 Bad Request for a malformed user_id filter", func() {
		rec := performRequest(s.T(), s.router, http.MethodGet, "/reservations?user_id=garbage", nil)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *ReservationHandlerTestSuite) TestCancelReservation() {
	s.Run("success: returns 200 OK with the cancelled view", func() {
		view := reservationView(s.actorID)
		view.Status = "cancelled"
		s.mockCommands.EXPECT().Cancel(gomock.Any(), view.ID, s.actorID, false).
			Return(view, nil).Times(1)

		rec := performRequest(s.T(), s.router, http.MethodPost, "/reservations/"+view.ID.String()+"/cancel", nil)

		s.Equal(http.StatusOK, rec.Code)
		resp := decodeBody[resdto.ReservationResponse](s.T(), rec)
		s.Equal("cancelled", resp.Status)
	})

	s.Run("error: lifecycle failures map to status codes", func() {
		cases := []struct {
			name       string
			err        error
			expectCode int
		}{
			{name: "unknown reservation", err: commands.ErrReservationNotFound, expectCode: http.StatusNotFound},
			{name: "not the owner", err: commands.ErrReservationForbidden, expectCode: http.StatusForbidden},
			{name: "already terminal", err: commands.ErrInvalidTransition, expectCode: http.StatusConflict},
			{name: "write retries exhausted", err: commands.ErrWriteRetryExhausted, expectCode: http.StatusConflict},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				id := uuid.New()
				s.mockCommands.EXPECT().Cancel(gomock.Any(), id, s.actorID, false).
					Return(nil, tc.err).Times(1)
				rec := performRequest(s.T(), s.router, http.MethodPost, "/reservations/"+id.String()+"/cancel", nil)
				s.Equal(tc.expectCode, rec.Code)
			})
		}
	})
}

func (s *ReservationHandlerTestSuite) TestCompleteReservation() {
	s.Run("success: admin completes a reservation", func() {
		s.role = user.RoleAdmin
		defer func() { s.role = user.RoleUser }()

		view := reservationView(uuid.New())
		view.Status = "completed"
		s.mockCommands.EXPECT().Complete(gomock.Any(), view.ID, true).
			Return(view, nil).Times(1)

		rec := performRequest(s.T(), s.router, http.MethodPost, "/reservations/"+view.ID.String()+"/complete", nil)

		s.Equal(http.StatusOK, rec.Code)
		resp := decodeBody[resdto.ReservationResponse](s.T(), rec)
		s.Equal("completed", resp.Status)
	})

	s.Run("error: 403 Forbidden for a non-admin actor", func() {
		id := uuid.New()
		s.mockCommands.EXPECT().Complete(gomock.Any(), id, false).
			Return(nil, commands.ErrReservationForbidden).Times(1)

		rec := performRequest(s.T(), s.router, http.MethodPost, "/reservations/"+id.String()+"/complete", nil)
		s.Equal(http.StatusForbidden, rec.Code)
	})
}

func (s *ReservationHandlerTestSuite) TestValidateCode() {
	s.Run("valid code: returns 200 OK with the check-in summary", func() {
		summary := &queries.CheckInSummary{
			ReservationID:   uuid.New(),
			Code:            "PONABRI-A1B2C3D4",
			UserID:          uuid.New(),
			UserName:        "Maria Silva",
			ShelterID:       uuid.New(),
			ShelterName:     "Abrigo Central",
			PersonCount:     3,
			UsedVehicleSlot: true,
		}
		s.mockQueries.EXPECT().ValidateByCode(gomock.Any(), summary.Code).
			Return(&queries.ValidationResult{Valid: true, Summary: summary}, nil).Times(1)

		rec := performRequest(s.T(), s.router, http.MethodGet, "/reservations/validate/"+summary.Code, nil)

		s.Equal(http.StatusOK, rec.Code)
		resp := decodeBody[resdto.ValidationResponse](s.T(), rec)
		s.True(resp.Valid)
		s.Require().NotNil(resp.Summary)
		s.Equal(summary.Code, resp.Summary.Code)
		s.Equal(summary.PersonCount, resp.Summary.PersonCount)
	})

	s.Run("invalid code: returns 200 OK with valid=false and no summary", func() {
		s.mockQueries.EXPECT().ValidateByCode(gomock.Any(), "PONABRI-DEADDEAD").
			Return(&queries.ValidationResult{Valid: false}, nil).Times(1)

		rec := performRequest(s.T(), s.router, http.MethodGet, "/reservations/validate/PONABRI-DEADDEAD", nil)

		s.Equal(http.StatusOK, rec.Code)
		resp := decodeBody[resdto.ValidationResponse](s.T(), rec)
		s.False(resp.Valid)
		s.Nil(resp.Summary)
	})
}
