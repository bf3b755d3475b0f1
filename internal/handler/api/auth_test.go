//go:build unit

package api_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

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

type AuthHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *usecasemock.MockAuthCommands
	mockQueries  *usecasemock.MockUserQueries
	handler      *api.AuthHandler

	actorID uuid.UUID
}

func (s *AuthHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = usecasemock.NewMockAuthCommands(s.mockCtrl)
	s.mockQueries = usecasemock.NewMockUserQueries(s.mockCtrl)
	s.handler = api.NewAuthHandler(s.mockCommands, s.mockQueries)

	s.actorID = uuid.New()

	s.router.POST("/auth/register", s.handler.Register)
	s.router.POST("/auth/login", s.handler.Login)
	s.router.GET("/auth/me", func(c *gin.Context) {
		// Mock middleware behavior for /auth/me
		c.Set("user_id", s.actorID)
		s.handler.Me(c)
	})
}

func (s *AuthHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}

func userView(id uuid.UUID) *queries.UserView {
	return &queries.UserView{
		ID:        id,
		Name:      "Maria Silva",
		Email:     "maria@example.com",
		Role:      "user",
		CreatedAt: time.Now().UTC(),
	}
}

func (s *AuthHandlerTestSuite) TestRegister() {
	url := "/auth/register"
	reqBody := map[string]any{
		"name":     "Maria Silva",
		"email":    "maria@example.com",
		"password": "s3cretpass",
	}

	s.Run("success: returns 201 Created with the new user id", func() {
		id := uuid.New()
		s.mockCommands.EXPECT().Register(gomock.Any(), "Maria Silva", "maria@example.com", "s3cretpass").
			Return(id, nil).Times(1)

		rec := performRequest(s.T(), s.router, http.MethodPost, url, reqBody)

		s.Equal(http.StatusCreated, rec.Code)
		resp := decodeBody[resdto.RegisterResponse](s.T(), rec)
		s.Equal(id, resp.ID)
	})

	s.Run("error: 409 Conflict when the email is taken", func() {
		s.mockCommands.EXPECT().Register(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(uuid.Nil, commands.ErrEmailAlreadyRegistered).Times(1)

		rec := performRequest(s.T(), s.router, http.MethodPost, url, reqBody)
		s.Equal(http.StatusConflict, rec.Code)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		cases := []struct {
			name string
			body map[string]any
		}{
			{name: "missing name", body: map[string]any{"email": "a@b.com", "password": "s3cretpass"}},
			{name: "invalid email", body: map[string]any{"name": "X", "email": "not-an-email", "password": "s3cretpass"}},
			{name: "password too short", body: map[string]any{"name": "X", "email": "a@b.com", "password": strings.Repeat("a", 7)}},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				rec := performRequest(s.T(), s.router, http.MethodPost, url, tc.body)
				s.Equal(http.StatusBadRequest, rec.Code)
			})
		}
	})
}

func (s *AuthHandlerTestSuite) TestLogin() {
	url := "/auth/login"
	reqBody := map[string]any{
		"email":    "maria@example.com",
		"password": "s3cretpass",
	}

	s.Run("success: returns 200 OK with token and user", func() {
		view := userView(uuid.New())
		s.mockCommands.EXPECT().Login(gomock.Any(), "maria@example.com", "s3cretpass").
			Return("signed-token", view, nil).Times(1)

		rec := performRequest(s.T(), s.router, http.MethodPost, url, reqBody)

		s.Equal(http.StatusOK, rec.Code)
		resp := decodeBody[resdto.LoginResponse](s.T(), rec)
		s.Equal("signed-token", resp.Token)
		s.Equal(view.Email, resp.User.Email)
	})

	s.Run("error: 401 Unauthorized for bad credentials", func() {
		s.mockCommands.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).
			Return("", nil, commands.ErrInvalidCredentials).Times(1)

		rec := performRequest(s.T(), s.router, http.MethodPost, url, reqBody)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("error: 400 Bad Request on malformed body", func() {
		rec := performRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"email": "maria@example.com"})
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *AuthHandlerTestSuite) TestMe() {
	s.Run("success: returns 200 OK with the actor's profile", func() {
		view := userView(s.actorID)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.actorID).
			Return(view, nil).Times(1)

		rec := performRequest(s.T(), s.router, http.MethodGet, "/auth/me", nil)

		s.Equal(http.StatusOK, rec.Code)
		resp := decodeBody[resdto.UserResponse](s.T(), rec)
		s.Equal(s.actorID, resp.ID)
		s.Equal(view.Email, resp.Email)
	})

	s.Run("error: 404 Not Found when the account no longer exists", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.actorID).
			Return(nil, queries.ErrUserNotFound).Times(1)

		rec := performRequest(s.T(), s.router, http.MethodGet, "/auth/me", nil)
		s.Equal(http.StatusNotFound, rec.Code)
	})
}
