package api

import (
	"errors"
	"net/http"
	"strconv"

	reqdto "ponabri-api/internal/handler/dto/request"
	resdto "ponabri-api/internal/handler/dto/response"
	"ponabri-api/internal/handler/middleware"
	"ponabri-api/internal/usecase/commands"
	"ponabri-api/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReservationHandler struct {
	reservationUseCase commands.ReservationCommands
	reservationQueries queries.ReservationQueries
}

func NewReservationHandler(reservationUseCase commands.ReservationCommands, reservationQueries queries.ReservationQueries) *ReservationHandler {
	return &ReservationHandler{
		reservationUseCase: reservationUseCase,
		reservationQueries: reservationQueries,
	}
}

// @Summary Create reservation
// @Description Reserve person slots and optionally a vehicle slot at a shelter
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateReservationRequest true "Reservation request"
// @Success 201 {object} resdto.ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /reservations [post]
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.CreateReservationRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.reservationUseCase.Create(c.Request.Context(), req.ToInput(), userID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrShelterNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Shelter not found",
			})
		case errors.Is(err, commands.ErrInvalidPersonCount):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Person count must be at least 1",
			})
		case errors.Is(err, commands.ErrNotAcceptingReservations):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Shelter is not accepting reservations",
			})
		case errors.Is(err, commands.ErrInsufficientPersonSlots):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Not enough person slots available",
			})
		case errors.Is(err, commands.ErrInsufficientVehicleSlot):
			c.JSON(http.StatusConflict, gin.H{
				"error": "No vehicle slot available",
			})
		case errors.Is(err, commands.ErrWriteRetryExhausted):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Reservation could not be completed, please retry",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromReservationView(view))
}

// @Summary Get reservation
// @Description Get reservation by ID; users see only their own
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /reservations/{id} [get]
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid reservation ID format",
		})
		return
	}

	actorID, actorIsAdmin, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	view, err := h.reservationQueries.GetByID(c.Request.Context(), id, actorID, actorIsAdmin)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrReservationNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Reservation not found",
			})
		case errors.Is(err, queries.ErrReservationAccess):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Access denied",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

// @Summary List reservations
// @Description Paged reservation list; users are scoped to their own
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param user_id query string false "Filter by user (admin only)"
// @Success 200 {object} resdto.ReservationListResponse
// @Failure 401 {object} map[string]string
// @Router /reservations [get]
func (h *ReservationHandler) ListReservations(c *gin.Context) {
	actorID, actorIsAdmin, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	var filterUserID *uuid.UUID
	if raw := c.Query("user_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid user ID format",
			})
			return
		}
		filterUserID = &parsed
	}

	items, total, err := h.reservationQueries.List(c.Request.Context(), actorID, actorIsAdmin, filterUserID, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationList(items, total, normalizePage(page), normalizePageSize(pageSize)))
}

// @Summary Cancel reservation
// @Description Cancel an active reservation and release its slots
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /reservations/{id}/cancel [post]
func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid reservation ID format",
		})
		return
	}

	actorID, actorIsAdmin, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	view, err := h.reservationUseCase.Cancel(c.Request.Context(), id, actorID, actorIsAdmin)
	if err != nil {
		h.writeLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

// @Summary Complete reservation
// @Description Mark a reservation as completed after check-out (admin)
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /reservations/{id}/complete [post]
func (h *ReservationHandler) CompleteReservation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid reservation ID format",
		})
		return
	}

	_, actorIsAdmin, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	view, err := h.reservationUseCase.Complete(c.Request.Context(), id, actorIsAdmin)
	if err != nil {
		h.writeLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

// @Summary Validate reservation code
// @Description Check whether a reservation code admits an active reservation
// @Tags reservations
// @Produce json
// @Param code path string true "Reservation code"
// @Success 200 {object} resdto.ValidationResponse
// @Router /reservations/validate/{code} [get]
func (h *ReservationHandler) ValidateCode(c *gin.Context) {
	code := c.Param("code")

	result, err := h.reservationQueries.ValidateByCode(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromValidationResult(result))
}

func (h *ReservationHandler) writeLifecycleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrReservationNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Reservation not found",
		})
	case errors.Is(err, commands.ErrReservationForbidden):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Access denied",
		})
	case errors.Is(err, commands.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Reservation is not active",
		})
	case errors.Is(err, commands.ErrWriteRetryExhausted):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Operation could not be completed, please retry",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

func actorFromContext(c *gin.Context) (uuid.UUID, bool, bool) {
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		return uuid.Nil, false, false
	}
	role, ok := middleware.GetUserRole(c)
	if !ok {
		return uuid.Nil, false, false
	}
	return actorID, role.IsAdmin(), true
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func normalizePageSize(pageSize int) int {
	if pageSize < 1 {
		return 10
	}
	if pageSize > 100 {
		return 100
	}
	return pageSize
}
