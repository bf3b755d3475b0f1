package api

import (
	"errors"
	"net/http"

	reqdto "ponabri-api/internal/handler/dto/request"
	resdto "ponabri-api/internal/handler/dto/response"
	"ponabri-api/internal/handler/httperr"
	"ponabri-api/internal/usecase/commands"
	"ponabri-api/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ShelterHandler struct {
	shelterUseCase commands.ShelterCommands
	shelterQueries queries.ShelterQueries
}

func NewShelterHandler(shelterUseCase commands.ShelterCommands, shelterQueries queries.ShelterQueries) *ShelterHandler {
	return &ShelterHandler{
		shelterUseCase: shelterUseCase,
		shelterQueries: shelterQueries,
	}
}

// @Summary List shelters
// @Description Public list of shelters with current availability
// @Tags shelters
// @Produce json
// @Param region query string false "Filter by region"
// @Success 200 {array} resdto.ShelterListItemResponse
// @Router /shelters [get]
func (h *ShelterHandler) ListShelters(c *gin.Context) {
	var region *string
	if raw := c.Query("region"); raw != "" {
		region = &raw
	}

	items, err := h.shelterQueries.List(c.Request.Context(), region)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromShelterList(items))
}

// @Summary Get shelter
// @Description Public shelter detail with live availability
// @Tags shelters
// @Produce json
// @Param id path string true "Shelter ID"
// @Success 200 {object} resdto.ShelterResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /shelters/{id} [get]
func (h *ShelterHandler) GetShelter(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid shelter ID format", nil)
		return
	}

	view, err := h.shelterQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrShelterNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Shelter not found", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromShelterView(view))
}

// @Summary Create shelter
// @Description Create a shelter with availability equal to capacity (admin)
// @Tags shelters
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateShelterRequest true "Shelter request"
// @Success 201 {object} resdto.CreatedResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /shelters [post]
func (h *ShelterHandler) CreateShelter(c *gin.Context) {
	var req reqdto.CreateShelterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	id, err := h.shelterUseCase.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrInvalidShelter):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid shelter data", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.CreatedResponse{ID: id})
}

// @Summary Update shelter
// @Description Partial shelter update including capacity resize and status override (admin)
// @Tags shelters
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Shelter ID"
// @Param request body reqdto.UpdateShelterRequest true "Update request"
// @Success 200 {object} resdto.ShelterResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /shelters/{id} [patch]
func (h *ShelterHandler) UpdateShelter(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid shelter ID format", nil)
		return
	}

	var req reqdto.UpdateShelterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	if err := h.shelterUseCase.Update(c.Request.Context(), id, req.ToInput()); err != nil {
		switch {
		case errors.Is(err, commands.ErrShelterNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Shelter not found", nil)
		case errors.Is(err, commands.ErrCapacityBelowOccupancy):
			httperr.AbortWithError(c, http.StatusConflict, err, "New capacity is below current occupancy", nil)
		case errors.Is(err, commands.ErrWriteRetryExhausted):
			httperr.AbortWithError(c, http.StatusConflict, err, "Update could not be completed, please retry", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	view, err := h.shelterQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromShelterView(view))
}

// @Summary Delete shelter
// @Description Delete a shelter with no active reservations (admin)
// @Tags shelters
// @Produce json
// @Security BearerAuth
// @Param id path string true "Shelter ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /shelters/{id} [delete]
func (h *ShelterHandler) DeleteShelter(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid shelter ID format", nil)
		return
	}

	if err := h.shelterUseCase.Delete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, commands.ErrShelterNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Shelter not found", nil)
		case errors.Is(err, commands.ErrShelterHasActiveReservations):
			httperr.AbortWithError(c, http.StatusConflict, err, "Shelter has active reservations", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}
