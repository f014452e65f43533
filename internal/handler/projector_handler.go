package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-medios/av-booking-api/internal/service"
	appErrors "github.com/campus-medios/av-booking-api/pkg/errors"
	"github.com/campus-medios/av-booking-api/pkg/response"
)

// ProjectorHandler manages videoproyector catalog endpoints.
type ProjectorHandler struct {
	service *service.ProjectorService
}

// NewProjectorHandler constructs handler.
func NewProjectorHandler(svc *service.ProjectorService) *ProjectorHandler {
	return &ProjectorHandler{service: svc}
}

// List godoc
// @Summary List projectors
// @Tags Videoproyectores
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /videoproyectores [get]
func (h *ProjectorHandler) List(c *gin.Context) {
	projectors, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, projectors, nil)
}

// Get godoc
// @Summary Get projector
// @Tags Videoproyectores
// @Produce json
// @Param id path int true "Projector ID"
// @Success 200 {object} response.Envelope
// @Router /videoproyectores/{id} [get]
func (h *ProjectorHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, p, nil)
}

// Create godoc
// @Summary Create projector
// @Tags Videoproyectores
// @Accept json
// @Produce json
// @Param payload body service.ProjectorInput true "Projector payload"
// @Success 201 {object} response.Envelope
// @Router /videoproyectores [post]
func (h *ProjectorHandler) Create(c *gin.Context) {
	var input service.ProjectorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	p, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, p)
}

// Update godoc
// @Summary Update projector
// @Tags Videoproyectores
// @Accept json
// @Produce json
// @Param id path int true "Projector ID"
// @Param payload body service.ProjectorInput true "Projector payload"
// @Success 200 {object} response.Envelope
// @Router /videoproyectores/{id} [put]
func (h *ProjectorHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var input service.ProjectorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	p, err := h.service.Update(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, p, nil)
}

// SetEstado godoc
// @Summary Change projector availability state
// @Tags Videoproyectores
// @Accept json
// @Produce json
// @Param id path int true "Projector ID"
// @Success 200 {object} response.Envelope
// @Router /videoproyectores/{id}/estado [put]
func (h *ProjectorHandler) SetEstado(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var payload struct {
		Estado string `json:"estado"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	p, err := h.service.SetEstado(c.Request.Context(), id, payload.Estado)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, p, nil)
}

// Delete godoc
// @Summary Delete projector
// @Tags Videoproyectores
// @Param id path int true "Projector ID"
// @Success 204
// @Router /videoproyectores/{id} [delete]
func (h *ProjectorHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
