package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-medios/av-booking-api/internal/service"
	appErrors "github.com/campus-medios/av-booking-api/pkg/errors"
	"github.com/campus-medios/av-booking-api/pkg/response"
)

// EquipmentHandler manages equipo catalog endpoints.
type EquipmentHandler struct {
	service *service.EquipmentService
}

// NewEquipmentHandler constructs handler.
func NewEquipmentHandler(svc *service.EquipmentService) *EquipmentHandler {
	return &EquipmentHandler{service: svc}
}

// List godoc
// @Summary List equipment
// @Tags Equipos
// @Produce json
// @Param tipo query string false "Filter by equipment type key"
// @Success 200 {object} response.Envelope
// @Router /equipos [get]
func (h *EquipmentHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), c.Query("tipo"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Get godoc
// @Summary Get equipment item
// @Tags Equipos
// @Produce json
// @Param id path int true "Equipment ID"
// @Success 200 {object} response.Envelope
// @Router /equipos/{id} [get]
func (h *EquipmentHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	item, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Create godoc
// @Summary Create equipment item
// @Tags Equipos
// @Accept json
// @Produce json
// @Param payload body service.EquipmentInput true "Equipment payload"
// @Success 201 {object} response.Envelope
// @Router /equipos [post]
func (h *EquipmentHandler) Create(c *gin.Context) {
	var input service.EquipmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	item, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Update equipment item
// @Tags Equipos
// @Accept json
// @Produce json
// @Param id path int true "Equipment ID"
// @Param payload body service.EquipmentInput true "Equipment payload"
// @Success 200 {object} response.Envelope
// @Router /equipos/{id} [put]
func (h *EquipmentHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var input service.EquipmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	item, err := h.service.Update(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// SetEstado godoc
// @Summary Change equipment availability state
// @Tags Equipos
// @Accept json
// @Produce json
// @Param id path int true "Equipment ID"
// @Success 200 {object} response.Envelope
// @Router /equipos/{id}/estado [put]
func (h *EquipmentHandler) SetEstado(c *gin.Context) {
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
	item, err := h.service.SetEstado(c.Request.Context(), id, payload.Estado)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Delete godoc
// @Summary Delete equipment item
// @Tags Equipos
// @Param id path int true "Equipment ID"
// @Success 204
// @Router /equipos/{id} [delete]
func (h *EquipmentHandler) Delete(c *gin.Context) {
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
