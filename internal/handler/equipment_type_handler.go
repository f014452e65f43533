package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-medios/av-booking-api/internal/service"
	appErrors "github.com/campus-medios/av-booking-api/pkg/errors"
	"github.com/campus-medios/av-booking-api/pkg/response"
)

// EquipmentTypeHandler manages the tipos_equipo catalog endpoints.
type EquipmentTypeHandler struct {
	service *service.EquipmentTypeService
}

// NewEquipmentTypeHandler constructs handler.
func NewEquipmentTypeHandler(svc *service.EquipmentTypeService) *EquipmentTypeHandler {
	return &EquipmentTypeHandler{service: svc}
}

// List godoc
// @Summary List equipment types
// @Tags TiposEquipo
// @Produce json
// @Param include_inactive query bool false "Include deactivated types"
// @Success 200 {object} response.Envelope
// @Router /tipos-equipo [get]
func (h *EquipmentTypeHandler) List(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"
	types, err := h.service.List(c.Request.Context(), includeInactive)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, types, nil)
}

// Get godoc
// @Summary Get equipment type
// @Tags TiposEquipo
// @Produce json
// @Param clave path string true "Type key"
// @Success 200 {object} response.Envelope
// @Router /tipos-equipo/{clave} [get]
func (h *EquipmentTypeHandler) Get(c *gin.Context) {
	t, err := h.service.Get(c.Request.Context(), c.Param("clave"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, t, nil)
}

// Create godoc
// @Summary Create equipment type
// @Tags TiposEquipo
// @Accept json
// @Produce json
// @Param payload body service.EquipmentTypeInput true "Type payload"
// @Success 201 {object} response.Envelope
// @Router /tipos-equipo [post]
func (h *EquipmentTypeHandler) Create(c *gin.Context) {
	var input service.EquipmentTypeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	t, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, t)
}

// Update godoc
// @Summary Update equipment type
// @Tags TiposEquipo
// @Accept json
// @Produce json
// @Param clave path string true "Type key"
// @Param payload body service.EquipmentTypeInput true "Type payload"
// @Success 200 {object} response.Envelope
// @Router /tipos-equipo/{clave} [put]
func (h *EquipmentTypeHandler) Update(c *gin.Context) {
	var input service.EquipmentTypeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	t, err := h.service.Update(c.Request.Context(), c.Param("clave"), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, t, nil)
}

// Reorder godoc
// @Summary Reorder equipment types
// @Tags TiposEquipo
// @Accept json
// @Success 204
// @Router /tipos-equipo/reorder [put]
func (h *EquipmentTypeHandler) Reorder(c *gin.Context) {
	var payload struct {
		Claves []string `json:"claves"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.service.Reorder(c.Request.Context(), payload.Claves); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Delete godoc
// @Summary Delete equipment type
// @Tags TiposEquipo
// @Param clave path string true "Type key"
// @Success 204
// @Router /tipos-equipo/{clave} [delete]
func (h *EquipmentTypeHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("clave")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
