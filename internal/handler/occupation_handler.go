package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-medios/av-booking-api/internal/service"
	appErrors "github.com/campus-medios/av-booking-api/pkg/errors"
	"github.com/campus-medios/av-booking-api/pkg/response"
)

// OccupationHandler manages the special-occupation ledger endpoints.
type OccupationHandler struct {
	service *service.OccupationService
}

// NewOccupationHandler constructs handler.
func NewOccupationHandler(svc *service.OccupationService) *OccupationHandler {
	return &OccupationHandler{service: svc}
}

// List godoc
// @Summary List special occupations
// @Tags OcupacionesEspeciales
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /ocupaciones-especiales [get]
func (h *OccupationHandler) List(c *gin.Context) {
	entries, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// Create godoc
// @Summary Block a resource with a special occupation
// @Tags OcupacionesEspeciales
// @Accept json
// @Produce json
// @Param payload body service.OccupationInput true "Occupation payload"
// @Success 201 {object} response.Envelope
// @Router /ocupaciones-especiales [post]
func (h *OccupationHandler) Create(c *gin.Context) {
	var input service.OccupationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	entry, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// SetActive godoc
// @Summary Toggle a special occupation
// @Tags OcupacionesEspeciales
// @Accept json
// @Produce json
// @Param id path int true "Occupation ID"
// @Success 200 {object} response.Envelope
// @Router /ocupaciones-especiales/{id}/activa [put]
func (h *OccupationHandler) SetActive(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var payload struct {
		Activa *bool `json:"activa" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	entry, err := h.service.SetActive(c.Request.Context(), id, *payload.Activa)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// Delete godoc
// @Summary Delete special occupation
// @Tags OcupacionesEspeciales
// @Param id path int true "Occupation ID"
// @Success 204
// @Router /ocupaciones-especiales/{id} [delete]
func (h *OccupationHandler) Delete(c *gin.Context) {
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
