package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campus-medios/av-booking-api/internal/models"
	"github.com/campus-medios/av-booking-api/internal/service"
	appErrors "github.com/campus-medios/av-booking-api/pkg/errors"
	"github.com/campus-medios/av-booking-api/pkg/response"
)

// ReservationHandler manages solicitud endpoints.
type ReservationHandler struct {
	service *service.ReservationService
}

// NewReservationHandler constructs handler.
func NewReservationHandler(svc *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{service: svc}
}

// Create godoc
// @Summary Create reservation with automatic allocation
// @Tags Solicitudes
// @Accept json
// @Produce json
// @Param payload body service.CreateReservationRequest true "Reservation payload"
// @Success 201 {object} response.Envelope
// @Router /solicitudes [post]
func (h *ReservationHandler) Create(c *gin.Context) {
	var req service.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	role := ""
	if claims := claimsFromContext(c); claims != nil {
		role = claims.Role
		if req.IDUsuario == nil && claims.UserID > 0 {
			req.IDUsuario = &claims.UserID
		}
	}

	result, err := h.service.Create(c.Request.Context(), req, role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// List godoc
// @Summary List reservations
// @Tags Solicitudes
// @Produce json
// @Param fecha query string false "Filter by date (YYYY-MM-DD)"
// @Param estado query string false "Filter by state"
// @Param servicio query string false "Filter by service"
// @Param id_usuario query int false "Filter by requester"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /solicitudes [get]
func (h *ReservationHandler) List(c *gin.Context) {
	var filter models.ReservationFilter
	filter.Fecha = c.Query("fecha")
	filter.Servicio = c.Query("servicio")
	if raw := c.Query("estado"); raw != "" {
		estado, ok := models.ParseRequestState(raw)
		if !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrInvalidState, "unknown reservation state"))
			return
		}
		filter.Estado = estado
	}
	if raw := c.Query("id_usuario"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filter.UserID = &id
		}
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = limit
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	reservations, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reservations, pagination)
}

// Get godoc
// @Summary Get reservation
// @Tags Solicitudes
// @Produce json
// @Param id path int true "Reservation ID"
// @Success 200 {object} response.Envelope
// @Router /solicitudes/{id} [get]
func (h *ReservationHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	reservation, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reservation, nil)
}

// Update godoc
// @Summary Update a pending reservation
// @Tags Solicitudes
// @Accept json
// @Produce json
// @Param id path int true "Reservation ID"
// @Param payload body service.UpdateReservationRequest true "Reservation payload"
// @Success 200 {object} response.Envelope
// @Router /solicitudes/{id} [put]
func (h *ReservationHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.UpdateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	reservation, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reservation, nil)
}

// ChangeStatus godoc
// @Summary Change reservation status
// @Tags Solicitudes
// @Accept json
// @Produce json
// @Param id path int true "Reservation ID"
// @Param payload body service.ChangeStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Router /solicitudes/{id}/estado [put]
func (h *ReservationHandler) ChangeStatus(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.ChangeStatus(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Delete godoc
// @Summary Delete a pending reservation
// @Tags Solicitudes
// @Param id path int true "Reservation ID"
// @Success 204
// @Router /solicitudes/{id} [delete]
func (h *ReservationHandler) Delete(c *gin.Context) {
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

// History godoc
// @Summary List reservation status history
// @Tags Solicitudes
// @Produce json
// @Param id path int true "Reservation ID"
// @Success 200 {object} response.Envelope
// @Router /solicitudes/{id}/historial [get]
func (h *ReservationHandler) History(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	records, err := h.service.History(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}
