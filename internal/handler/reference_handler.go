package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/maher-jaber/rh-altra-api/internal/dto"
	"github.com/maher-jaber/rh-altra-api/internal/service"
	appErrors "github.com/maher-jaber/rh-altra-api/pkg/errors"
	"github.com/maher-jaber/rh-altra-api/pkg/response"
)

// ReferenceHandler exposes admin endpoints for leave types and the holiday
// calendar.
type ReferenceHandler struct {
	reference *service.ReferenceService
	validate  *validator.Validate
}

// NewReferenceHandler constructs the handler.
func NewReferenceHandler(reference *service.ReferenceService, validate *validator.Validate) *ReferenceHandler {
	if validate == nil {
		validate = service.NewValidator()
	}
	return &ReferenceHandler{reference: reference, validate: validate}
}

// ListLeaveTypes godoc
// @Summary List leave types
// @Tags Reference
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /leave-types [get]
func (h *ReferenceHandler) ListLeaveTypes(c *gin.Context) {
	types, err := h.reference.ListLeaveTypes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, types, nil)
}

// UpsertLeaveType godoc
// @Summary Create or update a leave type
// @Tags Reference
// @Accept json
// @Produce json
// @Param payload body dto.UpsertLeaveTypeRequest true "Leave type"
// @Success 200 {object} response.Envelope
// @Router /leave-types [put]
func (h *ReferenceHandler) UpsertLeaveType(c *gin.Context) {
	var req dto.UpsertLeaveTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid leave type payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid leave type payload"))
		return
	}
	leaveType, err := h.reference.UpsertLeaveType(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, leaveType, nil)
}

// ListHolidays godoc
// @Summary List the holiday calendar
// @Tags Reference
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /holidays [get]
func (h *ReferenceHandler) ListHolidays(c *gin.Context) {
	holidays, err := h.reference.ListHolidays(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, holidays, nil)
}

// CreateHoliday godoc
// @Summary Register a non-working date
// @Tags Reference
// @Accept json
// @Produce json
// @Param payload body dto.CreateHolidayRequest true "Holiday"
// @Success 201 {object} response.Envelope
// @Router /holidays [post]
func (h *ReferenceHandler) CreateHoliday(c *gin.Context) {
	var req dto.CreateHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid holiday payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid holiday payload"))
		return
	}
	holiday, err := h.reference.CreateHoliday(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, holiday)
}

// DeleteHoliday godoc
// @Summary Remove a holiday
// @Tags Reference
// @Produce json
// @Param id path string true "Holiday ID"
// @Success 204
// @Router /holidays/{id} [delete]
func (h *ReferenceHandler) DeleteHoliday(c *gin.Context) {
	if err := h.reference.DeleteHoliday(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
