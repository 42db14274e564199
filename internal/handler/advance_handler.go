package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/maher-jaber/rh-altra-api/internal/dto"
	"github.com/maher-jaber/rh-altra-api/internal/models"
	"github.com/maher-jaber/rh-altra-api/internal/service"
	appErrors "github.com/maher-jaber/rh-altra-api/pkg/errors"
	"github.com/maher-jaber/rh-altra-api/pkg/response"
)

// AdvanceHandler exposes REST endpoints for salary advance requests.
type AdvanceHandler struct {
	advances *service.AdvanceService
	approval *service.ApprovalService
	audit    *service.AuditTrail
	validate *validator.Validate
}

// NewAdvanceHandler constructs the handler.
func NewAdvanceHandler(advances *service.AdvanceService, approval *service.ApprovalService, audit *service.AuditTrail, validate *validator.Validate) *AdvanceHandler {
	if validate == nil {
		validate = service.NewValidator()
	}
	return &AdvanceHandler{advances: advances, approval: approval, audit: audit, validate: validate}
}

// Create godoc
// @Summary Create a draft salary advance request
// @Tags Advances
// @Accept json
// @Produce json
// @Param payload body dto.CreateAdvanceRequest true "Advance payload"
// @Success 201 {object} response.Envelope
// @Router /advances [post]
func (h *AdvanceHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CreateAdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid advance payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid advance payload"))
		return
	}
	advance, err := h.advances.Create(c.Request.Context(), claims, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, advance)
}

// List godoc
// @Summary List advance requests visible to the caller
// @Tags Advances
// @Produce json
// @Param status query string false "Status filter"
// @Success 200 {object} response.Envelope
// @Router /advances [get]
func (h *AdvanceHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var query dto.AdvanceQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid advance query"))
		return
	}
	advances, err := h.advances.List(c.Request.Context(), claims, &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, advances, nil)
}

// Get godoc
// @Summary Get advance request detail
// @Tags Advances
// @Produce json
// @Param id path string true "Advance request ID"
// @Success 200 {object} response.Envelope
// @Router /advances/{id} [get]
func (h *AdvanceHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	advance, err := h.advances.Get(c.Request.Context(), claims, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, advance, nil)
}

// Submit godoc
// @Summary Submit a draft advance request for approval
// @Tags Advances
// @Produce json
// @Param id path string true "Advance request ID"
// @Success 204
// @Router /advances/{id}/submit [post]
func (h *AdvanceHandler) Submit(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.approval.Submit(c.Request.Context(), models.KindAdvance, c.Param("id"), claims); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Cancel godoc
// @Summary Cancel an own draft or submitted advance request
// @Tags Advances
// @Produce json
// @Param id path string true "Advance request ID"
// @Success 204
// @Router /advances/{id}/cancel [post]
func (h *AdvanceHandler) Cancel(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.approval.Cancel(c.Request.Context(), models.KindAdvance, c.Param("id"), claims); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Decide godoc
// @Summary Record the terminal manager-tier decision
// @Tags Advances
// @Accept json
// @Produce json
// @Param id path string true "Advance request ID"
// @Param payload body dto.DecisionRequest true "Decision"
// @Success 204
// @Router /advances/{id}/decision [post]
func (h *AdvanceHandler) Decide(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid decision payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "decision must be APPROVE or REJECT"))
		return
	}
	err := h.approval.ManagerDecide(c.Request.Context(), models.KindAdvance, c.Param("id"), claims, models.Decision(req.Decision), req.Comment)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Audit godoc
// @Summary List the audit trail for an advance request
// @Tags Advances
// @Produce json
// @Param id path string true "Advance request ID"
// @Success 200 {object} response.Envelope
// @Router /advances/{id}/audit [get]
func (h *AdvanceHandler) Audit(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if _, err := h.advances.Get(c.Request.Context(), claims, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	entries, err := h.audit.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}
