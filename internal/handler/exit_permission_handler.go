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

// ExitPermissionHandler exposes REST endpoints for exit permission requests.
type ExitPermissionHandler struct {
	exits    *service.ExitPermissionService
	approval *service.ApprovalService
	audit    *service.AuditTrail
	validate *validator.Validate
}

// NewExitPermissionHandler constructs the handler.
func NewExitPermissionHandler(exits *service.ExitPermissionService, approval *service.ApprovalService, audit *service.AuditTrail, validate *validator.Validate) *ExitPermissionHandler {
	if validate == nil {
		validate = service.NewValidator()
	}
	return &ExitPermissionHandler{exits: exits, approval: approval, audit: audit, validate: validate}
}

// Create godoc
// @Summary Create a draft exit permission
// @Tags ExitPermissions
// @Accept json
// @Produce json
// @Param payload body dto.CreateExitPermissionRequest true "Exit permission payload"
// @Success 201 {object} response.Envelope
// @Router /exit-permissions [post]
func (h *ExitPermissionHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CreateExitPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid exit permission payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid exit permission payload"))
		return
	}
	exit, err := h.exits.Create(c.Request.Context(), claims, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, exit)
}

// List godoc
// @Summary List exit permissions visible to the caller
// @Tags ExitPermissions
// @Produce json
// @Param status query string false "Status filter"
// @Success 200 {object} response.Envelope
// @Router /exit-permissions [get]
func (h *ExitPermissionHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var query dto.ExitPermissionQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid exit permission query"))
		return
	}
	exits, err := h.exits.List(c.Request.Context(), claims, &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, exits, nil)
}

// Get godoc
// @Summary Get exit permission detail
// @Tags ExitPermissions
// @Produce json
// @Param id path string true "Exit permission ID"
// @Success 200 {object} response.Envelope
// @Router /exit-permissions/{id} [get]
func (h *ExitPermissionHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	exit, err := h.exits.Get(c.Request.Context(), claims, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, exit, nil)
}

// Submit godoc
// @Summary Submit a draft exit permission for approval
// @Tags ExitPermissions
// @Produce json
// @Param id path string true "Exit permission ID"
// @Success 204
// @Router /exit-permissions/{id}/submit [post]
func (h *ExitPermissionHandler) Submit(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.approval.Submit(c.Request.Context(), models.KindExitPermission, c.Param("id"), claims); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Cancel godoc
// @Summary Cancel an own draft or submitted exit permission
// @Tags ExitPermissions
// @Produce json
// @Param id path string true "Exit permission ID"
// @Success 204
// @Router /exit-permissions/{id}/cancel [post]
func (h *ExitPermissionHandler) Cancel(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.approval.Cancel(c.Request.Context(), models.KindExitPermission, c.Param("id"), claims); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Decide godoc
// @Summary Record the terminal manager-tier decision
// @Tags ExitPermissions
// @Accept json
// @Produce json
// @Param id path string true "Exit permission ID"
// @Param payload body dto.DecisionRequest true "Decision"
// @Success 204
// @Router /exit-permissions/{id}/decision [post]
func (h *ExitPermissionHandler) Decide(c *gin.Context) {
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
	err := h.approval.ManagerDecide(c.Request.Context(), models.KindExitPermission, c.Param("id"), claims, models.Decision(req.Decision), req.Comment)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Audit godoc
// @Summary List the audit trail for an exit permission
// @Tags ExitPermissions
// @Produce json
// @Param id path string true "Exit permission ID"
// @Success 200 {object} response.Envelope
// @Router /exit-permissions/{id}/audit [get]
func (h *ExitPermissionHandler) Audit(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if _, err := h.exits.Get(c.Request.Context(), claims, c.Param("id")); err != nil {
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
