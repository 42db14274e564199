package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/maher-jaber/rh-altra-api/internal/dto"
	"github.com/maher-jaber/rh-altra-api/internal/models"
	"github.com/maher-jaber/rh-altra-api/internal/service"
	appErrors "github.com/maher-jaber/rh-altra-api/pkg/errors"
	"github.com/maher-jaber/rh-altra-api/pkg/response"
)

// LeaveHandler exposes REST endpoints for the dual-tier leave workflow.
type LeaveHandler struct {
	leaves   *service.LeaveService
	approval *service.ApprovalService
	archives *service.ArchiveService
	audit    *service.AuditTrail
	validate *validator.Validate
}

// NewLeaveHandler constructs the handler.
func NewLeaveHandler(leaves *service.LeaveService, approval *service.ApprovalService, archives *service.ArchiveService, audit *service.AuditTrail, validate *validator.Validate) *LeaveHandler {
	if validate == nil {
		validate = service.NewValidator()
	}
	return &LeaveHandler{leaves: leaves, approval: approval, archives: archives, audit: audit, validate: validate}
}

// Create godoc
// @Summary Create a draft leave request
// @Tags Leaves
// @Accept json
// @Produce json
// @Param payload body dto.CreateLeaveRequest true "Leave payload"
// @Success 201 {object} response.Envelope
// @Router /leaves [post]
func (h *LeaveHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid leave payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid leave payload"))
		return
	}
	leave, err := h.leaves.Create(c.Request.Context(), claims, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, leave)
}

// List godoc
// @Summary List leave requests visible to the caller
// @Tags Leaves
// @Produce json
// @Param status query string false "Status filter"
// @Param leave_type_id query string false "Leave type filter"
// @Param year query int false "Year filter"
// @Success 200 {object} response.Envelope
// @Router /leaves [get]
func (h *LeaveHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var query dto.LeaveQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid leave query"))
		return
	}
	leaves, err := h.leaves.List(c.Request.Context(), claims, &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, leaves, nil)
}

// ListOwn godoc
// @Summary List the caller's own leave requests
// @Tags Leaves
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /leaves/mine [get]
func (h *LeaveHandler) ListOwn(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var query dto.LeaveQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid leave query"))
		return
	}
	leaves, err := h.leaves.ListOwn(c.Request.Context(), claims, &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, leaves, nil)
}

// Get godoc
// @Summary Get leave request detail
// @Tags Leaves
// @Produce json
// @Param id path string true "Leave request ID"
// @Success 200 {object} response.Envelope
// @Router /leaves/{id} [get]
func (h *LeaveHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	leave, err := h.leaves.Get(c.Request.Context(), claims, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, leave, nil)
}

// Submit godoc
// @Summary Submit a draft leave request for approval
// @Tags Leaves
// @Produce json
// @Param id path string true "Leave request ID"
// @Success 204
// @Router /leaves/{id}/submit [post]
func (h *LeaveHandler) Submit(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.approval.Submit(c.Request.Context(), models.KindLeave, c.Param("id"), claims); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Cancel godoc
// @Summary Cancel an own draft or submitted leave request
// @Tags Leaves
// @Produce json
// @Param id path string true "Leave request ID"
// @Success 204
// @Router /leaves/{id}/cancel [post]
func (h *LeaveHandler) Cancel(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.approval.Cancel(c.Request.Context(), models.KindLeave, c.Param("id"), claims); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ManagerDecide godoc
// @Summary Record the manager-tier decision
// @Tags Leaves
// @Accept json
// @Produce json
// @Param id path string true "Leave request ID"
// @Param payload body dto.DecisionRequest true "Decision"
// @Success 204
// @Router /leaves/{id}/decision [post]
func (h *LeaveHandler) ManagerDecide(c *gin.Context) {
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
	err := h.approval.ManagerDecide(c.Request.Context(), models.KindLeave, c.Param("id"), claims, models.Decision(req.Decision), req.Comment)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// FinalDecide godoc
// @Summary Record the administrative sign-off
// @Tags Leaves
// @Accept json
// @Produce json
// @Param id path string true "Leave request ID"
// @Param payload body dto.FinalDecisionRequest true "Final decision"
// @Success 204
// @Router /leaves/{id}/final-decision [post]
func (h *LeaveHandler) FinalDecide(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.FinalDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid decision payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "decision must be APPROVE or REJECT"))
		return
	}
	err := h.approval.FinalDecide(c.Request.Context(), models.KindLeave, c.Param("id"), claims,
		models.Decision(req.Decision), req.Comment, req.SignerName, req.Signature)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AttachCertificate godoc
// @Summary Attach a supporting certificate to an own draft
// @Tags Leaves
// @Accept json
// @Produce json
// @Param id path string true "Leave request ID"
// @Param payload body dto.AttachCertificateRequest true "Certificate path"
// @Success 204
// @Router /leaves/{id}/certificate [put]
func (h *LeaveHandler) AttachCertificate(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.AttachCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid certificate payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "certificate path is required"))
		return
	}
	if err := h.leaves.AttachCertificate(c.Request.Context(), claims, c.Param("id"), req.Path); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Balance godoc
// @Summary Report used and remaining allowance for a type and year
// @Tags Leaves
// @Produce json
// @Param leave_type_id query string true "Leave type"
// @Param year query int false "Year, defaults to current"
// @Success 200 {object} response.Envelope
// @Router /leaves/balance [get]
func (h *LeaveHandler) Balance(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	leaveTypeID := c.Query("leave_type_id")
	if leaveTypeID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "leave_type_id is required"))
		return
	}
	year := time.Now().UTC().Year()
	var query struct {
		Year int `form:"year"`
	}
	if err := c.ShouldBindQuery(&query); err == nil && query.Year > 0 {
		year = query.Year
	}
	balance, err := h.leaves.Balance(c.Request.Context(), claims.UserID, leaveTypeID, year)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, balance, nil)
}

// Audit godoc
// @Summary List the audit trail for a leave request
// @Tags Leaves
// @Produce json
// @Param id path string true "Leave request ID"
// @Success 200 {object} response.Envelope
// @Router /leaves/{id}/audit [get]
func (h *LeaveHandler) Audit(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if _, err := h.leaves.Get(c.Request.Context(), claims, c.Param("id")); err != nil {
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

// ArchiveLink godoc
// @Summary Issue a signed download link for the archived decision document
// @Tags Leaves
// @Produce json
// @Param id path string true "Leave request ID"
// @Success 200 {object} response.Envelope
// @Router /leaves/{id}/archive [get]
func (h *LeaveHandler) ArchiveLink(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if _, err := h.leaves.Get(c.Request.Context(), claims, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	token, expiresAt, err := h.archives.SignedLink(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"token":      token,
		"expires_at": expiresAt,
	}, nil)
}
