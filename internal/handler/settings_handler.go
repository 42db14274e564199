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

// SettingsHandler exposes workflow configuration endpoints.
type SettingsHandler struct {
	settings *service.SettingsService
	validate *validator.Validate
}

// NewSettingsHandler constructs the handler.
func NewSettingsHandler(settings *service.SettingsService, validate *validator.Validate) *SettingsHandler {
	if validate == nil {
		validate = service.NewValidator()
	}
	return &SettingsHandler{settings: settings, validate: validate}
}

// Get godoc
// @Summary Return the effective workflow settings snapshot
// @Tags Settings
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /settings/workflow [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	snapshot := h.settings.Snapshot(c.Request.Context())
	response.JSON(c, http.StatusOK, snapshot, nil)
}

// Update godoc
// @Summary Replace the workflow settings
// @Tags Settings
// @Accept json
// @Produce json
// @Param payload body dto.UpdateWorkflowSettingsRequest true "Settings"
// @Success 200 {object} response.Envelope
// @Router /settings/workflow [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	var req dto.UpdateWorkflowSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid settings payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid settings payload"))
		return
	}
	settings := models.WorkflowSettings{
		WeekendDays:  req.WeekendDays,
		EmailPrefs:   req.EmailPrefs,
		ExitMaxHours: req.ExitMaxHours,
	}
	if err := h.settings.Update(c.Request.Context(), settings); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, h.settings.Snapshot(c.Request.Context()), nil)
}
