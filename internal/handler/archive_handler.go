package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maher-jaber/rh-altra-api/internal/service"
	appErrors "github.com/maher-jaber/rh-altra-api/pkg/errors"
	"github.com/maher-jaber/rh-altra-api/pkg/response"
)

// ArchiveHandler serves archived decision documents through signed tokens.
// The download route itself is unauthenticated; possession of a valid
// unexpired token is the credential.
type ArchiveHandler struct {
	archives *service.ArchiveService
}

// NewArchiveHandler constructs the handler.
func NewArchiveHandler(archives *service.ArchiveService) *ArchiveHandler {
	return &ArchiveHandler{archives: archives}
}

// Download godoc
// @Summary Download an archived decision document with a signed token
// @Tags Archives
// @Produce application/pdf
// @Param token query string true "Signed download token"
// @Success 200 {file} binary
// @Router /archives/download [get]
func (h *ArchiveHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	file, archive, err := h.archives.OpenByToken(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", archive.RequestID+".pdf"))
	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Length", fmt.Sprintf("%d", archive.SizeBytes))
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, file)
}
