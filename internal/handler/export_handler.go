package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/dto"
	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/models"
	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/service"
	appErrors "github.com/Prathams-org/AI-in-Edutech-sub000/pkg/errors"
	"github.com/Prathams-org/AI-in-Edutech-sub000/pkg/response"
)

type rosterExportService interface {
	RequestExport(ctx context.Context, actor models.Actor, slug, rawFormat string) (*models.RosterExport, error)
	GetExport(ctx context.Context, actor models.Actor, id string) (*models.RosterExport, error)
	ResolveDownload(ctx context.Context, token string) (*service.RosterDownload, error)
}

// ExportHandler exposes asynchronous roster exports.
type ExportHandler struct {
	exports      rosterExportService
	downloadBase string
}

// NewExportHandler constructs the handler. downloadBase prefixes the token in download links.
func NewExportHandler(exports rosterExportService, downloadBase string) *ExportHandler {
	return &ExportHandler{exports: exports, downloadBase: strings.TrimRight(downloadBase, "/")}
}

// Request godoc
// @Summary Queue a roster export
// @Tags Exports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Classroom slug"
// @Param payload body dto.RosterExportRequest true "Format (csv or pdf)"
// @Success 202 {object} map[string]interface{}
// @Failure 400 {object} response.Failure
// @Router /classrooms/{slug}/exports [post]
func (h *ExportHandler) Request(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req dto.RosterExportRequest
	if !bindJSON(c, &req, "invalid export payload") {
		return
	}
	record, err := h.exports.RequestExport(c.Request.Context(), actor, c.Param("slug"), req.Format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusAccepted, gin.H{"export": record})
}

// Status godoc
// @Summary Get roster export status
// @Tags Exports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Export ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} response.Failure
// @Router /exports/{id} [get]
func (h *ExportHandler) Status(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	record, err := h.exports.GetExport(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	payload := gin.H{"export": record}
	if record.Status == models.ExportStatusFinished && record.ResultToken != "" {
		payload["downloadUrl"] = h.downloadBase + "/" + record.ResultToken
	}
	response.OK(c, payload)
}

// Download godoc
// @Summary Download a finished roster export via signed token
// @Tags Exports
// @Produce octet-stream
// @Param token path string true "Signed download token"
// @Success 200 {file} file
// @Failure 403 {object} response.Failure
// @Router /exports/download/{token} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	result, err := h.exports.ResolveDownload(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer result.File.Close() //nolint:errcheck

	size := int64(-1)
	if info, err := result.File.Stat(); err == nil {
		size = info.Size()
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", result.Filename))
	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, size, result.ContentType, result.File, nil)
}
