package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-dash-api/internal/service"
	"github.com/noah-isme/sma-dash-api/pkg/response"
)

type exportService interface {
	Generate(ctx context.Context, req service.ExportRequest) (*service.ExportArtifact, error)
}

// ExportHandler streams rendered reports as downloads.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(service exportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// Download godoc
// @Summary Export a report as xlsx, csv or pdf
// @Tags Reports
// @Produce application/octet-stream
// @Param type query string true "Report type (grades, attendance, recap)"
// @Param format query string false "Format (xlsx, csv, pdf). Defaults to xlsx"
// @Param assignmentId query string false "Assignment ID, required for grade reports"
// @Param classId query string false "Class ID filter for attendance reports"
// @Success 200 {file} binary
// @Router /reports/export [get]
func (h *ExportHandler) Download(c *gin.Context) {
	req := service.ExportRequest{
		Type:         service.ReportType(strings.TrimSpace(c.Query("type"))),
		Format:       service.ReportFormat(strings.TrimSpace(c.Query("format"))),
		AssignmentID: strings.TrimSpace(c.Query("assignmentId")),
		ClassID:      strings.TrimSpace(c.Query("classId")),
	}
	artifact, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	c.Header("X-Export-ID", artifact.ID)
	c.Data(http.StatusOK, artifact.ContentType, artifact.Payload)
}
