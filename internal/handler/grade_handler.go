package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-dash-api/internal/dto"
	"github.com/noah-isme/sma-dash-api/internal/service"
	appErrors "github.com/noah-isme/sma-dash-api/pkg/errors"
	"github.com/noah-isme/sma-dash-api/pkg/response"
)

type gradeService interface {
	ListByAssignment(ctx context.Context, assignmentID string) (*dto.GradeListResponse, error)
	Save(ctx context.Context, req service.SaveGradeRequest) (*dto.SaveGradeResponse, error)
	Delete(ctx context.Context, id string) error
}

// GradeHandler wires the gradebook to HTTP.
type GradeHandler struct {
	service gradeService
}

// NewGradeHandler constructs the handler.
func NewGradeHandler(service gradeService) *GradeHandler {
	return &GradeHandler{service: service}
}

// ListByAssignment godoc
// @Summary Grades for one assignment with summary
// @Tags Grades
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Router /assignments/{id}/grades [get]
func (h *GradeHandler) ListByAssignment(c *gin.Context) {
	list, err := h.service.ListByAssignment(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list, nil)
}

// Save godoc
// @Summary Save a grade
// @Tags Grades
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /grades [post]
func (h *GradeHandler) Save(c *gin.Context) {
	var req service.SaveGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	result, err := h.service.Save(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Delete godoc
// @Summary Delete a grade
// @Tags Grades
// @Param id path string true "Grade ID"
// @Success 204
// @Router /grades/{id} [delete]
func (h *GradeHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
