package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-dash-api/internal/models"
	"github.com/noah-isme/sma-dash-api/internal/service"
	appErrors "github.com/noah-isme/sma-dash-api/pkg/errors"
	"github.com/noah-isme/sma-dash-api/pkg/response"
)

type gamificationService interface {
	Views(ctx context.Context, classID string) ([]models.StudentView, error)
	Badges(ctx context.Context) ([]models.Badge, error)
	CreateBadge(ctx context.Context, req service.BadgeRequest) (models.Badge, error)
	UpdateBadge(ctx context.Context, id string, req service.BadgeRequest) error
	DeleteBadge(ctx context.Context, id string) error
	BadgeRecipients(ctx context.Context, badgeID string) (models.Badge, []models.StudentView, error)
	Levels(ctx context.Context) ([]models.Level, error)
	Challenges(ctx context.Context) ([]models.Challenge, error)
	AwardPoints(ctx context.Context, req service.BulkAwardRequest) (*service.BulkAwardResult, error)
	AwardBadge(ctx context.Context, req service.BulkBadgeRequest) (*service.BulkAwardResult, error)
}

// GamificationHandler wires gamification views and awards to HTTP.
type GamificationHandler struct {
	service gamificationService
}

// NewGamificationHandler constructs the handler.
func NewGamificationHandler(service gamificationService) *GamificationHandler {
	return &GamificationHandler{service: service}
}

// Students godoc
// @Summary Reconciled student gamification views
// @Tags Gamification
// @Produce json
// @Param classId query string false "Class ID filter"
// @Success 200 {object} response.Envelope
// @Router /gamification/students [get]
func (h *GamificationHandler) Students(c *gin.Context) {
	classID := strings.TrimSpace(c.Query("classId"))
	views, err := h.service.Views(c.Request.Context(), classID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, views, nil)
}

// Leaderboard godoc
// @Summary Points leaderboard
// @Tags Gamification
// @Produce json
// @Param classId query string false "Class ID filter"
// @Param limit query int false "Maximum entries (default 10)"
// @Success 200 {object} response.Envelope
// @Router /gamification/leaderboard [get]
func (h *GamificationHandler) Leaderboard(c *gin.Context) {
	classID := strings.TrimSpace(c.Query("classId"))
	limit := 10
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "limit must be a positive integer"))
			return
		}
		limit = parsed
	}
	views, err := h.service.Views(c.Request.Context(), classID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, service.Leaderboard(views, limit), nil)
}

// Badges godoc
// @Summary Badge catalogue
// @Tags Gamification
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /gamification/badges [get]
func (h *GamificationHandler) Badges(c *gin.Context) {
	badges, err := h.service.Badges(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, badges, nil)
}

// CreateBadge godoc
// @Summary Create a badge definition
// @Tags Gamification
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /gamification/badges [post]
func (h *GamificationHandler) CreateBadge(c *gin.Context) {
	var req service.BadgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	badge, err := h.service.CreateBadge(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, badge)
}

// UpdateBadge godoc
// @Summary Update a badge definition
// @Tags Gamification
// @Accept json
// @Produce json
// @Param id path string true "Badge ID"
// @Success 204
// @Router /gamification/badges/{id} [put]
func (h *GamificationHandler) UpdateBadge(c *gin.Context) {
	var req service.BadgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	if err := h.service.UpdateBadge(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// DeleteBadge godoc
// @Summary Delete a badge definition
// @Tags Gamification
// @Param id path string true "Badge ID"
// @Success 204
// @Router /gamification/badges/{id} [delete]
func (h *GamificationHandler) DeleteBadge(c *gin.Context) {
	if err := h.service.DeleteBadge(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// BadgeRecipients godoc
// @Summary Students holding a badge
// @Tags Gamification
// @Produce json
// @Param id path string true "Badge ID"
// @Success 200 {object} response.Envelope
// @Router /gamification/badges/{id}/recipients [get]
func (h *GamificationHandler) BadgeRecipients(c *gin.Context) {
	badge, recipients, err := h.service.BadgeRecipients(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"badge": badge, "recipients": recipients}, nil)
}

// Levels godoc
// @Summary Level table
// @Tags Gamification
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /gamification/levels [get]
func (h *GamificationHandler) Levels(c *gin.Context) {
	levels, err := h.service.Levels(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, levels, nil)
}

// Challenges godoc
// @Summary Challenge catalogue
// @Tags Gamification
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /gamification/challenges [get]
func (h *GamificationHandler) Challenges(c *gin.Context) {
	challenges, err := h.service.Challenges(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, challenges, nil)
}

// AwardPoints godoc
// @Summary Bulk point award
// @Tags Gamification
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /gamification/awards/points [post]
func (h *GamificationHandler) AwardPoints(c *gin.Context) {
	var req service.BulkAwardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	result, err := h.service.AwardPoints(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// AwardBadge godoc
// @Summary Bulk badge award
// @Tags Gamification
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /gamification/awards/badges [post]
func (h *GamificationHandler) AwardBadge(c *gin.Context) {
	var req service.BulkBadgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	result, err := h.service.AwardBadge(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
