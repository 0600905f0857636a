package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-dash-api/internal/middleware"
	"github.com/noah-isme/sma-dash-api/internal/models"
	"github.com/noah-isme/sma-dash-api/internal/service"
	appErrors "github.com/noah-isme/sma-dash-api/pkg/errors"
	"github.com/noah-isme/sma-dash-api/pkg/response"
)

type attendanceService interface {
	Global(ctx context.Context) (*models.AttendanceGlobalStats, error)
	Recaps(ctx context.Context) ([]models.ClassAttendanceRecap, bool, error)
	ClassDailyStatus(ctx context.Context, classID, date string) (*models.ClassDailyStatus, error)
	ListByClassDate(ctx context.Context, classID, date string) ([]models.AttendanceRecord, error)
	Save(ctx context.Context, req service.SaveRequest) error
}

// AttendanceHandler wires attendance aggregation to HTTP.
type AttendanceHandler struct {
	service attendanceService
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(service attendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: service}
}

// Global godoc
// @Summary All-time attendance statistics
// @Tags Attendance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /attendance/stats [get]
func (h *AttendanceHandler) Global(c *gin.Context) {
	stats, err := h.service.Global(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// Recaps godoc
// @Summary Per-class attendance recap
// @Tags Attendance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /attendance/recap [get]
func (h *AttendanceHandler) Recaps(c *gin.Context) {
	start := time.Now()
	recaps, cacheHit, err := h.service.Recaps(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, recaps, nil, meta)
}

// DailyStatus godoc
// @Summary Recording completeness for one class and date
// @Tags Attendance
// @Produce json
// @Param classId query string true "Class ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /attendance/daily-status [get]
func (h *AttendanceHandler) DailyStatus(c *gin.Context) {
	classID := strings.TrimSpace(c.Query("classId"))
	date := strings.TrimSpace(c.Query("date"))
	status, err := h.service.ClassDailyStatus(c.Request.Context(), classID, date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}

// List godoc
// @Summary Raw attendance rows for one class and date
// @Tags Attendance
// @Produce json
// @Param classId query string true "Class ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /attendance [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	classID := strings.TrimSpace(c.Query("classId"))
	date := strings.TrimSpace(c.Query("date"))
	records, err := h.service.ListByClassDate(c.Request.Context(), classID, date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// Save godoc
// @Summary Record attendance for one class and date
// @Tags Attendance
// @Accept json
// @Produce json
// @Success 204
// @Router /attendance [put]
func (h *AttendanceHandler) Save(c *gin.Context) {
	var req service.SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	if err := h.service.Save(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
