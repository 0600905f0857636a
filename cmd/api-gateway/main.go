package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/sma-dash-api/api/swagger"
	"github.com/noah-isme/sma-dash-api/internal/handler"
	"github.com/noah-isme/sma-dash-api/internal/middleware"
	"github.com/noah-isme/sma-dash-api/internal/models"
	"github.com/noah-isme/sma-dash-api/internal/service"
	"github.com/noah-isme/sma-dash-api/internal/sheets"
	"github.com/noah-isme/sma-dash-api/pkg/cache"
	"github.com/noah-isme/sma-dash-api/pkg/config"
	"github.com/noah-isme/sma-dash-api/pkg/export"
	"github.com/noah-isme/sma-dash-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-dash-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-dash-api/pkg/middleware/requestid"
)

// @title SMA Dashboard API
// @version 0.1.0
// @description Aggregation gateway over the spreadsheet-backed school data API
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		} else {
			store := cache.NewRedisStore(redisClient, logr)
			cacheSvc = service.NewCacheService(store, metricsSvc, cfg.Cache.DefaultTTL, logr, true)
		}
	}

	sheetsClient := sheets.NewClient(cfg.Sheets, logr, metricsSvc)

	gamificationSvc := service.NewGamificationService(sheetsClient, validate, logr, service.GamificationServiceConfig{
		BulkConcurrency: cfg.Bulk.Concurrency,
	})
	attendanceSvc := service.NewAttendanceService(sheetsClient, cacheSvc, validate, logr, service.AttendanceServiceConfig{
		RecapTTL: cfg.Cache.RecapTTL,
	})
	assignmentSvc := service.NewAssignmentService(sheetsClient, validate, logr)
	gradeSvc := service.NewGradeService(sheetsClient, assignmentSvc, validate, logr)
	exportSvc := service.NewExportService(sheetsClient, gradeSvc, logr,
		&export.XLSXExporter{SheetName: cfg.Export.SheetName, SummaryName: cfg.Export.SummaryName},
		export.NewCSVExporter(),
		export.NewPDFExporter(),
	)
	dashboardSvc := service.NewDashboardService(sheetsClient, gamificationSvc, attendanceSvc, assignmentSvc, cacheSvc, logr, service.DashboardServiceConfig{
		CacheTTL:       cfg.Dashboard.CacheTTL,
		LeaderboardMax: cfg.Dashboard.LeaderboardMax,
	})

	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	gamificationHandler := handler.NewGamificationHandler(gamificationSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	assignmentHandler := handler.NewAssignmentHandler(assignmentSvc)
	gradeHandler := handler.NewGradeHandler(gradeSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	tokenValidator := middleware.NewTokenValidator(cfg.JWT.Secret)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if _, err := sheetsClient.Classes(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "upstream": "unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(tokenValidator))
	{
		api.GET("/dashboard", dashboardHandler.Summary)

		gam := api.Group("/gamification")
		{
			gam.GET("/students", gamificationHandler.Students)
			gam.GET("/leaderboard", gamificationHandler.Leaderboard)
			gam.GET("/badges", gamificationHandler.Badges)
			adminOnly := middleware.RequireRoles(models.RoleAdmin)
			gam.POST("/badges", adminOnly, gamificationHandler.CreateBadge)
			gam.PUT("/badges/:id", adminOnly, gamificationHandler.UpdateBadge)
			gam.DELETE("/badges/:id", adminOnly, gamificationHandler.DeleteBadge)
			gam.GET("/badges/:id/recipients", gamificationHandler.BadgeRecipients)
			gam.GET("/levels", gamificationHandler.Levels)
			gam.GET("/challenges", gamificationHandler.Challenges)
			gam.POST("/awards/points", gamificationHandler.AwardPoints)
			gam.POST("/awards/badges", gamificationHandler.AwardBadge)
		}

		att := api.Group("/attendance")
		{
			att.GET("", attendanceHandler.List)
			att.PUT("", attendanceHandler.Save)
			att.GET("/stats", attendanceHandler.Global)
			att.GET("/recap", attendanceHandler.Recaps)
			att.GET("/daily-status", attendanceHandler.DailyStatus)
		}

		asg := api.Group("/assignments")
		{
			asg.GET("", assignmentHandler.List)
			asg.POST("", assignmentHandler.Create)
			asg.GET("/:id", assignmentHandler.Get)
			asg.DELETE("/:id", assignmentHandler.Delete)
			asg.POST("/:id/complete", assignmentHandler.Complete)
			asg.GET("/:id/grades", gradeHandler.ListByAssignment)
		}

		api.POST("/grades", gradeHandler.Save)
		api.DELETE("/grades/:id", gradeHandler.Delete)

		api.GET("/reports/export", exportHandler.Download)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
