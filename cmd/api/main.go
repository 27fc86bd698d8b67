package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/omran-academy/academy-api/api/swagger"
	"github.com/omran-academy/academy-api/internal/handler"
	"github.com/omran-academy/academy-api/internal/middleware"
	"github.com/omran-academy/academy-api/internal/models"
	"github.com/omran-academy/academy-api/internal/repository"
	"github.com/omran-academy/academy-api/internal/service"
	"github.com/omran-academy/academy-api/pkg/cache"
	"github.com/omran-academy/academy-api/pkg/config"
	"github.com/omran-academy/academy-api/pkg/database"
	"github.com/omran-academy/academy-api/pkg/export"
	"github.com/omran-academy/academy-api/pkg/jobs"
	"github.com/omran-academy/academy-api/pkg/logger"
	corsmiddleware "github.com/omran-academy/academy-api/pkg/middleware/cors"
	reqidmiddleware "github.com/omran-academy/academy-api/pkg/middleware/requestid"
)

// @title Academy API
// @version 1.0.0
// @description Enrollment and catalog back-office for the language academy
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	sessionRepo := repository.NewSessionRepository(redisClient)
	cacheRepo := repository.NewCacheRepository(redisClient)

	notifier := service.NewQueueNotifier(service.NewLogSink(logr), jobs.QueueConfig{
		Workers:    cfg.Notifications.Workers,
		BufferSize: cfg.Notifications.BufferSize,
		Logger:     logr,
	})
	notifier.Start(context.Background())
	defer notifier.Stop()

	verifier, err := service.NewStaticVerifier(cfg.Admin.Username, cfg.Admin.Password)
	if err != nil {
		logr.Sugar().Fatalw("failed to build credential verifier", "error", err)
	}

	authService := service.NewAuthService(verifier, sessionRepo, nil, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	metricsService := service.NewMetricsService()
	dashboardService := service.NewDashboardService(courseRepo, enrollmentRepo, cacheRepo, metricsService, cfg.Dashboard.CacheTTL, logr)
	catalogService := service.NewCatalogService(courseRepo, dashboardService, nil, logr)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, courseRepo, notifier, dashboardService, nil, logr)
	exportService := service.NewExportService(enrollmentRepo, export.NewCSVExporter(), export.NewPDFExporter(), logr)

	authHandler := handler.NewAuthHandler(authService)
	courseHandler := handler.NewCourseHandler(catalogService)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	exportHandler := handler.NewExportHandler(exportService)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/auth/login", authHandler.Login)
		api.GET("/courses", courseHandler.List)
		api.POST("/enrollments", enrollmentHandler.Create)
		api.GET("/enrollments/lookup", enrollmentHandler.Lookup)

		authed := api.Group("")
		authed.Use(middleware.JWT(authService))
		{
			authed.POST("/auth/logout", authHandler.Logout)
			authed.GET("/auth/me", authHandler.Me)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.JWT(authService), middleware.RequireRoles(models.RoleAdmin))
		{
			admin.POST("/courses", courseHandler.Create)
			admin.PUT("/courses/:id", courseHandler.Update)
			admin.DELETE("/courses/:id", courseHandler.Delete)

			admin.GET("/enrollments", enrollmentHandler.List)
			admin.PATCH("/enrollments/:id/status", enrollmentHandler.UpdateStatus)
			admin.POST("/enrollments/:id/approve", enrollmentHandler.Approve)
			admin.POST("/enrollments/:id/reject", enrollmentHandler.Reject)

			admin.GET("/dashboard/stats", dashboardHandler.Stats)

			if cfg.Exports.Enabled {
				admin.GET("/enrollments/export", exportHandler.Enrollments)
			}
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
