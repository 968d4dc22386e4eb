package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/api/swagger"
	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/internal/handler"
	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/internal/middleware"
	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/internal/repository"
	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/internal/service"
	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/pkg/cache"
	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/pkg/config"
	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/pkg/database"
	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/pkg/jobs"
	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/pkg/logger"
	corsmiddleware "github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/pkg/middleware/cors"
	reqidmiddleware "github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/pkg/middleware/requestid"
	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/pkg/storage"
)

// @title Farm Inspection API
// @version 1.0.0
// @description Inspection template catalog, hash-sealed completed records, and audit-trail reconciliation
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, report caching disabled", "error", err)
		redisClient = nil
	}

	vault, err := storage.NewVault(cfg.Inspection.RootDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init file vault", "error", err)
	}
	if err := vault.EnsureDirectories(); err != nil {
		logr.Sugar().Fatalw("failed to create vault directories", "error", err)
	}

	validate := validator.New()

	templateRepo := repository.NewTemplateRepository(db)
	workingRepo := repository.NewWorkingTemplateRepository(db)
	inspectionRepo := repository.NewInspectionRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	inspectorRepo := repository.NewInspectorRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(inspectorRepo, validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      "farm-inspection-api",
	})
	catalogSvc := service.NewCatalogService(templateRepo, vault, validate, logr)
	workingSvc := service.NewWorkingTemplateService(workingRepo, catalogSvc, vault, logr)
	auditSvc := service.NewAuditService(auditRepo, logr)
	reconcileSvc := service.NewReconciliationService(inspectionRepo, auditRepo, vault, cacheRepo, metricsSvc, cfg.Inspection.ReportCacheTTL, logr)
	inspectionSvc := service.NewInspectionService(workingSvc, inspectionRepo, auditSvc, vault, validate, metricsSvc, cacheRepo, logr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Inspection.SeedOnStartup {
		installed, err := catalogSvc.SeedTemplatesIfNeeded(ctx)
		if err != nil {
			logr.Sugar().Fatalw("failed to seed template catalog", "error", err)
		}
		if installed > 0 {
			logr.Sugar().Infow("installed built-in templates", "count", installed)
		}
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authHandler := handler.NewAuthHandler(authSvc)
	templateHandler := handler.NewTemplateHandler(catalogSvc)
	workingHandler := handler.NewWorkingTemplateHandler(workingSvc)
	inspectionHandler := handler.NewInspectionHandler(inspectionSvc)
	auditHandler := handler.NewAuditHandler(auditSvc)
	reconcileHandler := handler.NewReconciliationHandler(reconcileSvc)

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))
	{
		authed.GET("/inspectors", authHandler.Roster)

		authed.GET("/templates", templateHandler.List)
		authed.GET("/templates/:id", templateHandler.Get)
		authed.POST("/templates", templateHandler.Create)
		authed.POST("/templates/seed", templateHandler.Seed)
		authed.DELETE("/templates/:id", templateHandler.Delete)

		authed.GET("/working-templates", workingHandler.List)
		authed.GET("/working-templates/:name", workingHandler.Get)
		authed.POST("/working-templates", workingHandler.Create)
		authed.DELETE("/working-templates/:name", workingHandler.Delete)

		authed.GET("/inspections", inspectionHandler.List)
		authed.GET("/inspections/:id", inspectionHandler.Get)
		authed.POST("/inspections", middleware.RequireInspector(), inspectionHandler.Create)

		authed.GET("/inspections/:id/audit", auditHandler.GetByInspection)
		authed.GET("/inspections/:id/verify", auditHandler.Verify)
		authed.GET("/audit-entries", auditHandler.List)

		authed.POST("/reconciliation/run", reconcileHandler.Run)
		authed.GET("/reports/audit", reconcileHandler.AuditReport)
	}

	if cfg.Reports.Enabled {
		exportStore, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init export storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
		exportSvc := service.NewExportService(reconcileSvc, exportStore, signer, service.ExportConfig{
			APIPrefix: cfg.APIPrefix,
			ResultTTL: cfg.Reports.SignedURLTTL,
		}, logr, nil, nil)

		reportRepo := repository.NewReportRepository(db)
		worker := service.NewReportWorker(reportRepo, exportSvc, cfg.Reports.WorkerRetries, logr)
		queue := jobs.NewQueue("report-exports", worker.Handle, jobs.QueueConfig{
			Workers:    cfg.Reports.WorkerConcurrency,
			MaxRetries: cfg.Reports.WorkerRetries,
			Logger:     logr,
		})
		queue.Start(ctx)
		defer queue.Stop()

		reportSvc := service.NewReportService(reportRepo, queue, exportSvc, logr, service.ReportServiceConfig{
			ResultTTL:       cfg.Reports.SignedURLTTL,
			CleanupInterval: cfg.Reports.CleanupInterval,
			MaxRetries:      cfg.Reports.WorkerRetries,
		})
		reportSvc.RecoverPendingJobs(ctx)
		reportSvc.StartCleanup(ctx)

		reportHandler := handler.NewReportHandler(reportSvc)
		authed.POST("/reports/export", reportHandler.CreateExport)
		authed.GET("/reports/export/:id", reportHandler.GetStatus)
		api.GET("/export/:token", reportHandler.Download)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
