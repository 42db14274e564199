package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/maher-jaber/rh-altra-api/api/swagger"
	"github.com/maher-jaber/rh-altra-api/internal/handler"
	"github.com/maher-jaber/rh-altra-api/internal/middleware"
	"github.com/maher-jaber/rh-altra-api/internal/models"
	"github.com/maher-jaber/rh-altra-api/internal/repository"
	"github.com/maher-jaber/rh-altra-api/internal/service"
	"github.com/maher-jaber/rh-altra-api/pkg/cache"
	"github.com/maher-jaber/rh-altra-api/pkg/config"
	"github.com/maher-jaber/rh-altra-api/pkg/database"
	"github.com/maher-jaber/rh-altra-api/pkg/export"
	"github.com/maher-jaber/rh-altra-api/pkg/jobs"
	"github.com/maher-jaber/rh-altra-api/pkg/logger"
	"github.com/maher-jaber/rh-altra-api/pkg/mailer"
	corsmiddleware "github.com/maher-jaber/rh-altra-api/pkg/middleware/cors"
	reqidmiddleware "github.com/maher-jaber/rh-altra-api/pkg/middleware/requestid"
	"github.com/maher-jaber/rh-altra-api/pkg/realtime"
	"github.com/maher-jaber/rh-altra-api/pkg/storage"
)

// @title RH Altra API
// @version 1.0.0
// @description HR leave, salary advance and exit permission workflow service
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
		logr.Sugar().Fatalw("failed to connect database", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect redis", "error", err)
	}
	defer redisClient.Close() //nolint:errcheck

	archiveStore, err := storage.NewLocalStorage(cfg.Archives.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init archive storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Archives.SignedURLSecret, cfg.Archives.SignedURLTTL)

	userRepo := repository.NewUserRepository(db)
	leaveRepo := repository.NewLeaveRequestRepository(db)
	advanceRepo := repository.NewAdvanceRequestRepository(db)
	exitRepo := repository.NewExitPermissionRepository(db)
	leaveTypeRepo := repository.NewLeaveTypeRepository(db)
	holidayRepo := repository.NewHolidayRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	archiveRepo := repository.NewArchiveRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	validate := service.NewValidator()
	metricsSvc := service.NewMetricsService()
	settingsSvc := service.NewSettingsService(settingsRepo, logr)
	auditTrail := service.NewAuditTrail(auditRepo, logr)
	balanceSvc := service.NewBalanceService(leaveRepo, leaveTypeRepo, logr)
	eligibilitySvc := service.NewEligibilityService(leaveRepo, holidayRepo, leaveRepo, logr)

	publisher := realtime.NewRedisPublisher(redisClient, cfg.Notifications.RealtimePrefix)
	mailSender := mailer.New(cfg.SMTP)
	notifier := service.NewNotifierService(notificationRepo, userRepo, publisher, mailSender, jobs.QueueConfig{
		Workers:    cfg.Notifications.Workers,
		BufferSize: cfg.Notifications.BufferSize,
		MaxRetries: cfg.Notifications.MaxRetries,
		RetryDelay: cfg.Notifications.RetryDelay,
	}, logr)

	leaveSvc := service.NewLeaveService(leaveRepo, leaveTypeRepo, userRepo, eligibilitySvc, balanceSvc, settingsSvc, auditTrail, logr)
	advanceSvc := service.NewAdvanceService(advanceRepo, userRepo, auditTrail, logr)
	exitSvc := service.NewExitPermissionService(exitRepo, userRepo, settingsSvc, auditTrail, logr)
	referenceSvc := service.NewReferenceService(leaveTypeRepo, holidayRepo, logr)
	archiveSvc := service.NewArchiveService(archiveRepo, leaveRepo, leaveTypeRepo, userRepo, export.NewPDFExporter(), archiveStore, signer, auditTrail, logr)

	approvalSvc := service.NewApprovalService(auditTrail, notifier, settingsSvc, logr)
	approvalSvc.SetMetrics(metricsSvc)
	approvalSvc.SetFinalizer(archiveSvc)
	approvalSvc.RegisterKind(service.KindDescriptor{
		Kind:     models.KindLeave,
		DualTier: true,
		Archival: true,
		DeepLink: "/leaves/",
		Label:    "leave request",
	}, leaveRepo, leaveSvc.SubmitCheck)
	approvalSvc.RegisterKind(service.KindDescriptor{
		Kind:     models.KindAdvance,
		DeepLink: "/advances/",
		Label:    "salary advance request",
	}, advanceRepo, nil)
	approvalSvc.RegisterKind(service.KindDescriptor{
		Kind:     models.KindExitPermission,
		DeepLink: "/exit-permissions/",
		Label:    "exit permission",
	}, exitRepo, nil)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:        cfg.JWT.Secret,
		AccessExpiry:  cfg.JWT.Expiration,
		RefreshExpiry: cfg.JWT.RefreshExpiration,
		Issuer:        "rh-altra-api",
	})

	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	notifier.Start(rootCtx)
	defer notifier.Stop()

	authHandler := handler.NewAuthHandler(authSvc)
	leaveHandler := handler.NewLeaveHandler(leaveSvc, approvalSvc, archiveSvc, auditTrail, validate)
	advanceHandler := handler.NewAdvanceHandler(advanceSvc, approvalSvc, auditTrail, validate)
	exitHandler := handler.NewExitPermissionHandler(exitSvc, approvalSvc, auditTrail, validate)
	notificationHandler := handler.NewNotificationHandler(notifier)
	referenceHandler := handler.NewReferenceHandler(referenceSvc, validate)
	settingsHandler := handler.NewSettingsHandler(settingsSvc, validate)
	archiveHandler := handler.NewArchiveHandler(archiveSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, "/health", "/ready", "/metrics"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Scrape)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.PUT("/password", middleware.JWT(authSvc), authHandler.ChangePassword)
	auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)

	api.GET("/archives/download", archiveHandler.Download)

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))

	leaves := protected.Group("/leaves")
	leaves.POST("", leaveHandler.Create)
	leaves.GET("", leaveHandler.List)
	leaves.GET("/mine", leaveHandler.ListOwn)
	leaves.GET("/balance", leaveHandler.Balance)
	leaves.GET("/:id", leaveHandler.Get)
	leaves.POST("/:id/submit", leaveHandler.Submit)
	leaves.POST("/:id/cancel", leaveHandler.Cancel)
	leaves.PUT("/:id/certificate", leaveHandler.AttachCertificate)
	leaves.GET("/:id/audit", leaveHandler.Audit)
	leaves.GET("/:id/archive", leaveHandler.ArchiveLink)
	leaves.POST("/:id/decision",
		middleware.RequireRoles(models.RoleManager, models.RoleAdmin, models.RoleHR),
		leaveHandler.ManagerDecide)
	leaves.POST("/:id/final-decision",
		middleware.RequireRoles(models.RoleAdmin, models.RoleHR),
		leaveHandler.FinalDecide)

	advances := protected.Group("/advances")
	advances.POST("", advanceHandler.Create)
	advances.GET("", advanceHandler.List)
	advances.GET("/:id", advanceHandler.Get)
	advances.POST("/:id/submit", advanceHandler.Submit)
	advances.POST("/:id/cancel", advanceHandler.Cancel)
	advances.GET("/:id/audit", advanceHandler.Audit)
	advances.POST("/:id/decision",
		middleware.RequireRoles(models.RoleManager, models.RoleAdmin, models.RoleHR),
		advanceHandler.Decide)

	exits := protected.Group("/exit-permissions")
	exits.POST("", exitHandler.Create)
	exits.GET("", exitHandler.List)
	exits.GET("/:id", exitHandler.Get)
	exits.POST("/:id/submit", exitHandler.Submit)
	exits.POST("/:id/cancel", exitHandler.Cancel)
	exits.GET("/:id/audit", exitHandler.Audit)
	exits.POST("/:id/decision",
		middleware.RequireRoles(models.RoleManager, models.RoleAdmin, models.RoleHR),
		exitHandler.Decide)

	notifications := protected.Group("/notifications")
	notifications.GET("", notificationHandler.List)
	notifications.GET("/unread-count", notificationHandler.UnreadCount)
	notifications.POST("/:id/read", notificationHandler.MarkRead)

	protected.GET("/leave-types", referenceHandler.ListLeaveTypes)
	protected.PUT("/leave-types",
		middleware.RequireRoles(models.RoleAdmin, models.RoleHR),
		referenceHandler.UpsertLeaveType)
	protected.GET("/holidays", referenceHandler.ListHolidays)
	protected.POST("/holidays",
		middleware.RequireRoles(models.RoleAdmin, models.RoleHR),
		referenceHandler.CreateHoliday)
	protected.DELETE("/holidays/:id",
		middleware.RequireRoles(models.RoleAdmin, models.RoleHR),
		referenceHandler.DeleteHoliday)

	protected.GET("/settings/workflow",
		middleware.RequireRoles(models.RoleAdmin, models.RoleHR),
		settingsHandler.Get)
	protected.PUT("/settings/workflow",
		middleware.RequireRoles(models.RoleAdmin),
		settingsHandler.Update)

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
