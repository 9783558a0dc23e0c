package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/webslinger-cto/fieldserve-api/docs"
	"github.com/webslinger-cto/fieldserve-api/internal/auth"
	"github.com/webslinger-cto/fieldserve-api/internal/config"
	"github.com/webslinger-cto/fieldserve-api/internal/database"
	"github.com/webslinger-cto/fieldserve-api/internal/http/handler"
	"github.com/webslinger-cto/fieldserve-api/internal/http/middleware"
	"github.com/webslinger-cto/fieldserve-api/internal/http/router"
	"github.com/webslinger-cto/fieldserve-api/internal/jobs"
	"github.com/webslinger-cto/fieldserve-api/internal/logger"
	"github.com/webslinger-cto/fieldserve-api/internal/repository"
	"github.com/webslinger-cto/fieldserve-api/internal/service"
	"github.com/webslinger-cto/fieldserve-api/internal/storage"
	"go.uber.org/zap"
)

// @title FieldServe API
// @version 1.0
// @description Field service CRM backend for lead intake, dispatch, quoting, payroll, and revenue reporting
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@fieldserve.dev

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description Per-source key for inbound lead webhooks
// @Security BearerAuth

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	// Configure Swagger host based on environment
	switch basicCfg.App.Environment {
	case "staging":
		docs.SwaggerInfo.Host = "staging-api.fieldserve.dev"
	case "production":
		docs.SwaggerInfo.Host = "api.fieldserve.dev"
	default:
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	techRepo := repository.NewTechnicianRepository(db)
	spRepo := repository.NewSalespersonRepository(db)
	leadRepo := repository.NewLeadRepository(db)
	jobRepo := repository.NewJobRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)
	commissionRepo := repository.NewCommissionRepository(db)
	payrollRepo := repository.NewPayrollRepository(db)
	revenueRepo := repository.NewRevenueEventRepository(db)
	callRepo := repository.NewCallRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	fileRepo := repository.NewFileRepository(db)
	pricebookRepo := repository.NewPricebookRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	intakeRepo := repository.NewIntakeRepository(db)

	// Initialize auth
	tokens, err := auth.NewTokenManager(&cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to create token manager: %w", err)
	}

	// Initialize services
	userService := service.NewUserService(userRepo, tokens, &cfg.Auth, log)
	techService := service.NewTechnicianService(techRepo, userRepo, &cfg.Payroll, &cfg.Dispatch, log)
	spService := service.NewSalespersonService(spRepo, userRepo, log)
	leadService := service.NewLeadService(leadRepo, jobRepo, userRepo, notificationRepo, &cfg.Leads, log)
	jobService := service.NewJobService(jobRepo, techRepo, spRepo, commissionRepo, notificationRepo, &cfg.Dispatch, log)
	quoteService := service.NewQuoteService(quoteRepo, jobRepo, intakeRepo, userRepo, notificationRepo, &cfg.Quotes, log)
	callService := service.NewCallService(callRepo, leadRepo, quoteService, log)
	payrollService := service.NewPayrollService(payrollRepo, jobRepo, techRepo, intakeRepo, &cfg.Payroll, log)
	commissionService := service.NewCommissionService(commissionRepo, log)
	analyticsService := service.NewAnalyticsService(jobRepo, leadRepo, quoteRepo, revenueRepo, campaignRepo, log)
	notificationService := service.NewNotificationService(notificationRepo, log)
	fileService := service.NewFileService(fileRepo, jobRepo, quoteRepo, fileStorage, log)
	catalogService := service.NewCatalogService(pricebookRepo, campaignRepo, intakeRepo, &cfg.Payroll, log)

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(tokens, &cfg.Auth, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userService, log)
	userHandler := handler.NewUserHandler(userService, log)
	technicianHandler := handler.NewTechnicianHandler(techService, log)
	salespersonHandler := handler.NewSalespersonHandler(spService, log)
	leadHandler := handler.NewLeadHandler(leadService, log)
	jobHandler := handler.NewJobHandler(jobService, log)
	quoteHandler := handler.NewQuoteHandler(quoteService, log)
	publicQuoteHandler := handler.NewPublicQuoteHandler(quoteService, log)
	webhookHandler := handler.NewWebhookHandler(leadService, &cfg.Webhooks, log)
	callHandler := handler.NewCallHandler(callService, log)
	payrollHandler := handler.NewPayrollHandler(payrollService, log)
	commissionHandler := handler.NewCommissionHandler(commissionService, log)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService, log)
	notificationHandler := handler.NewNotificationHandler(notificationService, log)
	fileHandler := handler.NewFileHandler(fileService, cfg.Storage.MaxUploadSizeMB, log)
	catalogHandler := handler.NewCatalogHandler(catalogService, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		authHandler,
		userHandler,
		technicianHandler,
		salespersonHandler,
		leadHandler,
		jobHandler,
		quoteHandler,
		publicQuoteHandler,
		webhookHandler,
		callHandler,
		payrollHandler,
		commissionHandler,
		analyticsHandler,
		notificationHandler,
		fileHandler,
		catalogHandler,
	)

	// Background sweeps: overdue lead flagging and quote expiry
	scheduler := jobs.NewScheduler(log)
	if err := jobs.RegisterSLASweepJob(scheduler, leadService, log, cfg.Leads.SweepCron, time.Minute); err != nil {
		log.Error("Failed to register lead sweep job", zap.Error(err))
	}
	if err := jobs.RegisterQuoteExpiryJob(scheduler, quoteService, log, cfg.Quotes.SweepCron, time.Minute); err != nil {
		log.Error("Failed to register quote expiry job", zap.Error(err))
	}
	scheduler.Start()

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		schedCtx := scheduler.Stop()
		<-schedCtx.Done()
		log.Info("Scheduler stopped")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
