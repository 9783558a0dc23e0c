package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/webslinger-cto/fieldserve-api/internal/auth"
	"github.com/webslinger-cto/fieldserve-api/internal/config"
	"github.com/webslinger-cto/fieldserve-api/internal/database"
	"github.com/webslinger-cto/fieldserve-api/internal/domain"
	"github.com/webslinger-cto/fieldserve-api/internal/http/handler"
	"github.com/webslinger-cto/fieldserve-api/internal/http/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/webslinger-cto/fieldserve-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg                 *config.Config
	logger              *zap.Logger
	db                  *gorm.DB
	authMiddleware      *auth.Middleware
	rateLimiter         *middleware.RateLimiter
	authHandler         *handler.AuthHandler
	userHandler         *handler.UserHandler
	technicianHandler   *handler.TechnicianHandler
	salespersonHandler  *handler.SalespersonHandler
	leadHandler         *handler.LeadHandler
	jobHandler          *handler.JobHandler
	quoteHandler        *handler.QuoteHandler
	publicQuoteHandler  *handler.PublicQuoteHandler
	webhookHandler      *handler.WebhookHandler
	callHandler         *handler.CallHandler
	payrollHandler      *handler.PayrollHandler
	commissionHandler   *handler.CommissionHandler
	analyticsHandler    *handler.AnalyticsHandler
	notificationHandler *handler.NotificationHandler
	fileHandler         *handler.FileHandler
	catalogHandler      *handler.CatalogHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	technicianHandler *handler.TechnicianHandler,
	salespersonHandler *handler.SalespersonHandler,
	leadHandler *handler.LeadHandler,
	jobHandler *handler.JobHandler,
	quoteHandler *handler.QuoteHandler,
	publicQuoteHandler *handler.PublicQuoteHandler,
	webhookHandler *handler.WebhookHandler,
	callHandler *handler.CallHandler,
	payrollHandler *handler.PayrollHandler,
	commissionHandler *handler.CommissionHandler,
	analyticsHandler *handler.AnalyticsHandler,
	notificationHandler *handler.NotificationHandler,
	fileHandler *handler.FileHandler,
	catalogHandler *handler.CatalogHandler,
) *Router {
	return &Router{
		cfg:                 cfg,
		logger:              logger,
		db:                  db,
		authMiddleware:      authMiddleware,
		rateLimiter:         rateLimiter,
		authHandler:         authHandler,
		userHandler:         userHandler,
		technicianHandler:   technicianHandler,
		salespersonHandler:  salespersonHandler,
		leadHandler:         leadHandler,
		jobHandler:          jobHandler,
		quoteHandler:        quoteHandler,
		publicQuoteHandler:  publicQuoteHandler,
		webhookHandler:      webhookHandler,
		callHandler:         callHandler,
		payrollHandler:      payrollHandler,
		commissionHandler:   commissionHandler,
		analyticsHandler:    analyticsHandler,
		notificationHandler: notificationHandler,
		fileHandler:         fileHandler,
		catalogHandler:      catalogHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with pool stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
			},
		})
	})

	// Combined readiness check
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if allHealthy {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "healthy",
				"checks": checks,
			})
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "unhealthy",
				"checks": checks,
			})
		}
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (no auth required)
		r.Post("/auth/login", rt.authHandler.Login)

		// Customer-facing quote endpoints, authenticated by share token only
		r.Route("/public/quote/{token}", func(r chi.Router) {
			r.Get("/", rt.publicQuoteHandler.GetByToken)
			r.Post("/accept", rt.publicQuoteHandler.Accept)
			r.Post("/decline", rt.publicQuoteHandler.Decline)
		})

		// Lead provider webhooks, authenticated per source
		r.Route("/webhooks", func(r chi.Router) {
			r.Post("/elocal", rt.webhookHandler.ELocal)
			r.Post("/networx", rt.webhookHandler.Networx)
			r.Post("/angi", rt.webhookHandler.Angi)
			r.Post("/thumbtack", rt.webhookHandler.Thumbtack)
			r.Post("/inquirly", rt.webhookHandler.Inquirly)
			r.Post("/zapier/lead", rt.webhookHandler.ZapierLead)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(rt.rateLimiter.Limit)

			// Auth
			r.Get("/auth/me", rt.authHandler.Me)

			// Users (admin only)
			r.Route("/users", func(r chi.Router) {
				r.Use(rt.authMiddleware.RequireAdmin)
				r.Get("/", rt.userHandler.List)
				r.Post("/", rt.userHandler.Create)
				r.Get("/{id}", rt.userHandler.GetByID)
				r.Patch("/{id}", rt.userHandler.Update)
			})

			// Technicians
			r.Route("/technicians", func(r chi.Router) {
				r.Get("/", rt.technicianHandler.List)
				r.With(rt.authMiddleware.RequireRole(domain.RoleAdmin, domain.RoleDispatcher)).Post("/", rt.technicianHandler.Create)
				r.Get("/{id}", rt.technicianHandler.GetByID)
				r.Patch("/{id}", rt.technicianHandler.Update)
				r.Patch("/{id}/status", rt.technicianHandler.SetStatus)
			})

			// Salespersons
			r.Route("/salespersons", func(r chi.Router) {
				r.Get("/", rt.salespersonHandler.List)
				r.With(rt.authMiddleware.RequireRole(domain.RoleAdmin, domain.RoleDispatcher)).Post("/", rt.salespersonHandler.Create)
				r.Get("/{id}", rt.salespersonHandler.GetByID)
				r.Patch("/{id}", rt.salespersonHandler.Update)
				r.Get("/{id}/commissions", rt.commissionHandler.ListBySalesperson)
				r.Get("/{id}/earnings", rt.commissionHandler.Earnings)
			})

			// Leads
			r.Route("/leads", func(r chi.Router) {
				r.Get("/", rt.leadHandler.List)
				r.Post("/", rt.leadHandler.Create)
				r.Get("/{id}", rt.leadHandler.GetByID)
				r.Patch("/{id}", rt.leadHandler.Update)
				r.Post("/{id}/convert", rt.leadHandler.Convert)
			})

			// Jobs
			r.Route("/jobs", func(r chi.Router) {
				r.Get("/", rt.jobHandler.List)
				r.Post("/", rt.jobHandler.Create)
				r.Get("/pool", rt.jobHandler.ListPool)
				r.Get("/{id}", rt.jobHandler.GetByID)
				r.Patch("/{id}", rt.jobHandler.Update)

				// Lifecycle endpoints
				r.Post("/{id}/assign", rt.jobHandler.Assign)
				r.Post("/{id}/claim", rt.jobHandler.Claim)
				r.Post("/{id}/confirm", rt.jobHandler.Confirm)
				r.Post("/{id}/en-route", rt.jobHandler.EnRoute)
				r.Post("/{id}/arrive", rt.jobHandler.Arrive)
				r.Post("/{id}/start", rt.jobHandler.Start)
				r.Post("/{id}/complete", rt.jobHandler.Complete)
				r.Post("/{id}/cancel", rt.jobHandler.Cancel)

				// Sub-resources
				r.Get("/{id}/files", rt.fileHandler.ListByJob)
				r.Get("/{id}/revenue-events", rt.analyticsHandler.ListRevenueEvents)
			})

			// Quotes
			r.Route("/quotes", func(r chi.Router) {
				r.Get("/", rt.quoteHandler.List)
				r.Post("/", rt.quoteHandler.Create)
				r.Get("/{id}", rt.quoteHandler.GetByID)
				r.Patch("/{id}", rt.quoteHandler.Update)
				r.Delete("/{id}", rt.quoteHandler.Delete)
				r.Post("/{id}/send", rt.quoteHandler.Send)
				// Both regenerate the share link and mark the quote sent,
				// kept as aliases for older clients
				r.Post("/{id}/generate-link", rt.quoteHandler.Send)
				r.Post("/{id}/resend-email", rt.quoteHandler.Send)
				r.Get("/{id}/files", rt.fileHandler.ListByQuote)
			})

			// Calls
			r.Route("/calls", func(r chi.Router) {
				r.Get("/", rt.callHandler.List)
				r.Post("/", rt.callHandler.Create)
				r.Put("/{id}/lead/{leadId}", rt.callHandler.LinkLead)
				r.Post("/{id}/convert-to-quote", rt.callHandler.ConvertToQuote)
			})

			// Payroll (admin only)
			r.Route("/payroll", func(r chi.Router) {
				r.Use(rt.authMiddleware.RequireAdmin)
				r.Get("/preview", rt.payrollHandler.Preview)
				r.Post("/run", rt.payrollHandler.Run)
				r.Get("/statements", rt.payrollHandler.ListStatements)
				r.Get("/statements/{id}", rt.payrollHandler.GetStatement)
				r.Get("/technicians/{id}/statements", rt.payrollHandler.ListByTechnician)
			})

			// Commissions
			r.Route("/commissions", func(r chi.Router) {
				r.Get("/", rt.commissionHandler.List)
				r.Get("/{id}", rt.commissionHandler.GetByID)
				r.With(rt.authMiddleware.RequireAdmin).Post("/{id}/approve", rt.commissionHandler.Approve)
				r.With(rt.authMiddleware.RequireAdmin).Post("/{id}/pay", rt.commissionHandler.Pay)
			})

			// Analytics
			r.Get("/analytics/revenue", rt.analyticsHandler.Revenue)
			r.Get("/analytics/marketing", rt.analyticsHandler.Marketing)
			r.Get("/dashboard/metrics", rt.analyticsHandler.Dashboard)
			r.Post("/revenue-events", rt.analyticsHandler.CreateRevenueEvent)

			// Notifications
			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", rt.notificationHandler.List)
				r.Get("/unread-count", rt.notificationHandler.UnreadCount)
				r.Post("/read-all", rt.notificationHandler.MarkAllRead)
				r.Post("/{id}/read", rt.notificationHandler.MarkRead)
			})

			// Files
			r.Route("/files", func(r chi.Router) {
				r.Post("/upload", rt.fileHandler.Upload)
				r.Get("/{id}/download", rt.fileHandler.Download)
				r.Delete("/{id}", rt.fileHandler.Delete)
			})

			// Pricebook
			r.Route("/pricebook", func(r chi.Router) {
				r.Get("/", rt.catalogHandler.ListPricebook)
				r.Post("/", rt.catalogHandler.CreatePricebookItem)
				r.Get("/{id}", rt.catalogHandler.GetPricebookItem)
				r.Put("/{id}", rt.catalogHandler.UpdatePricebookItem)
				r.Delete("/{id}", rt.catalogHandler.DeletePricebookItem)
			})

			// Marketing campaigns
			r.Route("/campaigns", func(r chi.Router) {
				r.Get("/", rt.catalogHandler.ListCampaigns)
				r.Post("/", rt.catalogHandler.CreateCampaign)
				r.Get("/{id}", rt.catalogHandler.GetCampaign)
				r.Put("/{id}", rt.catalogHandler.UpdateCampaign)
				r.Delete("/{id}", rt.catalogHandler.DeleteCampaign)
				r.Put("/{id}/spend", rt.catalogHandler.RecordSpend)
			})

			// Business intake
			r.Get("/intake", rt.catalogHandler.GetIntake)
			r.Put("/intake", rt.catalogHandler.SaveIntake)
		})
	})

	return r
}
