package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tallerhq/taller-backend/internal/config"
	"github.com/tallerhq/taller-backend/internal/domain"
	"github.com/tallerhq/taller-backend/internal/handler"
	"github.com/tallerhq/taller-backend/internal/middleware"
	"github.com/tallerhq/taller-backend/internal/repository/postgres"
	"github.com/tallerhq/taller-backend/internal/repository/storage"
	"github.com/tallerhq/taller-backend/internal/service"
	"github.com/tallerhq/taller-backend/internal/websocket"
)

// @title Taller API
// @version 1.0
// @description Fabrication business management API
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	// Initialize repositories
	userRepo := postgres.NewUserRepository(pool)
	paymentMethodRepo := postgres.NewPaymentMethodRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	generalExpenseRepo := postgres.NewGeneralExpenseRepository(pool)
	budgetExpenseRepo := postgres.NewBudgetExpenseRepository(pool)
	budgetRepo := postgres.NewBudgetRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)

	// Initialize receipt storage when configured
	var receiptService *service.ReceiptService
	if cfg.S3.Enabled() {
		receiptRepo, err := storage.NewS3ReceiptRepository(context.Background(), cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize receipt storage")
		}
		receiptService = service.NewReceiptService(receiptRepo)
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Receipt storage enabled")
	} else {
		receiptService = service.NewReceiptService(nil)
		log.Info().Msg("Receipt storage disabled")
	}

	// Initialize WebSocket hub
	hub := websocket.NewHub()

	// Initialize services
	paymentMethodService := service.NewPaymentMethodService(paymentMethodRepo)
	transactionService := service.NewTransactionService(transactionRepo, paymentMethodRepo, orderRepo)
	generalExpenseService := service.NewGeneralExpenseService(generalExpenseRepo, paymentMethodRepo, userRepo)
	budgetExpenseService := service.NewBudgetExpenseService(budgetExpenseRepo, budgetRepo, paymentMethodRepo)
	balanceService := service.NewBalanceService(transactionRepo, budgetExpenseRepo, generalExpenseRepo, budgetRepo)
	orderBalanceService := service.NewOrderBalanceService(orderRepo, transactionRepo)
	dashboardService := service.NewDashboardService(transactionRepo, orderRepo)

	paymentMethodService.SetEventPublisher(hub)
	transactionService.SetEventPublisher(hub)
	generalExpenseService.SetEventPublisher(hub)
	budgetExpenseService.SetEventPublisher(hub)

	// Create user provider adapter for auth middleware
	userProvider := &userProviderAdapter{userRepo: userRepo}

	// Initialize auth middleware
	authMiddleware, err := middleware.NewAuthMiddleware(cfg.Auth0Domain, cfg.Auth0Audience, userProvider)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth middleware")
	}

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter()
	defer rateLimiter.Stop()

	// Initialize handlers
	paymentMethodHandler := handler.NewPaymentMethodHandler(paymentMethodService)
	transactionHandler := handler.NewTransactionHandler(transactionService)
	generalExpenseHandler := handler.NewGeneralExpenseHandler(generalExpenseService, receiptService)
	budgetExpenseHandler := handler.NewBudgetExpenseHandler(budgetExpenseService, receiptService)
	balanceHandler := handler.NewBalanceHandler(balanceService)
	orderBalanceHandler := handler.NewOrderBalanceHandler(orderBalanceService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	wsHandler := handler.NewWebSocketHandler(hub, authMiddleware, cfg.CORSOrigins)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Per-user rate limiting
	e.Use(middleware.RateLimitMiddleware(rateLimiter))

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// OpenAPI spec
	e.GET("/openapi.json", handler.ServeOpenAPI3Spec)

	// Register API routes
	handler.RegisterRoutes(e, authMiddleware, paymentMethodHandler, transactionHandler, generalExpenseHandler, budgetExpenseHandler, balanceHandler, orderBalanceHandler, dashboardHandler, wsHandler)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// userProviderAdapter adapts UserRepository to middleware.UserProvider
type userProviderAdapter struct {
	userRepo domain.UserRepository
}

// ResolveUser implements middleware.UserProvider
func (a *userProviderAdapter) ResolveUser(subject, email string, name *string) (*domain.User, error) {
	return a.userRepo.CreateOrGetBySubject(subject, email, name)
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
