package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/ngocanhle/pawshop/internal"
	"github.com/ngocanhle/pawshop/internal/cart"
	"github.com/ngocanhle/pawshop/internal/domain"
	"github.com/ngocanhle/pawshop/internal/email"
	"github.com/ngocanhle/pawshop/internal/handler/admin"
	"github.com/ngocanhle/pawshop/internal/handler/storefront"
	"github.com/ngocanhle/pawshop/internal/handler/webhook"
	"github.com/ngocanhle/pawshop/internal/middleware"
	"github.com/ngocanhle/pawshop/internal/payment"
	"github.com/ngocanhle/pawshop/internal/postgres"
	"github.com/ngocanhle/pawshop/internal/router"
	"github.com/ngocanhle/pawshop/internal/routes"
	"github.com/ngocanhle/pawshop/internal/service"
	"github.com/ngocanhle/pawshop/internal/telemetry"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database/sql connection for migrations
	logger.Info("Connecting to database...")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	logger.Info("Database connection established")

	// Run migrations
	logger.Info("Running database migrations...")
	if err := internal.RunMigrations(sqlDB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize pgx connection pool for the application
	pool, err := postgres.NewPool(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	// Initialize metrics
	metrics := middleware.NewMetrics("pawshop")
	telemetry.InitBusinessMetrics("pawshop")

	// Initialize stores
	orderStore := postgres.NewOrderStore(pool)
	promotionStore := postgres.NewPromotionStore(pool)
	bookingStore := postgres.NewBookingStore(pool)
	catalogStore := postgres.NewCatalogStore(pool)
	cartStore := cart.NewStore()

	// Initialize email delivery
	smtpSender := email.NewSMTPSender(&email.SMTPConfig{
		Host:     cfg.Email.Host,
		Port:     int(cfg.Email.Port),
		Username: cfg.Email.Username,
		Password: cfg.Email.Password,
		From:     cfg.Email.From,
		FromName: cfg.Email.FromName,
	}, logger)
	emailService := email.NewService(smtpSender)

	// Initialize payment gateways
	vnpayProvider := payment.NewVNPayProvider(payment.VNPayConfig{
		TmnCode:    cfg.VNPay.TmnCode,
		HashSecret: cfg.VNPay.HashSecret,
		PaymentURL: cfg.VNPay.PaymentURL,
		ReturnURL:  cfg.VNPay.ReturnURL,
	})
	momoProvider := payment.NewMoMoProvider(payment.MoMoConfig{
		PartnerCode: cfg.MoMo.PartnerCode,
		AccessKey:   cfg.MoMo.AccessKey,
		SecretKey:   cfg.MoMo.SecretKey,
		EndpointURL: cfg.MoMo.EndpointURL,
		ReturnURL:   cfg.MoMo.ReturnURL,
		NotifyURL:   cfg.MoMo.NotifyURL,
	}, nil)
	providers := map[domain.PaymentMethod]payment.Provider{
		vnpayProvider.Name(): vnpayProvider,
		momoProvider.Name():  momoProvider,
	}

	// Initialize services
	promotionService := service.NewPromotionService(promotionStore)
	cartService := service.NewCartService(cartStore, catalogStore)
	checkoutService := service.NewCheckoutService(cartStore, orderStore, promotionService, providers, emailService, logger)
	orderService := service.NewOrderService(orderStore, orderStore, emailService, logger)
	bookingService := service.NewBookingService(bookingStore, catalogStore, emailService, logger)

	// ==========================================================================
	// Build route dependencies
	// ==========================================================================

	storefrontDeps := routes.StorefrontDeps{
		CartHandler:     storefront.NewCartHandler(cartService),
		CheckoutHandler: storefront.NewCheckoutHandler(checkoutService, promotionService),
		OrderHandler:    storefront.NewOrderHandler(orderService),
		BookingHandler:  storefront.NewBookingHandler(bookingService),
	}

	adminDeps := routes.AdminDeps{
		OrderHandler:     admin.NewOrderHandler(orderService),
		PromotionHandler: admin.NewPromotionHandler(promotionService),
		BookingHandler:   admin.NewBookingHandler(bookingService),
	}

	webhookDeps := routes.WebhookDeps{
		VNPayHandler: webhook.NewVNPayHandler(checkoutService, logger),
		MoMoHandler:  webhook.NewMoMoHandler(checkoutService, logger),
	}

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		metrics.Middleware,
		middleware.MaxBodySize(middleware.DefaultMaxBodySize),
		middleware.Timeout(middleware.DefaultTimeout),
		router.Logger(logger),
		middleware.WithUser,
		middleware.WithCartToken,
	)

	// Metrics endpoint (no auth required, should be protected via firewall)
	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		metrics.Handler().ServeHTTP(w, req)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Register route groups
	routes.RegisterStorefrontRoutes(r, storefrontDeps)
	routes.RegisterAdminRoutes(r, adminDeps)
	routes.RegisterWebhookRoutes(r, webhookDeps)

	// ==========================================================================
	// Start server
	// ==========================================================================

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info("Starting server", "address", addr)

	if err := http.ListenAndServe(addr, r); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
