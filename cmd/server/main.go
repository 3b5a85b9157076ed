package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/revaspay/payment-webhooks/internal/api"
	"github.com/revaspay/payment-webhooks/internal/config"
	"github.com/revaspay/payment-webhooks/internal/database"
	"github.com/revaspay/payment-webhooks/internal/ledger"
	"github.com/revaspay/payment-webhooks/internal/middleware"
	"github.com/revaspay/payment-webhooks/internal/routes"
	"github.com/revaspay/payment-webhooks/internal/security/audit"
	"github.com/revaspay/payment-webhooks/internal/services/payment/momo"
	"gorm.io/gorm"
)

func main() {
	// Initialize configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	var db *gorm.DB
	if cfg.UsesDatabase() {
		var err error
		db, err = database.InitDB(cfg.Database, cfg.IsProduction())
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
	}

	// Initialize the settlement ledger
	var redisClient *redis.Client
	var settlementLedger ledger.Ledger
	switch cfg.Ledger.Backend {
	case config.LedgerBackendRedis:
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatalf("Invalid REDIS_URL: %v", err)
		}
		redisClient = redis.NewClient(opts)

		// Test Redis connection
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_, err = redisClient.Ping(pingCtx).Result()
		cancel()
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		settlementLedger = ledger.NewRedisLedger(redisClient)
	case config.LedgerBackendMemory:
		log.Println("WARNING: using in-memory ledger; settlements are lost on restart")
		settlementLedger = ledger.NewMemoryLedger()
	default:
		settlementLedger = ledger.NewGormLedger(db)
	}
	log.Printf("Settlement ledger backend: %s", cfg.Ledger.Backend)

	// Initialize audit trail
	var auditTarget audit.Sink = audit.LogSink{}
	var retention *audit.RetentionScheduler
	var auditHandler *api.AuditHandler
	if db != nil {
		auditLogger := audit.NewLogger(db)
		auditTarget = auditLogger
		auditHandler = api.NewAuditHandler(auditLogger)
		retention = audit.NewRetentionScheduler(auditLogger, cfg.Audit.RetentionDays)
		if err := retention.Start(); err != nil {
			log.Fatalf("Failed to schedule audit retention: %v", err)
		}
	}
	auditSink := audit.NewAsyncSink(auditTarget, cfg.Audit.BufferSize)

	// Initialize services
	if cfg.Webhook.Secret == "" {
		log.Println("WARNING: PAYMENT_PROVIDER_WEBHOOK_SECRET is not set; payment notifications will be refused")
	}
	settlementService := momo.NewSettlementService(cfg.Webhook.Secret, settlementLedger, auditSink)

	// Initialize handlers
	webhookHandler := api.NewMoMoWebhookHandler(settlementService, cfg.Webhook.MaxBodyBytes)
	settlementHandler := api.NewSettlementHandler(settlementLedger)
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	// Initialize Gin router
	router, err := routes.NewRouter(cfg.Server.TrustedProxies)
	if err != nil {
		log.Fatalf("Invalid TRUSTED_PROXIES: %v", err)
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Setup routes
	routes.SetupWebhookRoutes(router, cfg.Webhook.Path, webhookHandler, rateLimiter)
	routes.RegisterHealthRoutes(router)
	if !routes.RegisterAdminRoutes(router, settlementHandler, auditHandler, cfg.Admin.JWTSecret) {
		log.Println("ADMIN_JWT_SECRET is not set; settlement inspection API is disabled")
	}

	// Start server
	srv := startServer(router, cfg.Server)

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Create a deadline to wait for
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown server
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	rateLimiter.Stop()
	if retention != nil {
		retention.Stop()
	}
	auditSink.Close()
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Printf("Failed to close Redis client: %v", err)
		}
	}
	if db != nil {
		if err := database.Close(db); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}

	log.Println("Server exiting")
}

// startServer starts the HTTP server
func startServer(router *gin.Engine, serverConfig config.ServerConfig) *http.Server {
	srv := &http.Server{
		Addr:         ":" + serverConfig.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(serverConfig.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(serverConfig.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Server started on port %s", serverConfig.Port)
	return srv
}
