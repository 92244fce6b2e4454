package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"go-workwise-backend/config"
	_ "go-workwise-backend/docs" // Important for Swagger
	v1 "go-workwise-backend/internal/delivery/http/v1"
	"go-workwise-backend/internal/repository/postgres"
	"go-workwise-backend/internal/usecase"
	"go-workwise-backend/pkg/audit"
	"go-workwise-backend/pkg/auth"
	"go-workwise-backend/pkg/database"
	"go-workwise-backend/pkg/email"
	"go-workwise-backend/pkg/gateway"
	"go-workwise-backend/pkg/logger"
	"go-workwise-backend/pkg/redis"
	"go-workwise-backend/pkg/storage"
	"go-workwise-backend/pkg/validation"
)

// @title           WorkWise Backend API
// @version         1.0
// @description     Backend for the WorkWise worker/employer marketplace using Clean Architecture.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Loggers
	logger.Init()
	logger.Log.Info("Starting workwise backend", "port", cfg.Port)
	auditLogger := audit.Init("workwise-backend")
	defer auditLogger.Sync()

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Setup Redis (rate limiting falls back to in-memory when absent)
	if err := redis.Initialize(redis.Config{
		URL:      cfg.UpstashRedisURL,
		Password: cfg.UpstashRedisPassword,
	}); err != nil {
		logger.Log.Warn("Redis unavailable, rate limiting uses in-memory fallback", "error", err)
	}

	// 5. Setup Object Storage
	var store *storage.Store
	if cfg.S3AccessKeyID != "" {
		store, err = storage.NewStore(context.Background(), storage.Config{
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			Endpoint:        cfg.S3Endpoint,
		})
		if err != nil {
			logger.Log.Error("Failed to initialize object storage", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Log.Warn("Object storage not configured - uploads will be unavailable")
	}

	// 6. Setup Email Service
	emailService := email.NewService(cfg)
	if !emailService.IsConfigured() {
		logger.Log.Warn("Email service not fully configured - contact form and activation mail will be unavailable")
	}

	// 7. Setup Repositories
	userRepo := postgres.NewUserRepository(dbPool)
	onboardingRepo := postgres.NewOnboardingRepository(dbPool)
	workerProfileRepo := postgres.NewWorkerProfileRepository(dbPool)
	employerProfileRepo := postgres.NewEmployerProfileRepository(dbPool)
	screeningRepo := postgres.NewScreeningRepository(dbPool)
	paymentRepo := postgres.NewPaymentRepository(dbPool)

	// 8. Setup UseCases
	validate := validator.New()
	validation.RegisterValidators(validate)
	identityGateway := gateway.NewClient(cfg.SupabaseUrl, cfg.SupabaseKey)

	authUC := usecase.NewAuthUsecase(identityGateway, userRepo, onboardingRepo, validate)
	onboardingUC := usecase.NewOnboardingUsecase(onboardingRepo)
	workerProfileUC := usecase.NewWorkerProfileUsecase(workerProfileRepo, onboardingRepo, store, validate)
	employerProfileUC := usecase.NewEmployerProfileUsecase(employerProfileRepo, validate)
	screeningUC := usecase.NewScreeningUsecase(screeningRepo, onboardingRepo)
	paymentUC := usecase.NewPaymentUsecase(paymentRepo, onboardingRepo, userRepo, store, emailService,
		validate, cfg.WorkerRegistrationFeeCents, cfg.FrontendURL)
	catalogUC := usecase.NewCatalogUsecase(cfg.WorkerRegistrationFeeCents)
	contactUC := usecase.NewContactUsecase(emailService, validate)

	// 9. Setup Auth Key Provider (JWKS)
	jwksURL := cfg.SupabaseUrl + "/auth/v1/.well-known/jwks.json"
	keyProvider := auth.NewKeyProvider(jwksURL)

	// 10. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:            authUC,
		OnboardingUC:      onboardingUC,
		WorkerProfileUC:   workerProfileUC,
		EmployerProfileUC: employerProfileUC,
		ScreeningUC:       screeningUC,
		PaymentUC:         paymentUC,
		CatalogUC:         catalogUC,
		ContactUC:         contactUC,
		KeyProvider:       keyProvider,
		Config:            cfg,
	})

	// 11. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
