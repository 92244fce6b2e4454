package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"go-workwise-backend/config"
	"go-workwise-backend/internal/delivery/http/middleware"
	"go-workwise-backend/internal/delivery/http/response"
	"go-workwise-backend/internal/domain"
	"go-workwise-backend/pkg/auth"
)

type RouterDeps struct {
	AuthUC            domain.AuthUsecase
	OnboardingUC      domain.OnboardingUsecase
	WorkerProfileUC   domain.WorkerProfileUsecase
	EmployerProfileUC domain.EmployerProfileUsecase
	ScreeningUC       domain.ScreeningUsecase
	PaymentUC         domain.PaymentUsecase
	CatalogUC         domain.CatalogUsecase
	ContactUC         domain.ContactUsecase
	KeyProvider       *auth.KeyProvider
	Config            *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// CORS must run before anything that can short-circuit the request.
	r.Use(middleware.CORSMiddleware(deps.Config.FrontendURL))
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimitMiddleware(middleware.GlobalRateLimitConfig(
		deps.Config.RateLimitGlobalThreshold, deps.Config.RateLimitWindowSeconds)))

	v1 := r.Group("/v1")

	v1.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", nil)
	})

	// Public routes
	NewCatalogHandler(v1, deps.CatalogUC)
	NewContactHandler(v1, deps.ContactUC)

	// Credential endpoints carry their own, tighter limit.
	authPublic := v1.Group("", middleware.RateLimitMiddleware(middleware.LoginRateLimitConfig(
		deps.Config.RateLimitLoginThreshold, deps.Config.RateLimitWindowSeconds)))

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Route resolution works for anonymous visitors too, so it only
	// decodes the token when one is present.
	optional := v1.Group("")
	optional.Use(middleware.OptionalAuth(deps.KeyProvider, deps.Config, deps.AuthUC))

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.KeyProvider, deps.Config, deps.AuthUC))
	{
		NewAuthHandler(authPublic, protected, deps.AuthUC, deps.OnboardingUC, deps.Config)
		NewOnboardingHandler(optional, protected, deps.OnboardingUC)
		NewWorkerProfileHandler(protected, deps.WorkerProfileUC)
		NewEmployerProfileHandler(protected, deps.EmployerProfileUC)
		NewScreeningHandler(protected, deps.ScreeningUC, deps.OnboardingUC)
		NewPaymentHandler(protected, deps.PaymentUC, deps.OnboardingUC)
	}

	return r
}
