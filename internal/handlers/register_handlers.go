package handlers

import (
	"github.com/SscSPs/mdp_service/cmd/docs"
	portssvc "github.com/SscSPs/mdp_service/internal/core/ports/services"
	"github.com/SscSPs/mdp_service/internal/middleware"
	"github.com/SscSPs/mdp_service/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// apiMiddleware runs after authentication on every /api/v1 route.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	healthChecks map[string]HealthChecker,
	apiMiddleware ...gin.HandlerFunc,
) {
	RegisterValidators()

	r.GET("/health", healthCheck(healthChecks))

	setupAPIV1Routes(r, cfg, services, apiMiddleware)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	apiMiddleware []gin.HandlerFunc,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))
	v1.Use(apiMiddleware...)

	RegisterAccessKeyRoutes(v1, services.AccessKey, services.Member, cfg.UseSingleAuth)
	RegisterJourneyRoutes(v1, services.Journey)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
