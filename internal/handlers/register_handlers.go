package handlers

import (
	"net/http"

	"github.com/SscSPs/pbc_workflow_app/cmd/docs"
	portssvc "github.com/SscSPs/pbc_workflow_app/internal/core/ports/services"
	"github.com/SscSPs/pbc_workflow_app/internal/middleware"
	"github.com/SscSPs/pbc_workflow_app/internal/platform/config"
	"github.com/SscSPs/pbc_workflow_app/internal/utils"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// events is the websocket event channel endpoint; it authenticates its own
// connections from the token query parameter.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	events http.Handler,
	posthogClient *utils.PosthogClientWrapper,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	if events != nil {
		r.GET("/ws", gin.WrapH(events))
	}

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services, posthogClient)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
	posthogClient *utils.PosthogClientWrapper,
) {
	v1 := r.Group("/api/v1",
		middleware.AuthMiddleware(cfg.JWTSecret),
		middleware.ProfileMiddleware(service.Profile),
		middleware.PosthogMiddleware(posthogClient),
	)

	RegisterEngagementRoutes(v1, service.Engagement)
	RegisterChecklistRoutes(v1, service.Checklist)
	RegisterDocumentRequestRoutes(v1, service.DocumentRequest)
	RegisterPBCRoutes(v1, service.PBC)
	RegisterProfileRoutes(v1, service.Profile)
	RegisterTrialBalanceRoutes(v1, service.TrialBalance)
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
