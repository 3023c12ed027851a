package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/ShrishPande/tallyinsight/internal/core/ports/services"
	"github.com/ShrishPande/tallyinsight/internal/middleware"
	"github.com/ShrishPande/tallyinsight/internal/platform/config"
	"github.com/ShrishPande/tallyinsight/internal/utils"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	posthogClient *utils.PosthogClientWrapper,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	setupAPIV1Routes(r, cfg, services, posthogClient)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	posthogClient *utils.PosthogClientWrapper,
) {
	v1 := r.Group("/api/v1")

	if cfg.APIRateLimit != "" {
		limiterInstance, err := middleware.NewMemoryLimiter(cfg.APIRateLimit)
		if err != nil {
			slog.Error("Invalid API rate limit, requests are not limited",
				slog.String("rate", cfg.APIRateLimit), slog.String("error", err.Error()))
		} else {
			v1.Use(middleware.RateLimit(limiterInstance))
		}
	}
	v1.Use(middleware.PosthogMiddleware(posthogClient))

	registerSessionRoutes(v1, services.Session, services.Acquisition)
	registerDashboardRoutes(v1, services.Session, services.Insight)
	registerRegisterRoutes(v1, services.Session, services.Acquisition, services.Export, posthogClient)
}
