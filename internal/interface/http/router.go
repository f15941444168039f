package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mstolarz/astro-advisor/internal/infra/config"
)

// NewRouter assembles the middleware chain and routes. The bootstrap layer
// owns the listener; this package only shapes the handler.
func NewRouter(cfg *config.Config, handler *Handler) http.Handler {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(handler.logger),
		errorHandlingMiddleware(handler.logger),
		corsMiddleware(),
		rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger),
	)

	router.GET("/healthz", handler.Healthz)

	api := router.Group("/api/v1")
	{
		generate := api.Group("")
		if cfg.Auth.Enabled {
			generate.Use(authMiddleware(cfg.Auth.JWTSecret))
		}
		generate.POST("/reports", handler.GenerateReport)

		api.GET("/reports", handler.ListReports)
		api.GET("/reports/:id", handler.GetReport)
		api.GET("/conditions", handler.Conditions)
		api.GET("/equipment", handler.Equipment)
	}

	return router
}
