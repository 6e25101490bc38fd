package analytics

import (
	"carequeue/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupAnalyticsRoutes(rg *gin.RouterGroup, controller *Controller) {
	routes := rg.Group("/analytics")
	routes.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		routes.GET("", controller.GetRangeSummary) // GET /api/v1/analytics
	}
}
