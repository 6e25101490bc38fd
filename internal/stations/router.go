package stations

import (
	"carequeue/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupStationRoutes(rg *gin.RouterGroup, controller *Controller) {
	admin := rg.Group("/stations")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.POST("", controller.CreateStation)               // POST /api/v1/stations
		admin.PUT("/:id", controller.UpdateStation)            // PUT /api/v1/stations/:id
		admin.POST("/:id/pause", controller.PauseStation)      // POST /api/v1/stations/:id/pause
		admin.POST("/:id/resume", controller.ResumeStation)    // POST /api/v1/stations/:id/resume
		admin.POST("/reset-tokens", controller.ResetAllDailyTokens) // POST /api/v1/stations/reset-tokens
	}

	// Operators read the catalog and live station state.
	read := rg.Group("/stations")
	read.Use(middleware.JWTAuth(), middleware.RequireRoles(middleware.RoleAdmin, middleware.RoleOperator))
	{
		read.GET("", controller.ListStations)          // GET /api/v1/stations
		read.GET("/:id", controller.GetStationDetails) // GET /api/v1/stations/:id
	}
}
