package intake

import (
	"carequeue/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupIntakeRoutes(rg *gin.RouterGroup, controller *Controller) {
	routes := rg.Group("/intake")
	routes.Use(middleware.JWTAuth(), middleware.RequireRoles(middleware.RoleAdmin, middleware.RoleOperator))
	{
		routes.POST("/billing", controller.BillingIntake)     // POST /api/v1/intake/billing
		routes.POST("/check-in", controller.CheckIn)          // POST /api/v1/intake/check-in
		routes.POST("/diagnostic", controller.DiagnosticOrder) // POST /api/v1/intake/diagnostic
	}
}
