package queue

import (
	"carequeue/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupQueueRoutes(rg *gin.RouterGroup, controller *Controller) {
	// The public kiosk board carries no auth; it is privacy-trimmed and
	// rate-limited separately.
	rg.GET("/queue/board/:stationId", controller.GetDisplayBoard)

	ops := rg.Group("/queue")
	ops.Use(middleware.JWTAuth(), middleware.RequireRoles(middleware.RoleAdmin, middleware.RoleOperator))
	{
		ops.POST("/entries", controller.AddEntry)                     // POST /api/v1/queue/entries
		ops.GET("/entries/:id", controller.GetEntryStatus)            // GET /api/v1/queue/entries/:id
		ops.POST("/entries/:id/serve", controller.StartServing)       // POST /api/v1/queue/entries/:id/serve
		ops.POST("/entries/:id/complete", controller.Complete)        // POST /api/v1/queue/entries/:id/complete
		ops.POST("/entries/:id/skip", controller.Skip)                // POST /api/v1/queue/entries/:id/skip
		ops.POST("/entries/:id/recall", controller.Recall)            // POST /api/v1/queue/entries/:id/recall
		ops.POST("/entries/:id/transfer", controller.Transfer)        // POST /api/v1/queue/entries/:id/transfer
		ops.POST("/entries/:id/cancel", controller.Cancel)            // POST /api/v1/queue/entries/:id/cancel
		ops.PUT("/entries/:id/priority", controller.ChangePriority)   // PUT /api/v1/queue/entries/:id/priority
		ops.POST("/entries/:id/hold", controller.Hold)                // POST /api/v1/queue/entries/:id/hold
		ops.POST("/entries/:id/resume", controller.ResumeFromHold)    // POST /api/v1/queue/entries/:id/resume
		ops.POST("/stations/:id/call-next", controller.CallNext)      // POST /api/v1/queue/stations/:id/call-next
		ops.GET("/patients/:patientId/entries", controller.GetPatientEntries) // GET /api/v1/queue/patients/:patientId/entries
	}
}
