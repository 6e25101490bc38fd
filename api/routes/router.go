// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"carequeue/internal/analytics"
	"carequeue/internal/intake"
	"carequeue/internal/patients"
	"carequeue/internal/queue"
	"carequeue/internal/sequence"
	"carequeue/internal/shared/config"
	"carequeue/internal/shared/database"
	"carequeue/internal/stations"
	"carequeue/pkg/cache"
	"carequeue/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config    *config.Config
	db        *database.DB
	publisher queue.EventPublisher
	log       *logger.Logger

	// Shared across route groups
	allocator      sequence.Allocator
	cacheService   cache.Service
	patientRepo    patients.Repository
	stationService stations.Service
	queueService   queue.Service
}

// NewRouter creates a new router instance. The publisher may be nil when the
// event stream is disabled.
func NewRouter(cfg *config.Config, db *database.DB, publisher queue.EventPublisher, log *logger.Logger) *Router {
	return &Router{
		config:    cfg,
		db:        db,
		publisher: publisher,
		log:       log,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	r.buildServices()

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupStationRoutes(api)
		r.setupQueueRoutes(api)
		r.setupIntakeRoutes(api)
		r.setupAnalyticsRoutes(api)
	}
}

// buildServices wires the domain layers. The queue engine and the station
// catalog depend on each other (station details embed the live waiting
// list), so the waiting-list provider is injected after construction.
func (r *Router) buildServices() {
	pg := r.db.GetPostgreSQL()

	r.allocator = sequence.NewAllocator(r.db.GetRedisClient(), r.config.Redis.CounterTTL)
	r.cacheService = cache.NewService(r.db.GetRedisClient())
	r.patientRepo = patients.NewRepository(pg)

	stationRepo := stations.NewRepository(pg)
	r.stationService = stations.NewService(stationRepo, r.allocator, r.config, r.log)

	queueRepo := queue.NewRepository(pg)
	r.queueService = queue.NewService(
		queueRepo,
		stationRepo,
		r.patientRepo,
		r.allocator,
		r.cacheService,
		r.publisher,
		r.config,
		r.log,
	)

	r.stationService.SetWaitingListProvider(r.queueService)
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "carequeue",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "carequeue",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

func (r *Router) setupStationRoutes(rg *gin.RouterGroup) {
	controller := stations.NewController(r.stationService)
	stations.SetupStationRoutes(rg, controller)
}

func (r *Router) setupQueueRoutes(rg *gin.RouterGroup) {
	controller := queue.NewController(r.queueService)
	queue.SetupQueueRoutes(rg, controller)
}

func (r *Router) setupIntakeRoutes(rg *gin.RouterGroup) {
	intakeService := intake.NewService(r.queueService, r.stationService, r.patientRepo, r.log)
	controller := intake.NewController(intakeService)
	intake.SetupIntakeRoutes(rg, controller)
}

func (r *Router) setupAnalyticsRoutes(rg *gin.RouterGroup) {
	repo := analytics.NewRepository(r.db.GetPostgreSQL())
	service := analytics.NewService(repo, r.cacheService, r.config, r.log)
	controller := analytics.NewController(service)
	analytics.SetupAnalyticsRoutes(rg, controller)
}
