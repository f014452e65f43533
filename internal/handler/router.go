package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/campus-medios/av-booking-api/internal/middleware"
	"github.com/campus-medios/av-booking-api/internal/models"
	"github.com/campus-medios/av-booking-api/internal/service"
	"github.com/campus-medios/av-booking-api/pkg/config"
	"github.com/campus-medios/av-booking-api/pkg/logger"
	corsmiddleware "github.com/campus-medios/av-booking-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campus-medios/av-booking-api/pkg/middleware/requestid"

	"go.uber.org/zap"
)

// Handlers groups every handler mounted by the router.
type Handlers struct {
	Reservations   *ReservationHandler
	Rooms          *RoomHandler
	Projectors     *ProjectorHandler
	Equipment      *EquipmentHandler
	EquipmentTypes *EquipmentTypeHandler
	Occupations    *OccupationHandler
	Metrics        *MetricsHandler
}

// NewRouter builds the gin engine with the full route table. Reservation
// creation and reads accept anonymous requesters; admin transitions and
// catalog mutations require an administrator token.
func NewRouter(cfg *config.Config, logr *zap.Logger, handlers Handlers, metricsSvc *service.MetricsService) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", handlers.Metrics.Health)
	r.GET("/ready", handlers.Metrics.Health)
	r.GET("/metrics", handlers.Metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	optionalAuth := middleware.OptionalJWT(cfg.JWT.Secret)
	requireAuth := middleware.JWT(cfg.JWT.Secret)
	adminOnly := middleware.RBAC(models.RoleAdmin)

	api := r.Group(cfg.APIPrefix)
	{
		solicitudes := api.Group("/solicitudes")
		{
			solicitudes.POST("", optionalAuth, handlers.Reservations.Create)
			solicitudes.GET("", optionalAuth, handlers.Reservations.List)
			solicitudes.GET("/:id", optionalAuth, handlers.Reservations.Get)
			solicitudes.PUT("/:id", optionalAuth, handlers.Reservations.Update)
			solicitudes.DELETE("/:id", optionalAuth, handlers.Reservations.Delete)
			solicitudes.GET("/:id/historial", optionalAuth, handlers.Reservations.History)
			solicitudes.PUT("/:id/estado", requireAuth, adminOnly, handlers.Reservations.ChangeStatus)
		}

		salas := api.Group("/salas")
		{
			salas.GET("", handlers.Rooms.List)
			salas.GET("/:id", handlers.Rooms.Get)
			salas.POST("", requireAuth, adminOnly, handlers.Rooms.Create)
			salas.PUT("/:id", requireAuth, adminOnly, handlers.Rooms.Update)
			salas.PUT("/:id/estado", requireAuth, adminOnly, handlers.Rooms.SetEstado)
			salas.DELETE("/:id", requireAuth, adminOnly, handlers.Rooms.Delete)
		}

		proyectores := api.Group("/videoproyectores")
		{
			proyectores.GET("", handlers.Projectors.List)
			proyectores.GET("/:id", handlers.Projectors.Get)
			proyectores.POST("", requireAuth, adminOnly, handlers.Projectors.Create)
			proyectores.PUT("/:id", requireAuth, adminOnly, handlers.Projectors.Update)
			proyectores.PUT("/:id/estado", requireAuth, adminOnly, handlers.Projectors.SetEstado)
			proyectores.DELETE("/:id", requireAuth, adminOnly, handlers.Projectors.Delete)
		}

		equipos := api.Group("/equipos")
		{
			equipos.GET("", handlers.Equipment.List)
			equipos.GET("/:id", handlers.Equipment.Get)
			equipos.POST("", requireAuth, adminOnly, handlers.Equipment.Create)
			equipos.PUT("/:id", requireAuth, adminOnly, handlers.Equipment.Update)
			equipos.PUT("/:id/estado", requireAuth, adminOnly, handlers.Equipment.SetEstado)
			equipos.DELETE("/:id", requireAuth, adminOnly, handlers.Equipment.Delete)
		}

		tipos := api.Group("/tipos-equipo")
		{
			tipos.GET("", handlers.EquipmentTypes.List)
			tipos.POST("", requireAuth, adminOnly, handlers.EquipmentTypes.Create)
			tipos.PUT("/reorder", requireAuth, adminOnly, handlers.EquipmentTypes.Reorder)
			tipos.GET("/:clave", handlers.EquipmentTypes.Get)
			tipos.PUT("/:clave", requireAuth, adminOnly, handlers.EquipmentTypes.Update)
			tipos.DELETE("/:clave", requireAuth, adminOnly, handlers.EquipmentTypes.Delete)
		}

		ocupaciones := api.Group("/ocupaciones-especiales", requireAuth, adminOnly)
		{
			ocupaciones.GET("", handlers.Occupations.List)
			ocupaciones.POST("", handlers.Occupations.Create)
			ocupaciones.PUT("/:id/activa", handlers.Occupations.SetActive)
			ocupaciones.DELETE("/:id", handlers.Occupations.Delete)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "route not found"}})
	})

	return r
}
