package http

import (
	"log/slog"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	_ "github.com/SscSPs/fiscalsim/docs"
	"github.com/SscSPs/fiscalsim/internal/middleware"
)

// Router wires the reference HTTP transport: CORS for browser clients,
// structured request logging, and a rate-limited snapshot-poll endpoint,
// grounded on the teacher's main.go route-registration style
// (registerXRoutes helpers grouped under one gin.Engine).
func Router(handler *SimulationHandler, logger *slog.Logger, rateLimitFormat string) (*gin.Engine, error) {
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	rate, err := limiter.NewRateFromFormatted(rateLimitFormat)
	if err != nil {
		return nil, err
	}
	poll := limiter.New(memory.NewStore(), rate)

	sim := r.Group("/simulations")
	{
		sim.POST("", handler.CreateSimulation)
		sim.GET("/:id/events", handler.StreamEvents)
		sim.GET("/:id/snapshot", middleware.RateLimit(poll), handler.GetSnapshot)
	}

	r.GET("/healthz", func(c *gin.Context) { c.Status(200) })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r, nil
}
