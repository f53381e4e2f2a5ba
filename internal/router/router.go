package router

import (
	"github.com/gin-gonic/gin"

	"github.com/rajrawat37/gemini-traceability-microservice/internal/handler"
	"github.com/rajrawat37/gemini-traceability-microservice/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	docH *handler.DocumentHandler,
	graphH *handler.GraphHandler,
	healthH *handler.HealthHandler,
	allowedOrigins []string,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Document extraction
	docs := v1.Group("/documents")
	docs.POST("/extract", docH.Extract)

	// Knowledge graphs
	graphs := v1.Group("/graphs")
	graphs.POST("", graphH.Build)
	graphs.GET("", graphH.List)
	graphs.GET("/:id", graphH.Get)
	graphs.GET("/:id/trace/:seedId", graphH.Trace)
	graphs.GET("/:id/rtm", graphH.RTM)

	return r
}
