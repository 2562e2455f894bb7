package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-kit/log"
	"github.com/minio/minio-go/v7"

	"github.com/karagol/memorywall/internal/config"
	"github.com/karagol/memorywall/internal/gallery"
	"github.com/karagol/memorywall/internal/metrics"
	"github.com/karagol/memorywall/internal/upload"
)

// Dependencies groups the services required by the HTTP router.
type Dependencies struct {
	Config         config.Config
	ObjectStore    *minio.Client
	UploadService  *upload.Service
	GalleryService *gallery.Service
	Logger         log.Logger
}

// NewRouter builds a Gin engine with foundational middleware and routes.
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(requestLogger(deps.Logger))

	// anonymous-contribution service: contributors upload from arbitrary
	// origins, so preflight is wide open
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "X-Request-ID")
	router.Use(cors.New(corsConfig))

	registerHealthRoutes(router, deps)
	metrics.Register(router, deps.Config.Metrics.PrometheusPath)

	api := router.Group("/api")
	if deps.UploadService != nil {
		upload.RegisterRoutes(api, deps.UploadService)
	}
	if deps.GalleryService != nil {
		gallery.RegisterRoutes(api, deps.GalleryService)
	}

	return router
}
