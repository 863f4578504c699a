package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"bucket-browser/internal/browser"
	"bucket-browser/internal/config"

	"bucket-browser/internal/api/handlers"
	"bucket-browser/internal/api/middleware"
)

type Server struct {
	cfg    *config.Config
	svc    *browser.Service
	router *gin.Engine
}

func New(cfg *config.Config, svc *browser.Service) *Server {
	if cfg.Server.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode) // Set to Release for production
	}

	s := &Server{
		cfg:    cfg,
		svc:    svc,
		router: gin.New(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery(), middleware.SilentLogger(), middleware.Metrics())

	// CORS Configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	corsConfig.ExposeHeaders = []string{"Content-Disposition", "Content-Length"}

	s.router.Use(cors.New(corsConfig))

	// Multipart parts beyond this spill to temp files.
	if limit := s.svc.MaxUploadSize(); limit > 0 {
		s.router.MaxMultipartMemory = limit
	}
}

func (s *Server) setupRoutes() {
	fileHandler := handlers.NewFileHandler(s.svc)
	folderHandler := handlers.NewFolderHandler(s.svc)
	bucketHandler := handlers.NewBucketHandler(s.svc)

	// Health Check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "bucket-browser"})
	})

	api := s.router.Group("/api")
	{
		api.GET("/bucket/check", bucketHandler.CheckBucket)
		api.GET("/breadcrumbs", fileHandler.Breadcrumbs)

		api.GET("/files", fileHandler.ListFiles)
		api.GET("/files/media", fileHandler.MediaFiles)
		api.GET("/files/preview", fileHandler.Preview)
		api.GET("/files/download", fileHandler.Download)
		api.GET("/files/url", fileHandler.PresignedURL)
		api.POST("/files/upload", fileHandler.Upload)

		api.POST("/folders", folderHandler.CreateFolder)
	}
}

// Handler exposes the router, e.g. for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the server on the configured port
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}
