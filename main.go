package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Harshrb2424/jntuh-mcp-server/config"
	"github.com/Harshrb2424/jntuh-mcp-server/handler"
	"github.com/Harshrb2424/jntuh-mcp-server/middleware"
	"github.com/Harshrb2424/jntuh-mcp-server/pkg/logger"
	"github.com/Harshrb2424/jntuh-mcp-server/service"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	slog.Info("configuration loaded successfully")

	// Initialize services
	catalog := service.NewCatalogStore(&cfg.Catalog)
	jntuhSvc := service.NewJNTUHService(&cfg.JNTUH)
	renderer := service.NewHTTPRenderer(&cfg.Renderer)
	registry := service.NewArtifactRegistry(&cfg.Store)

	publisher, err := newPublisher(cfg)
	if err != nil {
		slog.Error("failed to initialize artifact publisher", "error", err)
		os.Exit(1)
	}

	resultsHandler := handler.NewResultsHandler(catalog, jntuhSvc, renderer, publisher, registry, cfg.Storage.PDFDir)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(corsMiddleware())

	router.GET("/api/health", resultsHandler.Health)

	api := router.Group("/api/mcp")
	{
		api.GET("/context", resultsHandler.Context)
		api.POST("/action/search_results", resultsHandler.Search)
		api.POST("/action/generate_result", resultsHandler.Generate)
		api.GET("/artifacts", resultsHandler.ListArtifacts)
	}

	router.GET("/static/pdfs/:filename", resultsHandler.Download)

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}

// newPublisher picks the artifact backend from configuration.
func newPublisher(cfg *config.Config) (service.Publisher, error) {
	switch cfg.Storage.Backend {
	case "minio":
		publisher, err := service.NewMinioPublisher(&cfg.Storage.Minio)
		if err != nil {
			return nil, err
		}
		if err := publisher.EnsureBucket(context.Background()); err != nil {
			return nil, err
		}
		return publisher, nil
	default:
		return service.NewLocalPublisher(&cfg.Storage)
	}
}

// corsMiddleware handles CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
