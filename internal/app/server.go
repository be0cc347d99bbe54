// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"unihome_backend/internal/admin"
	"unihome_backend/internal/auth"
	"unihome_backend/internal/bookmark"
	"unihome_backend/internal/chat"
	"unihome_backend/internal/config"
	"unihome_backend/internal/jobs"
	"unihome_backend/internal/middleware"
	"unihome_backend/internal/notification"
	"unihome_backend/internal/property"
	"unihome_backend/internal/review"
	"unihome_backend/internal/shared"
	"unihome_backend/internal/user"
	"unihome_backend/internal/viewing"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger

	maintenanceJob *jobs.MaintenanceJob
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	tokenService shared.TokenService,
	authHandler *auth.Handler,
	userHandler *user.Handler,
	propertyHandler *property.Handler,
	viewingHandler *viewing.Handler,
	reviewHandler *review.Handler,
	bookmarkHandler *bookmark.Handler,
	chatHandler *chat.Handler,
	notificationHandler *notification.Handler,
	adminHandler *admin.Handler,
	maintenanceJob *jobs.MaintenanceJob,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.AllowCredentials = true
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	authMW := middleware.AuthMiddleware(tokenService, logger.Named("AuthMiddleware"))

	// --- Setup Routes ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "UniHome API is healthy!"})
	})

	v1 := router.Group("/api/v1")

	authHandler.RegisterRoutes(v1)
	userHandler.RegisterRoutes(v1, authMW)
	propertyHandler.RegisterRoutes(v1, authMW)
	viewingHandler.RegisterRoutes(v1, authMW)
	reviewHandler.RegisterRoutes(v1, authMW)
	bookmarkHandler.RegisterRoutes(v1, authMW)
	chatHandler.RegisterRoutes(v1, authMW)
	notificationHandler.RegisterRoutes(v1, authMW)
	adminHandler.RegisterRoutes(v1, authMW)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer:     httpServer,
		router:         router,
		cfg:            cfg,
		logger:         logger,
		maintenanceJob: maintenanceJob,
	}, nil
}

func (s *Server) Start() error {
	if s.maintenanceJob != nil {
		if err := s.maintenanceJob.SetupAndStart(); err != nil {
			s.logger.Error("Failed to setup and start maintenance job", zap.Error(err))
		}
	} else {
		s.logger.Info("Maintenance job is not configured, skipping start.")
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped gracefully or an error occurred")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.maintenanceJob != nil {
		s.maintenanceJob.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
