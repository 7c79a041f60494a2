package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mediavault/config"
	"mediavault/internal/handler"
	"mediavault/internal/middleware"
	"mediavault/internal/redis"
	"mediavault/internal/transport/httpdto"
	"mediavault/internal/ws"
	"mediavault/pkg/database"
	"mediavault/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     *config.Config
	logger     *logger.Logger
}

var (
	ReleaseMode = "release"
	DebugMode   = "debug"
	TestMode    = "test"
)

type Handlers struct {
	Mux     *handler.MuxHandler
	File    *handler.FileHandler
	Comment *handler.CommentHandler
	WS      *ws.Handler
}

func New(cfg *config.Config, l *logger.Logger) *Server {
	if cfg.AppMode == ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.AppMode == TestMode {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Server{
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.AppPort),
			Handler: engine,
		},
		engine: engine,
		config: cfg,
		logger: l,
	}
}

func (s *Server) SetupRoutes(handlers *Handlers, limiter *redis.RateLimiter) {
	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(middleware.CORSMiddleware(s.config.AppOrigin))
	s.engine.Use(middleware.LoggingMiddleware(s.logger))
	s.engine.Use(middleware.ErrorHandler(s.logger))

	s.engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "pong"}))
	})

	s.engine.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(); err != nil {
			c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorResponse(err.Error(), "UNHEALTHY"))
			return
		}
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"status": "healthy"}))
	})

	auth := middleware.AuthMiddleware(s.config.JWTSecret)

	muxGroup := s.engine.Group("/api/mux", auth)
	{
		if limiter != nil {
			muxGroup.POST("/direct-upload", middleware.UploadRateLimit(limiter), handlers.Mux.CreateDirectUpload)
		} else {
			muxGroup.POST("/direct-upload", handlers.Mux.CreateDirectUpload)
		}
		muxGroup.GET("/status", handlers.Mux.Status)
		muxGroup.POST("/update-file", handlers.Mux.UpdateFile)
	}

	files := s.engine.Group("/api/files", auth)
	{
		files.POST("", handlers.File.Create)
		files.POST("/video", handlers.File.CreateVideo)
		files.POST("/upload-url", handlers.File.CreateUploadURL)
		files.GET("", handlers.File.List)
		files.GET("/usage", handlers.File.Usage)
		files.PATCH("/:id/rename", handlers.File.Rename)
		files.PATCH("/:id/users", handlers.File.UpdateUsers)
		files.DELETE("/:id", handlers.File.Delete)
	}

	comments := s.engine.Group("/api/comments", auth)
	{
		if limiter != nil {
			comments.POST("", middleware.CommentRateLimit(limiter), handlers.Comment.Create)
		} else {
			comments.POST("", handlers.Comment.Create)
		}
		comments.GET("", handlers.Comment.List)
		comments.PATCH("/:id/resolve", handlers.Comment.Resolve)
		comments.DELETE("/:id", handlers.Comment.Delete)
	}

	s.engine.GET("/ws", auth, handlers.WS.Connect)
}

func (s *Server) Start() error {
	go func() {
		if s.logger != nil {
			s.logger.Infof("Starting the server on port %s...", s.config.AppPort)
		}
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if s.logger != nil {
				s.logger.Errorf("Error in starting the server: %s", err)
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	if s.logger != nil {
		s.logger.Infof("Server is running on :%s", s.config.AppPort)
	}

	<-quit

	if s.logger != nil {
		s.logger.Infof("Quitting signal received.. Shutting down after 5 seconds")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		if s.logger != nil {
			s.logger.Infof("Error in the graceful shutdown of the server: %s", err)
		}
		return err
	}

	if s.logger != nil {
		s.logger.Infof("Server stopped gracefully")
	}

	return nil
}
