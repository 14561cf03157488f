package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"socialdesk/config"
	"socialdesk/internal/handler"
	"socialdesk/internal/middleware"
	"socialdesk/internal/services"
	"socialdesk/internal/transport/httpdto"
	"socialdesk/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     *config.Config
	logger     *logger.Logger
	onShutdown []func(context.Context) error
}

var (
	ReleaseMode = "release"
	DebugMode   = "debug"
	TestMode    = "test"
)

// Limiters are the request budgets of the public write routes. A nil limiter
// disables limiting for its routes.
type Limiters struct {
	Submit middleware.Limiter
	Auth   middleware.Limiter
}

// HealthCheck reports whether one dependency is reachable.
type HealthCheck struct {
	Name  string
	Check func(context.Context) error
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
	engine.Use(middleware.Recovery(l))

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%s", cfg.AppPort),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		engine: engine,
		config: cfg,
		logger: l,
	}
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// OnShutdown registers fn to run after the HTTP server stopped accepting
// requests, in registration order.
func (s *Server) OnShutdown(fn func(context.Context) error) {
	s.onShutdown = append(s.onShutdown, fn)
}

// most files a single request can carry (report: 1 + 5 + 3 + 3)
const maxFilesPerRequest = 12

// bodyLimit leaves room for the largest multipart request plus form fields.
func (s *Server) bodyLimit() int64 {
	if s.config.MaxUploadMB <= 0 {
		return 0
	}
	return (int64(s.config.MaxUploadMB) << 20 * maxFilesPerRequest) + (1 << 20)
}

func (s *Server) SetupRoutes(h *handler.Handlers, authService *services.AuthService, limiters Limiters, checks ...HealthCheck) {
	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(middleware.CORSMiddleware(s.config.CORSOrigins))
	s.engine.Use(middleware.LoggingMiddleware(s.logger))
	s.engine.Use(middleware.ErrorHandler(s.logger))
	s.engine.Use(middleware.BodyLimitMiddleware(s.bodyLimit()))

	s.engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "pong"}))
	})

	s.engine.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		status := gin.H{}
		healthy := true
		for _, hc := range checks {
			if err := hc.Check(ctx); err != nil {
				s.logger.WithContext(ctx).Warnf("health check %s failed: %v", hc.Name, err)
				status[hc.Name] = "down"
				healthy = false
				continue
			}
			status[hc.Name] = "up"
		}
		if !healthy {
			c.JSON(http.StatusServiceUnavailable, httpdto.Response[gin.H]{Success: false, Data: status, Code: "UNHEALTHY"})
			return
		}
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(status))
	})

	auth := middleware.AuthMiddleware(authService)
	submit := middleware.RateLimitMiddleware(limiters.Submit, s.logger)

	api := s.engine.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", middleware.RateLimitMiddleware(limiters.Auth, s.logger), h.Auth.Login)
		authGroup.POST("/logout", auth, h.Auth.Logout)
	}

	admin := api.Group("/admin", auth)
	{
		admin.GET("/dashboard", h.Admin.Dashboard)
		admin.GET("/counts", h.Admin.Counts)
		admin.PUT("/profile", h.Admin.UpdateProfile)
		admin.DELETE("/media", h.Admin.DestroyMedia)
	}

	bookings := api.Group("/bookings")
	{
		bookings.POST("", submit, h.Bookings.Create)
		bookings.GET("/availability", h.Bookings.Availability)
		bookings.GET("", auth, h.Bookings.List)
		bookings.GET("/:id", auth, h.Bookings.Get)
		bookings.DELETE("/:id", auth, h.Bookings.Delete)
	}

	recovery := api.Group("/account-recovery")
	{
		recovery.POST("", submit, h.Recoveries.Submit)
		recovery.GET("", auth, h.Recoveries.List)
		recovery.GET("/:id", auth, h.Recoveries.Get)
		recovery.PUT("/:id", auth, h.Recoveries.UpdateStatus)
		recovery.DELETE("/:id", auth, h.Recoveries.Delete)
	}

	reports := api.Group("/reports")
	{
		reports.POST("", submit, h.Reports.Submit)
		reports.GET("", auth, h.Reports.List)
		reports.GET("/:id", auth, h.Reports.Get)
		reports.DELETE("/:id", auth, h.Reports.Delete)
	}

	feedback := api.Group("/feedback")
	{
		feedback.POST("", submit, h.Feedback.Submit)
		feedback.GET("", h.Feedback.List)
		feedback.GET("/:id", auth, h.Feedback.Get)
		feedback.PUT("/:id", auth, h.Feedback.Update)
		feedback.DELETE("/:id", auth, h.Feedback.Delete)
	}

	blogs := api.Group("/blogs")
	{
		blogs.GET("", h.Blogs.List)
		blogs.GET("/:id", h.Blogs.Get)
		blogs.POST("", auth, h.Blogs.Create)
		blogs.PUT("/:id", auth, h.Blogs.Update)
		blogs.DELETE("/:id", auth, h.Blogs.Delete)
	}

	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, httpdto.NewErrorResponse("Route not found", "NOT_FOUND"))
	})
}

func (s *Server) Start() error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("Starting the server on port %s...", s.config.AppPort)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		s.logger.Errorf("Error in starting the server: %s", err)
		return err
	case <-quit:
	}

	s.logger.Infof("Quitting signal received.. Shutting down within 10 seconds")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Errorf("Error in the graceful shutdown of the server: %s", err)
		return err
	}
	for _, fn := range s.onShutdown {
		if err := fn(ctx); err != nil {
			s.logger.Warnf("shutdown hook: %v", err)
		}
	}

	s.logger.Infof("Server stopped gracefully")
	return nil
}
