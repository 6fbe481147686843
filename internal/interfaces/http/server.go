// internal/interfaces/http/server.go
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/mobilestore-api/internal/config"
	"github.com/your-org/mobilestore-api/internal/domain/cart"
	"github.com/your-org/mobilestore-api/internal/domain/order"
	"github.com/your-org/mobilestore-api/internal/domain/product"
	"github.com/your-org/mobilestore-api/internal/domain/user"
	"github.com/your-org/mobilestore-api/internal/infrastructure/database/postgres"
	"github.com/your-org/mobilestore-api/internal/infrastructure/database/redis"
	"github.com/your-org/mobilestore-api/internal/interfaces/http/handlers"
	"github.com/your-org/mobilestore-api/internal/interfaces/http/middleware"
	"github.com/your-org/mobilestore-api/internal/interfaces/http/routes"
	"github.com/your-org/mobilestore-api/internal/pkg/auth"
	"github.com/your-org/mobilestore-api/internal/pkg/pdf"
)

type dependencyCheck struct {
	name  string
	check func() error
}

// Server represents the HTTP server
type Server struct {
	config     *config.Config
	logger     *logrus.Logger
	gin        *gin.Engine
	httpServer *http.Server
	db         *postgres.Database
	cache      *redis.Client
	checks     []dependencyCheck
	startedAt  time.Time
}

// NewServer creates a new HTTP server instance
func NewServer(cfg *config.Config, db *postgres.Database, cache *redis.Client, logger *logrus.Logger) *Server {
	return &Server{
		config: cfg,
		logger: logger,
		db:     db,
		cache:  cache,
		checks: []dependencyCheck{
			{name: "database", check: db.Health},
			{name: "redis", check: cache.Health},
		},
		startedAt: time.Now(),
	}
}

// Start builds the router and serves until Stop is called
func (s *Server) Start() error {
	if s.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s.gin = gin.New()
	if err := s.gin.SetTrustedProxies(s.config.Security.TrustedProxies); err != nil {
		return fmt.Errorf("invalid trusted proxies: %w", err)
	}

	handlers.RegisterValidators()
	s.setupMiddleware()
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.gin,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	s.logger.WithFields(logrus.Fields{
		"port":        s.config.Server.Port,
		"environment": s.config.App.Environment,
	}).Info("http server starting")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("shutting down http server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info("http server stopped")
	return nil
}

func (s *Server) setupMiddleware() {
	s.gin.Use(middleware.RequestID())
	s.gin.Use(middleware.Logger(s.logger))
	s.gin.Use(gin.Recovery())
	s.gin.Use(middleware.SecurityHeaders(s.config.App.Name))
	s.gin.Use(middleware.CORS(s.config))
	s.gin.Use(middleware.RequestSizeLimit(s.config.Server.MaxBodyBytes))
	s.gin.Use(middleware.Timeout(s.config.Server.RequestTimeout))
	s.gin.Use(middleware.RateLimit(s.config.Security.RateLimitPerMinute, s.cache, s.logger))
}

func (s *Server) setupRoutes() {
	s.gin.GET("/health", s.healthCheck)
	s.gin.GET("/ready", s.readinessCheck)

	db := s.db.GetDB()

	jwtManager := auth.NewJWTManager(s.config)
	passwords := auth.NewPasswordManager(s.config)
	revocations := auth.NewRevocationList(s.cache.GetClient())

	users := user.NewService(db, jwtManager, passwords, revocations, s.logger)
	products := product.NewService(db, s.logger)
	orders := order.NewService(db, s.logger)

	h := &routes.Handlers{
		Auth:         handlers.NewAuthHandler(users),
		Product:      handlers.NewProductHandler(products),
		Category:     handlers.NewCategoryHandler(product.NewCategoryService(db, s.logger)),
		Brand:        handlers.NewBrandHandler(product.NewBrandService(db, s.logger)),
		Review:       handlers.NewReviewHandler(product.NewReviewService(db)),
		Cart:         handlers.NewCartHandler(cart.NewService(db, s.logger)),
		Order:        handlers.NewOrderHandler(orders),
		Invoice:      handlers.NewInvoiceHandler(orders, users, pdf.NewService(s.config)),
		AdminProduct: handlers.NewAdminProductHandler(products),
		AdminOrder:   handlers.NewAdminOrderHandler(orders),
		AdminUser:    handlers.NewAdminUserHandler(user.NewAdminService(db, passwords, s.logger)),
	}

	requireAuth := middleware.AuthMiddleware(jwtManager, revocations, s.logger)
	routes.SetupRoutes(s.gin.Group("/api"), h, requireAuth)
}

// healthCheck pings every backing store
func (s *Server) healthCheck(c *gin.Context) {
	for _, dep := range s.checks {
		if err := dep.check(); err != nil {
			s.logger.WithError(err).WithField("dependency", dep.name).Error("health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  dep.name + " ping failed",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"version":     s.config.App.Version,
		"environment": s.config.App.Environment,
	})
}

func (s *Server) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(s.startedAt).Round(time.Second).String(),
	})
}
