package main

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Abhi4906/mini-crm/internal/handler"
	"github.com/Abhi4906/mini-crm/internal/middleware"
	"github.com/Abhi4906/mini-crm/internal/store"
	"github.com/Abhi4906/mini-crm/pkg/config"
	"github.com/Abhi4906/mini-crm/pkg/database"
	"github.com/Abhi4906/mini-crm/pkg/jwtutil"
	"github.com/Abhi4906/mini-crm/pkg/logger"
	"github.com/Abhi4906/mini-crm/prometheus"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting mini-crm service...", zap.String("environment", cfg.Server.Env))

	// Initialize JWT utilities
	jwtutil.Initialize(&cfg.JWT)
	log.Info("JWT utilities initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(cfg)
	log.Info("Prometheus metrics initialized")

	// Initialize database and run migrations
	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established and migrations completed",
		zap.String("db_host", cfg.Database.Host),
		zap.String("db_name", cfg.Database.Name))

	db := database.GetDB()
	customers := handler.NewCustomerHandler(store.NewCustomerStore(db))
	leads := handler.NewLeadHandler(store.NewLeadStore(db))

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)

	// Request logging middleware
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start).Seconds()
			status := c.Response().Status

			log := logger.FromContext(c)
			log.Info("HTTP Request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", status),
				zap.Float64("duration_s", duration),
				zap.String("ip", c.RealIP()),
			)

			prometheus.HttpRequestsTotal.WithLabelValues(
				c.Request().Method,
				c.Path(),
				strconv.Itoa(status),
			).Inc()

			prometheus.HttpRequestDuration.WithLabelValues(
				c.Request().Method,
				c.Path(),
				strconv.Itoa(status),
			).Observe(duration)

			return err
		}
	})

	// Public routes that don't require authentication
	e.GET("/", handler.Hello)
	e.GET("/health", handler.Hello)

	// Prometheus metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// API routes that require authentication
	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware)

	customerGroup := api.Group("/customers")
	customerGroup.GET("", customers.List)
	customerGroup.POST("", customers.Create)
	customerGroup.GET("/:id", customers.Get)
	customerGroup.PUT("/:id", customers.Update)
	customerGroup.DELETE("/:id", customers.Delete)

	leadGroup := api.Group("/leads")
	leadGroup.GET("", leads.List)
	leadGroup.POST("", leads.Create)
	leadGroup.GET("/stats", leads.Stats)
	leadGroup.GET("/:id", leads.Get)
	leadGroup.PUT("/:id", leads.Update)
	leadGroup.DELETE("/:id", leads.Delete)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
