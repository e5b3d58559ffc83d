package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"datefinder/backend/internal/config"
	"datefinder/backend/internal/database"
	"datefinder/backend/internal/handler"
	"datefinder/backend/internal/hub"
	"datefinder/backend/internal/logging"
	"datefinder/backend/internal/metrics"
	"datefinder/backend/internal/notify"
	"datefinder/backend/internal/relationship"
	"datefinder/backend/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	// Swagger imports
	_ "datefinder/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           Datefinder API
// @version         1.0
// @description     This is the API for the Datefinder service.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.AppConfig

	logger := logging.NewLogger(logging.Config{
		ServiceName: "datefinder-api",
		Environment: cfg.AppEnv,
		Level:       cfg.LogLevel,
	})
	slog.SetDefault(logger)

	// Connect to the database
	db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "driver", cfg.DatabaseDriver, "error", err)
		os.Exit(1)
	}
	logger.Info("database connection established", "driver", cfg.DatabaseDriver)

	events := hub.NewHub(logger)
	notifiers := notify.Fanout{events}
	var mailer *notify.EmailNotifier
	if cfg.ResendAPIKey != "" {
		mailer = notify.NewEmailNotifier(notify.NewResendSender(cfg.ResendAPIKey, cfg.EmailFrom), logger)
		notifiers = append(notifiers, mailer)
	} else {
		logger.Warn("RESEND_API_KEY not set, e-mail notifications disabled")
	}

	relStore := store.New(db)
	scheduler := relationship.New(relStore,
		relationship.WithNotifier(notifiers),
		relationship.WithLogger(logger),
	)

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), logging.RequestID(), logging.RequestLogger(logger))

	if cfg.MetricsEnabled {
		metrics.MustRegister(prometheus.DefaultRegisterer)
		router.Use(metrics.Middleware())
		router.GET("/metrics", metrics.Handler())
	}

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := handler.New(db, relStore, scheduler, events, handler.Config{
		JWTSecret: cfg.JWTSecret,
		JWTTTL:    cfg.JWTTTL,
	}, logger)
	api.RegisterRoutes(router)

	// Event streams end when their request context is cancelled, so every
	// request derives from a context that shutdown cancels.
	baseCtx, stopStreams := context.WithCancel(context.Background())
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}
	srv.RegisterOnShutdown(stopStreams)

	go func() {
		logger.Info("server is running", "addr", srv.Addr, "swagger", "http://localhost:"+cfg.Port+"/swagger/index.html")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	if mailer != nil {
		mailer.Wait()
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	logger.Info("server exited")
}
