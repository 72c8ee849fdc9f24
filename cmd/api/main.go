package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"route-warmer/internal/adapter/delivery/http"
	"route-warmer/internal/app"
	"route-warmer/internal/config"
	"route-warmer/internal/logger"
)

func main() {
	// --- Configuration ---
	app.LoadEnv()
	cfgPath := "configs"
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration from %s: %v", cfgPath, err)
	}

	// --- Logger ---
	zapLogger, err := logger.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("Failed to setup logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()
	zapLogger.Info("Logger initialized", zap.Any("config", cfg.Logger))

	// --- Dependency Injection ---
	application, err := app.New(cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to initialize dependencies", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	application.StartBackground(ctx)

	// --- HTTP Router & Server ---
	zapLogger.Info("Setting up HTTP router...")
	r := router.New()
	http.RegisterRoutes(r, application.Handler(), zapLogger)

	server := &fasthttp.Server{
		Handler: http.LoggingMiddleware(zapLogger, r.Handler),
		Name:    cfg.App.Name,
	}

	go func() {
		<-ctx.Done()
		zapLogger.Info("Shutting down HTTP server")
		if err := server.Shutdown(); err != nil {
			zapLogger.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	serverAddr := ":" + cfg.Server.Port
	zapLogger.Info("Starting HTTP server", zap.String("address", serverAddr))
	if err := server.ListenAndServe(serverAddr); err != nil {
		zapLogger.Fatal("Failed to start server", zap.Error(err))
	}
}
