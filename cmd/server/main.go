package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/agrisight/paddy/internal/config"
	"github.com/agrisight/paddy/internal/server"
)

func main() {
	_ = godotenv.Load()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg := loadConfig(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, cleanup, err := server.Bootstrap(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to bootstrap server", zap.Error(err))
	}
	defer cleanup()

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      srv.SetupRouter(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
	}

	go func() {
		log.Info("Starting server", zap.String("addr", addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
}

func loadConfig(log *zap.Logger) *config.Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config/config.toml"
	}

	cfg, err := config.Load(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Fatal("Failed to load config", zap.String("path", path), zap.Error(err))
		}
		log.Info("No config file found, using defaults", zap.String("path", path))
		cfg = config.Default()
	}

	cfg.ApplyEnv()
	return cfg
}
