package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/debangshucode/client-management-system/internal/auth"
	"github.com/debangshucode/client-management-system/internal/config"
	"github.com/debangshucode/client-management-system/internal/db"
	"github.com/debangshucode/client-management-system/internal/logger"
	"github.com/debangshucode/client-management-system/internal/server"
)

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func main() {
	flag.Parse()
	_ = godotenv.Load()
	cfg := config.Load()

	zl, err := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, FilePath: cfg.LogFile})
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	conn, err := db.ConnectAndMigrate(cfg.DatabaseDSN)
	if err != nil {
		zl.Fatal("database connection failed", zap.Error(err))
	}
	if *migrateOnlyFlag {
		zl.Info("migrations completed; exiting as requested")
		return
	}

	tokens, err := auth.NewService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		zl.Fatal("token service init failed", zap.Error(err))
	}

	handler := server.New(conn, tokens, zl, cfg.Production())
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: handler}

	go func() {
		zl.Info("server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zl.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zl.Info("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zl.Error("error during shutdown", zap.Error(err))
	}
	zl.Info("server gracefully stopped")
}
