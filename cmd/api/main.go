package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/contractpay/settlement-backend/config"
	"github.com/contractpay/settlement-backend/internal/bootstrap"
	"github.com/contractpay/settlement-backend/internal/logger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	lg, err := logger.New(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer lg.Sync()

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()
	db, err := bootstrap.OpenDB(ctx, &cfg.Database, lg)
	if err != nil {
		lg.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		lg.Warn("report cache disabled", zap.Error(err))
	}
	if rdb != nil {
		defer rdb.Close()
	}

	ledger := bootstrap.NewLedger(db, rdb, cfg.Redis.ReportTTL, lg)
	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "settlement-api",
		Version:     cfg.App.Version,
		DB:          db,
		Redis:       rdb,
		Ledger:      ledger,
		Server:      cfg.Server,
		RateLimit:   cfg.RateLimit,
		Logger:      lg,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		lg.Info("settlement api listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	lg.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error("server forced to shutdown", zap.Error(err))
	}
}
