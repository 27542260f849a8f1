package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/contractpay/settlement-backend/config"
	"github.com/contractpay/settlement-backend/internal/bootstrap"
	cronjob "github.com/contractpay/settlement-backend/internal/ledger/cron"
	"github.com/contractpay/settlement-backend/internal/logger"
	"go.uber.org/zap"
)

// The worker keeps the report cache warm for the trailing window.
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

	ctx := context.Background()
	db, err := bootstrap.OpenDB(ctx, &cfg.Database, lg)
	if err != nil {
		lg.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		lg.Fatal("failed to connect to redis", zap.Error(err))
	}
	if rdb == nil {
		lg.Fatal("REDIS_ADDR is required for the report worker")
	}
	defer rdb.Close()

	ledger := bootstrap.NewLedger(db, rdb, cfg.Redis.ReportTTL, lg)
	scheduler := cronjob.NewScheduler(ledger.Cache, cfg.Worker.WarmWindowDays, lg.Named("report_worker"))

	if err := scheduler.RunOnce(ctx); err != nil {
		lg.Warn("initial report warm failed", zap.Error(err))
	}
	if err := scheduler.Start(cfg.Worker.WarmSchedule); err != nil {
		lg.Fatal("failed to start scheduler", zap.Error(err))
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	lg.Info("stopping report worker")
	<-scheduler.Stop().Done()
}
