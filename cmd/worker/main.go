// Package main runs the standalone notification worker (booking emails).
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/stayvista/backend/config"
	"github.com/stayvista/backend/internal/metrics"
	"github.com/stayvista/backend/internal/notify"
	"github.com/stayvista/backend/internal/worker"
	"github.com/stayvista/backend/pkg/database"
	"github.com/stayvista/backend/pkg/queue"
	"github.com/stayvista/backend/pkg/redis"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	sink := notify.NewSMTPSink(notify.SMTPConfig{
		Host:        cfg.Email.SMTPHost,
		Port:        cfg.Email.SMTPPort,
		User:        cfg.Email.SMTPUser,
		Password:    cfg.Email.SMTPPass,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
	}, logger)
	if err := sink.Verify(); err != nil {
		logger.Warn("smtp verify failed", zap.Error(err))
	} else {
		logger.Info("SMTP server is ready", zap.String("host", cfg.Email.SMTPHost))
	}

	jobQueue := queue.NewQueue(rdb.Client, cfg.Notify.MaxAttempts, logger)
	processor := worker.NewNotificationProcessor(jobQueue, sink, notify.NewLogRepository(pool), metrics.Nop{}, logger)

	workerCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go processor.Run(workerCtx)
	logger.Info("worker started", zap.Int("max_attempts", cfg.Notify.MaxAttempts))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancel()
	time.Sleep(2 * time.Second)
	logger.Info("worker stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
