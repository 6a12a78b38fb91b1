// Package main runs the StayVista HTTP server with an optional inline notification worker.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/stayvista/backend/config"
	"github.com/stayvista/backend/internal/auth"
	"github.com/stayvista/backend/internal/bookings"
	"github.com/stayvista/backend/internal/metrics"
	"github.com/stayvista/backend/internal/notify"
	"github.com/stayvista/backend/internal/payments"
	"github.com/stayvista/backend/internal/rooms"
	"github.com/stayvista/backend/internal/server"
	"github.com/stayvista/backend/internal/stats"
	"github.com/stayvista/backend/internal/users"
	"github.com/stayvista/backend/internal/worker"
	"github.com/stayvista/backend/pkg/database"
	"github.com/stayvista/backend/pkg/queue"
	"github.com/stayvista/backend/pkg/redis"
	"github.com/stayvista/backend/pkg/storage"
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

	if err := database.Migrate(cfg.Database.DSN(), logger); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	// Notifications need redis; without it bookings still succeed.
	var jobQueue *queue.Queue
	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Warn("redis unavailable, notifications disabled", zap.Error(err))
	} else {
		defer rdb.Close()
		jobQueue = queue.NewQueue(rdb.Client, cfg.Notify.MaxAttempts, logger)
	}

	var imageStore rooms.ImageStore
	if cfg.AWS.Region != "" {
		s3Client, err := storage.NewS3(ctx, storage.S3Config{
			Region:          cfg.AWS.Region,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
			ImagesBucket:    cfg.AWS.ImagesBucket,
		}, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		} else {
			imageStore = s3Client
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	// Repositories
	userRepo := users.NewRepository(pool)
	roomRepo := rooms.NewRepository(pool)
	bookingRepo := bookings.NewRepository(pool)
	logRepo := notify.NewLogRepository(pool)

	// Payments
	if cfg.Stripe.SecretKey == "" {
		logger.Warn("STRIPE_SECRET_KEY not set, payment intents will fail")
	}
	broker := payments.NewBroker(payments.NewStripeProvider(cfg.Stripe.SecretKey, logger), cfg.Stripe.Currency, collector, logger)

	// Bookings
	opts := []bookings.Option{bookings.WithMetrics(collector)}
	if jobQueue != nil {
		opts = append(opts, bookings.WithNotifier(notify.NewDispatcher(jobQueue, logger)))
	}
	if cfg.Stripe.VerifyBooking && cfg.Stripe.SecretKey != "" {
		opts = append(opts, bookings.WithVerifier(broker))
	}
	manager := bookings.NewManager(bookingRepo, logger, opts...)

	style := stats.Unified
	if cfg.Stats.LegacyLabels {
		style = stats.Legacy
	}
	aggregator := stats.NewAggregator(bookingRepo, userRepo, roomRepo, userRepo, style, logger)

	// Auth
	tokens := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.ExpireDays)
	cookie := auth.NewCookiePolicy(cfg.Server.IsProduction(), tokens.TTL())
	gate := auth.NewGate(userRepo, logger)

	router := server.NewRouter(server.Deps{
		Tokens: tokens,
		Gate:   gate,
		Handlers: server.Handlers{
			Auth:          auth.NewHandler(tokens, cookie, logger),
			Users:         users.NewHandler(users.NewService(userRepo, logger), logger),
			Rooms:         rooms.NewHandler(rooms.NewRegistry(roomRepo, logger), logger),
			Images:        rooms.NewImageHandler(imageStore, logger),
			Bookings:      bookings.NewHandler(manager, logger),
			Payments:      payments.NewHandler(broker, logger),
			Stats:         stats.NewHandler(aggregator, logger),
			Notifications: notify.NewHandler(logRepo),
		},
		Metrics:           collector,
		Gatherer:          reg,
		CORSOrigins:       cfg.Server.CORSAllowedOrigins,
		AuthRatePerMinute: cfg.Server.AuthRatePerMinute,
		Health:            pool.Ping,
		Logger:            logger,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Background worker (booking emails)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	if jobQueue != nil && cfg.Notify.InlineWorker {
		sink := newSink(cfg.Email, logger)
		processor := worker.NewNotificationProcessor(jobQueue, sink, logRepo, collector, logger)
		go processor.Run(workerCtx)
		logger.Info("notification worker started")
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	workerCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

// newSink builds the SMTP sink and reports reachability without blocking startup.
func newSink(cfg config.EmailConfig, logger *zap.Logger) *notify.SMTPSink {
	sink := notify.NewSMTPSink(notify.SMTPConfig{
		Host:        cfg.SMTPHost,
		Port:        cfg.SMTPPort,
		User:        cfg.SMTPUser,
		Password:    cfg.SMTPPass,
		FromAddress: cfg.FromAddress,
		FromName:    cfg.FromName,
	}, logger)
	go func() {
		if err := sink.Verify(); err != nil {
			logger.Warn("smtp verify failed", zap.Error(err))
			return
		}
		logger.Info("SMTP server is ready", zap.String("host", cfg.SMTPHost))
	}()
	return sink
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
