package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/leopoldus11/vibecoding/api"
	"github.com/leopoldus11/vibecoding/config"
	"github.com/leopoldus11/vibecoding/internal/bootstrap"
	"github.com/leopoldus11/vibecoding/internal/cache"
	"github.com/leopoldus11/vibecoding/internal/kafka"
	"github.com/leopoldus11/vibecoding/internal/notify"
	"github.com/leopoldus11/vibecoding/internal/repository"
	"github.com/leopoldus11/vibecoding/internal/service/batches"
	"github.com/leopoldus11/vibecoding/internal/service/booking"
	"github.com/leopoldus11/vibecoding/internal/service/reconcile"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.BatchesCacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	batchRepo := repository.NewBatchRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)

	batchService := batches.NewBatchService(batchRepo, redisCache)
	bookingService := booking.NewBookingService(
		bookingRepo,
		batchRepo,
		redisCache,
		producer,
		cfg.Kafka.BookingEventsTopic,
		time.Duration(cfg.Booking.SeatLockMinutes)*time.Minute,
		log,
	)
	notifier := notify.NewKafkaNotifier(producer, cfg.Kafka.NotificationsTopic)
	reconciler := reconcile.NewReconciler(bookingRepo, batchRepo, notifier, log)

	batchHandler := api.NewBatchHandler(batchService)
	bookingHandler := api.NewBookingHandler(bookingService)
	webhookHandler := api.NewWebhookHandler(reconciler, log)

	if err := bootstrap.Run(ctx, cfg, log, batchHandler, bookingHandler, webhookHandler); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
