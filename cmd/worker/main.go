package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/leopoldus11/vibecoding/config"
	"github.com/leopoldus11/vibecoding/internal/cache"
	"github.com/leopoldus11/vibecoding/internal/email"
	"github.com/leopoldus11/vibecoding/internal/kafka"
	"github.com/leopoldus11/vibecoding/internal/repository"
	"github.com/leopoldus11/vibecoding/internal/service/booking"
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
	bookingService := booking.NewBookingService(
		bookingRepo,
		batchRepo,
		redisCache,
		producer,
		cfg.Kafka.BookingEventsTopic,
		time.Duration(cfg.Booking.SeatLockMinutes)*time.Minute,
		log,
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	emailSender := email.NewSender(cfg.SMTP, log)

	go func() {
		err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.NotificationEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.Error().Err(err).Msg("decode notification event")
				return nil
			}
			if err := emailSender.Send(ctx, event); err != nil {
				// Notification failure never blocks the stream; the booking
				// stays completed either way.
				log.Error().Err(err).Str("booking_id", event.BookingID).Msg("confirmation email failed")
			}
			return nil
		})
		if err != nil {
			log.Warn().Err(err).Msg("consumer stopped")
		}
	}()

	sweep := time.NewTicker(time.Duration(cfg.Worker.ExpirationSweepMinutes) * time.Minute)
	defer sweep.Stop()

	log.Info().Msg("worker started")
	for {
		select {
		case <-sweep.C:
			expired, err := bookingService.ExpirePendingBookings(ctx)
			if err != nil {
				log.Error().Err(err).Msg("expire bookings")
				continue
			}
			if len(expired) > 0 {
				log.Info().Int("count", len(expired)).Msg("expired stale seat locks")
			}
		case <-ctx.Done():
			log.Info().Msg("shutting down")
			return
		}
	}
}
