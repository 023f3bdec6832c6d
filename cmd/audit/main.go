package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aryamw/shopcarts/internal/audit"
	"github.com/aryamw/shopcarts/internal/config"
	kafkax "github.com/aryamw/shopcarts/internal/kafka"
	"github.com/aryamw/shopcarts/internal/postgres"
	"github.com/aryamw/shopcarts/internal/redisx"
	"github.com/aryamw/shopcarts/internal/shopcarts"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Service
	svc := &audit.Service{
		Repo:        &audit.PostgresRepo{DB: db},
		Redis:       rdb,
		ServiceName: cfg.ServiceName + "-audit",
	}

	// Consumer
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.AuditGroup, shopcarts.TopicCartEvents, cfg.AuditWorkers)

	go func() {
		log.Info().
			Str("group", cfg.AuditGroup).
			Str("topic", shopcarts.TopicCartEvents).
			Int("workers", cfg.AuditWorkers).
			Msg("audit consumer started")
		if err := cons.Start(ctx, svc.HandleEvent); err != nil {
			log.Error().Err(err).Msg("consumer exit")
			cancel()
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info().Msg("shutting down consumer...")
	cancel()
	time.Sleep(500 * time.Millisecond)
}
