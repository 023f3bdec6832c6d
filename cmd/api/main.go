package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aryamw/shopcarts/internal/config"
	"github.com/aryamw/shopcarts/internal/httpx"
	kafkax "github.com/aryamw/shopcarts/internal/kafka"
	"github.com/aryamw/shopcarts/internal/postgres"
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

	// Kafka producer
	prod := kafkax.NewProducer(cfg.KafkaBrokers, shopcarts.TopicCartEvents, 1024)
	prod.Start(ctx)

	// Managers & handlers
	repo := &shopcarts.PostgresRepo{DB: db}
	router := httpx.NewRouter()
	ch := &httpx.CartsHandler{
		Carts:    &shopcarts.CartService{Repo: repo},
		Producer: prod,
		Service:  cfg.ServiceName,
	}
	ch.Register(router)
	ih := &httpx.ItemsHandler{
		Items:    &shopcarts.ItemService{Repo: repo},
		Producer: prod,
		Service:  cfg.ServiceName,
	}
	ih.Register(router)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info().Msg("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close() // stop intake -> flush & close writer
	cancel()
	prod.WaitClosed() // drain
}
