package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/foodcourt/token-service/internal/cache"
	"github.com/foodcourt/token-service/internal/catalog"
	"github.com/foodcourt/token-service/internal/config"
	"github.com/foodcourt/token-service/internal/httpx"
	kafkax "github.com/foodcourt/token-service/internal/kafka"
	"github.com/foodcourt/token-service/internal/logger"
	"github.com/foodcourt/token-service/internal/orders"
	"github.com/foodcourt/token-service/internal/postgres"
	"github.com/foodcourt/token-service/internal/realtime"
	"github.com/foodcourt/token-service/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	lg := logger.New(cfg.LogLevel)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("db schema: %v", err)
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()
	store := cache.New(&cache.RedisKV{Client: rdb}, lg)

	// Kafka producers
	prodCreated := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCreated, 1024, lg)
	prodCreated.Start(ctx)
	prodStatus := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderStatusChanged, 1024, lg)
	prodStatus.Start(ctx)

	// Realtime hub
	hub := realtime.NewHub()

	// Services
	catalogRepo := catalog.NewRepo(db)
	catalogSvc := catalog.NewService(catalogRepo, store, lg)
	orderRepo := &orders.Repo{DB: db}
	orderSvc := orders.NewService(orderRepo, catalogRepo, store, hub, prodCreated, prodStatus, cfg.ServiceName, lg)

	// HTTP
	router := httpx.NewRouter()
	ph := &httpx.ProductsHandler{Service: catalogSvc, Log: lg}
	ph.Register(router)
	oh := &httpx.OrdersHandler{Service: orderSvc, Hub: hub, Log: lg}
	oh.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		lg.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	lg.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	cancel() // stop producer loops, which flush their inboxes
	prodCreated.WaitClosed()
	prodStatus.WaitClosed()
}
