package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/SergeyBogomolovv/order-desk/docs"
	"github.com/SergeyBogomolovv/order-desk/internal/app"
	"github.com/SergeyBogomolovv/order-desk/internal/config"
	"github.com/SergeyBogomolovv/order-desk/internal/handler"
	"github.com/SergeyBogomolovv/order-desk/internal/postgres"
	"github.com/SergeyBogomolovv/order-desk/internal/publisher"
	"github.com/SergeyBogomolovv/order-desk/internal/repo"
	"github.com/SergeyBogomolovv/order-desk/internal/service"
	"github.com/SergeyBogomolovv/order-desk/pkg/cache"
	"github.com/SergeyBogomolovv/order-desk/pkg/trm"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

type store interface {
	service.OrderRepo
	service.ProductRepo
}

type eventPublisher interface {
	service.OrderEvents
	service.ProductEvents
	io.Closer
}

// @title           Order Desk API
// @version         1.0
// @description     Документация HTTP API
func main() {
	conf := config.New()
	logger := newLogger(conf.Env)
	panicIfErr("invalid config", conf.Validate())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	var (
		orderStore store
		txManager  = trm.NopManager()
	)
	switch conf.Storage {
	case config.StoragePostgres:
		db, err := postgres.New(conf.Postgres)
		panicIfErr("failed to connect to db", err)
		defer db.Close()
		panicIfErr("failed to migrate db", postgres.Migrate(ctx, db))
		logger.Info("postgres connected")

		orderStore = repo.NewPostgresRepo(db)
		txManager = trm.NewManager(db)
	default:
		orderStore = repo.NewMemoryRepo(repo.Fixtures()...)
		logger.Info("using in-memory storage")
	}

	var events eventPublisher = publisher.Nop()
	if conf.Kafka.Enabled {
		events = publisher.NewKafkaPublisher(conf.Kafka)
	}
	defer events.Close()

	orderCache := cache.NewLRUCache[int64](conf.Cache.Capacity, conf.Cache.TTL)

	orderService := service.NewOrderService(logger, txManager, orderStore, orderCache, events)
	productService := service.NewProductService(logger, orderStore, events)

	handler.RegisterMetrics(prometheus.DefaultRegisterer)
	httpHandler := handler.NewHTTPHandler(logger, orderService, productService)

	app := app.New(logger, conf)

	app.SetHTTPHandlers(httpHandler)
	if conf.Kafka.Enabled {
		app.SetConsumers(handler.NewKafkaHandler(logger, conf.Kafka, orderService))
	}
	app.SetStarters(orderCache, cacheWarmUpAdapter{svc: orderService, count: conf.Cache.Capacity})

	panicIfErr("failed to start app", app.Start(ctx))
	select {
	case <-ctx.Done():
	case <-app.Done():
		logger.Error("background task failed, shutting down")
	}
	panicIfErr("failed to stop app", app.Stop())
}

func init() {
	godotenv.Load()
}

func newLogger(env string) *slog.Logger {
	switch env {
	case "production":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

func panicIfErr(prefix string, err error) {
	if err != nil {
		panic(prefix + ": " + err.Error())
	}
}

type warmUpper interface {
	WarmUpCache(ctx context.Context, count int) error
}

type cacheWarmUpAdapter struct {
	svc   warmUpper
	count int
}

func (a cacheWarmUpAdapter) Start(ctx context.Context) error {
	return a.svc.WarmUpCache(ctx, a.count)
}
