package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SergeyBogomolovv/order-desk/internal/client"
	"github.com/SergeyBogomolovv/order-desk/internal/config"
	"github.com/SergeyBogomolovv/order-desk/internal/publisher"
	"github.com/SergeyBogomolovv/order-desk/internal/repo"
	"github.com/SergeyBogomolovv/order-desk/internal/service"
	"github.com/SergeyBogomolovv/order-desk/internal/ui"
	"github.com/SergeyBogomolovv/order-desk/pkg/cache"
	"github.com/SergeyBogomolovv/order-desk/pkg/trm"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
)

const cacheTTL = 10 * time.Minute

func main() {
	conf := config.NewConsole()
	panicIfErr("invalid config", conf.Validate())

	logger, closeLog := newLogger(conf)
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	data := newDataAccess(ctx, logger, conf)

	if _, err := tea.NewProgram(ui.NewRoot(ctx, data), tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		logger.Error("console stopped", slog.Any("error", err))
		panicIfErr("failed to run console", err)
	}
}

func init() {
	godotenv.Load()
}

// localData склеивает сервисы в один источник данных для экранов.
type localData struct {
	ui.OrderAPI
	ui.ProductAPI
}

func newDataAccess(ctx context.Context, logger *slog.Logger, conf config.Console) ui.DataAccess {
	if conf.APIURL != "" {
		logger.Info("using remote api", slog.String("url", conf.APIURL))
		return client.New(conf.APIURL)
	}

	store := repo.NewMemoryRepo(repo.Fixtures()...)
	orderCache := cache.NewLRUCache[int64](100, cacheTTL)
	go orderCache.Start(ctx)

	logger.Info("using in-process memory store")
	return localData{
		OrderAPI:   service.NewOrderService(logger, trm.NopManager(), store, orderCache, publisher.Nop()),
		ProductAPI: service.NewProductService(logger, store, publisher.Nop()),
	}
}

// newLogger не пишет в stdout, чтобы не ломать экран.
func newLogger(conf config.Console) (*slog.Logger, func()) {
	level := slog.LevelDebug
	if conf.Env == "production" {
		level = slog.LevelInfo
	}

	if conf.LogFile == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}
	}

	f, err := os.OpenFile(conf.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	panicIfErr("failed to open log file", err)
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})), func() { f.Close() }
}

func panicIfErr(prefix string, err error) {
	if err != nil {
		panic(prefix + ": " + err.Error())
	}
}
