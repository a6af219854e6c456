package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"gitlab.ozon.dev/pupkingeorgij/coffeerun/internal/app"
	"gitlab.ozon.dev/pupkingeorgij/coffeerun/internal/audit"
	"gitlab.ozon.dev/pupkingeorgij/coffeerun/internal/config"
	"gitlab.ozon.dev/pupkingeorgij/coffeerun/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/coffeerun/internal/kvstore"
	"gitlab.ozon.dev/pupkingeorgij/coffeerun/internal/logger"
	"gitlab.ozon.dev/pupkingeorgij/coffeerun/internal/order"
	"gitlab.ozon.dev/pupkingeorgij/coffeerun/internal/run"
	"gitlab.ozon.dev/pupkingeorgij/coffeerun/internal/saved"
	"gitlab.ozon.dev/pupkingeorgij/coffeerun/internal/server"
)

const watchInterval = 2 * time.Second

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()
	log := logger.New(cfg.Debug)
	defer log.Sync() //nolint:errcheck

	group, ctx := errgroup.WithContext(ctx)

	var store kvstore.Store
	if cfg.DatabaseURL != "" {
		database, err := db.NewDB(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal("database init failed", zap.Error(err))
		}
		pgStore, err := kvstore.NewPGStore(ctx, database, log)
		if err != nil {
			log.Fatal("store init failed", zap.Error(err))
		}
		group.Go(func() error { return pgStore.Listen(ctx) })
		store = pgStore
	} else {
		fileStore, err := kvstore.NewFileStore(cfg.DataDir)
		if err != nil {
			log.Fatal("store init failed", zap.Error(err))
		}
		group.Go(func() error {
			fileStore.WatchExternal(ctx, watchInterval)
			return nil
		})
		store = fileStore
	}

	var producer audit.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = audit.NewKafkaProducer(cfg.KafkaBrokers)
	} else {
		producer = audit.NewConsoleProducer(log)
	}
	defer producer.Close() //nolint:errcheck

	auditor := audit.NewManager(producer, log, 2, 5, 500*time.Millisecond)
	auditor.Start(ctx)

	runs := run.NewManager(store, cfg.UserID, log)
	orders := order.NewManager(store, log)
	savedOrders := saved.NewManager(store, cfg.UserID, log)
	kiosk := app.New(runs, orders, savedOrders, auditor, log, cfg.UserID)

	srv := server.New(runs, orders, savedOrders, kiosk, log)
	group.Go(func() error { return srv.Run(cfg.Port) })

	group.Go(func() error {
		<-ctx.Done()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", zap.Error(err))
		}
		auditor.Shutdown(shutdownCtx)
		return nil
	})

	if err := group.Wait(); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
	log.Info("server stopped")
}
