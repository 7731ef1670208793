package main

import (
	"context"
	"database/sql"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"github.com/JooruBackend/jooru-backend-sub001/internal/adapters/observability"
	"github.com/JooruBackend/jooru-backend-sub001/internal/app"
	"github.com/JooruBackend/jooru-backend-sub001/internal/domain"
	"github.com/JooruBackend/jooru-backend-sub001/internal/shared"
	mysqlrepo "github.com/JooruBackend/jooru-backend-sub001/internal/storage/mysql"
)

// meteredDeliverer counts dispatch outcomes around the real deliverer.
type meteredDeliverer struct{ next app.Deliverer }

func (m meteredDeliverer) Deliver(ctx context.Context, n domain.Notification) error {
	err := m.next.Deliver(ctx, n)
	observability.ObserveDispatch(err)
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	log.Info().
		Int("workers", cfg.NotifyWorkers).
		Int("batch", cfg.NotifyBatch).
		Dur("poll", cfg.NotifyPollEvery).
		Msg("notifier starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	fanout := app.NewFanoutService(
		repo,
		meteredDeliverer{next: app.LogDeliverer{}},
		cfg.NotifyWorkers,
		cfg.NotifyBatch,
		cfg.NotifyPollEvery,
	)

	if err := fanout.Run(ctx); err != nil && err != context.Canceled {
		log.Fatal().Err(err).Msg("notifier stopped")
	}
	log.Info().Msg("notifier shut down")
}
