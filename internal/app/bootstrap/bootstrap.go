// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.
package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	questionservice "quorum/contexts/qa-core/question-service"
	questionpostgres "quorum/contexts/qa-core/question-service/adapters/postgres"
	questionworkers "quorum/contexts/qa-core/question-service/application/workers"
	"quorum/contexts/qa-core/question-service/ports"
	voteledger "quorum/contexts/qa-core/vote-ledger"
	votepostgres "quorum/contexts/qa-core/vote-ledger/adapters/postgres"
	"quorum/internal/platform/config"
	"quorum/internal/platform/db"
	"quorum/internal/platform/httpserver"
	"quorum/internal/platform/identity"
	"quorum/internal/platform/mailer"
	"quorum/internal/platform/messaging"
)

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	relay        questionworkers.OutboxRelay
	notifier     questionworkers.NotificationConsumer
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	resolver, err := identity.NewResolver(cfg.JWTSecret)
	if err != nil {
		return nil, err
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}
	if err := questionpostgres.Migrate(pg.DB); err != nil {
		_ = pg.Close()
		return nil, err
	}
	if err := votepostgres.Migrate(pg.DB); err != nil {
		_ = pg.Close()
		return nil, err
	}

	questionRepo := questionpostgres.NewRepository(pg.DB, logger)
	questionModule := questionservice.NewModule(questionservice.Dependencies{
		Questions: questionRepo,
		Outbox:    questionRepo,
		Clock:     questionpostgres.SystemClock{},
		IDGen:     questionpostgres.UUIDGenerator{},
		Logger:    logger,
	})

	voteRepo := votepostgres.NewRepository(pg.DB, logger)
	voteModule := voteledger.NewModule(voteledger.Dependencies{
		Votes:  voteRepo,
		Clock:  votepostgres.SystemClock{},
		IDGen:  votepostgres.UUIDGenerator{},
		Logger: logger,
	})

	server := httpserver.New(questionModule, voteModule, resolver, logger, ":"+cfg.HTTPPort)
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func (a *APIApp) Run() error {
	return a.server.Start()
}

func (a *APIApp) Close() error {
	return a.postgres.Close()
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}
	if err := questionpostgres.Migrate(pg.DB); err != nil {
		_ = pg.Close()
		return nil, err
	}

	bus := messaging.NewBus(logger)
	questionRepo := questionpostgres.NewRepository(pg.DB, logger)

	var sender ports.MailSender
	if strings.TrimSpace(cfg.SMTPHost) != "" {
		smtp, err := mailer.NewSMTPSender(
			cfg.SMTPHost, cfg.SMTPPort,
			cfg.SMTPUsername, cfg.SMTPPassword,
			cfg.MailFrom, logger,
		)
		if err != nil {
			_ = pg.Close()
			return nil, err
		}
		sender = smtp
	} else {
		sender = mailer.LogSender{Logger: logger}
	}

	return &WorkerApp{
		postgres: pg,
		relay: questionworkers.OutboxRelay{
			Outbox:    questionRepo,
			Publisher: bus,
			Clock:     questionpostgres.SystemClock{},
			Logger:    logger,
		},
		notifier: questionworkers.NotificationConsumer{
			Subscriber: bus,
			Mail:       sender,
			Recipients: cfg.NotifyEmails,
			Logger:     logger,
		},
		pollInterval: cfg.OutboxPollInterval,
		logger:       logger,
	}, nil
}

// Run drives the relay on the poll interval until the context ends. Consumers
// are attached before the first relay cycle so no published event is missed.
func (w *WorkerApp) Run(ctx context.Context) error {
	if err := w.notifier.Start(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker loop started",
		"event", "worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.relay.RunOnce(ctx); err != nil {
				w.logger.Error("outbox relay cycle failed",
					"event", "worker_relay_failed",
					"module", "internal/app/bootstrap",
					"layer", "platform",
					"error", err.Error(),
				)
			}
		}
	}
}

func (w *WorkerApp) Close() error {
	return w.postgres.Close()
}
