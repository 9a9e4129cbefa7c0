package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"studybuddy-admin/config"
	"studybuddy-admin/console"
	"studybuddy-admin/domain"
	"studybuddy-admin/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		stop()
		log.Fatalf("seed: %v", err)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	store, err := storage.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.WithError(err).Warn("close store")
		}
	}()
	log.WithField("backend", cfg.Backend).Info("connected")

	notifier, err := storage.NewNotifier(cfg)
	if err != nil {
		log.WithError(err).Warn("notifications disabled")
	}

	orch := domain.NewOrchestrator(store, console.NewConfirmer(os.Stdin, os.Stdout), domain.OrchestratorConfig{
		Collections: domain.Collections{
			Tasks:  cfg.TasksCollection,
			Events: cfg.EventsCollection,
			Users:  cfg.UsersCollection,
		},
		VerifyAttempts: cfg.VerifyAttempts,
		VerifyInterval: cfg.VerifyInterval,
		Notifier:       notifier,
	})
	summary, err := orch.Run(ctx)
	if err != nil {
		return err
	}
	return console.RenderSummary(os.Stdout, summary)
}
