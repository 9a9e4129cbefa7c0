package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"studybuddy-admin/config"
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
		log.Fatalf("purge: %v", err)
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

	res, err := domain.NewPurger(store, cfg.VerifyAttempts, cfg.VerifyInterval).Purge(ctx, cfg.TasksCollection)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"collection": res.Collection,
		"found":      res.Found,
		"deleted":    res.Deleted,
		"failed":     res.Failed,
		"remaining":  res.Remaining,
	}).Info("purge complete")

	notifier, err := storage.NewNotifier(cfg)
	if err != nil {
		log.WithError(err).Warn("notifications disabled")
		return nil
	}
	if notifier != nil {
		note := domain.Notification{
			Type:       domain.NotificationPurged,
			Collection: cfg.TasksCollection,
			Count:      res.Deleted,
			Time:       time.Now(),
		}
		if err := notifier.Notify(ctx, note); err != nil {
			log.WithError(err).Warn("notify failed")
		}
	}
	return nil
}
