package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

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
	if cfg.DefaultOwnerID == "" {
		log.Fatal("missing DEFAULT_OWNER_ID")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	res, err := domain.BackfillOwner(ctx, store, cfg.TasksCollection, cfg.DefaultOwnerID)
	if cerr := store.Close(context.Background()); cerr != nil {
		log.WithError(cerr).Warn("close store")
	}
	if err != nil {
		log.Fatalf("backfill: %v", err)
	}
	log.WithFields(log.Fields{
		"collection": res.Collection,
		"checked":    res.Checked,
		"updated":    res.Updated,
	}).Info("backfill complete")
}
