package domain

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// PurgeResult describes the outcome of a purge pass.
type PurgeResult struct {
	Collection string
	Found      int
	Deleted    int
	Failed     int
	// Remaining is the number of documents still listed after verification.
	Remaining int
}

// Purger deletes every document of a collection one by one.
type Purger struct {
	store          Store
	verifyAttempts int
	verifyInterval time.Duration
}

// NewPurger creates a Purger. verifyAttempts bounds how many times the
// collection is re-listed after deletion while documents are still visible.
func NewPurger(store Store, verifyAttempts int, verifyInterval time.Duration) Purger {
	if verifyAttempts < 1 {
		verifyAttempts = 1
	}
	if verifyInterval < 0 {
		verifyInterval = 0
	}
	return Purger{store: store, verifyAttempts: verifyAttempts, verifyInterval: verifyInterval}
}

// Purge deletes all documents in collection. Per-document failures and
// leftover documents are reported in the result, not as errors; an error is
// returned only when the collection cannot be listed.
func (p Purger) Purge(ctx context.Context, collection string) (res PurgeResult, err error) {
	ctx, span := startSpan(ctx, "purge", collection)
	defer func() {
		span.SetAttributes(
			attribute.Int("documents.deleted", res.Deleted),
			attribute.Int("documents.remaining", res.Remaining),
		)
		finishSpan(span, err)
	}()

	res.Collection = collection
	logger := log.WithField("collection", collection)

	docs, err := p.store.List(ctx, collection)
	if err != nil {
		return res, &PurgeError{Collection: collection, Err: err}
	}
	res.Found = len(docs)
	if len(docs) == 0 {
		logger.Info("collection already empty")
		return res, nil
	}

	logger.WithField("documents", len(docs)).Info("deleting documents")
	for _, doc := range docs {
		logger.WithFields(log.Fields{"id": doc.ID, "fields": doc.Fields}).Debug("deleting document")
		if err := p.store.Delete(ctx, collection, doc.ID); err != nil {
			res.Failed++
			logger.WithError(err).WithField("id", doc.ID).Warn("delete document failed")
			continue
		}
		res.Deleted++
	}
	logger.WithField("deleted", res.Deleted).Info("documents deleted")

	remaining, err := p.verify(ctx, collection)
	res.Remaining = remaining
	if err != nil {
		return res, &PurgeError{Collection: collection, Err: err}
	}
	if remaining > 0 {
		logger.WithField("remaining", remaining).Warn("documents remain after purge")
		return res, nil
	}
	logger.Info("collection is empty")
	return res, nil
}

// verify re-lists the collection until it is empty or the attempts run out.
// It never deletes.
func (p Purger) verify(ctx context.Context, collection string) (int, error) {
	for attempt := 1; ; attempt++ {
		docs, err := p.store.List(ctx, collection)
		if err != nil {
			return 0, err
		}
		if len(docs) == 0 || attempt >= p.verifyAttempts {
			return len(docs), nil
		}
		log.WithFields(log.Fields{
			"collection": collection,
			"remaining":  len(docs),
			"attempt":    attempt,
		}).Debug("documents still visible, re-checking")
		if err := wait(ctx, p.verifyInterval); err != nil {
			return len(docs), err
		}
	}
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
