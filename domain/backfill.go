package domain

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// BackfillResult reports how many documents were inspected and changed.
type BackfillResult struct {
	Collection string
	Checked    int
	Updated    int
}

// BackfillOwner sets userId to ownerID on every document of collection that
// has no owner yet. Documents that already carry an owner are left alone.
func BackfillOwner(ctx context.Context, store Store, collection, ownerID string) (res BackfillResult, err error) {
	ctx, span := startSpan(ctx, "backfill", collection)
	defer func() {
		span.SetAttributes(attribute.Int("documents.updated", res.Updated))
		finishSpan(span, err)
	}()

	res.Collection = collection
	if ownerID == "" {
		return res, errors.New("owner id is required")
	}
	docs, err := store.List(ctx, collection)
	if err != nil {
		return res, fmt.Errorf("list %s: %w", collection, err)
	}
	for _, doc := range docs {
		res.Checked++
		logger := log.WithFields(log.Fields{"collection": collection, "id": doc.ID})
		if owner, ok := doc.Fields[FieldUserID]; ok && owner != nil {
			logger.WithField("userId", owner).Debug("document already has an owner")
			continue
		}
		if err := store.UpdateFields(ctx, collection, doc.ID, map[string]any{FieldUserID: ownerID}); err != nil {
			return res, fmt.Errorf("update %s/%s: %w", collection, doc.ID, err)
		}
		res.Updated++
		logger.WithField("userId", ownerID).Info("owner assigned")
	}
	return res, nil
}
