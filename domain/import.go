package domain

import (
	"context"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// Importer writes datasets into their collections, one atomic batch per call.
type Importer struct{ store Store }

func NewImporter(store Store) Importer { return Importer{store: store} }

// ImportTasks stores tasks in collection and returns the number written.
func (i Importer) ImportTasks(ctx context.Context, collection string, tasks []Task) (int, error) {
	return importBatch(ctx, i.store, collection, tasks, TaskDocument)
}

// ImportEvents stores events in collection and returns the number written.
func (i Importer) ImportEvents(ctx context.Context, collection string, events []Event) (int, error) {
	return importBatch(ctx, i.store, collection, events, EventDocument)
}

// ImportUsers stores user profiles in collection and returns the number written.
func (i Importer) ImportUsers(ctx context.Context, collection string, users []UserProfile) (int, error) {
	return importBatch(ctx, i.store, collection, users, UserDocument)
}

func importBatch[T any](ctx context.Context, store Store, collection string, records []T, toDoc func(string, T) Document) (n int, err error) {
	ctx, span := startSpan(ctx, "import", collection)
	defer func() {
		span.SetAttributes(attribute.Int("documents.imported", n))
		finishSpan(span, err)
	}()

	logger := log.WithField("collection", collection)
	if len(records) == 0 {
		logger.Info("nothing to import")
		return 0, nil
	}
	logger.WithField("documents", len(records)).Info("importing documents")

	docs := make([]Document, 0, len(records))
	for _, r := range records {
		docs = append(docs, toDoc(store.NewID(collection), r))
	}
	if err := store.CommitBatch(ctx, collection, docs); err != nil {
		return 0, &ImportError{Collection: collection, Count: len(docs), Err: err}
	}
	logger.WithField("documents", len(docs)).Info("import complete")
	return len(docs), nil
}
