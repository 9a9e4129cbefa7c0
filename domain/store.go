package domain

import (
	"context"
	"time"
)

// Store is the collection-scoped document store used by the admin tools.
type Store interface {
	// List returns every document in the collection. A missing collection
	// is reported as empty.
	List(ctx context.Context, collection string) ([]Document, error)
	Delete(ctx context.Context, collection, id string) error
	// UpdateFields merges the given fields into an existing document.
	UpdateFields(ctx context.Context, collection, id string, fields map[string]any) error
	// NewID allocates an identifier for a document that has not been written yet.
	NewID(collection string) string
	// CommitBatch writes all documents atomically: either every document is
	// stored or none is.
	CommitBatch(ctx context.Context, collection string, docs []Document) error
}

const (
	NotificationPurged = "collection-purged"
	NotificationSeeded = "collection-seeded"
)

// Notification announces an administrative change to a collection.
type Notification struct {
	Type       string
	Collection string
	Count      int
	Time       time.Time
}

// Notifier publishes notifications to downstream consumers.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Prompter asks the operator a yes/no question and blocks until answered.
type Prompter interface {
	Confirm(ctx context.Context, question string) (bool, error)
}
