package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates that the addressed document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrBatchTooLarge indicates that a batch exceeds what the backend can
	// commit atomically.
	ErrBatchTooLarge = errors.New("batch too large")
)

// ConnectError reports a failure to establish the store connection.
type ConnectError struct {
	Backend  string
	Strategy string
	Err      error
}

func (e *ConnectError) Error() string {
	if e.Strategy == "" {
		return fmt.Sprintf("connect %s: %v", e.Backend, e.Err)
	}
	return fmt.Sprintf("connect %s using %s: %v", e.Backend, e.Strategy, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// ImportError reports a rejected batch commit. Nothing of the batch was stored.
type ImportError struct {
	Collection string
	Count      int
	Err        error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import %d documents into %s: %v", e.Count, e.Collection, e.Err)
}

func (e *ImportError) Unwrap() error { return e.Err }

// PurgeError reports that a collection could not be listed during a purge.
type PurgeError struct {
	Collection string
	Err        error
}

func (e *PurgeError) Error() string {
	return fmt.Sprintf("purge %s: %v", e.Collection, e.Err)
}

func (e *PurgeError) Unwrap() error { return e.Err }
