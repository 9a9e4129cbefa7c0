package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"

	"studybuddy-admin/config"
	"studybuddy-admin/domain"
)

//go:embed schema.sql
var schema string

// SQLiteStore keeps documents as JSON bodies in a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and creates if needed) the database at path. ":memory:"
// gives a private in-memory store.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, &domain.ConnectError{Backend: string(config.BackendSQLite), Strategy: strategyLocal, Err: err}
	}
	// One connection: SQLite allows a single writer, and every connection to
	// ":memory:" would otherwise get its own database.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, &domain.ConnectError{Backend: string(config.BackendSQLite), Strategy: strategyLocal, Err: err}
	}
	log.WithFields(log.Fields{"backend": config.BackendSQLite, "path": path}).Info("opened sqlite store")
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) List(ctx context.Context, collection string) ([]domain.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, body FROM documents
		WHERE collection = ?
		ORDER BY rowid
	`, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []domain.Document{}
	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			return nil, err
		}
		fields, err := decodeBody(body)
		if err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", collection, id, err)
		}
		docs = append(docs, domain.Document{ID: id, Fields: fields})
	}
	return docs, rows.Err()
}

func (s *SQLiteStore) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE collection = ? AND id = ?`, collection, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s/%s", domain.ErrNotFound, collection, id)
	}
	return nil
}

func (s *SQLiteStore) UpdateFields(ctx context.Context, collection, id string, fields map[string]any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var body string
	err = tx.QueryRowContext(ctx, `SELECT body FROM documents WHERE collection = ? AND id = ?`, collection, id).Scan(&body)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: %s/%s", domain.ErrNotFound, collection, id)
	}
	if err != nil {
		return err
	}
	current, err := decodeBody(body)
	if err != nil {
		return err
	}
	for k, v := range fields {
		current[k] = v
	}
	updated, err := sonic.MarshalString(current)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE documents SET body = ? WHERE collection = ? AND id = ?`, updated, collection, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) NewID(string) string { return uuid.NewString() }

// CommitBatch inserts docs in one SQL transaction.
func (s *SQLiteStore) CommitBatch(ctx context.Context, collection string, docs []domain.Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO documents (collection, id, body) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, doc := range docs {
		body, err := sonic.MarshalString(doc.Fields)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, collection, doc.ID, body); err != nil {
			return fmt.Errorf("insert %s/%s: %w", collection, doc.ID, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close(context.Context) error { return s.db.Close() }

func decodeBody(body string) (map[string]any, error) {
	fields := map[string]any{}
	if err := sonic.UnmarshalString(body, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}
