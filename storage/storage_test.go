package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"

	"studybuddy-admin/config"
	"studybuddy-admin/domain"
)

func TestOpenSQLiteBackend(t *testing.T) {
	b, err := Open(context.Background(), config.Config{Backend: config.BackendSQLite, SQLitePath: ":memory:"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = b.Close(context.Background()) })
	if _, ok := b.(*SQLiteStore); !ok {
		t.Fatalf("expected *SQLiteStore, got %T", b)
	}
}

func TestOpenWithRedisWrapsInCache(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	b, err := Open(context.Background(), config.Config{
		Backend:               config.BackendSQLite,
		SQLitePath:            ":memory:",
		RedisConnectionString: "redis://" + mr.Addr(),
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = b.Close(context.Background()) })
	if _, ok := b.(*Cache); !ok {
		t.Fatalf("expected *Cache, got %T", b)
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), config.Config{Backend: "dynamo"})
	var connErr *domain.ConnectError
	if !errors.As(err, &connErr) {
		t.Fatalf("expected ConnectError, got %v", err)
	}
}

func TestLoadKeyFileMissing(t *testing.T) {
	kf, err := loadKeyFile(filepath.Join(t.TempDir(), "serviceAccountKey.json"))
	if err != nil || kf != nil {
		t.Fatalf("missing key file must be ignored: kf=%v err=%v", kf, err)
	}
	if kf, err := loadKeyFile(""); err != nil || kf != nil {
		t.Fatalf("empty path must be ignored: kf=%v err=%v", kf, err)
	}
}

func TestLoadKeyFile(t *testing.T) {
	path := writeKeyFile(t, `{"username":"admin","password":"pw","authSource":"admin"}`)
	kf, err := loadKeyFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if kf.Username != "admin" || kf.Password != "pw" || kf.AuthSource != "admin" {
		t.Fatalf("unexpected key file: %+v", kf)
	}
}
