package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{
		"STORE_BACKEND", "STORE_KEY_FILE", "STORE_PARTITION", "MONGODB_URI",
		"TASKS_COLLECTION", "EVENTS_COLLECTION", "USERS_COLLECTION",
		"PURGE_VERIFY_ATTEMPTS", "PURGE_VERIFY_INTERVAL", "DEBUG",
	} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend != BackendAzure {
		t.Fatalf("unexpected backend %q", cfg.Backend)
	}
	if cfg.KeyFile != "serviceAccountKey.json" || cfg.Partition != "studybuddy" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.TasksCollection != "tasks" || cfg.EventsCollection != "events" || cfg.UsersCollection != "users" {
		t.Fatalf("unexpected collections: %+v", cfg)
	}
	if cfg.VerifyAttempts != 3 || cfg.VerifyInterval != 500*time.Millisecond {
		t.Fatalf("unexpected verification defaults: %d %v", cfg.VerifyAttempts, cfg.VerifyInterval)
	}
	if cfg.Debug {
		t.Fatalf("debug must default to false")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/admin.db")
	t.Setenv("TASKS_COLLECTION", "tasks_v2")
	t.Setenv("PURGE_VERIFY_ATTEMPTS", "5")
	t.Setenv("PURGE_VERIFY_INTERVAL", "2s")
	t.Setenv("DEBUG", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend != BackendSQLite || cfg.SQLitePath != "/tmp/admin.db" {
		t.Fatalf("unexpected backend config: %+v", cfg)
	}
	if cfg.TasksCollection != "tasks_v2" {
		t.Fatalf("unexpected tasks collection %q", cfg.TasksCollection)
	}
	if cfg.VerifyAttempts != 5 || cfg.VerifyInterval != 2*time.Second {
		t.Fatalf("unexpected verification config: %d %v", cfg.VerifyAttempts, cfg.VerifyInterval)
	}
	if !cfg.Debug {
		t.Fatalf("expected debug")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown backend", map[string]string{"STORE_BACKEND": "dynamo"}},
		{"mongo without uri", map[string]string{"STORE_BACKEND": "mongo", "MONGODB_URI": ""}},
		{"attempts not a number", map[string]string{"PURGE_VERIFY_ATTEMPTS": "many"}},
		{"attempts zero", map[string]string{"PURGE_VERIFY_ATTEMPTS": "0"}},
		{"bad interval", map[string]string{"PURGE_VERIFY_INTERVAL": "soon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("STORE_BACKEND", "")
			t.Setenv("PURGE_VERIFY_ATTEMPTS", "")
			t.Setenv("PURGE_VERIFY_INTERVAL", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
