package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Backend selects the document store implementation.
type Backend string

const (
	BackendAzure  Backend = "azure"
	BackendMongo  Backend = "mongo"
	BackendSQLite Backend = "sqlite"
)

const (
	defaultKeyFile        = "serviceAccountKey.json"
	defaultPartition      = "studybuddy"
	defaultDatabase       = "studybuddy"
	defaultSQLitePath     = "studybuddy.db"
	defaultVerifyAttempts = 3
	defaultVerifyInterval = 500 * time.Millisecond
)

// Config holds the settings shared by the admin tools. Every field comes
// from the environment.
type Config struct {
	Backend Backend
	// KeyFile is the path of the explicit credential file. It is optional;
	// ambient credentials are used when it does not exist.
	KeyFile string

	ConnectionString string
	ServiceURL       string
	Partition        string

	MongoURI      string
	MongoDatabase string

	SQLitePath string

	TasksCollection  string
	EventsCollection string
	UsersCollection  string

	VerifyAttempts int
	VerifyInterval time.Duration

	RedisConnectionString string
	EventsQueue           string
	DefaultOwnerID        string

	Debug bool
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	cfg := Config{
		Backend:               Backend(strings.ToLower(envOr("STORE_BACKEND", string(BackendAzure)))),
		KeyFile:               envOr("STORE_KEY_FILE", defaultKeyFile),
		ConnectionString:      os.Getenv("STORAGE_CONNECTION_STRING"),
		ServiceURL:            os.Getenv("STORAGE_SERVICE_URL"),
		Partition:             envOr("STORE_PARTITION", defaultPartition),
		MongoURI:              os.Getenv("MONGODB_URI"),
		MongoDatabase:         envOr("MONGODB_DATABASE", defaultDatabase),
		SQLitePath:            envOr("SQLITE_PATH", defaultSQLitePath),
		TasksCollection:       envOr("TASKS_COLLECTION", "tasks"),
		EventsCollection:      envOr("EVENTS_COLLECTION", "events"),
		UsersCollection:       envOr("USERS_COLLECTION", "users"),
		VerifyAttempts:        defaultVerifyAttempts,
		VerifyInterval:        defaultVerifyInterval,
		RedisConnectionString: os.Getenv("REDIS_CONNECTION_STRING"),
		EventsQueue:           os.Getenv("DOMAIN_EVENTS_QUEUE"),
		DefaultOwnerID:        os.Getenv("DEFAULT_OWNER_ID"),
	}
	if dbg, err := strconv.ParseBool(os.Getenv("DEBUG")); err == nil {
		cfg.Debug = dbg
	}
	if v := os.Getenv("PURGE_VERIFY_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PURGE_VERIFY_ATTEMPTS: %w", err)
		}
		if n <= 0 {
			return Config{}, fmt.Errorf("invalid PURGE_VERIFY_ATTEMPTS: must be greater than zero")
		}
		cfg.VerifyAttempts = n
	}
	if v := os.Getenv("PURGE_VERIFY_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return Config{}, fmt.Errorf("invalid PURGE_VERIFY_INTERVAL: %q", v)
		}
		cfg.VerifyInterval = d
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Backend {
	case BackendAzure, BackendSQLite:
	case BackendMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("missing MONGODB_URI")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Backend)
	}
	if c.TasksCollection == "" || c.EventsCollection == "" || c.UsersCollection == "" {
		return fmt.Errorf("collection names must not be empty")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
