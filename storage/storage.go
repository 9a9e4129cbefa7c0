package storage

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"

	"studybuddy-admin/config"
	"studybuddy-admin/domain"
)

// Credential strategies, reported in logs and connection errors.
const (
	strategyKeyFile          = "key file"
	strategyConnectionString = "connection string"
	strategyDefault          = "default credentials"
	strategyURI              = "connection uri"
	strategyLocal            = "local file"
)

// Backend is a connected document store.
type Backend interface {
	domain.Store
	Close(ctx context.Context) error
}

// Open connects to the configured backend. Explicit key material from
// cfg.KeyFile is preferred; ambient credentials are used when the file does
// not exist. When REDIS_CONNECTION_STRING is set, writes also evict the
// cached read models of the affected collection.
func Open(ctx context.Context, cfg config.Config) (Backend, error) {
	var (
		b   Backend
		err error
	)
	switch cfg.Backend {
	case config.BackendAzure:
		b, err = openTables(cfg)
	case config.BackendMongo:
		b, err = openMongo(ctx, cfg)
	case config.BackendSQLite:
		b, err = OpenSQLite(cfg.SQLitePath)
	default:
		return nil, &domain.ConnectError{Backend: string(cfg.Backend), Err: errors.New("unknown backend")}
	}
	if err != nil {
		return nil, err
	}
	if cfg.RedisConnectionString != "" {
		b = NewCache(b, NewRedisClient(cfg.RedisConnectionString))
		log.Debug("read model cache eviction enabled")
	}
	return b, nil
}

// keyFile is the explicit credential file. Only the fields of the selected
// backend are read.
type keyFile struct {
	ConnectionString string `json:"connectionString"`
	AccountName      string `json:"accountName"`
	AccountKey       string `json:"accountKey"`
	ServiceURL       string `json:"serviceURL"`

	Username   string `json:"username"`
	Password   string `json:"password"`
	AuthSource string `json:"authSource"`
}

// loadKeyFile returns nil without error when path does not exist.
func loadKeyFile(path string) (*keyFile, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read key file: %w", err)
	}
	var kf keyFile
	if err := sonic.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("decode key file %s: %w", path, err)
	}
	return &kf, nil
}
