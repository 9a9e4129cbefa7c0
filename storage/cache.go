package storage

import (
	"context"
	"crypto/tls"
	"strings"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"studybuddy-admin/domain"
)

// Cache wraps a Backend and evicts the Redis read models of a collection
// after every write to it. Read models are keyed "<collection>:<owner>".
type Cache struct {
	Backend
	redis *redis.Client
}

// NewCache wraps base with cache eviction using the provided Redis client.
func NewCache(base Backend, client *redis.Client) *Cache {
	if base == nil {
		panic("storage.NewCache: base backend is nil")
	}
	return &Cache{Backend: base, redis: client}
}

func (c *Cache) Delete(ctx context.Context, collection, id string) error {
	if err := c.Backend.Delete(ctx, collection, id); err != nil {
		return err
	}
	c.evict(ctx, collection)
	return nil
}

func (c *Cache) UpdateFields(ctx context.Context, collection, id string, fields map[string]any) error {
	if err := c.Backend.UpdateFields(ctx, collection, id, fields); err != nil {
		return err
	}
	c.evict(ctx, collection)
	return nil
}

func (c *Cache) CommitBatch(ctx context.Context, collection string, docs []domain.Document) error {
	if err := c.Backend.CommitBatch(ctx, collection, docs); err != nil {
		return err
	}
	c.evict(ctx, collection)
	return nil
}

func (c *Cache) Close(ctx context.Context) error {
	err := c.Backend.Close(ctx)
	if c.redis != nil {
		if rerr := c.redis.Close(); err == nil {
			err = rerr
		}
	}
	return err
}

// evict never fails the write it follows; stale entries expire on their own.
func (c *Cache) evict(ctx context.Context, collection string) {
	if c.redis == nil {
		return
	}
	logger := log.WithField("collection", collection)
	var keys []string
	iter := c.redis.Scan(ctx, 0, cacheKeyPattern(collection), 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logger.WithError(err).Warn("scan cached read models failed")
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		logger.WithError(err).Warn("evict cached read models failed")
		return
	}
	logger.WithField("keys", len(keys)).Debug("evicted cached read models")
}

func cacheKeyPattern(collection string) string {
	return collection + ":*"
}

// NewRedisClient accepts either a redis:// URL or an Azure style
// "host:port,password=...,ssl=True" connection string.
func NewRedisClient(conn string) *redis.Client {
	return redis.NewClient(parseRedisOptions(conn))
}

func parseRedisOptions(conn string) *redis.Options {
	opts, err := redis.ParseURL(conn)
	if err == nil {
		return opts
	}
	parts := strings.Split(conn, ",")
	opts = &redis.Options{Addr: parts[0]}
	for _, p := range parts[1:] {
		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch strings.ToLower(kv[0]) {
		case "password":
			opts.Password = kv[1]
		case "ssl":
			if strings.ToLower(kv[1]) == "true" {
				opts.TLSConfig = &tls.Config{}
			}
		}
	}
	return opts
}
