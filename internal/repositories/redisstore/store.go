// Package redisstore keeps each logical collection as a single JSON blob
// under one key, mirroring the original browser local-storage contract:
// every write serializes the whole collection back, reads load it whole and
// scan linearly. There is no locking; concurrent writers race last-wins.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/preppal-app/coaching-service/internal/repositories"
)

// schemaVersion tags each collection blob so a future format change can be
// detected instead of silently misparsed.
const schemaVersion = 1

type blob struct {
	Version int             `json:"version"`
	Items   json.RawMessage `json:"items"`
}

type Store struct {
	client *redis.Client
	logger *slog.Logger

	users    *userStore
	sessions *sessionStore
}

// NewStore wires the two collection stores over one redis client. The prefix
// scopes the collection keys (e.g. "preppal" -> "preppal:users").
func NewStore(client *redis.Client, prefix string, logger *slog.Logger) *Store {
	s := &Store{
		client: client,
		logger: logger,
	}
	s.users = &userStore{store: s, key: prefix + ":users"}
	s.sessions = &sessionStore{store: s, key: prefix + ":sessions"}
	return s
}

func (s *Store) Users() repositories.UserStore       { return s.users }
func (s *Store) Sessions() repositories.SessionStore { return s.sessions }

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}

// loadCollection reads a collection blob into dest (a pointer to a slice).
// A missing key, a corrupt blob, or a transport error all leave dest empty:
// the caller always gets a usable, possibly empty, collection.
func (s *Store) loadCollection(ctx context.Context, key string, dest interface{}) {
	raw, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("failed to load collection, treating as empty", "key", key, "error", err)
		}
		return
	}

	var b blob
	if err := json.Unmarshal([]byte(raw), &b); err != nil {
		s.logger.Warn("corrupt collection blob, treating as empty", "key", key, "error", err)
		return
	}
	if b.Version != schemaVersion {
		s.logger.Warn("unsupported collection schema version, treating as empty",
			"key", key, "version", b.Version)
		return
	}
	if err := json.Unmarshal(b.Items, dest); err != nil {
		s.logger.Warn("corrupt collection items, treating as empty", "key", key, "error", err)
	}
}

// saveCollection serializes the full collection back under its key. Failures
// are logged and swallowed; a dropped write is an accepted data-loss risk
// inherited from the original storage layer.
func (s *Store) saveCollection(ctx context.Context, key string, items interface{}) {
	rawItems, err := json.Marshal(items)
	if err != nil {
		s.logger.Error("failed to serialize collection", "key", key, "error", err)
		return
	}
	raw, err := json.Marshal(blob{Version: schemaVersion, Items: rawItems})
	if err != nil {
		s.logger.Error("failed to serialize collection blob", "key", key, "error", err)
		return
	}
	if err := s.client.Set(ctx, key, raw, 0).Err(); err != nil {
		s.logger.Error("failed to persist collection, write dropped", "key", key, "error", err)
	}
}
