package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/taskdesk/internal/platform/logger"
	"github.com/phrazzld/taskdesk/internal/store"
	goredis "github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces session keys.
const KeyPrefix = "taskdesk:session:"

// SessionStore implements store.SessionStore on top of Redis.
type SessionStore struct {
	client goredis.UniversalClient
	now    func() time.Time
}

// Ensure SessionStore implements store.SessionStore interface
var _ store.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a SessionStore using client.
func NewSessionStore(client goredis.UniversalClient) *SessionStore {
	if client == nil {
		panic("redis client cannot be nil")
	}
	return &SessionStore{client: client, now: time.Now}
}

type sessionRecord struct {
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func sessionKey(id string) string {
	return KeyPrefix + id
}

// Create implements store.SessionStore.Create
func (s *SessionStore) Create(ctx context.Context, session *store.Session) error {
	if session == nil || session.ID == "" {
		return fmt.Errorf("%w: session id is required", store.ErrInvalidEntity)
	}

	ttl := session.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return fmt.Errorf("%w: session already expired", store.ErrInvalidEntity)
	}

	payload, err := json.Marshal(sessionRecord{
		UserID:    session.UserID,
		CreatedAt: session.CreatedAt.UTC(),
		ExpiresAt: session.ExpiresAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	// SETNX so a colliding id never replaces someone else's session.
	ok, err := s.client.SetNX(ctx, sessionKey(session.ID), payload, ttl).Result()
	if err != nil {
		logger.FromContext(ctx).Error("failed to store session",
			slog.Int64("user_id", session.UserID),
			slog.String("error", err.Error()))
		return store.NewStoreError("session", "create", "redis set failed", err)
	}
	if !ok {
		return fmt.Errorf("%w: session", store.ErrDuplicate)
	}
	return nil
}

// Get implements store.SessionStore.Get
func (s *SessionStore) Get(ctx context.Context, id string) (*store.Session, error) {
	if id == "" {
		return nil, store.ErrSessionNotFound
	}

	payload, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, store.ErrSessionNotFound
		}
		logger.FromContext(ctx).Error("failed to load session", slog.String("error", err.Error()))
		return nil, store.NewStoreError("session", "get", "redis get failed", err)
	}

	var rec sessionRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, store.NewStoreError("session", "get", "corrupt session payload", err)
	}

	return &store.Session{
		ID:        id,
		UserID:    rec.UserID,
		CreatedAt: rec.CreatedAt,
		ExpiresAt: rec.ExpiresAt,
	}, nil
}

// Delete implements store.SessionStore.Delete
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		logger.FromContext(ctx).Error("failed to delete session", slog.String("error", err.Error()))
		return store.NewStoreError("session", "delete", "redis del failed", err)
	}
	return nil
}
