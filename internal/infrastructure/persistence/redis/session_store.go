package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xavierdev25/barton-mobile-chatbot/internal/domain/dialogue"
	"github.com/xavierdev25/barton-mobile-chatbot/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// SESSION STORE
// ══════════════════════════════════════════════════════════════════════════════

// SessionStore persists dialogue sessions as JSON values under session:<id>
// with a sliding TTL. Saves are retried with backoff, losing a session write
// resets the user's conversation.
type SessionStore struct {
	client  *redis.Client
	ttl     time.Duration
	retrier *retry.Retrier
}

// NewSessionStore builds a session store over an established client.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultConfig().SessionTTL
	}
	return &SessionStore{
		client:  client,
		ttl:     ttl,
		retrier: retry.SessionStoreRetrier(),
	}
}

// Load returns the stored session, or a fresh start-state session when the
// id is unknown or the stored value has expired.
func (s *SessionStore) Load(ctx context.Context, id string) (dialogue.Session, error) {
	if id == "" {
		return dialogue.Session{}, dialogue.ErrEmptySessionID
	}

	raw, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return dialogue.NewSession(id), nil
	}
	if err != nil {
		return dialogue.Session{}, fmt.Errorf("%w: %v", ErrConnection, err)
	}

	var sess dialogue.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return dialogue.Session{}, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	if sess.Context == nil {
		sess.Context = dialogue.NewContext()
	}
	return sess, nil
}

// Save persists the session and renews its TTL.
func (s *SessionStore) Save(ctx context.Context, sess dialogue.Session) error {
	if sess.ID == "" {
		return dialogue.ErrEmptySessionID
	}
	sess.UpdatedAt = time.Now().UTC()

	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSerialization, err)
	}

	return s.retrier.Do(ctx, func(ctx context.Context) error {
		if err := s.client.Set(ctx, sessionKey(sess.ID), raw, s.ttl).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrConnection, err)
		}
		return nil
	})
}

// SetContact merges contact fields into the stored session via
// read-merge-write. Not atomic across processes; contact fields are
// last-write-wins like the rest of the session.
func (s *SessionStore) SetContact(ctx context.Context, id, name, phone string) error {
	if id == "" {
		return dialogue.ErrEmptySessionID
	}
	sess, err := s.Load(ctx, id)
	if err != nil {
		return err
	}
	if name != "" {
		sess.Name = name
	}
	if phone != "" {
		sess.Phone = phone
	}
	return s.Save(ctx, sess)
}

// Delete removes the session.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dialogue.ErrEmptySessionID
	}
	n, err := s.client.Del(ctx, sessionKey(id)).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	if n == 0 {
		return dialogue.ErrSessionNotFound
	}
	return nil
}

// Count returns the number of live sessions by scanning the session
// namespace. Used by the stats endpoint, not by the hot path.
func (s *SessionStore) Count(ctx context.Context) (int, error) {
	var (
		cursor uint64
		total  int
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, prefixSession+"*", 500).Result()
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrConnection, err)
		}
		total += len(keys)
		if next == 0 {
			return total, nil
		}
		cursor = next
	}
}
