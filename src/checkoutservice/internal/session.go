package internal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TokenStore holds one CSRF token per checkout session.
type TokenStore interface {
	// Issue returns the session's token, creating it on first use.
	Issue(ctx context.Context, sessionID string) (string, error)
	Token(ctx context.Context, sessionID string) (string, error)
}

type redisTokenStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisTokenStore(rdb *redis.Client, ttl time.Duration) TokenStore {
	return &redisTokenStore{rdb: rdb, ttl: ttl}
}

func tokenKey(sessionID string) string {
	return "csrf:" + sessionID
}

func (s *redisTokenStore) Issue(ctx context.Context, sessionID string) (string, error) {
	token := uuid.NewString()

	ok, err := s.rdb.SetNX(ctx, tokenKey(sessionID), token, s.ttl).Result()
	if err != nil {
		return "", fmt.Errorf("store csrf token: %w", err)
	}
	if ok {
		return token, nil
	}
	return s.Token(ctx, sessionID)
}

// Token slides the token's expiry forward so it lives as long as the
// in-memory session does.
func (s *redisTokenStore) Token(ctx context.Context, sessionID string) (string, error) {
	token, err := s.rdb.GetEx(ctx, tokenKey(sessionID), s.ttl).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrSessionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load csrf token: %w", err)
	}
	return token, nil
}

// Sessions keeps live checkouts in memory. A checkout is dropped once it
// has been idle for ttl.
type Sessions struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	checkout *Checkout
	lastSeen time.Time
}

func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*sessionEntry),
	}
}

func (s *Sessions) Put(c *Checkout) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictLocked()
	s.sessions[c.id] = &sessionEntry{checkout: c, lastSeen: s.now()}
}

func (s *Sessions) Get(id string) (*Checkout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictLocked()
	e, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	e.lastSeen = s.now()
	return e.checkout, nil
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Sessions) evictLocked() {
	cutoff := s.now().Add(-s.ttl)
	for id, e := range s.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}
