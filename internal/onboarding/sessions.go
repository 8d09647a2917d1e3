package onboarding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ErrSessionNotFound is returned by a SessionStore for unknown or expired ids.
var ErrSessionNotFound = errors.New("onboarding session not found")

// DefaultSessionTTL bounds how long an idle wizard session is kept.
const DefaultSessionTTL = 24 * time.Hour

// SessionStore keeps wizard state between requests.
type SessionStore interface {
	Get(ctx context.Context, id string) (*State, error)
	Save(ctx context.Context, s *State) error
}

// MemoryStore is an in-process SessionStore. Stored states are copied on
// the way in and out so callers never share slices.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]memoryEntry
}

type memoryEntry struct {
	raw     []byte
	expires time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &MemoryStore{ttl: ttl, now: time.Now, sessions: map[string]memoryEntry{}}
}

func (m *MemoryStore) Get(_ context.Context, id string) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if m.now().After(e.expires) {
		delete(m.sessions, id)
		return nil, ErrSessionNotFound
	}
	var s State
	if err := json.Unmarshal(e.raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (m *MemoryStore) Save(_ context.Context, s *State) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = memoryEntry{raw: raw, expires: m.now().Add(m.ttl)}
	return nil
}

// RedisStore keeps sessions as JSON values with a sliding TTL, so several
// API instances can serve the same wizard.
type RedisStore struct {
	rdb    *goredis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisStore(rdb *goredis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &RedisStore{rdb: rdb, ttl: ttl, prefix: "onboarding:session:"}
}

func (r *RedisStore) Get(ctx context.Context, id string) (*State, error) {
	raw, err := r.rdb.Get(ctx, r.prefix+id).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session: %w", err)
	}
	var s State
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

func (r *RedisStore) Save(ctx context.Context, s *State) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, r.prefix+s.ID, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis save session: %w", err)
	}
	return nil
}
