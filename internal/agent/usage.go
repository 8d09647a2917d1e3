package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/apperr"

	goredis "github.com/redis/go-redis/v9"
)

// DefaultDailyLimit is the number of agent messages a user may send per day.
const DefaultDailyLimit = 20

// ErrLimitReached is returned once a user has used up today's messages.
var ErrLimitReached = apperr.New(apperr.ErrRateLimited, "you have reached today's agent message limit, please try again tomorrow")

// UsageLimiter counts agent messages per user per UTC day.
type UsageLimiter interface {
	// Consume records one message and returns how many remain today. It
	// fails with ErrLimitReached without recording when none remain.
	Consume(ctx context.Context, userID string) (remaining int, err error)
}

func day(t time.Time) string { return t.UTC().Format("2006-01-02") }

// MemoryLimiter keeps counters in process.
type MemoryLimiter struct {
	limit int
	now   func() time.Time

	mu     sync.Mutex
	counts map[string]int
}

func NewMemoryLimiter(limit int) *MemoryLimiter {
	if limit <= 0 {
		limit = DefaultDailyLimit
	}
	return &MemoryLimiter{limit: limit, now: time.Now, counts: map[string]int{}}
}

func (m *MemoryLimiter) Consume(_ context.Context, userID string) (int, error) {
	today := day(m.now())
	key := userID + ":" + today

	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.counts {
		if !strings.HasSuffix(k, today) {
			delete(m.counts, k)
		}
	}
	if m.counts[key] >= m.limit {
		return 0, ErrLimitReached
	}
	m.counts[key]++
	return m.limit - m.counts[key], nil
}

// RedisLimiter shares counters between instances. Keys are dated and expire
// two days after their last use.
type RedisLimiter struct {
	rdb   *goredis.Client
	limit int
	now   func() time.Time
}

func NewRedisLimiter(rdb *goredis.Client, limit int) *RedisLimiter {
	if limit <= 0 {
		limit = DefaultDailyLimit
	}
	return &RedisLimiter{rdb: rdb, limit: limit, now: time.Now}
}

func (r *RedisLimiter) key(userID string) string {
	return "agent:usage:" + userID + ":" + day(r.now())
}

func (r *RedisLimiter) Consume(ctx context.Context, userID string) (int, error) {
	key := r.key(userID)
	pipe := r.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, 48*time.Hour)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("redis usage counter: %w", err)
	}
	n := int(incr.Val())
	if n > r.limit {
		// give the slot back so the counter reflects accepted messages
		r.rdb.Decr(ctx, key)
		return 0, ErrLimitReached
	}
	return r.limit - n, nil
}
