package velocity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"fraudgate/internal/domain"
	"fraudgate/pkg/platform/sentinel"
)

const velocityKeyPrefix = "velocity:"

// recordAndFetchScript performs the whole read-modify-write server-side so
// concurrent requests for the same user cannot interleave: evict expired
// members, read the prior window, append the new member, refresh the TTL.
var recordAndFetchScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local member = ARGV[3]
redis.call('ZREMRANGEBYSCORE', key, 0, now - window)
local prior = redis.call('ZRANGE', key, 0, -1)
redis.call('ZADD', key, now, member)
redis.call('PEXPIRE', key, window)
return prior
`)

// RedisStore implements Store on a Redis sorted set per user. The member score
// is the transaction timestamp in milliseconds, so eviction and ordering both
// follow event time. Recommended for distributed deployments where multiple
// engine instances share velocity state.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore constructs a Redis-backed velocity store. The client lifecycle
// is managed by the caller.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// redisEntry is the sorted-set member payload. The transaction ID keeps
// members distinct when two transactions share timestamp, amount, and country.
type redisEntry struct {
	domain.Summary
	Nonce string `json:"nonce"`
}

// RecordAndFetch implements Store.
func (s *RedisStore) RecordAndFetch(ctx context.Context, userID string, summary domain.Summary, window time.Duration) ([]domain.Summary, error) {
	entry := redisEntry{Summary: summary, Nonce: fmt.Sprintf("%d", time.Now().UnixNano())}
	member, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("marshal velocity entry: %w", err)
	}

	key := velocityKeyPrefix + userID
	raw, err := recordAndFetchScript.Run(ctx, s.client,
		[]string{key},
		summary.Timestamp.UnixMilli(),
		window.Milliseconds(),
		member,
	).StringSlice()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("velocity record_and_fetch: %w", sentinel.ErrTimeout)
		}
		return nil, fmt.Errorf("velocity record_and_fetch: %w: %v", sentinel.ErrStateUnavailable, err)
	}

	prior := make([]domain.Summary, 0, len(raw))
	for _, m := range raw {
		var e redisEntry
		if err := json.Unmarshal([]byte(m), &e); err != nil {
			// Skip entries written by an incompatible version rather than
			// failing the whole request.
			continue
		}
		prior = append(prior, e.Summary)
	}
	return prior, nil
}
