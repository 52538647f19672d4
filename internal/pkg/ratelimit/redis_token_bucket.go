package ratelimit

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
)

var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local capacity = tonumber(ARGV[1])
	local rate = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])
	local ttl = tonumber(ARGV[4])

	local bucket = redis.call('HMGET', key, 'tokens', 'last_refill')
	local tokens = tonumber(bucket[1])
	local last_refill = tonumber(bucket[2])

	if tokens == nil then
		tokens = capacity
		last_refill = now
	end

	local elapsed = (now - last_refill) / 1000
	if elapsed > 0 then
		tokens = math.min(capacity, tokens + elapsed * rate)
		last_refill = now
	end

	local allowed = 0
	if tokens >= 1 then
		tokens = tokens - 1
		allowed = 1
	end

	redis.call('HSET', key, 'tokens', tostring(tokens), 'last_refill', last_refill)
	redis.call('EXPIRE', key, ttl)
	return allowed
`)

/*
多個實例共用的 token bucket, 狀態存在 redis
時間由呼叫端傳入 (毫秒), 補充邏輯與單機版相同
*/
type RedisTokenBucket struct {
	cfg    Config
	client redis.Scripter
	prefix string
	now    func() time.Time
}

func NewRedisTokenBucket(client redis.Scripter, prefix string, cfg Config) *RedisTokenBucket {
	return &RedisTokenBucket{
		cfg:    cfg.normalize(),
		client: client,
		prefix: prefix,
		now:    time.Now,
	}
}

func (r *RedisTokenBucket) generateKey(key string) string {
	return fmt.Sprintf("ratelimit:%s:%s", r.prefix, key)
}

func (r *RedisTokenBucket) Allow(ctx context.Context, key string) (bool, error) {
	ttl := int64(math.Ceil(r.cfg.IdleTTL.Seconds()))
	result, err := tokenBucketScript.Run(ctx, r.client,
		[]string{r.generateKey(key)},
		r.cfg.Capacity,
		r.cfg.Rate,
		r.now().UnixMilli(),
		ttl,
	).Int64()
	if err != nil {
		return false, fmt.Errorf("rate limit %s: %w", key, err)
	}
	return result == 1, nil
}

var _ Limiter = (*RedisTokenBucket)(nil)
