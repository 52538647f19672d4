package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTokenBucket_Basic(t *testing.T) {
	bucket := NewTokenBucket(Config{Capacity: 5, Rate: 2})
	defer bucket.Stop()
	now := time.Unix(1_700_000_000, 0)
	bucket.now = func() time.Time { return now }

	for i := 0; i < 5; i++ {
		ok, err := bucket.Allow(context.Background(), "10.0.0.1")
		require.NoError(t, err)
		require.True(t, ok, "應該允許第 %d 次請求", i+1)
	}
	ok, _ := bucket.Allow(context.Background(), "10.0.0.1")
	require.False(t, ok, "超過容量限制應該被拒絕")

	// 不同 key 不互相影響
	ok, _ = bucket.Allow(context.Background(), "10.0.0.2")
	require.True(t, ok)
}

func TestTokenBucket_Refill(t *testing.T) {
	bucket := NewTokenBucket(Config{Capacity: 2, Rate: 1})
	defer bucket.Stop()
	now := time.Unix(1_700_000_000, 0)
	bucket.now = func() time.Time { return now }
	ctx := context.Background()

	bucket.Allow(ctx, "k")
	bucket.Allow(ctx, "k")
	ok, _ := bucket.Allow(ctx, "k")
	require.False(t, ok)

	now = now.Add(1100 * time.Millisecond)
	ok, _ = bucket.Allow(ctx, "k")
	require.True(t, ok, "應該有1個新的token可用")
	ok, _ = bucket.Allow(ctx, "k")
	require.False(t, ok)

	// 補充不超過容量
	now = now.Add(time.Hour)
	for i := 0; i < 2; i++ {
		ok, _ = bucket.Allow(ctx, "k")
		require.True(t, ok)
	}
	ok, _ = bucket.Allow(ctx, "k")
	require.False(t, ok)
}

func TestTokenBucket_Sweep(t *testing.T) {
	bucket := NewTokenBucket(Config{Capacity: 1, Rate: 1, IdleTTL: time.Minute})
	defer bucket.Stop()
	now := time.Unix(1_700_000_000, 0)
	bucket.now = func() time.Time { return now }

	bucket.Allow(context.Background(), "k")
	now = now.Add(2 * time.Minute)
	bucket.sweep()

	bucket.mu.Lock()
	defer bucket.mu.Unlock()
	require.Empty(t, bucket.buckets)
}

func TestTokenBucket_Concurrent(t *testing.T) {
	bucket := NewTokenBucket(Config{Capacity: 100, Rate: 0.001})
	defer bucket.Stop()

	var allowed atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if ok, _ := bucket.Allow(context.Background(), "shared"); ok {
					allowed.Add(1)
				}
			}
		}()
	}
	wg.Wait()
	require.Equal(t, int64(100), allowed.Load())
}

func TestPerMinute(t *testing.T) {
	cfg := PerMinute(30)
	require.Equal(t, 30, cfg.Capacity)
	require.InDelta(t, 0.5, cfg.Rate, 1e-9)
}
