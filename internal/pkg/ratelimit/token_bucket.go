package ratelimit

import (
	"context"
	"sync"
	"time"
)

type bucket struct {
	tokens     float64
	lastRefill time.Time
}

/*
單機 token bucket, 每個 key 一個 bucket
取用時依經過時間補 token, 背景只負責回收閒置 bucket
請使用 defer 呼叫 Stop()
*/
type TokenBucket struct {
	cfg     Config
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
	cancel  chan struct{}
	once    sync.Once
}

func NewTokenBucket(cfg Config) *TokenBucket {
	t := &TokenBucket{
		cfg:     cfg.normalize(),
		buckets: make(map[string]*bucket),
		now:     time.Now,
		cancel:  make(chan struct{}),
	}
	go t.background()
	return t
}

func (t *TokenBucket) Allow(ctx context.Context, key string) (bool, error) {
	now := t.now()

	t.mu.Lock()
	defer t.mu.Unlock()

	b, ok := t.buckets[key]
	if !ok {
		b = &bucket{tokens: float64(t.cfg.Capacity), lastRefill: now}
		t.buckets[key] = b
	}

	elapsed := now.Sub(b.lastRefill).Seconds()
	if elapsed > 0 {
		b.tokens = min(float64(t.cfg.Capacity), b.tokens+elapsed*t.cfg.Rate)
		b.lastRefill = now
	}

	if b.tokens < 1 {
		return false, nil
	}
	b.tokens--
	return true, nil
}

func (t *TokenBucket) background() {
	ticker := time.NewTicker(t.cfg.IdleTTL)
	defer ticker.Stop()

	for {
		select {
		case <-t.cancel:
			return
		case <-ticker.C:
			t.sweep()
		}
	}
}

// sweep 已補滿且閒置超過 IdleTTL 的 bucket 與新建的等價, 可以移除
func (t *TokenBucket) sweep() {
	now := t.now()
	t.mu.Lock()
	defer t.mu.Unlock()
	for key, b := range t.buckets {
		if now.Sub(b.lastRefill) >= t.cfg.IdleTTL {
			delete(t.buckets, key)
		}
	}
}

func (t *TokenBucket) Stop() {
	t.once.Do(func() {
		close(t.cancel)
	})
}

var _ Limiter = (*TokenBucket)(nil)
