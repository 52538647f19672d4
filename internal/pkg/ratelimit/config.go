package ratelimit

import (
	"context"
	"time"
)

// Limiter 以 key (通常是 client IP) 區分的限流器
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type Config struct {
	// bucket 最大 token 數
	Capacity int
	// 每秒補充 token 數
	Rate float64
	// 閒置多久的 bucket 可以回收
	IdleTTL time.Duration
}

func PerSecond(rate, burst int) Config {
	return Config{Capacity: burst, Rate: float64(rate), IdleTTL: time.Minute}
}

// PerMinute 每分鐘 n 次, 容量即 n
func PerMinute(n int) Config {
	return Config{Capacity: n, Rate: float64(n) / 60, IdleTTL: 2 * time.Minute}
}

func (c Config) normalize() Config {
	if c.Capacity <= 0 {
		c.Capacity = 1
	}
	if c.Rate <= 0 {
		c.Rate = 1
	}
	if c.IdleTTL <= 0 {
		c.IdleTTL = time.Minute
	}
	return c
}
