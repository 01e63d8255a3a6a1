package infrastructure

import (
	"sync"
	"time"
)

// FloodLimiter implements token bucket rate limiting per source key. The
// webhook route uses it keyed by client IP since gateway events carry no
// credentials.
type FloodLimiter struct {
	mu          sync.RWMutex
	buckets     map[string]*tokenBucket
	rate        float64 // tokens per second
	maxTokens   float64 // burst capacity
	cleanupTick time.Duration
}

type tokenBucket struct {
	tokens     float64
	lastUpdate time.Time
}

// NewFloodLimiter creates a limiter with specified rate and burst
// rate: events per second allowed
// burst: maximum burst capacity
func NewFloodLimiter(rate float64, burst int) *FloodLimiter {
	fl := &FloodLimiter{
		buckets:     make(map[string]*tokenBucket),
		rate:        rate,
		maxTokens:   float64(burst),
		cleanupTick: 5 * time.Minute,
	}

	// Start cleanup goroutine
	go fl.cleanup()

	return fl
}

// Allow checks if the source may proceed (consumes 1 token if allowed)
func (fl *FloodLimiter) Allow(key string) bool {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	bucket, exists := fl.buckets[key]
	now := time.Now()

	if !exists {
		// Create new bucket with full tokens
		fl.buckets[key] = &tokenBucket{
			tokens:     fl.maxTokens - 1, // Consume 1 token
			lastUpdate: now,
		}
		return true
	}

	// Refill tokens based on time elapsed
	elapsed := now.Sub(bucket.lastUpdate).Seconds()
	bucket.tokens += elapsed * fl.rate
	if bucket.tokens > fl.maxTokens {
		bucket.tokens = fl.maxTokens
	}
	bucket.lastUpdate = now

	// Check if we have a token
	if bucket.tokens >= 1 {
		bucket.tokens -= 1
		return true
	}

	return false
}

// Reset removes rate limit state for a source
func (fl *FloodLimiter) Reset(key string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	delete(fl.buckets, key)
}

// cleanup removes stale buckets periodically
func (fl *FloodLimiter) cleanup() {
	ticker := time.NewTicker(fl.cleanupTick)
	for range ticker.C {
		fl.mu.Lock()
		now := time.Now()
		for key, bucket := range fl.buckets {
			// Remove buckets not used in last 10 minutes
			if now.Sub(bucket.lastUpdate) > 10*time.Minute {
				delete(fl.buckets, key)
			}
		}
		fl.mu.Unlock()
	}
}
