package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/sophialabs/inkwell/internal/infrastructure/ports"
)

var _ ports.RateLimiter = (*ClientStore)(nil)

type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientStore rate-limits requests per client key (typically the remote IP)
// with a shared token-bucket configuration. Idle clients are evicted after
// the TTL by a background goroutine; call Stop to terminate it.
type ClientStore struct {
	mu      sync.Mutex
	clients map[string]*clientEntry
	rate    rate.Limit
	burst   int
	ttl     time.Duration
	stop    chan struct{}
}

// NewClientStore creates a store allowing r requests per second with the
// given burst per client.
func NewClientStore(r float64, burst int, ttl time.Duration) *ClientStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	s := &ClientStore{
		clients: make(map[string]*clientEntry),
		rate:    rate.Limit(r),
		burst:   burst,
		ttl:     ttl,
		stop:    make(chan struct{}),
	}
	go s.evictLoop()
	return s
}

// Stop terminates the background eviction goroutine.
func (s *ClientStore) Stop() {
	close(s.stop)
}

func (s *ClientStore) evictLoop() {
	ticker := time.NewTicker(s.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.Evict()
		case <-s.stop:
			return
		}
	}
}

// Allow reports whether the client identified by key may proceed.
func (s *ClientStore) Allow(_ context.Context, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.clients[key]
	if !ok {
		entry = &clientEntry{limiter: rate.NewLimiter(s.rate, s.burst)}
		s.clients[key] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter.Allow()
}

// Evict removes clients idle for longer than the TTL.
func (s *ClientStore) Evict() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-s.ttl)
	for key, entry := range s.clients {
		if entry.lastSeen.Before(cutoff) {
			delete(s.clients, key)
		}
	}
}

// Len returns the number of tracked clients.
func (s *ClientStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}
