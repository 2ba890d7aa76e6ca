// Package trace keeps an in-memory log of recent debug trace syntheses.
package trace

import (
	"sync"
	"time"
)

// Entry is one recorded synthesis pass.
type Entry struct {
	Timestamp  time.Time `json:"timestamp"`
	TraceID    string    `json:"trace_id"`
	CampaignID string    `json:"campaign_id"`
	FinalURL   string    `json:"final_url"`
	KeyValid   *bool     `json:"api_key_valid,omitempty"`
	Error      string    `json:"error,omitempty"`
	Remote     string    `json:"remote,omitempty"`
}

// Log is a concurrent-safe fixed-size ring of entries. When full, the oldest
// entry is overwritten.
type Log struct {
	mu      sync.RWMutex
	entries []Entry
	size    int
	head    int
	count   int
}

// NewLog creates a log that holds up to size entries.
func NewLog(size int) *Log {
	if size <= 0 {
		size = 100
	}
	return &Log{
		entries: make([]Entry, size),
		size:    size,
	}
}

// Record appends an entry, overwriting the oldest if the log is full.
func (l *Log) Record(e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries[l.head] = e
	l.head = (l.head + 1) % l.size
	if l.count < l.size {
		l.count++
	}
}

// Recent returns the last n entries in chronological order.
func (l *Log) Recent(n int) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if n > l.count {
		n = l.count
	}
	if n <= 0 {
		return nil
	}

	out := make([]Entry, n)
	start := (l.head - n + l.size) % l.size
	for i := 0; i < n; i++ {
		out[i] = l.entries[(start+i)%l.size]
	}
	return out
}

// Count returns the number of entries currently stored.
func (l *Log) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.count
}
