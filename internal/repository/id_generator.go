package repository

import (
	"sync"
	"time"
)

// IDGenerator hands out millisecond-timestamp shaped ids that are strictly
// increasing within the process, so two creations in the same millisecond
// never share an id.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewIDGenerator builds a generator driven by the given clock (time.Now when nil).
func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

// Next returns max(now in ms, last+1).
func (g *IDGenerator) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	candidate := g.now().UnixMilli()
	if candidate <= g.last {
		candidate = g.last + 1
	}
	g.last = candidate
	return candidate
}

// Observe raises the floor so future ids exceed an id loaded from storage.
func (g *IDGenerator) Observe(id int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if id > g.last {
		g.last = id
	}
}
