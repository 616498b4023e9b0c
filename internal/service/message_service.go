package service

import (
	"sync"
	"time"

	"github.com/noah-isme/attendance-register/internal/models"
)

// MessageBoard holds the single transient notice shown to the operator.
// Posting replaces any previous notice; a notice disappears once its TTL
// has elapsed.
type MessageBoard struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	current *models.Message
}

// NewMessageBoard builds a board whose notices live for ttl (4s when unset).
func NewMessageBoard(ttl time.Duration, now func() time.Time) *MessageBoard {
	if ttl <= 0 {
		ttl = 4 * time.Second
	}
	if now == nil {
		now = time.Now
	}
	return &MessageBoard{ttl: ttl, now: now}
}

// Post publishes a notice, superseding the previous one.
func (b *MessageBoard) Post(kind models.MessageKind, text string) models.Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	msg := models.Message{Kind: kind, Text: text, ExpiresAt: b.now().Add(b.ttl)}
	b.current = &msg
	return msg
}

// Current returns the live notice, or nil once it has expired.
func (b *MessageBoard) Current() *models.Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return nil
	}
	if !b.now().Before(b.current.ExpiresAt) {
		b.current = nil
		return nil
	}
	msg := *b.current
	return &msg
}
