// Package notify is the banner notification micro-framework: leveled
// messages with fixed auto-dismiss windows, shown on the next page
// render and dropped after their TTL or an explicit dismiss.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level is the visual severity of a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// ttls are the fixed auto-dismiss windows per level. Errors linger
// longer so the message survives a redirect and a read.
var ttls = map[Level]time.Duration{
	LevelInfo:    4 * time.Second,
	LevelSuccess: 4 * time.Second,
	LevelWarning: 6 * time.Second,
	LevelError:   8 * time.Second,
}

// Notification is one banner.
type Notification struct {
	ID        string
	Level     Level
	Message   string
	CreatedAt time.Time
}

// Center collects notifications for rendering. Safe for concurrent use.
type Center struct {
	mu      sync.Mutex
	pending []Notification
	now     func() time.Time
}

// NewCenter creates an empty notification center.
func NewCenter() *Center {
	return &Center{now: time.Now}
}

// Push queues a notification and returns its id.
func (c *Center) Push(level Level, message string) string {
	n := Notification{
		ID:        uuid.New().String(),
		Level:     level,
		Message:   message,
		CreatedAt: c.now(),
	}
	c.mu.Lock()
	c.pending = append(c.pending, n)
	c.mu.Unlock()
	return n.ID
}

// Error is shorthand for Push(LevelError, ...).
func (c *Center) Error(message string) string { return c.Push(LevelError, message) }

// Success is shorthand for Push(LevelSuccess, ...).
func (c *Center) Success(message string) string { return c.Push(LevelSuccess, message) }

// Active returns the notifications still inside their dismiss window,
// oldest first, and prunes the expired ones.
func (c *Center) Active() []Notification {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.pending[:0]
	for _, n := range c.pending {
		ttl := ttls[n.Level]
		if ttl == 0 {
			ttl = ttls[LevelInfo]
		}
		if now.Sub(n.CreatedAt) < ttl {
			kept = append(kept, n)
		}
	}
	c.pending = kept
	return append([]Notification(nil), kept...)
}

// Dismiss removes a notification before its TTL expires.
func (c *Center) Dismiss(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.pending[:0]
	for _, n := range c.pending {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	c.pending = kept
}
