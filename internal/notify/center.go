package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// maxToasts caps how many undelivered toasts are kept; the oldest
	// is evicted when a new one arrives at the cap.
	maxToasts = 5

	defaultTTL = 3 * time.Second
)

// Toast is a single pending notification.
type Toast struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Level     Level     `json:"level"`
	CreatedAt time.Time `json:"created_at"`

	expiresAt time.Time
}

// Center is a bounded in-memory toast queue. Producers push through
// the Notifier interface; the presentation layer drains pending
// toasts. Undrained toasts expire after a fixed TTL.
type Center struct {
	mu     sync.Mutex
	toasts []Toast
	ttl    time.Duration
	now    func() time.Time
}

func NewCenter() *Center {
	return &Center{
		ttl: defaultTTL,
		now: time.Now,
	}
}

func (c *Center) Success(message string) { c.push(message, LevelSuccess) }
func (c *Center) Error(message string)   { c.push(message, LevelError) }
func (c *Center) Info(message string)    { c.push(message, LevelInfo) }

func (c *Center) push(message string, level Level) {
	if message == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.expireLocked()
	if len(c.toasts) >= maxToasts {
		c.toasts = c.toasts[1:]
	}

	now := c.now()
	c.toasts = append(c.toasts, Toast{
		ID:        uuid.New().String(),
		Message:   message,
		Level:     level,
		CreatedAt: now,
		expiresAt: now.Add(c.ttl),
	})
}

// Drain returns all pending toasts and empties the queue.
func (c *Center) Drain() []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.expireLocked()
	out := c.toasts
	c.toasts = nil
	return out
}

// Pending reports how many toasts are queued.
func (c *Center) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.expireLocked()
	return len(c.toasts)
}

func (c *Center) expireLocked() {
	now := c.now()
	kept := c.toasts[:0]
	for _, t := range c.toasts {
		if t.expiresAt.After(now) {
			kept = append(kept, t)
		}
	}
	c.toasts = kept
}
