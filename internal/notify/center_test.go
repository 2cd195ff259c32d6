package notify

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCenter_PushAndDrain(t *testing.T) {
	c := NewCenter()

	c.Success("Fresh Red Apples added to cart")
	c.Info("Cart cleared")

	toasts := c.Drain()
	require.Len(t, toasts, 2)
	assert.Equal(t, "Fresh Red Apples added to cart", toasts[0].Message)
	assert.Equal(t, LevelSuccess, toasts[0].Level)
	assert.Equal(t, LevelInfo, toasts[1].Level)
	assert.NotEmpty(t, toasts[0].ID)

	assert.Empty(t, c.Drain(), "drain empties the queue")
}

func TestCenter_EmptyMessageIgnored(t *testing.T) {
	c := NewCenter()

	c.Success("")

	assert.Equal(t, 0, c.Pending())
}

func TestCenter_EvictsOldestAtCap(t *testing.T) {
	c := NewCenter()

	for i := 1; i <= maxToasts+2; i++ {
		c.Info(fmt.Sprintf("message %d", i))
	}

	toasts := c.Drain()
	require.Len(t, toasts, maxToasts)
	assert.Equal(t, "message 3", toasts[0].Message)
	assert.Equal(t, fmt.Sprintf("message %d", maxToasts+2), toasts[len(toasts)-1].Message)
}

func TestCenter_ExpiresUndrainedToasts(t *testing.T) {
	c := NewCenter()
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Success("soon gone")
	require.Equal(t, 1, c.Pending())

	now = now.Add(defaultTTL + time.Second)
	assert.Equal(t, 0, c.Pending())
	assert.Empty(t, c.Drain())
}
