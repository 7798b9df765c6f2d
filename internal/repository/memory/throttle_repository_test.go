package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestThrottleAllowsFirstSendOnly(t *testing.T) {
	r := NewThrottleRepository(time.Hour)

	assert.True(t, r.Allow("a@example.com:register"))
	assert.False(t, r.Allow("a@example.com:register"))

	// Different address and different purpose are independent windows
	assert.True(t, r.Allow("b@example.com:register"))
	assert.True(t, r.Allow("a@example.com:reset"))
}

func TestThrottleResetReopensWindow(t *testing.T) {
	r := NewThrottleRepository(time.Hour)

	assert.True(t, r.Allow("a@example.com:register"))
	r.Reset("a@example.com:register")
	assert.True(t, r.Allow("a@example.com:register"))
}
