package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowWithinBudget(t *testing.T) {
	l := New(Config{MaxRequests: 3, Window: time.Minute})
	defer l.Stop()

	r := l.Allow("ip1")
	assert.True(t, r.Allowed)
	assert.False(t, r.AtLimit)
	assert.Equal(t, 2, r.Remaining)

	r = l.Allow("ip1")
	assert.True(t, r.Allowed)
	assert.Equal(t, 1, r.Remaining)
}

func TestLastSlotIsFlagged(t *testing.T) {
	l := New(Config{MaxRequests: 2, Window: time.Minute})
	defer l.Stop()

	l.Allow("ip1")
	r := l.Allow("ip1")
	assert.True(t, r.Allowed)
	assert.True(t, r.AtLimit)
	assert.Equal(t, 0, r.Remaining)
}

func TestRejectsOverBudget(t *testing.T) {
	l := New(Config{MaxRequests: 2, Window: time.Minute})
	defer l.Stop()

	l.Allow("ip1")
	l.Allow("ip1")
	r := l.Allow("ip1")
	assert.False(t, r.Allowed)
	assert.Equal(t, 0, r.Remaining)
	assert.False(t, r.ResetAt.IsZero())
}

func TestIdentifiersAreIndependent(t *testing.T) {
	l := New(Config{MaxRequests: 1, Window: time.Minute})
	defer l.Stop()

	assert.True(t, l.Allow("ip1").Allowed)
	assert.False(t, l.Allow("ip1").Allowed)
	assert.True(t, l.Allow("ip2").Allowed)
}

func TestWindowResets(t *testing.T) {
	l := New(Config{MaxRequests: 1, Window: 30 * time.Millisecond})
	defer l.Stop()

	assert.True(t, l.Allow("ip1").Allowed)
	assert.False(t, l.Allow("ip1").Allowed)

	time.Sleep(40 * time.Millisecond)

	r := l.Allow("ip1")
	assert.True(t, r.Allowed)
	assert.Equal(t, 0, r.Remaining)
}

func TestDefaultsApplied(t *testing.T) {
	l := New(Config{})
	defer l.Stop()

	r := l.Allow("ip1")
	assert.True(t, r.Allowed)
	assert.Equal(t, DefaultMaxRequests-1, r.Remaining)
}
