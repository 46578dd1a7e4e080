package tilt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserLimiter_BurstThenDeny(t *testing.T) {
	l := NewUserLimiter(1, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("alice"), "burst token %d", i)
	}
	assert.False(t, l.Allow("alice"))
}

func TestUserLimiter_IndependentBuckets(t *testing.T) {
	l := NewUserLimiter(1, 1)

	assert.True(t, l.Allow("alice"))
	assert.False(t, l.Allow("alice"))
	assert.True(t, l.Allow("bob"))
}

func TestUserLimiter_ForgetRestoresBurst(t *testing.T) {
	l := NewUserLimiter(1, 1)

	assert.True(t, l.Allow("alice"))
	assert.False(t, l.Allow("alice"))

	l.Forget("alice")
	assert.True(t, l.Allow("alice"), "a fresh bucket has a full burst")
}
