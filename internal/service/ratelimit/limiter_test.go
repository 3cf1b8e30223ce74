package ratelimit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowConsumesBurstCapacity(t *testing.T) {
	l := New()

	assert.True(t, l.Allow("ip1", 2, 0))
	assert.True(t, l.Allow("ip1", 2, 0))
	assert.False(t, l.Allow("ip1", 2, 0))
}

func TestAllowKeysAreIndependent(t *testing.T) {
	l := New()

	assert.True(t, l.Allow("ip1", 1, 0))
	assert.False(t, l.Allow("ip1", 1, 0))
	assert.True(t, l.Allow("ip2", 1, 0))
}
