package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTenantRateLimiterBurst(t *testing.T) {
	l := NewTenantRateLimiter(time.Hour, 2)

	require.True(t, l.Allow("t1"))
	require.True(t, l.Allow("t1"))
	require.False(t, l.Allow("t1"))
}

func TestTenantRateLimiterIsolation(t *testing.T) {
	l := NewTenantRateLimiter(time.Hour, 1)

	require.True(t, l.Allow("t1"))
	require.False(t, l.Allow("t1"))

	// Another tenant has its own bucket.
	require.True(t, l.Allow("t2"))
}

func TestTenantRateLimiterRefill(t *testing.T) {
	l := NewTenantRateLimiter(10*time.Millisecond, 1)

	require.True(t, l.Allow("t1"))
	require.False(t, l.Allow("t1"))

	time.Sleep(20 * time.Millisecond)
	require.True(t, l.Allow("t1"))
}
