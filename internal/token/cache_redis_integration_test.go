//go:build integration

package token

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icbridge/pkg/testutil/containers"
)

func TestRedisCache_Integration(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	ctx := context.Background()
	cache := NewRedisCache(rc.Client)

	_, ok, err := cache.Get(ctx, "client-1")
	require.NoError(t, err)
	assert.False(t, ok)

	cred := &Credential{AccessToken: "acc", JWTToken: "jwt"}
	require.NoError(t, cache.Set(ctx, "client-1", cred, time.Minute))

	got, ok, err := cache.Get(ctx, "client-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, cred, got)

	// Expiry is enforced by the Redis TTL.
	require.NoError(t, cache.Set(ctx, "client-2", cred, 500*time.Millisecond))
	time.Sleep(time.Second)

	_, ok, err = cache.Get(ctx, "client-2")
	require.NoError(t, err)
	assert.False(t, ok)

	// A non-positive TTL never stores anything.
	require.NoError(t, cache.Set(ctx, "client-3", cred, 0))
	_, ok, err = cache.Get(ctx, "client-3")
	require.NoError(t, err)
	assert.False(t, ok)
}
