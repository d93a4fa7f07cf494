package sessions

import (
	"context"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestBlacklistAccessToken(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	SetBlacklistClient(client)
	defer SetBlacklistClient(nil)

	ctx := context.Background()
	require.NoError(t, BlacklistAccessToken(ctx, "tok-1", 5*time.Second))

	listed, err := IsAccessTokenBlacklisted(ctx, "tok-1")
	require.NoError(t, err)
	require.True(t, listed)

	listed, err = IsAccessTokenBlacklisted(ctx, "tok-2")
	require.NoError(t, err)
	require.False(t, listed)

	// entries drop off after TTL
	m.FastForward(6 * time.Second)
	listed, err = IsAccessTokenBlacklisted(ctx, "tok-1")
	require.NoError(t, err)
	require.False(t, listed)
}

func TestBlacklist_NoClientConfigured(t *testing.T) {
	SetBlacklistClient(nil)
	ctx := context.Background()

	require.NoError(t, BlacklistAccessToken(ctx, "tok", time.Second))
	listed, err := IsAccessTokenBlacklisted(ctx, "tok")
	require.NoError(t, err)
	require.False(t, listed)
}
