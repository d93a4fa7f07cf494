package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSessionLifecycle(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	refresh, err := svc.CreateSession(ctx, "user-1", time.Minute)
	require.NoError(t, err)
	require.Len(t, refresh, 64) // 32 random bytes hex-encoded

	sess, err := svc.ValidateRefresh(ctx, refresh)
	require.NoError(t, err)
	require.NotNil(t, sess)
	require.Equal(t, "user-1", sess.UserID)

	require.NoError(t, svc.DeleteRefresh(ctx, refresh))
	sess, err = svc.ValidateRefresh(ctx, refresh)
	require.NoError(t, err)
	require.Nil(t, sess)
}

func TestValidateRefresh_Expired(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	refresh, err := svc.CreateSession(ctx, "user-1", -time.Minute)
	require.NoError(t, err)

	sess, err := svc.ValidateRefresh(ctx, refresh)
	require.NoError(t, err)
	require.Nil(t, sess)
}
