package sessions

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistKeyPrefix = "blacklist:access:"

// Optional Redis client backing the access-token blacklist. When nil (no
// Redis configured) logout simply drops the refresh session and access
// tokens ride out their short TTL.
var blacklistClient *redis.Client

// SetBlacklistClient wires the Redis client used for the blacklist. Passing
// nil disables it.
func SetBlacklistClient(c *redis.Client) {
	blacklistClient = c
}

// BlacklistAccessToken marks an access token revoked until ttl elapses,
// which should match the token's remaining lifetime. No-op without Redis.
func BlacklistAccessToken(ctx context.Context, token string, ttl time.Duration) error {
	if blacklistClient == nil {
		return nil
	}
	return blacklistClient.Set(ctx, blacklistKeyPrefix+token, "1", ttl).Err()
}

// IsAccessTokenBlacklisted reports whether the token was revoked by a
// logout. Without Redis it always reports false.
func IsAccessTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	if blacklistClient == nil {
		return false, nil
	}
	n, err := blacklistClient.Exists(ctx, blacklistKeyPrefix+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
