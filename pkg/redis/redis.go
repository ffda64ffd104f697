package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"stageflow/config"
)

// Client wraps the redis connection.
// Used for password-reset one-time codes and the JWT logout blacklist.
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient connects to redis and pings it.
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	logger.Info("redis connected", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── password-reset codes ──

const resetCodePrefix = "reset:code:"

// consumeScript atomically compares the stored code with the candidate and
// deletes it on match. One critical section, so two concurrent verifications
// of the same code cannot both succeed.
var consumeScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func resetCodeKey(email string) string {
	return resetCodePrefix + strings.ToLower(strings.TrimSpace(email))
}

// SetResetCode stores a one-time code for the email, superseding any prior
// code, with the given TTL.
func (c *Client) SetResetCode(ctx context.Context, email, code string, ttl time.Duration) error {
	return c.rdb.Set(ctx, resetCodeKey(email), code, ttl).Err()
}

// GetResetCode returns the pending code, or "" if absent or expired.
func (c *Client) GetResetCode(ctx context.Context, email string) (string, error) {
	code, err := c.rdb.Get(ctx, resetCodeKey(email)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", nil
	}
	return code, err
}

// ConsumeResetCode atomically verifies and deletes the code. It reports
// false when the code is absent, expired, or different.
func (c *Client) ConsumeResetCode(ctx context.Context, email, code string) (bool, error) {
	n, err := consumeScript.Run(ctx, c.rdb, []string{resetCodeKey(email)}, code).Int()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RemoveResetCode deletes any pending code. Idempotent.
func (c *Client) RemoveResetCode(ctx context.Context, email string) error {
	return c.rdb.Del(ctx, resetCodeKey(email)).Err()
}

// ── token blacklist ──

const blacklistPrefix = "token:blacklist:"

// BlacklistToken marks a JWT ID as revoked until the token's own expiry.
func (c *Client) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // already expired
	}
	return c.rdb.Set(ctx, blacklistPrefix+jti, "1", ttl).Err()
}

// IsBlacklisted reports whether a JWT ID has been revoked.
func (c *Client) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Close closes the redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}
