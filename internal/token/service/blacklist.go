package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	apperrors "github.com/allisson/keyosk/internal/errors"
	tokenDomain "github.com/allisson/keyosk/internal/token/domain"
)

// BlacklistKeyPrefix prefixes every Redis blacklist key.
const BlacklistKeyPrefix = "keyosk:blacklist:"

// Blacklist tracks revoked token ids until the tokens expire.
type Blacklist interface {
	// Add marks jti revoked until expires. Already expired tokens are skipped.
	Add(ctx context.Context, jti uuid.UUID, expires time.Time) error
	// Contains reports whether jti is revoked.
	Contains(ctx context.Context, jti uuid.UUID) (bool, error)
}

// RedisBlacklist keeps revoked ids in Redis with a TTL matching the token expiry.
type RedisBlacklist struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisBlacklist creates a Blacklist backed by client.
func NewRedisBlacklist(client *redis.Client) *RedisBlacklist {
	return &RedisBlacklist{client: client, now: time.Now}
}

// Add implements Blacklist.
func (b *RedisBlacklist) Add(ctx context.Context, jti uuid.UUID, expires time.Time) error {
	ttl := expires.Sub(b.now())
	if ttl <= 0 {
		return nil
	}

	if err := b.client.Set(ctx, blacklistKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to add token to blacklist: %w", err)
	}
	return nil
}

// Contains implements Blacklist.
func (b *RedisBlacklist) Contains(ctx context.Context, jti uuid.UUID) (bool, error) {
	exists, err := b.client.Exists(ctx, blacklistKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check blacklist: %w", err)
	}
	return exists > 0, nil
}

func blacklistKey(jti uuid.UUID) string {
	return BlacklistKeyPrefix + jti.String()
}

// TokenReader loads a token record by id.
type TokenReader interface {
	Get(ctx context.Context, tokenID uuid.UUID) (*tokenDomain.Token, error)
}

// DatabaseBlacklist answers from the revoked flag of the token table. Revocation itself
// is the row update, so Add has nothing left to do.
type DatabaseBlacklist struct {
	tokens TokenReader
}

// NewDatabaseBlacklist creates a Blacklist reading the token table through tokens.
func NewDatabaseBlacklist(tokens TokenReader) *DatabaseBlacklist {
	return &DatabaseBlacklist{tokens: tokens}
}

// Add implements Blacklist.
func (b *DatabaseBlacklist) Add(ctx context.Context, jti uuid.UUID, expires time.Time) error {
	return nil
}

// Contains implements Blacklist. Unknown ids are reported revoked.
func (b *DatabaseBlacklist) Contains(ctx context.Context, jti uuid.UUID) (bool, error) {
	token, err := b.tokens.Get(ctx, jti)
	if err != nil {
		if apperrors.Is(err, tokenDomain.ErrTokenNotFound) {
			return true, nil
		}
		return false, err
	}
	return token.Revoked, nil
}
