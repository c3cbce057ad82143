// Package redisrepo provides a Redis-backed token.Repo.
//
// Records are stored without a Redis-level TTL: an expired token must stay
// visible to GetByValue until the reaper removes it, so expiry is enforced
// in the record itself rather than by key eviction.
package redisrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jrsteele09/go-unique-login/internal/errors"
	"github.com/jrsteele09/go-unique-login/token"
)

var _ token.Repo = (*RedisTokenRepo)(nil)

type tokenRecord struct {
	ID        string    `json:"id"`
	SubjectID string    `json:"subject_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

type RedisTokenRepo struct {
	redis  redis.UniversalClient
	prefix string
}

func NewRedisTokenRepo(redisClient redis.UniversalClient, prefix string) *RedisTokenRepo {
	if prefix == "" {
		prefix = "uli"
	}
	return &RedisTokenRepo{
		redis:  redisClient,
		prefix: prefix,
	}
}

func (r *RedisTokenRepo) key(value string) string {
	return r.prefix + ":token:" + value
}

func (r *RedisTokenRepo) Insert(ctx context.Context, t *token.Token) error {
	id := uuid.NewString()
	encoded, err := json.Marshal(tokenRecord{
		ID:        id,
		SubjectID: t.SubjectID,
		ExpiresAt: t.ExpiresAt,
		CreatedAt: t.CreatedAt,
	})
	if err != nil {
		return err
	}

	// SETNX enforces value uniqueness atomically.
	ok, err := r.redis.SetNX(ctx, r.key(t.Value), encoded, 0).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrStorageUnavailable, err)
	}
	if !ok {
		return errors.ErrDuplicateValue
	}

	t.ID = id
	return nil
}

func (r *RedisTokenRepo) GetByValue(ctx context.Context, value string) (*token.Token, error) {
	data, err := r.redis.Get(ctx, r.key(value)).Bytes()
	if err == redis.Nil {
		return nil, errors.ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrStorageUnavailable, err)
	}

	var record tokenRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%w: corrupt token record: %v", errors.ErrStorageUnavailable, err)
	}

	return &token.Token{
		ID:        record.ID,
		Value:     value,
		SubjectID: record.SubjectID,
		ExpiresAt: record.ExpiresAt,
		CreatedAt: record.CreatedAt,
	}, nil
}

func (r *RedisTokenRepo) GetValidByValue(ctx context.Context, value string, now time.Time) (*token.Token, error) {
	t, err := r.GetByValue(ctx, value)
	if err != nil {
		return nil, err
	}
	if !t.IsValid(now) {
		return nil, errors.ErrTokenNotFound
	}
	return t, nil
}

// DeleteByValue relies on DEL reporting how many keys it removed: under
// concurrent redemption of the same value exactly one caller sees 1.
func (r *RedisTokenRepo) DeleteByValue(ctx context.Context, value string) (int64, error) {
	count, err := r.redis.Del(ctx, r.key(value)).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errors.ErrStorageUnavailable, err)
	}
	return count, nil
}

func (r *RedisTokenRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var removed int64
	var cursor uint64

	for {
		keys, next, err := r.redis.Scan(ctx, cursor, r.prefix+":token:*", 100).Result()
		if err != nil {
			return removed, fmt.Errorf("%w: %v", errors.ErrStorageUnavailable, err)
		}

		for _, key := range keys {
			data, err := r.redis.Get(ctx, key).Bytes()
			if err == redis.Nil {
				continue // consumed since the scan
			}
			if err != nil {
				return removed, fmt.Errorf("%w: %v", errors.ErrStorageUnavailable, err)
			}

			var record tokenRecord
			if err := json.Unmarshal(data, &record); err != nil {
				continue
			}
			if !record.ExpiresAt.Before(now) {
				continue
			}

			// DEL's count keeps the tally correct if a concurrent reaper
			// already removed the key.
			count, err := r.redis.Del(ctx, key).Result()
			if err != nil {
				return removed, fmt.Errorf("%w: %v", errors.ErrStorageUnavailable, err)
			}
			removed += count
		}

		cursor = next
		if cursor == 0 {
			return removed, nil
		}
	}
}
