// Package poolstore provides pool.Store implementations: a redis-backed
// store for the service and an in-memory store for tests.
package poolstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/solanaforge/amm-engine/internal/constants"
	"github.com/solanaforge/amm-engine/internal/pool"
)

type RedisStore struct {
	client redis.Cmdable
}

func NewRedisStore(client redis.Cmdable) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Upsert(ctx context.Context, p *pool.Pool) error {
	if err := p.Validate(); err != nil {
		return err
	}

	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal pool: %w", err)
	}

	id := p.ID()
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, recordKey(id), b, 0)
	pipe.SAdd(ctx, constants.RedisKeyPoolIndex, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("upsert pool: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*pool.Pool, error) {
	val, err := s.client.Get(ctx, recordKey(id)).Result()
	if err == redis.Nil {
		return nil, pool.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get pool: %w", err)
	}

	var p pool.Pool
	if err := json.Unmarshal([]byte(val), &p); err != nil {
		return nil, fmt.Errorf("unmarshal pool: %w", err)
	}
	return &p, nil
}

func (s *RedisStore) List(ctx context.Context) ([]*pool.Pool, error) {
	ids, err := s.client.SMembers(ctx, constants.RedisKeyPoolIndex).Result()
	if err != nil {
		return nil, fmt.Errorf("list pool index: %w", err)
	}
	if len(ids) == 0 {
		return []*pool.Pool{}, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, recordKey(id))
	}

	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("mget pools: %w", err)
	}

	out := make([]*pool.Pool, 0, len(vals))
	for _, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var p pool.Pool
		if err := json.Unmarshal([]byte(str), &p); err != nil {
			continue
		}
		out = append(out, &p)
	}
	return out, nil
}

func (s *RedisStore) SetLocked(ctx context.Context, id string, locked bool) (*pool.Pool, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Locked = locked
	if err := s.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, recordKey(id))
	pipe.SRem(ctx, constants.RedisKeyPoolIndex, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete pool: %w", err)
	}
	return nil
}

func recordKey(id string) string {
	return constants.RedisKeyPoolPrefix + id
}
