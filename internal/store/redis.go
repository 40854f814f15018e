package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const maxUpdateRetries = 10

// Redis implements Store on a Redis-compatible server.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to addr and verifies the connection.
func NewRedis(ctx context.Context, addr, password string, db int) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return &Redis{Client: client}, nil
}

// Get reads the raw value stored at key.
func (s *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, true, nil
}

// Set overwrites key with raw.
func (s *Redis) Set(ctx context.Context, key string, raw []byte) error {
	if err := s.Client.Set(ctx, key, raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Update watches key, applies fn and commits in a MULTI/EXEC block.
// A concurrent write to key aborts the transaction and fn is re-run.
func (s *Redis) Update(ctx context.Context, key string, fn UpdateFunc) error {
	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		found := true
		if errors.Is(err, redis.Nil) {
			found, err = false, nil
		}
		if err != nil {
			return fmt.Errorf("redis get %s: %w", key, err)
		}
		out, err := fn(raw, found)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := s.Client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("update %s: %w", key, ErrContention)
}

// Close releases the client.
func (s *Redis) Close() error {
	return s.Client.Close()
}
