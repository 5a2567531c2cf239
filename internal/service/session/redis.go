package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/esvchat/bible-chat/backend/internal/model/chat"
)

// redisCommands is the part of the go-redis client the store relies on.
type redisCommands interface {
	LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd
	TxPipelined(ctx context.Context, fn func(redis.Pipeliner) error) ([]redis.Cmder, error)
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStore keeps each transcript in a Redis list of JSON encoded turns. The
// key's TTL is refreshed in the same MULTI/EXEC as every append.
type RedisStore struct {
	client redisCommands
	prefix string
	ttl    time.Duration
}

// NewRedisStore wraps an existing go-redis client.
func NewRedisStore(client redisCommands, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

// Dial connects to Redis and verifies the connection with PING.
func Dial(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func (s *RedisStore) key(sessionID string) string {
	return s.prefix + sessionID
}

// Transcript implements Store.
func (s *RedisStore) Transcript(ctx context.Context, sessionID string) ([]chat.Turn, error) {
	if sessionID == "" {
		return nil, ErrSessionRequired
	}

	raw, err := s.client.LRange(ctx, s.key(sessionID), 0, -1).Result()
	if err == redis.Nil {
		return []chat.Turn{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transcript: %w", err)
	}

	turns := make([]chat.Turn, 0, len(raw))
	for _, item := range raw {
		var turn chat.Turn
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			return nil, fmt.Errorf("failed to unmarshal transcript turn: %w", err)
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

// Append implements Store.
func (s *RedisStore) Append(ctx context.Context, sessionID string, turns ...chat.Turn) error {
	if sessionID == "" {
		return ErrSessionRequired
	}
	if len(turns) == 0 {
		return nil
	}

	values := make([]interface{}, 0, len(turns))
	for _, turn := range turns {
		encoded, err := json.Marshal(turn)
		if err != nil {
			return fmt.Errorf("failed to marshal transcript turn: %w", err)
		}
		values = append(values, string(encoded))
	}

	key := s.key(sessionID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, values...)
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to append transcript: %w", err)
	}
	return nil
}

// Clear implements Store.
func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrSessionRequired
	}
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to clear transcript: %w", err)
	}
	return nil
}
