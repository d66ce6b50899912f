package repos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"poolhall/internal/domain"
)

// DefaultStateTTL keeps an untouched snapshot around for a year.
const DefaultStateTTL = 365 * 24 * time.Hour

// RedisStore keeps the aggregate under a single key; SET replaces it
// atomically.
type RedisStore struct {
	Client *redis.Client
	Key    string
	TTL    time.Duration
}

func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = StateKey
	}
	return &RedisStore{Client: client, Key: key, TTL: DefaultStateTTL}
}

func (s *RedisStore) Load(ctx context.Context) (domain.AggregateState, error) {
	val, err := s.Client.Get(ctx, s.Key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.EmptyState(time.Now()), nil
	}
	if err != nil {
		return domain.AggregateState{}, fmt.Errorf("redis get state: %w", err)
	}
	return decodeState(val)
}

func (s *RedisStore) Save(ctx context.Context, st domain.AggregateState) error {
	b, err := encodeState(st)
	if err != nil {
		return err
	}
	if err := s.Client.Set(ctx, s.Key, b, s.TTL).Err(); err != nil {
		return fmt.Errorf("redis set state: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	if s.Client != nil {
		return s.Client.Close()
	}
	return nil
}

// NewRedisClient connects and pings with a short timeout so a bad address
// fails at startup rather than on the first save.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}
