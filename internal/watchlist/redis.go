package watchlist

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "marketlens:watchlist:"

// RedisStore keeps each session's watchlist in a sorted set scored by
// insertion time.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects and pings the server.
func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return &RedisStore{client: client}, nil
}

func redisKey(session string) string {
	return redisKeyPrefix + sessionOrDefault(session)
}

func (r *RedisStore) List(ctx context.Context, session string) ([]string, error) {
	syms, err := r.client.ZRange(ctx, redisKey(session), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}
	return syms, nil
}

func (r *RedisStore) Add(ctx context.Context, session, symbol string) (string, error) {
	sym, err := Normalize(symbol)
	if err != nil {
		return "", err
	}
	added, err := r.client.ZAddNX(ctx, redisKey(session), redis.Z{
		Score:  float64(time.Now().UnixNano()),
		Member: sym,
	}).Result()
	if err != nil {
		return sym, fmt.Errorf("add to watchlist: %w", err)
	}
	if added == 0 {
		return sym, ErrDuplicate
	}
	return sym, nil
}

func (r *RedisStore) Remove(ctx context.Context, session, symbol string) (string, error) {
	sym, err := Normalize(symbol)
	if err != nil {
		return "", err
	}
	removed, err := r.client.ZRem(ctx, redisKey(session), sym).Result()
	if err != nil {
		return sym, fmt.Errorf("remove from watchlist: %w", err)
	}
	if removed == 0 {
		return sym, ErrNotFound
	}
	return sym, nil
}

func (r *RedisStore) Close() error { return r.client.Close() }
