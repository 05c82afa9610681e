package utils

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"chatwheel/games/roulette"
)

// HistoryCap bounds the Redis draw list.
const HistoryCap = 1000

// ConnectRedis dials addr and checks the connection.
func ConnectRedis(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return rdb, nil
}

// RedisHistory keeps the draw history as a capped Redis list so several bot
// processes share one sequence.
type RedisHistory struct {
	rdb *redis.Client
	key string
}

func NewRedisHistory(rdb *redis.Client, key string) *RedisHistory {
	if key == "" {
		key = "chatwheel:draws"
	}
	return &RedisHistory{rdb: rdb, key: key}
}

// Append pushes slot and trims the list to HistoryCap.
func (h *RedisHistory) Append(ctx context.Context, slot roulette.Slot) error {
	pipe := h.rdb.TxPipeline()
	pipe.RPush(ctx, h.key, int(slot))
	pipe.LTrim(ctx, h.key, -HistoryCap, -1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append draw: %w", err)
	}
	return nil
}

// Recent returns up to n slots, newest first.
func (h *RedisHistory) Recent(ctx context.Context, n int) ([]roulette.Slot, error) {
	if n <= 0 {
		return nil, nil
	}

	vals, err := h.rdb.LRange(ctx, h.key, int64(-n), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read draws: %w", err)
	}
	return decodeDraws(vals)
}

// decodeDraws turns an oldest-first LRANGE reply into slots, newest first.
func decodeDraws(vals []string) ([]roulette.Slot, error) {
	slots := make([]roulette.Slot, 0, len(vals))
	for i := len(vals) - 1; i >= 0; i-- {
		v, err := strconv.Atoi(vals[i])
		if err != nil {
			return nil, fmt.Errorf("failed to parse draw %q: %w", vals[i], err)
		}
		slots = append(slots, roulette.Slot(v))
	}
	return slots, nil
}
