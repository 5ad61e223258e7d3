package redisstore

import (
	"context"
	"fmt"
	"strconv"

	goredis "github.com/redis/go-redis/v9"
)

const totalField = "total"

// StatsStore keeps per-guild trigger counters in a Redis hash so they survive
// restarts.
type StatsStore struct {
	client *goredis.Client
	prefix string
}

func NewStatsStore(client *goredis.Client) *StatsStore {
	return &StatsStore{client: client, prefix: "automod:stats:"}
}

// Open parses a redis:// URL and pings the server.
func Open(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func (s *StatsStore) key(guildID string) string {
	return s.prefix + guildID
}

// Increment bumps the filter counter and the guild total atomically.
func (s *StatsStore) Increment(ctx context.Context, guildID, filter string) error {
	if s.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if guildID == "" || filter == "" {
		return fmt.Errorf("invalid stats payload")
	}
	key := s.key(guildID)
	_, err := s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.HIncrBy(ctx, key, filter, 1)
		pipe.HIncrBy(ctx, key, totalField, 1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("increment stats: %w", err)
	}
	return nil
}

// Counts returns the per-filter counters and the total of a guild.
func (s *StatsStore) Counts(ctx context.Context, guildID string) (map[string]int64, int64, error) {
	if s.client == nil {
		return nil, 0, fmt.Errorf("redis client is nil")
	}
	values, err := s.client.HGetAll(ctx, s.key(guildID)).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("read stats: %w", err)
	}

	counts := make(map[string]int64, len(values))
	var total int64
	for field, raw := range values {
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, 0, fmt.Errorf("parse stats field %s: %w", field, err)
		}
		if field == totalField {
			total = value
			continue
		}
		counts[field] = value
	}
	return counts, total, nil
}

func (s *StatsStore) Reset(ctx context.Context, guildID string) error {
	if s.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	return s.client.Del(ctx, s.key(guildID)).Err()
}
