package redisstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func newMiniRedisClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	return mr, client
}

func TestStatsIncrementAndCounts(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	store := NewStatsStore(client)
	ctx := context.Background()

	for _, filter := range []string{"caps", "caps", "spam"} {
		if err := store.Increment(ctx, "g1", filter); err != nil {
			t.Fatalf("increment %s: %v", filter, err)
		}
	}
	if err := store.Increment(ctx, "g2", "links"); err != nil {
		t.Fatalf("increment other guild: %v", err)
	}

	counts, total, err := store.Counts(ctx, "g1")
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if total != 3 || counts["caps"] != 2 || counts["spam"] != 1 {
		t.Fatalf("unexpected counts: total=%d counts=%v", total, counts)
	}
	if _, ok := counts["links"]; ok {
		t.Fatalf("counters leaked across guilds")
	}

	if err := store.Reset(ctx, "g1"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	counts, total, err = store.Counts(ctx, "g1")
	if err != nil || total != 0 || len(counts) != 0 {
		t.Fatalf("expected empty counters after reset, got %v %d %v", counts, total, err)
	}
}

func TestStatsRejectsEmptyPayload(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	if err := NewStatsStore(client).Increment(context.Background(), "", "caps"); err == nil {
		t.Fatalf("expected error for empty guild id")
	}
}

func TestOpen(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client, err := Open(context.Background(), "redis://"+mr.Addr())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_ = client.Close()
}
