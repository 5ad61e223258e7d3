package spam

import (
	"context"
	"math"
	"testing"
	"time"

	"sentinel-automod/internal/moderation"

	"go.uber.org/zap"
)

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

func newFilter() (*Filter, *testClock) {
	clock := &testClock{now: time.Unix(1000, 0)}
	filter := New(Config{}, zap.NewNop())
	filter.WithClock(clock.Now)
	return filter, clock
}

func send(f *Filter, user, content string, cfg moderation.GuildConfig) moderation.FilterResult {
	return f.Check(context.Background(), moderation.Message{GuildID: "g1", AuthorID: user, Content: content}, cfg)
}

var distinct = []string{
	"good morning everyone",
	"what a lovely day",
	"anyone up for a match",
	"i just fixed my bike",
	"pizza tonight?",
	"the quick brown fox",
}

func TestFloodTriggersOnSixth(t *testing.T) {
	filter, clock := newFilter()
	cfg := moderation.DefaultGuildConfig("g1")

	for i := 0; i < 5; i++ {
		if result := send(filter, "u1", distinct[i], cfg); result.Triggered {
			t.Fatalf("message %d must pass, got %+v", i+1, result)
		}
		clock.now = clock.now.Add(500 * time.Millisecond)
	}
	result := send(filter, "u1", distinct[5], cfg)
	if !result.Triggered || result.Reason != "Flood detected (6 messages in 5s)" {
		t.Fatalf("expected flood on 6th message, got %+v", result)
	}
}

func TestFloodWindowExpires(t *testing.T) {
	filter, clock := newFilter()
	cfg := moderation.DefaultGuildConfig("g1")

	for i := 0; i < 5; i++ {
		send(filter, "u1", distinct[i], cfg)
	}
	clock.now = clock.now.Add(5 * time.Second)
	if result := send(filter, "u1", distinct[5], cfg); result.Triggered {
		t.Fatalf("messages older than the window must not count")
	}
}

func TestDuplicatesTriggerOnFourth(t *testing.T) {
	filter, clock := newFilter()
	cfg := moderation.DefaultGuildConfig("g1")

	for i := 0; i < 3; i++ {
		if result := send(filter, "u1", "Buy my stuff", cfg); result.Triggered {
			t.Fatalf("duplicate %d must pass, got %+v", i+1, result)
		}
		clock.now = clock.now.Add(time.Second)
	}
	result := send(filter, "u1", "BUY MY STUFF", cfg)
	if !result.Triggered || result.Reason != "Repeated identical messages (4x)" {
		t.Fatalf("expected duplicate trigger, got %+v", result)
	}
	if result.MatchedContent != "BUY MY STUFF" {
		t.Fatalf("unexpected matched content %q", result.MatchedContent)
	}
}

func TestNearDuplicates(t *testing.T) {
	filter, clock := newFilter()
	cfg := moderation.DefaultGuildConfig("g1")

	messages := []string{"join my server now!!", "join my server now!", "join my server now.", "join my server now?"}
	var result moderation.FilterResult
	for _, content := range messages {
		result = send(filter, "u1", content, cfg)
		clock.now = clock.now.Add(time.Second)
	}
	if !result.Triggered || result.Reason != "Repeated similar messages" {
		t.Fatalf("expected near-duplicate trigger, got %+v", result)
	}
}

func TestUsersAreIsolated(t *testing.T) {
	filter, _ := newFilter()
	cfg := moderation.DefaultGuildConfig("g1")

	for i := 0; i < 5; i++ {
		send(filter, "u1", distinct[i], cfg)
	}
	if result := send(filter, "u2", distinct[5], cfg); result.Triggered {
		t.Fatalf("history leaked between users")
	}

	filter.ResetUser("g1", "u1")
	if result := send(filter, "u1", distinct[5], cfg); result.Triggered {
		t.Fatalf("reset user must clear history")
	}
}

func TestSweepDropsOldHistory(t *testing.T) {
	filter, clock := newFilter()
	cfg := moderation.DefaultGuildConfig("g1")

	send(filter, "u1", "hello", cfg)
	clock.now = clock.now.Add(20 * time.Second)
	send(filter, "u2", "hello", cfg)

	clock.now = clock.now.Add(15 * time.Second)
	if left := filter.Sweep(); left != 1 {
		t.Fatalf("expected one history left, got %d", left)
	}
	clock.now = clock.now.Add(30 * time.Second)
	if left := filter.Sweep(); left != 0 {
		t.Fatalf("expected empty history, got %d", left)
	}
}

func TestStartStopIdempotent(t *testing.T) {
	filter := New(Config{SweepInterval: time.Millisecond}, zap.NewNop())
	filter.Start()
	filter.Start()
	filter.Stop()
	filter.Stop()
}

func TestSimilarity(t *testing.T) {
	if got := Similarity("hello", "hello"); got != 1 {
		t.Fatalf("identical strings: expected 1, got %f", got)
	}
	if got := Similarity("", "x"); got != 0 {
		t.Fatalf("empty operand: expected 0, got %f", got)
	}
	if got := Similarity("kitten", "sitting"); math.Abs(got-4.0/7.0) > 1e-9 {
		t.Fatalf("kitten/sitting: expected 4/7, got %f", got)
	}
	pairs := [][2]string{{"abc", "abd"}, {"spam spam", "spam"}, {"héllo", "hello"}}
	for _, pair := range pairs {
		if Similarity(pair[0], pair[1]) != Similarity(pair[1], pair[0]) {
			t.Fatalf("similarity not symmetric for %q/%q", pair[0], pair[1])
		}
	}
}
