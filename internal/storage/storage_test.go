package storage

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"sentinel-automod/internal/moderation"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	store, err := Open(context.Background(), url)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if err := store.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store
}

func testGuildID(t *testing.T) string {
	return "test-" + strings.ReplaceAll(t.Name(), "/", "-") + "-" + time.Now().Format("150405.000000")
}

func TestBuildConfigUpdate(t *testing.T) {
	enabled := true
	action := moderation.ActionWarn
	mute := 90 * time.Second
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	query, args := buildConfigUpdate("g1", moderation.ConfigUpdate{
		Enabled: &enabled,
		Filters: map[string]moderation.FilterUpdate{
			moderation.FilterCaps: {Action: &action, MuteDuration: &mute},
		},
		Limits: map[string]int{moderation.LimitSpamMaxMessages: 8},
	}, now)

	want := "UPDATE guild_automod SET enabled = $1, caps_action = $2, caps_mute_seconds = $3, spam_max_messages = $4, updated_at = $5 WHERE guild_id = $6"
	if query != want {
		t.Fatalf("unexpected query:\n%s", query)
	}
	if len(args) != 6 || args[1] != "warn" || args[2] != 90 || args[3] != 8 || args[5] != "g1" {
		t.Fatalf("unexpected args: %#v", args)
	}
}

func TestBuildConfigUpdateEmpty(t *testing.T) {
	query, args := buildConfigUpdate("g1", moderation.ConfigUpdate{}, time.Now())
	if query != "" || args != nil {
		t.Fatalf("expected no statement, got %q", query)
	}
}

func TestGuildAutomodConfigRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	guildID := testGuildID(t)

	cfg, found, err := store.GetGuildAutomodConfig(ctx, guildID)
	if err != nil {
		t.Fatalf("get config: %v", err)
	}
	if found || cfg.Spam.MaxMessages != 5 {
		t.Fatalf("expected defaults, got found=%v spam=%+v", found, cfg.Spam)
	}

	enabled := true
	roles := []string{"r1", "r2"}
	if err := store.UpdateGuildAutomodConfig(ctx, guildID, moderation.ConfigUpdate{
		Enabled:     &enabled,
		ExemptRoles: &roles,
		Limits:      map[string]int{moderation.LimitAntiRaidJoinWindow: 15000},
	}); err != nil {
		t.Fatalf("update config: %v", err)
	}

	cfg, found, err = store.GetGuildAutomodConfig(ctx, guildID)
	if err != nil {
		t.Fatalf("get config: %v", err)
	}
	if !found || !cfg.Enabled {
		t.Fatalf("expected stored enabled config")
	}
	if len(cfg.ExemptRoles) != 2 || cfg.AntiRaid.JoinWindow != 15*time.Second {
		t.Fatalf("unexpected config: roles=%v window=%s", cfg.ExemptRoles, cfg.AntiRaid.JoinWindow)
	}
}

func TestUpdateRejectsInvalidAction(t *testing.T) {
	store := openTestStore(t)
	action := moderation.ActionLockdown
	err := store.UpdateGuildAutomodConfig(context.Background(), testGuildID(t), moderation.ConfigUpdate{
		Filters: map[string]moderation.FilterUpdate{moderation.FilterCaps: {Action: &action}},
	})
	if err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestBadwordsLifecycle(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	guildID := testGuildID(t)

	result, err := store.AddBadword(ctx, guildID, "  Foo ", "mod")
	if err != nil || !result.Added {
		t.Fatalf("add badword: %+v %v", result, err)
	}
	result, err = store.AddBadword(ctx, guildID, "FOO", "mod")
	if err != nil || !result.AlreadyExists {
		t.Fatalf("expected duplicate, got %+v %v", result, err)
	}

	words, err := store.GetBadwords(ctx, guildID)
	if err != nil || len(words) != 1 || words[0] != "foo" {
		t.Fatalf("unexpected words: %v %v", words, err)
	}
	cfg, _, err := store.GetGuildAutomodConfig(ctx, guildID)
	if err != nil || cfg.BadwordCount != 1 {
		t.Fatalf("expected badword count 1, got %d %v", cfg.BadwordCount, err)
	}

	removed, err := store.RemoveBadword(ctx, guildID, "foo")
	if err != nil || !removed {
		t.Fatalf("remove badword: %v %v", removed, err)
	}
	removed, err = store.RemoveBadword(ctx, guildID, "foo")
	if err != nil || removed {
		t.Fatalf("expected second removal to report false")
	}
	count, err := store.CountBadwords(ctx, guildID)
	if err != nil || count != 0 {
		t.Fatalf("expected empty list, got %d %v", count, err)
	}
}

func TestAutomodLogs(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	guildID := testGuildID(t)

	score := 0.9
	if err := store.AddAutomodLog(ctx, AutomodLog{
		GuildID:         guildID,
		UserID:          "u1",
		ChannelID:       "c1",
		TriggerType:     moderation.TriggerCaps,
		TriggerContent:  "HELLO",
		ActionTaken:     string(moderation.ActionDelete),
		ConfidenceScore: &score,
	}); err != nil {
		t.Fatalf("add log: %v", err)
	}

	for _, action := range []moderation.Action{moderation.ActionWarn, moderation.ActionDelete} {
		if err := store.AddAutomodLog(ctx, AutomodLog{
			GuildID:     guildID,
			UserID:      "u2",
			TriggerType: moderation.TriggerSpam,
			ActionTaken: string(action),
		}); err != nil {
			t.Fatalf("add log: %v", err)
		}
	}

	since := time.Now().Add(-time.Hour)
	total, err := store.CountAutomodLogs(ctx, guildID, since)
	if err != nil || total != 3 {
		t.Fatalf("expected 3 records, got %d %v", total, err)
	}
	actions, err := store.GroupAutomodLogs(ctx, guildID, since, GroupByAction, 0)
	if err != nil {
		t.Fatalf("group by action: %v", err)
	}
	if len(actions) != 2 || actions[0] != (LogCount{Key: "delete", Count: 2}) {
		t.Fatalf("unexpected action counts: %+v", actions)
	}
	users, err := store.GroupAutomodLogs(ctx, guildID, since, GroupByUser, 1)
	if err != nil {
		t.Fatalf("group by user: %v", err)
	}
	if len(users) != 1 || users[0] != (LogCount{Key: "u2", Count: 2}) {
		t.Fatalf("unexpected top user: %+v", users)
	}
	if _, err := store.GroupAutomodLogs(ctx, guildID, since, LogGroup("content; DROP TABLE x"), 0); err == nil {
		t.Fatalf("expected unknown group to be rejected")
	}
}
