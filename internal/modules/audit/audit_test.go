package audit

import (
	"context"
	"errors"
	"testing"

	"sentinel-automod/internal/moderation"
	"sentinel-automod/internal/storage"

	"go.uber.org/zap"
)

type memoryStore struct {
	logs []storage.AutomodLog
	err  error
}

func (m *memoryStore) AddAutomodLog(ctx context.Context, log storage.AutomodLog) error {
	if m.err != nil {
		return m.err
	}
	m.logs = append(m.logs, log)
	return nil
}

type recordingNotifier struct {
	records []Record
	notices []Notice
}

func (r *recordingNotifier) NotifyAutomod(ctx context.Context, record Record) {
	r.records = append(r.records, record)
}

func (r *recordingNotifier) NotifySystem(ctx context.Context, notice Notice) {
	r.notices = append(r.notices, notice)
}

func TestRecordPersistsTaxonomy(t *testing.T) {
	store := &memoryStore{}
	notifier := &recordingNotifier{}
	logger := NewLogger(store, zap.NewNop())
	logger.SetNotifier(notifier)

	err := logger.Record(context.Background(), Record{
		GuildID:   "g1",
		UserID:    "u1",
		ChannelID: "c1",
		Filter:    moderation.FilterMentions,
		Action:    moderation.ActionMute,
		Content:   "@a @b",
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(store.logs) != 1 {
		t.Fatalf("expected one stored log, got %d", len(store.logs))
	}
	stored := store.logs[0]
	if stored.TriggerType != "mass_mentions" || stored.ActionTaken != "mute" || stored.CreatedAt.IsZero() {
		t.Fatalf("unexpected stored log: %+v", stored)
	}
	if len(notifier.records) != 1 {
		t.Fatalf("expected notifier call")
	}
}

func TestRecordStoreFailureStillNotifies(t *testing.T) {
	store := &memoryStore{err: errors.New("db down")}
	notifier := &recordingNotifier{}
	logger := NewLogger(store, zap.NewNop())
	logger.SetNotifier(notifier)

	if err := logger.Record(context.Background(), Record{GuildID: "g1", Filter: moderation.FilterCaps}); err == nil {
		t.Fatalf("expected store error")
	}
	if len(notifier.records) != 1 {
		t.Fatalf("notifier must run even when persistence fails")
	}
}

func TestSystemDefaultsLevel(t *testing.T) {
	notifier := &recordingNotifier{}
	logger := NewLogger(nil, zap.NewNop())
	logger.SetNotifier(notifier)

	logger.System(context.Background(), Notice{GuildID: "g1", Title: "Lockdown ended"})
	if len(notifier.notices) != 1 || notifier.notices[0].Level != LevelInfo {
		t.Fatalf("unexpected notices: %+v", notifier.notices)
	}
}
