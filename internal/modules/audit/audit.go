package audit

import (
	"context"
	"time"

	"sentinel-automod/internal/moderation"
	"sentinel-automod/internal/storage"

	"go.uber.org/zap"
)

const (
	LevelInfo    = "INFO"
	LevelSuccess = "SUCCESS"
	LevelWarn    = "WARN"
	LevelCrit    = "CRIT"
)

// Record is one enforced AutoMod decision.
type Record struct {
	GuildID     string
	UserID      string
	ModeratorID string
	ChannelID   string
	MessageID   string
	Filter      string
	Content     string
	Action      moderation.Action
	Reason      string
	Severity    string
	Confidence  *float64
	CreatedAt   time.Time
}

// TriggerType is the stored taxonomy identifier of the record's filter.
func (r Record) TriggerType() string {
	return moderation.TriggerType(r.Filter)
}

// Notice is a guild-visible system message, such as a raid alert.
type Notice struct {
	GuildID     string
	Title       string
	Description string
	Level       string
	// Mention is prepended to the message, e.g. a moderator role ping.
	Mention string
}

type Store interface {
	AddAutomodLog(ctx context.Context, log storage.AutomodLog) error
}

type Notifier interface {
	NotifyAutomod(ctx context.Context, record Record)
	NotifySystem(ctx context.Context, notice Notice)
}

type Logger struct {
	store    Store
	logger   *zap.Logger
	notifier Notifier
	now      func() time.Time
}

func NewLogger(store Store, logger *zap.Logger) *Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Logger{store: store, logger: logger, now: time.Now}
}

func (l *Logger) SetNotifier(notifier Notifier) {
	l.notifier = notifier
}

// Record persists the decision, forwards it to the notifier and logs it. A
// persistence failure is returned after the notifier ran.
func (l *Logger) Record(ctx context.Context, record Record) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = l.now()
	}

	var err error
	if l.store != nil {
		err = l.store.AddAutomodLog(ctx, storage.AutomodLog{
			GuildID:         record.GuildID,
			UserID:          record.UserID,
			ModeratorID:     record.ModeratorID,
			ChannelID:       record.ChannelID,
			MessageID:       record.MessageID,
			TriggerType:     record.TriggerType(),
			TriggerContent:  record.Content,
			ActionTaken:     string(record.Action),
			Severity:        record.Severity,
			ConfidenceScore: record.Confidence,
			CreatedAt:       record.CreatedAt,
		})
		if err != nil {
			l.logger.Warn("persist automod log failed", zap.String("guild_id", record.GuildID), zap.String("user_id", record.UserID), zap.Error(err))
		}
	}
	if l.notifier != nil {
		l.notifier.NotifyAutomod(ctx, record)
	}
	l.logger.Info("automod",
		zap.String("guild_id", record.GuildID),
		zap.String("user_id", record.UserID),
		zap.String("channel_id", record.ChannelID),
		zap.String("filter", record.Filter),
		zap.String("action", string(record.Action)),
		zap.String("reason", record.Reason),
	)
	return err
}

// System logs a notice and forwards it to the notifier. Nothing is persisted.
func (l *Logger) System(ctx context.Context, notice Notice) {
	if notice.Level == "" {
		notice.Level = LevelInfo
	}
	if l.notifier != nil {
		l.notifier.NotifySystem(ctx, notice)
	}
	l.logger.Info("system notice",
		zap.String("level", notice.Level),
		zap.String("guild_id", notice.GuildID),
		zap.String("title", notice.Title),
	)
}
