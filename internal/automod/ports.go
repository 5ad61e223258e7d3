package automod

import (
	"context"
	"time"

	"sentinel-automod/internal/moderation"
)

// ConfigStore is the persistence the engine and the command layer need.
type ConfigStore interface {
	GetGuildAutomodConfig(ctx context.Context, guildID string) (moderation.GuildConfig, bool, error)
	UpdateGuildAutomodConfig(ctx context.Context, guildID string, update moderation.ConfigUpdate) error
	GetBadwords(ctx context.Context, guildID string) ([]string, error)
	AddBadword(ctx context.Context, guildID, word, addedBy string) (moderation.BadwordAddResult, error)
	RemoveBadword(ctx context.Context, guildID, word string) (bool, error)
	CountBadwords(ctx context.Context, guildID string) (int, error)
}

type NoticeField struct {
	Name  string
	Value string
}

// Notice is a direct message rendered by the platform adapter.
type Notice struct {
	Title       string
	Description string
	Fields      []NoticeField
	Level       string
}

// Platform is the set of chat side effects enforcement relies on.
type Platform interface {
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	SendDirect(ctx context.Context, userID string, notice Notice) error
	Timeout(ctx context.Context, guildID, userID string, until time.Time, reason string) error
	Kick(ctx context.Context, guildID, userID, reason string) error
	Ban(ctx context.Context, guildID, userID, reason string) error
	ResolveInvite(ctx context.Context, code string) (moderation.InviteInfo, error)
}

// StatsStore counts triggers per guild and filter.
type StatsStore interface {
	Increment(ctx context.Context, guildID, filter string) error
	Counts(ctx context.Context, guildID string) (map[string]int64, int64, error)
	Reset(ctx context.Context, guildID string) error
}
