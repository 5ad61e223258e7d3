package invites

import (
	"context"
	"strings"

	"sentinel-automod/internal/moderation"

	"go.uber.org/zap"
)

// Resolver looks up the guild an invite code points to.
type Resolver interface {
	ResolveInvite(ctx context.Context, code string) (moderation.InviteInfo, error)
}

type Filter struct {
	resolver Resolver
	logger   *zap.Logger
}

func New(resolver Resolver, logger *zap.Logger) *Filter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Filter{resolver: resolver, logger: logger}
}

func (f *Filter) Name() string { return moderation.FilterInvites }

// Check resolves every invite in the message. Invites that cannot be resolved
// are treated as foreign.
func (f *Filter) Check(ctx context.Context, msg moderation.Message, cfg moderation.GuildConfig) moderation.FilterResult {
	candidates := Find(msg.Content)
	if len(candidates) == 0 {
		return moderation.Pass
	}

	settings := cfg.Invites
	for _, link := range candidates {
		code := Code(link)
		if f.resolver == nil {
			return blocked(settings.Action, "Discord invite detected (invalid)", link)
		}
		info, err := f.resolver.ResolveInvite(ctx, code)
		if err != nil {
			f.logger.Debug("invite resolution failed", zap.String("guild_id", msg.GuildID), zap.String("code", code), zap.Error(err))
			return blocked(settings.Action, "Discord invite detected (invalid)", link)
		}
		if settings.AllowOwnServer && info.GuildID == msg.GuildID {
			continue
		}
		if contains(settings.AllowedServers, info.GuildID) {
			continue
		}
		name := info.GuildName
		if name == "" {
			name = "unknown server"
		}
		return blocked(settings.Action, "Invite to "+name, link)
	}
	return moderation.Pass
}

func blocked(action moderation.Action, reason, link string) moderation.FilterResult {
	return moderation.FilterResult{
		Triggered:      true,
		Action:         action,
		Reason:         reason,
		MatchedContent: link,
	}
}

func contains(values []string, value string) bool {
	if value == "" {
		return false
	}
	for _, candidate := range values {
		if candidate == value {
			return true
		}
	}
	return false
}

// Code returns the invite code, the last path segment of the link.
func Code(link string) string {
	link = strings.TrimRight(link, "/")
	if idx := strings.LastIndex(link, "/"); idx >= 0 {
		return link[idx+1:]
	}
	return link
}
