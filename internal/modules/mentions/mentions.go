package mentions

import (
	"context"
	"fmt"
	"strings"

	"sentinel-automod/internal/moderation"
)

type Filter struct{}

func New() *Filter { return &Filter{} }

func (f *Filter) Name() string { return moderation.FilterMentions }

func (f *Filter) Check(ctx context.Context, msg moderation.Message, cfg moderation.GuildConfig) moderation.FilterResult {
	settings := cfg.Mentions
	if settings.BlockEveryone && !msg.CanMentionEveryone && mentionsEveryone(msg) {
		return moderation.FilterResult{
			Triggered: true,
			Action:    settings.Action,
			Reason:    "@everyone/@here without permission",
		}
	}

	if users := countUnique(msg.MentionedUsers); users > settings.MaxUserMentions {
		return moderation.FilterResult{
			Triggered: true,
			Action:    settings.Action,
			Reason:    fmt.Sprintf("Too many mentions (%d users)", users),
		}
	}
	if roles := countUnique(msg.MentionedRoles); roles > settings.MaxRoleMentions {
		return moderation.FilterResult{
			Triggered: true,
			Action:    settings.Action,
			Reason:    fmt.Sprintf("Too many mentions (%d roles)", roles),
		}
	}
	return moderation.Pass
}

func mentionsEveryone(msg moderation.Message) bool {
	return msg.MentionEveryone || strings.Contains(msg.Content, "@everyone") || strings.Contains(msg.Content, "@here")
}

// countUnique counts distinct IDs; the platform reports a user mentioned twice once.
func countUnique(ids []string) int {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return len(seen)
}
