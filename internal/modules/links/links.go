package links

import (
	"context"
	"strings"

	"sentinel-automod/internal/moderation"
	"sentinel-automod/internal/utils"
)

var DefaultWhitelist = []string{
	"discord.com",
	"discordapp.com",
	"discord.gg",
	"tenor.com",
	"giphy.com",
	"imgur.com",
	"youtube.com",
	"youtu.be",
	"twitch.tv",
	"twitter.com",
	"x.com",
	"github.com",
	"reddit.com",
}

// Host fragments seen in common Discord and Steam phishing domains.
var suspiciousPatterns = []string{
	"discord-gift",
	"discordnitro",
	"steamcommunity-",
	"free-nitro",
	"dlscord",
	"discorcl",
}

type Filter struct{}

func New() *Filter { return &Filter{} }

func (f *Filter) Name() string { return moderation.FilterLinks }

// Check flags phishing-looking hosts with a warn regardless of the configured
// action, then, when BlockAll is set, any host outside the whitelist.
func (f *Filter) Check(ctx context.Context, msg moderation.Message, cfg moderation.GuildConfig) moderation.FilterResult {
	urls := utils.ExtractURLs(msg.Content)
	if len(urls) == 0 {
		return moderation.Pass
	}

	settings := cfg.Links
	whitelist := settings.Whitelist
	if settings.UseDefaultWhitelist {
		whitelist = append(append([]string{}, DefaultWhitelist...), settings.Whitelist...)
	}

	for _, raw := range urls {
		host, err := utils.URLHost(raw)
		if err != nil || host == "" {
			return unresolved(raw, settings)
		}
		host = utils.TrimWWW(host)

		if settings.BlockSuspicious && isSuspicious(host) {
			return moderation.FilterResult{
				Triggered:      true,
				Action:         moderation.ActionWarn,
				Reason:         "Suspicious link (possible phishing)",
				MatchedContent: raw,
			}
		}
		if settings.BlockAll && !utils.DomainMatch(host, whitelist) {
			return moderation.FilterResult{
				Triggered:      true,
				Action:         settings.Action,
				Reason:         "Link not allowed",
				MatchedContent: raw,
			}
		}
	}
	return moderation.Pass
}

// unresolved blocks a link whose host cannot be parsed. A link that cannot be
// checked is treated as suspicious when phishing detection is on.
func unresolved(raw string, settings moderation.LinksConfig) moderation.FilterResult {
	action := settings.Action
	if settings.BlockSuspicious {
		action = moderation.ActionWarn
	}
	return moderation.FilterResult{
		Triggered:      true,
		Action:         action,
		Reason:         "Unparseable link",
		MatchedContent: raw,
	}
}

func isSuspicious(host string) bool {
	for _, pattern := range suspiciousPatterns {
		if strings.Contains(host, pattern) {
			return true
		}
	}
	return false
}
