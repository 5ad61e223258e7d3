package links

import (
	"context"
	"testing"

	"sentinel-automod/internal/moderation"
)

func check(content string, cfg moderation.GuildConfig) moderation.FilterResult {
	return New().Check(context.Background(), moderation.Message{GuildID: "g1", Content: content}, cfg)
}

func TestSuspiciousAlwaysWarns(t *testing.T) {
	cfg := moderation.DefaultGuildConfig("g1")
	cfg.Links.Action = moderation.ActionBan

	result := check("claim https://discord-gift.example.com/abc now", cfg)
	if !result.Triggered || result.Action != moderation.ActionWarn {
		t.Fatalf("expected warn override, got %+v", result)
	}
	if result.MatchedContent != "https://discord-gift.example.com/abc" {
		t.Fatalf("unexpected matched content %q", result.MatchedContent)
	}

	cfg.Links.BlockSuspicious = false
	if result := check("https://discord-gift.example.com/abc", cfg); result.Triggered {
		t.Fatalf("suspicious check disabled and blockAll off must pass")
	}
}

func TestBlockAllUsesWhitelist(t *testing.T) {
	cfg := moderation.DefaultGuildConfig("g1")
	cfg.Links.BlockAll = true

	for _, allowed := range []string{
		"https://www.youtube.com/watch?v=1",
		"https://gist.github.com/x",
		"http://tenor.com/view/cat",
	} {
		if result := check(allowed, cfg); result.Triggered {
			t.Fatalf("expected %s to be allowed", allowed)
		}
	}

	result := check("see https://example.org/page", cfg)
	if !result.Triggered || result.Action != moderation.ActionDelete || result.Reason != "Link not allowed" {
		t.Fatalf("expected block, got %+v", result)
	}
	if result := check("https://notyoutube.com/x", cfg); !result.Triggered {
		t.Fatalf("suffix without a dot boundary must not match the whitelist")
	}

	cfg.Links.Whitelist = []string{"example.org"}
	if result := check("https://example.org/page", cfg); result.Triggered {
		t.Fatalf("custom whitelist entry must be allowed")
	}

	cfg.Links.UseDefaultWhitelist = false
	if result := check("https://youtube.com/x", cfg); !result.Triggered {
		t.Fatalf("default whitelist disabled must block youtube")
	}
}

func TestLinksPassWithoutBlockAll(t *testing.T) {
	cfg := moderation.DefaultGuildConfig("g1")
	if result := check("https://example.org/page and plain text", cfg); result.Triggered {
		t.Fatalf("plain links pass by default")
	}
	if result := check("no links here", cfg); result.Triggered {
		t.Fatalf("no links must pass")
	}
}

func TestUnparseableLinkFailsClosed(t *testing.T) {
	cfg := moderation.DefaultGuildConfig("g1")
	cfg.Links.Action = moderation.ActionDelete

	result := check("claim https://disc%zzord-gift.com/nitro", cfg)
	if !result.Triggered || result.Action != moderation.ActionWarn {
		t.Fatalf("expected unparseable link to warn, got %+v", result)
	}
	if result.Reason != "Unparseable link" {
		t.Fatalf("unexpected reason %q", result.Reason)
	}

	cfg.Links.BlockSuspicious = false
	result = check("claim https://disc%zzord-gift.com/nitro", cfg)
	if !result.Triggered || result.Action != moderation.ActionDelete {
		t.Fatalf("expected configured action without phishing detection, got %+v", result)
	}
}
