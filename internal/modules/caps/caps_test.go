package caps

import (
	"context"
	"strings"
	"testing"

	"sentinel-automod/internal/moderation"
)

func check(content string, cfg moderation.GuildConfig) moderation.FilterResult {
	return New().Check(context.Background(), moderation.Message{GuildID: "g1", Content: content}, cfg)
}

func TestCapsBelowMinLengthNeverTriggers(t *testing.T) {
	cfg := moderation.DefaultGuildConfig("g1")
	if result := check("HI", cfg); result.Triggered {
		t.Fatalf("expected short message to pass")
	}
	if result := check("ABCDEFGHI !!!", cfg); result.Triggered {
		t.Fatalf("9 letters must not be evaluated")
	}
}

func TestCapsStrictThreshold(t *testing.T) {
	cfg := moderation.DefaultGuildConfig("g1")
	cfg.Caps.MaxPercentage = 70

	atLimit := strings.Repeat("A", 70) + strings.Repeat("a", 30)
	if result := check(atLimit, cfg); result.Triggered {
		t.Fatalf("exactly 70%% must not trigger")
	}
	above := strings.Repeat("A", 71) + strings.Repeat("a", 29)
	result := check(above, cfg)
	if !result.Triggered {
		t.Fatalf("71%% must trigger")
	}
	if result.Reason != "Excessive caps (71%)" {
		t.Fatalf("unexpected reason %q", result.Reason)
	}
	if len(result.MatchedContent) != 53 || !strings.HasSuffix(result.MatchedContent, "...") {
		t.Fatalf("expected truncated preview, got %q", result.MatchedContent)
	}
}

func TestCapsLoudMessage(t *testing.T) {
	cfg := moderation.DefaultGuildConfig("g1")
	result := check("HELLO WORLD THIS IS LOUD", cfg)
	if !result.Triggered || result.Action != moderation.ActionDelete {
		t.Fatalf("expected trigger with delete, got %+v", result)
	}
	if result.MatchedContent != "HELLO WORLD THIS IS LOUD" {
		t.Fatalf("short content must not be truncated, got %q", result.MatchedContent)
	}
}

func TestCapsCountsAccentedLetters(t *testing.T) {
	cfg := moderation.DefaultGuildConfig("g1")
	if result := check("ÉÉÉÉÉÉÉÉÉÉ", cfg); !result.Triggered {
		t.Fatalf("expected accented uppercase to trigger")
	}
	if result := check("éééééééééé", cfg); result.Triggered {
		t.Fatalf("accented lowercase must pass")
	}
}
