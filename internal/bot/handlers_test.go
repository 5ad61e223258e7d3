package bot

import (
	"errors"
	"strings"
	"testing"
	"time"

	"sentinel-automod/internal/analytics"
	"sentinel-automod/internal/moderation"

	"github.com/bwmarrin/discordgo"
)

func TestConvertMessage(t *testing.T) {
	msg := &discordgo.Message{
		ID:              "m1",
		GuildID:         "g1",
		ChannelID:       "c1",
		Content:         "hello <@u2>",
		Author:          &discordgo.User{ID: "u1"},
		Member:          &discordgo.Member{Roles: []string{"r1"}},
		Mentions:        []*discordgo.User{{ID: "u2"}, {ID: "u3"}},
		MentionRoles:    []string{"r9"},
		MentionEveryone: true,
	}

	out := convertMessage(msg, "Guild", discordgo.PermissionMentionEveryone)
	if out.AuthorID != "u1" || out.GuildName != "Guild" || len(out.AuthorRoles) != 1 {
		t.Fatalf("unexpected author fields %+v", out)
	}
	if len(out.MentionedUsers) != 2 || out.MentionedRoles[0] != "r9" || !out.MentionEveryone {
		t.Fatalf("unexpected mentions %+v", out)
	}
	if out.AuthorIsAdmin || !out.CanMentionEveryone {
		t.Fatalf("unexpected permissions admin=%t everyone=%t", out.AuthorIsAdmin, out.CanMentionEveryone)
	}

	admin := convertMessage(msg, "", discordgo.PermissionAdministrator)
	if !admin.AuthorIsAdmin || !admin.CanMentionEveryone {
		t.Fatalf("administrators may mention everyone")
	}
}

func TestMaskWord(t *testing.T) {
	cases := map[string]string{
		"spam":   "s**m",
		"ab":     "**",
		"a":      "**",
		"enculé": "e****é",
	}
	for word, want := range cases {
		if got := maskWord(word); got != want {
			t.Fatalf("mask %q: expected %q, got %q", word, want, got)
		}
	}
}

func TestSplitSubcommand(t *testing.T) {
	options := []*discordgo.ApplicationCommandInteractionDataOption{{
		Name: "badwords",
		Type: discordgo.ApplicationCommandOptionSubCommandGroup,
		Options: []*discordgo.ApplicationCommandInteractionDataOption{{
			Name: "add",
			Type: discordgo.ApplicationCommandOptionSubCommand,
			Options: []*discordgo.ApplicationCommandInteractionDataOption{
				{Name: "word", Type: discordgo.ApplicationCommandOptionString, Value: "Spam"},
			},
		}},
	}}
	group, name, rest := splitSubcommand(options)
	if group != "badwords" || name != "add" {
		t.Fatalf("unexpected split %q %q", group, name)
	}
	if got := newCommandOptions(rest).stringValue("word"); got != "Spam" {
		t.Fatalf("unexpected word %q", got)
	}

	_, name, _ = splitSubcommand([]*discordgo.ApplicationCommandInteractionDataOption{{Name: "status", Type: discordgo.ApplicationCommandOptionSubCommand}})
	if name != "status" {
		t.Fatalf("unexpected subcommand %q", name)
	}
}

func TestToggle(t *testing.T) {
	values := toggle([]string{"b", "a"}, "c", true)
	if strings.Join(values, ",") != "a,b,c" {
		t.Fatalf("unexpected add result %v", values)
	}
	values = toggle(values, "b", false)
	if strings.Join(values, ",") != "a,c" {
		t.Fatalf("unexpected remove result %v", values)
	}
	if values = toggle(values, "a", true); len(values) != 2 {
		t.Fatalf("adding twice must not duplicate: %v", values)
	}
}

func TestReportFields(t *testing.T) {
	report := analytics.Report{View: analytics.ViewUsers, TopUsers: []analytics.Count{{Key: "u1", Count: 4}}}
	fields := reportFields(report)
	if len(fields) != 1 || fields[0].Value != "1. <@u1>: **4**" {
		t.Fatalf("unexpected fields %+v", fields[0])
	}

	general := reportFields(analytics.Report{View: analytics.ViewGeneral})
	if len(general) != 2 || general[0].Value != "None" {
		t.Fatalf("unexpected general fields %+v", general)
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("é", 250)
	if got := truncate(long, contentPreview); len([]rune(got)) != contentPreview+3 {
		t.Fatalf("unexpected truncated length %d", len([]rune(got)))
	}
	if got := truncate("short", contentPreview); got != "short" {
		t.Fatalf("short content must be kept")
	}
}

func intOption(name string, value float64) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionInteger, Value: value}
}

func TestLimitUpdate(t *testing.T) {
	opts := newCommandOptions([]*discordgo.ApplicationCommandInteractionDataOption{intOption("value", 15000)})
	update, err := limitUpdate(moderation.LimitAntiRaidJoinWindow, opts)
	if err != nil {
		t.Fatalf("limit update: %v", err)
	}
	if err := update.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	cfg := moderation.DefaultGuildConfig("g1")
	update.Apply(&cfg)
	if cfg.AntiRaid.JoinWindow != 15*time.Second {
		t.Fatalf("expected 15s join window, got %s", cfg.AntiRaid.JoinWindow)
	}

	if _, err := limitUpdate(moderation.LimitCapsMinLength, newCommandOptions(nil)); !errors.Is(err, moderation.ErrInvalidLimit) {
		t.Fatalf("expected missing value to be rejected, got %v", err)
	}
	huge := newCommandOptions([]*discordgo.ApplicationCommandInteractionDataOption{intOption("value", 1e12)})
	if _, err := limitUpdate(moderation.LimitCapsMinLength, huge); !errors.Is(err, moderation.ErrInvalidLimit) {
		t.Fatalf("expected oversized value to be rejected, got %v", err)
	}
}

func TestLimitChoicesCoverEveryKey(t *testing.T) {
	choices := limitChoices()
	if len(choices) != len(moderation.LimitKeys) {
		t.Fatalf("expected %d choices, got %d", len(moderation.LimitKeys), len(choices))
	}
	for i, choice := range choices {
		if choice.Value != moderation.LimitKeys[i] || choice.Name == "" {
			t.Fatalf("unexpected choice %+v", choice)
		}
	}
}

func TestLockdownModeArmsDetector(t *testing.T) {
	cfg := moderation.DefaultGuildConfig("g1")
	cfg.AntiRaid.Action = moderation.ActionKick
	update := lockdownMode()
	if err := update.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	update.Apply(&cfg)
	if !cfg.AntiRaid.Enabled || cfg.AntiRaid.Action != moderation.ActionLockdown {
		t.Fatalf("expected lockdown mode, got %+v", cfg.AntiRaid.FilterSettings)
	}
}
