package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"sentinel-automod/internal/moderation"
)

const automodColumns = `
	guild_id, enabled, admin_bypass, exempt_roles, exempt_channels, log_channel_id, mod_role_id, badword_count,
	badwords_enabled, badwords_action, badwords_mute_seconds, badwords_detect_leet, badwords_whole_word, badwords_use_defaults, badwords_custom_regex,
	spam_enabled, spam_action, spam_mute_seconds, spam_max_messages, spam_time_window, spam_max_duplicates, spam_similarity,
	invites_enabled, invites_action, invites_mute_seconds, invites_allow_own_server, invites_allowed_servers,
	links_enabled, links_action, links_mute_seconds, links_block_all, links_block_suspicious, links_use_default_whitelist, links_whitelist,
	caps_enabled, caps_action, caps_mute_seconds, caps_max_percentage, caps_min_length,
	mentions_enabled, mentions_action, mentions_mute_seconds, mentions_max_users, mentions_max_roles, mentions_block_everyone,
	antiraid_enabled, antiraid_action, antiraid_mute_seconds, antiraid_join_threshold, antiraid_join_window, antiraid_account_age`

type settingsRow struct {
	enabled     bool
	action      string
	muteSeconds int
}

func (r settingsRow) settings() moderation.FilterSettings {
	return moderation.FilterSettings{
		Enabled:      r.enabled,
		Action:       moderation.Action(r.action),
		MuteDuration: time.Duration(r.muteSeconds) * time.Second,
	}
}

// GetGuildAutomodConfig returns the stored configuration. found is false and
// the defaults are returned when the guild never wrote one.
func (s *Store) GetGuildAutomodConfig(ctx context.Context, guildID string) (moderation.GuildConfig, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+automodColumns+` FROM guild_automod WHERE guild_id = $1`, guildID)

	arrays := newArrayScanner()
	cfg := moderation.DefaultGuildConfig(guildID)
	var badwords, spam, invites, links, caps, mentions, antiraid settingsRow
	var spamWindow, raidWindow int
	err := row.Scan(
		&cfg.GuildID, &cfg.Enabled, &cfg.AdminBypass, arrays.text(&cfg.ExemptRoles), arrays.text(&cfg.ExemptChannels), &cfg.LogChannelID, &cfg.ModRoleID, &cfg.BadwordCount,
		&badwords.enabled, &badwords.action, &badwords.muteSeconds, &cfg.Badwords.DetectLeet, &cfg.Badwords.WholeWord, &cfg.Badwords.UseDefaults, arrays.text(&cfg.Badwords.CustomRegex),
		&spam.enabled, &spam.action, &spam.muteSeconds, &cfg.Spam.MaxMessages, &spamWindow, &cfg.Spam.MaxDuplicates, &cfg.Spam.SimilarityThreshold,
		&invites.enabled, &invites.action, &invites.muteSeconds, &cfg.Invites.AllowOwnServer, arrays.text(&cfg.Invites.AllowedServers),
		&links.enabled, &links.action, &links.muteSeconds, &cfg.Links.BlockAll, &cfg.Links.BlockSuspicious, &cfg.Links.UseDefaultWhitelist, arrays.text(&cfg.Links.Whitelist),
		&caps.enabled, &caps.action, &caps.muteSeconds, &cfg.Caps.MaxPercentage, &cfg.Caps.MinLength,
		&mentions.enabled, &mentions.action, &mentions.muteSeconds, &cfg.Mentions.MaxUserMentions, &cfg.Mentions.MaxRoleMentions, &cfg.Mentions.BlockEveryone,
		&antiraid.enabled, &antiraid.action, &antiraid.muteSeconds, &cfg.AntiRaid.JoinThreshold, &raidWindow, &cfg.AntiRaid.AccountAgeDays,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return moderation.DefaultGuildConfig(guildID), false, nil
		}
		return moderation.GuildConfig{}, false, err
	}

	cfg.Badwords.FilterSettings = badwords.settings()
	cfg.Spam.FilterSettings = spam.settings()
	cfg.Invites.FilterSettings = invites.settings()
	cfg.Links.FilterSettings = links.settings()
	cfg.Caps.FilterSettings = caps.settings()
	cfg.Mentions.FilterSettings = mentions.settings()
	cfg.AntiRaid.FilterSettings = antiraid.settings()
	cfg.Spam.TimeWindow = time.Duration(spamWindow) * time.Millisecond
	cfg.AntiRaid.JoinWindow = time.Duration(raidWindow) * time.Millisecond
	cfg.Normalize()
	return cfg, true, nil
}

// UpdateGuildAutomodConfig creates the row with defaults when missing, then
// applies only the fields set in update.
func (s *Store) UpdateGuildAutomodConfig(ctx context.Context, guildID string, update moderation.ConfigUpdate) (err error) {
	if err := update.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `INSERT INTO guild_automod (guild_id) VALUES ($1) ON CONFLICT (guild_id) DO NOTHING`, guildID); err != nil {
		return err
	}

	query, args := buildConfigUpdate(guildID, update, time.Now())
	if query != "" {
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func buildConfigUpdate(guildID string, update moderation.ConfigUpdate, now time.Time) (string, []any) {
	if update.Empty() {
		return "", nil
	}

	sets := make([]string, 0, 8)
	args := make([]any, 0, 9)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Enabled != nil {
		add("enabled", *update.Enabled)
	}
	if update.AdminBypass != nil {
		add("admin_bypass", *update.AdminBypass)
	}
	if update.LogChannelID != nil {
		add("log_channel_id", *update.LogChannelID)
	}
	if update.ModRoleID != nil {
		add("mod_role_id", *update.ModRoleID)
	}
	if update.ExemptRoles != nil {
		add("exempt_roles", nonNil(*update.ExemptRoles))
	}
	if update.ExemptChannels != nil {
		add("exempt_channels", nonNil(*update.ExemptChannels))
	}
	for _, name := range moderation.FilterNames {
		filter, ok := update.Filters[name]
		if !ok {
			continue
		}
		if filter.Enabled != nil {
			add(name+"_enabled", *filter.Enabled)
		}
		if filter.Action != nil {
			add(name+"_action", string(*filter.Action))
		}
		if filter.MuteDuration != nil {
			add(name+"_mute_seconds", int(filter.MuteDuration.Seconds()))
		}
	}
	for _, key := range moderation.LimitKeys {
		if value, ok := update.Limits[key]; ok {
			add(key, value)
		}
	}

	add("updated_at", now)
	args = append(args, guildID)
	query := `UPDATE guild_automod SET ` + strings.Join(sets, ", ") + fmt.Sprintf(` WHERE guild_id = $%d`, len(args))
	return query, args
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
