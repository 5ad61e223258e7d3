package bot

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"sentinel-automod/internal/analytics"
	"sentinel-automod/internal/modules/antiraid"
	"sentinel-automod/internal/modules/audit"
	"sentinel-automod/internal/moderation"
	"sentinel-automod/internal/utils"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

type commandOptions map[string]*discordgo.ApplicationCommandInteractionDataOption

func newCommandOptions(options []*discordgo.ApplicationCommandInteractionDataOption) commandOptions {
	out := make(commandOptions, len(options))
	for _, option := range options {
		out[option.Name] = option
	}
	return out
}

func (o commandOptions) stringValue(name string) string {
	if option, ok := o[name]; ok {
		return option.StringValue()
	}
	return ""
}

func (o commandOptions) boolValue(name string) bool {
	if option, ok := o[name]; ok {
		return option.BoolValue()
	}
	return false
}

func (o commandOptions) intValue(name string) (int64, bool) {
	if option, ok := o[name]; ok {
		return option.IntValue(), true
	}
	return 0, false
}

// snowflake returns the ID of a role, channel or user option.
func (o commandOptions) snowflake(name string) string {
	if option, ok := o[name]; ok {
		if value, ok := option.Value.(string); ok {
			return value
		}
	}
	return ""
}

// splitSubcommand unwraps an optional subcommand group and the subcommand.
func splitSubcommand(options []*discordgo.ApplicationCommandInteractionDataOption) (group, name string, rest []*discordgo.ApplicationCommandInteractionDataOption) {
	if len(options) == 0 {
		return "", "", nil
	}
	first := options[0]
	if first.Type == discordgo.ApplicationCommandOptionSubCommandGroup {
		if len(first.Options) == 0 {
			return first.Name, "", nil
		}
		return first.Name, first.Options[0].Name, first.Options[0].Options
	}
	if first.Type == discordgo.ApplicationCommandOptionSubCommand {
		return "", first.Name, first.Options
	}
	return "", "", options
}

// convertMessage builds the engine's view of a gateway message. perms are the
// author's effective permissions in the channel.
func convertMessage(msg *discordgo.Message, guildName string, perms int64) moderation.Message {
	out := moderation.Message{
		ID:              msg.ID,
		GuildID:         msg.GuildID,
		GuildName:       guildName,
		ChannelID:       msg.ChannelID,
		WebhookID:       msg.WebhookID,
		Content:         msg.Content,
		CreatedAt:       msg.Timestamp,
		MentionEveryone: msg.MentionEveryone,
		MentionedRoles:  msg.MentionRoles,
	}
	if msg.Author != nil {
		out.AuthorID = msg.Author.ID
		out.AuthorBot = msg.Author.Bot
	}
	if msg.Member != nil {
		out.AuthorRoles = msg.Member.Roles
	}
	for _, user := range msg.Mentions {
		if user != nil {
			out.MentionedUsers = append(out.MentionedUsers, user.ID)
		}
	}
	out.AuthorIsAdmin = perms&discordgo.PermissionAdministrator != 0
	out.CanMentionEveryone = out.AuthorIsAdmin || perms&discordgo.PermissionMentionEveryone != 0
	return out
}

func (b *Bot) onMessageCreate(session *discordgo.Session, event *discordgo.MessageCreate) {
	msg := event.Message
	if msg == nil || msg.Author == nil || msg.Author.Bot || msg.GuildID == "" {
		return
	}

	guildName := ""
	if guild, err := session.State.Guild(msg.GuildID); err == nil && guild != nil {
		guildName = guild.Name
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	b.automod.ProcessMessage(ctx, convertMessage(msg, guildName, b.permissions(msg)))
}

func (b *Bot) onGuildMemberAdd(session *discordgo.Session, event *discordgo.GuildMemberAdd) {
	if event.Member == nil || event.User == nil || event.User.Bot {
		return
	}
	created, err := discordgo.SnowflakeTimestamp(event.User.ID)
	if err != nil {
		created = time.Time{}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	decision := b.antiraid.HandleJoin(ctx, antiraid.Join{
		GuildID:          event.GuildID,
		UserID:           event.User.ID,
		AccountCreatedAt: created,
	})
	if decision.Raid || decision.Locked {
		b.logger.Info("antiraid decision",
			zap.String("guild_id", event.GuildID),
			zap.String("user_id", event.User.ID),
			zap.String("action", string(decision.Action)),
			zap.Bool("lockdown_started", decision.LockdownStarted),
			zap.Int("kicked", len(decision.Kicked)),
		)
	}
}

func (b *Bot) onGuildMemberRemove(session *discordgo.Session, event *discordgo.GuildMemberRemove) {
	if event.Member == nil || event.User == nil {
		return
	}
	b.automod.ResetUser(event.GuildID, event.User.ID)
}

func (b *Bot) onInteractionCreate(session *discordgo.Session, interaction *discordgo.InteractionCreate) {
	if interaction.Type != discordgo.InteractionApplicationCommand {
		return
	}
	if interaction.GuildID == "" {
		b.respondEmbed(session, interaction, b.errorEmbed("This command only works in a server."), true)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	data := interaction.ApplicationCommandData()
	switch data.Name {
	case "automod":
		b.handleAutomodCommand(ctx, session, interaction, data.Options)
	case "antiraid":
		b.handleAntiRaidCommand(ctx, session, interaction, data.Options)
	case "automodstats":
		b.handleStatsCommand(ctx, session, interaction, newCommandOptions(data.Options))
	}
}

func (b *Bot) handleAutomodCommand(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	guildID := interaction.GuildID
	group, name, rest := splitSubcommand(options)
	opts := newCommandOptions(rest)

	switch group {
	case "badwords":
		b.handleBadwords(ctx, session, interaction, name, opts)
		return
	case "exempt":
		b.handleExempt(ctx, session, interaction, name, opts)
		return
	}

	switch name {
	case "enable":
		if err := b.automod.UpdateConfig(ctx, guildID, moderation.EnableAutoMod()); err != nil {
			b.respondError(session, interaction, "Could not enable AutoMod", err)
			return
		}
		b.respondEmbed(session, interaction, b.successEmbed("AutoMod enabled", "AutoMod is now active on this server."), false)
	case "disable":
		if err := b.automod.UpdateConfig(ctx, guildID, moderation.SetAllFilters(false)); err != nil {
			b.respondError(session, interaction, "Could not disable AutoMod", err)
			return
		}
		b.respondEmbed(session, interaction, b.successEmbed("AutoMod disabled", "AutoMod is now inactive."), false)
	case "status":
		b.handleStatus(ctx, session, interaction)
	case "config":
		b.handleConfig(ctx, session, interaction, opts)
	case "limit":
		b.handleLimit(ctx, session, interaction, opts)
	case "modrole":
		roleID := opts.snowflake("role")
		if err := b.automod.UpdateConfig(ctx, guildID, moderation.ConfigUpdate{ModRoleID: &roleID}); err != nil {
			b.respondError(session, interaction, "Could not set the moderator role", err)
			return
		}
		description := "Raid alerts ping @here."
		if roleID != "" {
			description = fmt.Sprintf("Raid alerts ping <@&%s>.", roleID)
		}
		b.respondEmbed(session, interaction, b.successEmbed("Moderator role updated", description), true)
	case "resetstats":
		if err := b.automod.ResetStats(ctx, guildID); err != nil {
			b.respondError(session, interaction, "Could not reset the statistics", err)
			return
		}
		b.respondEmbed(session, interaction, b.successEmbed("Statistics reset", "AutoMod trigger counters were cleared."), true)
	case "logchannel":
		channelID := opts.snowflake("channel")
		if err := b.automod.UpdateConfig(ctx, guildID, moderation.ConfigUpdate{LogChannelID: &channelID}); err != nil {
			b.respondError(session, interaction, "Could not set the log channel", err)
			return
		}
		b.respondEmbed(session, interaction, b.successEmbed("Log channel updated", fmt.Sprintf("AutoMod events go to <#%s>.", channelID)), true)
	case "bypass":
		enabled := opts.boolValue("enabled")
		if err := b.automod.UpdateConfig(ctx, guildID, moderation.ConfigUpdate{AdminBypass: &enabled}); err != nil {
			b.respondError(session, interaction, "Could not update the bypass", err)
			return
		}
		b.respondEmbed(session, interaction, b.successEmbed("Admin bypass updated", fmt.Sprintf("Administrators exempt: %s", yesNo(enabled))), true)
	default:
		b.respondEmbed(session, interaction, b.errorEmbed("Unknown subcommand."), true)
	}
}

func (b *Bot) handleStatus(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate) {
	cfg, _, err := b.automod.Configs().Get(ctx, interaction.GuildID)
	if err != nil {
		b.respondError(session, interaction, "Could not load the configuration", err)
		return
	}
	count, err := b.automod.Store().CountBadwords(ctx, interaction.GuildID)
	if err != nil {
		b.logger.Warn("count badwords failed", zap.String("guild_id", interaction.GuildID), zap.Error(err))
		count = cfg.BadwordCount
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "Enabled", Value: yesNo(cfg.Enabled), Inline: true},
		{Name: "Active filters", Value: fmt.Sprintf("%d", cfg.EnabledCount()), Inline: true},
		{Name: "Forbidden words", Value: fmt.Sprintf("%d", count), Inline: true},
	}
	for _, name := range moderation.FilterNames {
		settings, _ := cfg.Settings(name)
		value := "off"
		if settings.Enabled {
			value = string(settings.Action)
			if settings.Action == moderation.ActionMute {
				value += " " + utils.FormatDurationShort(muteOrDefault(settings.MuteDuration))
			}
		}
		fields = append(fields, &discordgo.MessageEmbedField{Name: name, Value: value, Inline: true})
	}
	b.respondEmbed(session, interaction, b.commandEmbed("AutoMod status", "", b.levelColor(audit.LevelInfo), fields), true)
}

func (b *Bot) handleConfig(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, opts commandOptions) {
	filter := opts.stringValue("filter")
	action, err := moderation.ParseAction(opts.stringValue("action"))
	if err == nil {
		err = moderation.ValidateAction(filter, action)
	}
	if err != nil {
		b.respondError(session, interaction, "Invalid configuration", err)
		return
	}

	enabled := true
	filterUpdate := moderation.FilterUpdate{Enabled: &enabled, Action: &action}
	if raw := opts.stringValue("mute_duration"); raw != "" {
		duration, err := utils.ParseDuration(raw)
		if err != nil {
			b.respondError(session, interaction, "Invalid duration", err)
			return
		}
		filterUpdate.MuteDuration = &duration
	}
	update := moderation.ConfigUpdate{
		Enabled: &enabled,
		Filters: map[string]moderation.FilterUpdate{filter: filterUpdate},
	}
	if err := b.automod.UpdateConfig(ctx, interaction.GuildID, update); err != nil {
		b.respondError(session, interaction, "Could not update the configuration", err)
		return
	}

	description := fmt.Sprintf("**%s**\nAction: %s", filter, action)
	if action == moderation.ActionMute {
		mute := moderation.DefaultMuteDuration
		if filterUpdate.MuteDuration != nil {
			mute = *filterUpdate.MuteDuration
		}
		description += "\nMute duration: " + utils.FormatDuration(mute)
	}
	b.respondEmbed(session, interaction, b.successEmbed("Configuration updated", description), true)
}

func (b *Bot) handleLimit(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, opts commandOptions) {
	key := opts.stringValue("key")
	update, err := limitUpdate(key, opts)
	if err == nil {
		err = b.automod.UpdateConfig(ctx, interaction.GuildID, update)
	}
	if err != nil {
		b.respondError(session, interaction, "Could not update the threshold", err)
		return
	}
	b.respondEmbed(session, interaction, b.successEmbed("Threshold updated", fmt.Sprintf("**%s** is now %d.", key, update.Limits[key])), true)
}

// limitUpdate builds a single-threshold update. Range checks are left to
// ConfigUpdate.Validate.
func limitUpdate(key string, opts commandOptions) (moderation.ConfigUpdate, error) {
	value, ok := opts.intValue("value")
	if !ok {
		return moderation.ConfigUpdate{}, fmt.Errorf("%w: missing value", moderation.ErrInvalidLimit)
	}
	if value > math.MaxInt32 {
		return moderation.ConfigUpdate{}, fmt.Errorf("%w: %s is too large", moderation.ErrInvalidLimit, key)
	}
	return moderation.ConfigUpdate{Limits: map[string]int{key: int(value)}}, nil
}

func (b *Bot) handleExempt(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, kind string, opts commandOptions) {
	cfg, _, err := b.automod.Configs().Get(ctx, interaction.GuildID)
	if err != nil {
		b.respondError(session, interaction, "Could not load the configuration", err)
		return
	}
	add := opts.stringValue("operation") == "add"

	var update moderation.ConfigUpdate
	var label string
	switch kind {
	case "role":
		roleID := opts.snowflake("role")
		roles := toggle(cfg.ExemptRoles, roleID, add)
		update.ExemptRoles = &roles
		label = fmt.Sprintf("<@&%s>", roleID)
	case "channel":
		channelID := opts.snowflake("channel")
		channels := toggle(cfg.ExemptChannels, channelID, add)
		update.ExemptChannels = &channels
		label = fmt.Sprintf("<#%s>", channelID)
	default:
		b.respondEmbed(session, interaction, b.errorEmbed("Unknown subcommand."), true)
		return
	}

	if err := b.automod.UpdateConfig(ctx, interaction.GuildID, update); err != nil {
		b.respondError(session, interaction, "Could not update exemptions", err)
		return
	}
	verb := "no longer exempt"
	if add {
		verb = "exempt from AutoMod"
	}
	b.respondEmbed(session, interaction, b.successEmbed("Exemptions updated", label+" is "+verb+"."), true)
}

func (b *Bot) handleBadwords(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, name string, opts commandOptions) {
	guildID := interaction.GuildID
	switch name {
	case "list":
		words, err := b.automod.Store().GetBadwords(ctx, guildID)
		if err != nil {
			b.respondError(session, interaction, "Could not load the word list", err)
			return
		}
		if len(words) == 0 {
			b.respondEmbed(session, interaction, b.infoEmbed("Forbidden words", "No words configured."), true)
			return
		}
		masked := make([]string, 0, len(words))
		for _, word := range words {
			masked = append(masked, maskWord(word))
		}
		description := fmt.Sprintf("%d word(s) configured\n```%s```", len(words), strings.Join(masked, ", "))
		b.respondEmbed(session, interaction, b.infoEmbed("Forbidden words", description), true)
	case "add":
		word := strings.ToLower(strings.TrimSpace(opts.stringValue("word")))
		if word == "" {
			b.respondEmbed(session, interaction, b.errorEmbed("The word is invalid."), true)
			return
		}
		result, err := b.automod.AddBadword(ctx, guildID, word, interaction.Member.User.ID)
		if err != nil {
			b.respondError(session, interaction, "Could not add the word", err)
			return
		}
		if result.AlreadyExists {
			b.respondEmbed(session, interaction, b.warningEmbed("Already listed", "This word is already in the list."), true)
			return
		}
		count, _ := b.automod.Store().CountBadwords(ctx, guildID)
		b.respondEmbed(session, interaction, b.successEmbed("Word added", fmt.Sprintf("The word was added to the list (%d total).", count)), true)
	case "remove":
		word := strings.ToLower(strings.TrimSpace(opts.stringValue("word")))
		removed, err := b.automod.RemoveBadword(ctx, guildID, word)
		if err != nil {
			b.respondError(session, interaction, "Could not remove the word", err)
			return
		}
		if !removed {
			b.respondEmbed(session, interaction, b.warningEmbed("Not found", "This word is not in the list."), true)
			return
		}
		if count, err := b.automod.Store().CountBadwords(ctx, guildID); err == nil && count == 0 {
			disabled := false
			update := moderation.ConfigUpdate{Filters: map[string]moderation.FilterUpdate{moderation.FilterBadwords: {Enabled: &disabled}}}
			if err := b.automod.UpdateConfig(ctx, guildID, update); err != nil {
				b.logger.Warn("disable badwords filter failed", zap.String("guild_id", guildID), zap.Error(err))
			}
		}
		b.respondEmbed(session, interaction, b.successEmbed("Word removed", "The word was removed from the list."), true)
	default:
		b.respondEmbed(session, interaction, b.errorEmbed("Unknown subcommand."), true)
	}
}

func (b *Bot) handleAntiRaidCommand(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	guildID := interaction.GuildID
	userID := interaction.Member.User.ID
	_, name, _ := splitSubcommand(options)

	switch name {
	case "on":
		cfg, _, err := b.automod.Configs().Get(ctx, guildID)
		if err != nil {
			b.respondError(session, interaction, "Could not load the configuration", err)
			return
		}
		if !cfg.AntiRaid.Enabled || cfg.AntiRaid.Action != moderation.ActionLockdown {
			// Joins are only kicked while the detector runs in lockdown mode.
			if err := b.automod.UpdateConfig(ctx, guildID, lockdownMode()); err != nil {
				b.respondError(session, interaction, "Could not enable anti-raid", err)
				return
			}
		}
		if _, activated := b.lockdown.Activate(ctx, guildID, userID, true, cfg.AntiRaid.JoinThreshold); !activated {
			b.respondEmbed(session, interaction, b.warningEmbed("Already active", "A lockdown is already active."), true)
			return
		}
		b.audit.System(ctx, audit.Notice{
			GuildID:     guildID,
			Title:       "Lockdown enabled manually",
			Description: fmt.Sprintf("Enabled by <@%s>\nNew members will be kicked automatically.", userID),
			Level:       audit.LevelWarn,
		})
		b.respondEmbed(session, interaction, b.successEmbed("Lockdown enabled", "New members will be kicked automatically.\n\nRemember to run `/antiraid off` afterwards."), false)
	case "off":
		state, ok := b.lockdown.Deactivate(ctx, guildID)
		if !ok {
			b.respondEmbed(session, interaction, b.warningEmbed("Not active", "No lockdown is active."), true)
			return
		}
		elapsed := utils.FormatDurationShort(state.Elapsed(time.Now()))
		b.audit.System(ctx, audit.Notice{
			GuildID:     guildID,
			Title:       "Lockdown disabled",
			Description: fmt.Sprintf("Disabled by <@%s>\nDuration: %s", userID, elapsed),
			Level:       audit.LevelSuccess,
		})
		b.respondEmbed(session, interaction, b.successEmbed("Lockdown disabled", fmt.Sprintf("New members can join normally again. The lockdown lasted %s.", elapsed)), false)
	case "status":
		b.handleAntiRaidStatus(ctx, session, interaction)
	default:
		b.respondEmbed(session, interaction, b.errorEmbed("Unknown subcommand."), true)
	}
}

func (b *Bot) handleAntiRaidStatus(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate) {
	guildID := interaction.GuildID
	cfg, _, err := b.automod.Configs().Get(ctx, guildID)
	if err != nil {
		b.respondError(session, interaction, "Could not load the configuration", err)
		return
	}

	now := time.Now()
	state, active := b.lockdown.Status(guildID)
	description := "**Normal**"
	level := audit.LevelSuccess
	if active {
		description = "**LOCKDOWN ACTIVE**"
		level = audit.LevelCrit
	}

	var fields []*discordgo.MessageEmbedField
	if active {
		by := "Automatic"
		if state.Manual {
			by = fmt.Sprintf("<@%s>", state.ActivatedBy)
		}
		fields = append(fields,
			&discordgo.MessageEmbedField{Name: "Active since", Value: utils.Relative(state.ActivatedAt, now), Inline: true},
			&discordgo.MessageEmbedField{Name: "Activated by", Value: by, Inline: true},
		)
	}
	settings := cfg.AntiRaid
	fields = append(fields,
		&discordgo.MessageEmbedField{Name: "Detection", Value: fmt.Sprintf("%s, %d joins in %s", enabledLabel(settings.Enabled), settings.JoinThreshold, utils.FormatDurationShort(settings.JoinWindow)), Inline: false},
		&discordgo.MessageEmbedField{Name: "Minimum account age", Value: fmt.Sprintf("%d days", settings.AccountAgeDays), Inline: true},
		&discordgo.MessageEmbedField{Name: "Action", Value: string(settings.Action), Inline: true},
		&discordgo.MessageEmbedField{
			Name:  "Recent joins",
			Value: fmt.Sprintf("Last 10 sec: **%d**\nLast 60 sec: **%d**", b.antiraid.RecentJoins(guildID, now, 10*time.Second), b.antiraid.RecentJoins(guildID, now, 60*time.Second)),
		},
	)
	b.respondEmbed(session, interaction, b.commandEmbed("Anti-raid status", description, b.levelColor(level), fields), false)
}

func (b *Bot) handleStatsCommand(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, opts commandOptions) {
	report, err := b.analytics.Report(ctx, interaction.GuildID, opts.stringValue("period"), opts.stringValue("view"))
	if err != nil {
		b.respondError(session, interaction, "Could not build the report", err)
		return
	}

	fields := reportFields(report)
	if report.View == analytics.ViewGeneral {
		if live, err := b.automod.GuildStats(ctx, interaction.GuildID); err == nil {
			fields = append(fields, &discordgo.MessageEmbedField{Name: "Since restart", Value: fmt.Sprintf("%d triggers", live.Total), Inline: true})
		}
	}
	title := fmt.Sprintf("AutoMod statistics (%s)", report.Period)
	description := fmt.Sprintf("%d recorded actions", report.Total)
	b.respondEmbed(session, interaction, b.commandEmbed(title, description, b.levelColor(audit.LevelInfo), fields), true)
}

func reportFields(report analytics.Report) []*discordgo.MessageEmbedField {
	var fields []*discordgo.MessageEmbedField
	add := func(name string, counts []analytics.Count, format func(string) string) {
		if len(counts) == 0 {
			fields = append(fields, &discordgo.MessageEmbedField{Name: name, Value: "None"})
			return
		}
		lines := make([]string, 0, len(counts))
		for i, count := range counts {
			lines = append(lines, fmt.Sprintf("%d. %s: **%d**", i+1, format(count.Key), count.Count))
		}
		fields = append(fields, &discordgo.MessageEmbedField{Name: name, Value: strings.Join(lines, "\n")})
	}
	plain := func(key string) string { return key }

	switch report.View {
	case analytics.ViewUsers:
		add("Top users", report.TopUsers, func(key string) string { return fmt.Sprintf("<@%s>", key) })
	case analytics.ViewTriggers:
		add("Triggers", report.ByTrigger, plain)
	default:
		add("By trigger", report.ByTrigger, plain)
		add("By action", report.ByAction, plain)
	}
	return fields
}

// lockdownMode turns the anti-raid detector on with the lockdown action.
func lockdownMode() moderation.ConfigUpdate {
	enabled := true
	action := moderation.ActionLockdown
	return moderation.ConfigUpdate{Filters: map[string]moderation.FilterUpdate{
		moderation.FilterAntiRaid: {Enabled: &enabled, Action: &action},
	}}
}

// maskWord keeps the first and last character of a word.
func maskWord(word string) string {
	runes := []rune(word)
	if len(runes) <= 2 {
		return "**"
	}
	return string(runes[0]) + strings.Repeat("*", len(runes)-2) + string(runes[len(runes)-1])
}

func toggle(values []string, value string, add bool) []string {
	out := make([]string, 0, len(values)+1)
	for _, existing := range values {
		if existing != value {
			out = append(out, existing)
		}
	}
	if add {
		out = append(out, value)
	}
	slices.Sort(out)
	return out
}

func muteOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return moderation.DefaultMuteDuration
	}
	return d
}

func yesNo(value bool) string {
	if value {
		return "Yes"
	}
	return "No"
}

func enabledLabel(value bool) string {
	if value {
		return "enabled"
	}
	return "disabled"
}

func (b *Bot) respondError(session *discordgo.Session, interaction *discordgo.InteractionCreate, message string, err error) {
	switch {
	case errors.Is(err, moderation.ErrInvalidAction), errors.Is(err, moderation.ErrUnknownFilter),
		errors.Is(err, moderation.ErrInvalidDuration), errors.Is(err, moderation.ErrInvalidLimit):
		b.respondEmbed(session, interaction, b.errorEmbed(message+": "+err.Error()), true)
	default:
		b.logger.Error(strings.ToLower(message), zap.String("guild_id", interaction.GuildID), zap.Error(err))
		b.respondEmbed(session, interaction, b.errorEmbed(message+"."), true)
	}
}

func (b *Bot) successEmbed(title, description string) *discordgo.MessageEmbed {
	return b.commandEmbed(title, description, b.levelColor(audit.LevelSuccess), nil)
}

func (b *Bot) infoEmbed(title, description string) *discordgo.MessageEmbed {
	return b.commandEmbed(title, description, b.levelColor(audit.LevelInfo), nil)
}

func (b *Bot) warningEmbed(title, description string) *discordgo.MessageEmbed {
	return b.commandEmbed(title, description, b.levelColor(audit.LevelWarn), nil)
}

func (b *Bot) errorEmbed(description string) *discordgo.MessageEmbed {
	return b.commandEmbed("Error", description, b.levelColor(audit.LevelCrit), nil)
}
