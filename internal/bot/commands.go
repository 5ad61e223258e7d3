package bot

import (
	"sentinel-automod/internal/moderation"

	"github.com/bwmarrin/discordgo"
)

var (
	manageGuild   = int64(discordgo.PermissionManageGuild)
	administrator = int64(discordgo.PermissionAdministrator)
	guildOnly     = false
	zero          = float64(0)
)

func filterChoices() []*discordgo.ApplicationCommandOptionChoice {
	return []*discordgo.ApplicationCommandOptionChoice{
		{Name: "Bad words", Value: moderation.FilterBadwords},
		{Name: "Spam", Value: moderation.FilterSpam},
		{Name: "Invites", Value: moderation.FilterInvites},
		{Name: "Links", Value: moderation.FilterLinks},
		{Name: "Caps", Value: moderation.FilterCaps},
		{Name: "Mentions", Value: moderation.FilterMentions},
		{Name: "Anti-raid", Value: moderation.FilterAntiRaid},
	}
}

func actionChoices() []*discordgo.ApplicationCommandOptionChoice {
	return []*discordgo.ApplicationCommandOptionChoice{
		{Name: "Delete", Value: string(moderation.ActionDelete)},
		{Name: "Warn", Value: string(moderation.ActionWarn)},
		{Name: "Mute", Value: string(moderation.ActionMute)},
		{Name: "Kick", Value: string(moderation.ActionKick)},
		{Name: "Ban", Value: string(moderation.ActionBan)},
		{Name: "Lockdown", Value: string(moderation.ActionLockdown)},
		{Name: "Log only", Value: string(moderation.ActionLog)},
	}
}

func limitChoices() []*discordgo.ApplicationCommandOptionChoice {
	labels := map[string]string{
		moderation.LimitSpamMaxMessages:    "Spam: messages per window",
		moderation.LimitSpamTimeWindow:     "Spam: window (ms)",
		moderation.LimitSpamMaxDuplicates:  "Spam: duplicate messages",
		moderation.LimitCapsMaxPercentage:  "Caps: max percentage",
		moderation.LimitCapsMinLength:      "Caps: min length",
		moderation.LimitMentionsMaxUsers:   "Mentions: max users",
		moderation.LimitMentionsMaxRoles:   "Mentions: max roles",
		moderation.LimitAntiRaidThreshold:  "Anti-raid: join threshold",
		moderation.LimitAntiRaidJoinWindow: "Anti-raid: join window (ms)",
		moderation.LimitAntiRaidAccountAge: "Anti-raid: min account age (days)",
	}
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(moderation.LimitKeys))
	for _, key := range moderation.LimitKeys {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: labels[key], Value: key})
	}
	return choices
}

func operationOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "operation",
		Description: "add or remove",
		Required:    true,
		Choices: []*discordgo.ApplicationCommandOptionChoice{
			{Name: "add", Value: "add"},
			{Name: "remove", Value: "remove"},
		},
	}
}

func wordOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "word",
		Description: description,
		Required:    true,
		MaxLength:   100,
	}
}

func commandDefinitions() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:                     "automod",
			Description:              "Configure AutoMod",
			DefaultMemberPermissions: &manageGuild,
			DMPermission:             &guildOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "enable", Description: "Enable AutoMod"},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "disable", Description: "Disable AutoMod"},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "status", Description: "Show AutoMod status"},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "config",
					Description: "Set the action of a filter",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "filter", Description: "Filter to configure", Required: true, Choices: filterChoices()},
						{Type: discordgo.ApplicationCommandOptionString, Name: "action", Description: "Action to take", Required: true, Choices: actionChoices()},
						{Type: discordgo.ApplicationCommandOptionString, Name: "mute_duration", Description: "Mute length, e.g. 10m or 1h30m"},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "limit",
					Description: "Tune a filter threshold",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "key", Description: "Threshold to change", Required: true, Choices: limitChoices()},
						{Type: discordgo.ApplicationCommandOptionInteger, Name: "value", Description: "New value", Required: true, MinValue: &zero},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "modrole",
					Description: "Set the role pinged on raid alerts",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionRole, Name: "role", Description: "Moderator role, leave empty to ping @here"},
					},
				},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "resetstats", Description: "Reset the AutoMod trigger counters"},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "logchannel",
					Description: "Set the AutoMod log channel",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionChannel, Name: "channel", Description: "Log channel", Required: true, ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText}},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "bypass",
					Description: "Exempt administrators from AutoMod",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionBoolean, Name: "enabled", Description: "Skip administrators", Required: true},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
					Name:        "exempt",
					Description: "Manage exempt roles and channels",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionSubCommand,
							Name:        "role",
							Description: "Exempt a role",
							Options: []*discordgo.ApplicationCommandOption{
								operationOption(),
								{Type: discordgo.ApplicationCommandOptionRole, Name: "role", Description: "Role", Required: true},
							},
						},
						{
							Type:        discordgo.ApplicationCommandOptionSubCommand,
							Name:        "channel",
							Description: "Exempt a channel",
							Options: []*discordgo.ApplicationCommandOption{
								operationOption(),
								{Type: discordgo.ApplicationCommandOptionChannel, Name: "channel", Description: "Channel", Required: true},
							},
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
					Name:        "badwords",
					Description: "Manage forbidden words",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "add", Description: "Forbid a word", Options: []*discordgo.ApplicationCommandOption{wordOption("Word to forbid")}},
						{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "remove", Description: "Allow a word again", Options: []*discordgo.ApplicationCommandOption{wordOption("Word to remove")}},
						{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "list", Description: "List forbidden words"},
					},
				},
			},
		},
		{
			Name:                     "antiraid",
			Description:              "Control the anti-raid lockdown",
			DefaultMemberPermissions: &administrator,
			DMPermission:             &guildOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "on", Description: "Start a lockdown and kick new members"},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "off", Description: "End the lockdown"},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "status", Description: "Show anti-raid status"},
			},
		},
		{
			Name:                     "automodstats",
			Description:              "Show AutoMod statistics",
			DefaultMemberPermissions: &manageGuild,
			DMPermission:             &guildOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "period",
					Description: "Time range",
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Last hour", Value: "1h"},
						{Name: "Last 24 hours", Value: "24h"},
						{Name: "Last 7 days", Value: "7d"},
						{Name: "Last 30 days", Value: "30d"},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "view",
					Description: "Report type",
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "General", Value: "general"},
						{Name: "Top users", Value: "users"},
						{Name: "By trigger", Value: "triggers"},
					},
				},
			},
		},
	}
}

// registerCommands syncs the global commands and drops stale ones.
func (b *Bot) registerCommands() error {
	commands := commandDefinitions()

	appID := b.session.State.User.ID
	existing, err := b.session.ApplicationCommands(appID, "")
	if err != nil {
		for _, cmd := range commands {
			if _, err := b.session.ApplicationCommandCreate(appID, "", cmd); err != nil {
				return err
			}
		}
		return nil
	}

	existingByName := make(map[string]*discordgo.ApplicationCommand)
	for _, cmd := range existing {
		existingByName[cmd.Name] = cmd
	}

	desired := make(map[string]struct{})
	for _, cmd := range commands {
		desired[cmd.Name] = struct{}{}
		if current, ok := existingByName[cmd.Name]; ok {
			if _, err := b.session.ApplicationCommandEdit(appID, "", current.ID, cmd); err != nil {
				return err
			}
			continue
		}
		if _, err := b.session.ApplicationCommandCreate(appID, "", cmd); err != nil {
			return err
		}
	}

	for _, cmd := range existing {
		if _, ok := desired[cmd.Name]; ok {
			continue
		}
		_ = b.session.ApplicationCommandDelete(appID, "", cmd.ID)
	}

	for _, guild := range b.session.State.Guilds {
		if guild == nil {
			continue
		}
		guildID := guild.ID
		guildCmds, err := b.session.ApplicationCommands(appID, guildID)
		if err != nil {
			continue
		}
		for _, cmd := range guildCmds {
			if _, ok := desired[cmd.Name]; ok {
				continue
			}
			_ = b.session.ApplicationCommandDelete(appID, guildID, cmd.ID)
		}
	}
	return nil
}
