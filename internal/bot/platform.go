package bot

import (
	"context"
	"errors"
	"time"

	"sentinel-automod/internal/automod"
	"sentinel-automod/internal/moderation"

	"github.com/bwmarrin/discordgo"
)

var errDirectDisabled = errors.New("direct messages disabled")

// DeleteMessage implements automod.Platform.
func (b *Bot) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	return b.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx))
}

func (b *Bot) SendDirect(ctx context.Context, userID string, notice automod.Notice) error {
	if !b.cfg.Notifications.DMEnabled {
		return errDirectDisabled
	}
	channel, err := b.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return err
	}
	fields := make([]*discordgo.MessageEmbedField, 0, len(notice.Fields))
	for _, field := range notice.Fields {
		fields = append(fields, &discordgo.MessageEmbedField{Name: field.Name, Value: field.Value, Inline: true})
	}
	embed := b.commandEmbed(notice.Title, notice.Description, b.levelColor(notice.Level), fields)
	_, err = b.session.ChannelMessageSendEmbed(channel.ID, embed, discordgo.WithContext(ctx))
	return err
}

func (b *Bot) Timeout(ctx context.Context, guildID, userID string, until time.Time, reason string) error {
	return b.session.GuildMemberTimeout(guildID, userID, &until, discordgo.WithContext(ctx), discordgo.WithAuditLogReason(reason))
}

// Kick implements automod.Platform and antiraid.Kicker.
func (b *Bot) Kick(ctx context.Context, guildID, userID, reason string) error {
	return b.session.GuildMemberDeleteWithReason(guildID, userID, reason, discordgo.WithContext(ctx))
}

func (b *Bot) Ban(ctx context.Context, guildID, userID, reason string) error {
	return b.session.GuildBanCreateWithReason(guildID, userID, reason, 0, discordgo.WithContext(ctx))
}

func (b *Bot) ResolveInvite(ctx context.Context, code string) (moderation.InviteInfo, error) {
	invite, err := b.session.Invite(code, discordgo.WithContext(ctx))
	if err != nil {
		return moderation.InviteInfo{}, err
	}
	info := moderation.InviteInfo{Code: invite.Code}
	if invite.Guild != nil {
		info.GuildID = invite.Guild.ID
		info.GuildName = invite.Guild.Name
	}
	return info, nil
}

// permissions resolves the author's effective permissions in the message's
// channel from the gateway state.
func (b *Bot) permissions(msg *discordgo.Message) int64 {
	if b.session.State == nil {
		return 0
	}
	perms, err := b.session.State.MessagePermissions(msg)
	if err != nil {
		return 0
	}
	return perms
}
