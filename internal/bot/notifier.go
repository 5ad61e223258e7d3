package bot

import (
	"context"
	"fmt"

	"sentinel-automod/internal/modules/audit"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const contentPreview = 200

// NotifyAutomod posts an enforced decision to the guild log channel.
func (b *Bot) NotifyAutomod(ctx context.Context, record audit.Record) {
	channelID := b.logChannel(ctx, record.GuildID)
	if channelID == "" {
		return
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "User", Value: fmt.Sprintf("<@%s>", record.UserID), Inline: true},
		{Name: "Trigger", Value: record.TriggerType(), Inline: true},
		{Name: "Action", Value: string(record.Action), Inline: true},
	}
	if record.ChannelID != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Channel", Value: fmt.Sprintf("<#%s>", record.ChannelID), Inline: true})
	}
	if record.Reason != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Rule", Value: record.Reason, Inline: false})
	}
	if record.Content != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Content", Value: "```" + truncate(record.Content, contentPreview) + "```", Inline: false})
	}

	embed := b.commandEmbed("AutoMod", "", b.levelColor(audit.LevelWarn), fields)
	if _, err := b.session.ChannelMessageSendEmbed(channelID, embed, discordgo.WithContext(ctx)); err != nil {
		b.logger.Warn("automod log post failed", zap.String("guild_id", record.GuildID), zap.String("channel_id", channelID), zap.Error(err))
	}
}

// NotifySystem posts a notice, such as a raid alert, to the guild log channel.
func (b *Bot) NotifySystem(ctx context.Context, notice audit.Notice) {
	channelID := b.logChannel(ctx, notice.GuildID)
	if channelID == "" {
		return
	}
	_, err := b.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: notice.Mention,
		Embeds:  []*discordgo.MessageEmbed{b.commandEmbed(notice.Title, notice.Description, b.levelColor(notice.Level), nil)},
	}, discordgo.WithContext(ctx))
	if err != nil {
		b.logger.Warn("system notice post failed", zap.String("guild_id", notice.GuildID), zap.String("channel_id", channelID), zap.Error(err))
	}
}

func (b *Bot) logChannel(ctx context.Context, guildID string) string {
	cfg, _, err := b.automod.Configs().Get(ctx, guildID)
	if err == nil && cfg.LogChannelID != "" {
		return cfg.LogChannelID
	}
	return b.cfg.Defaults.LogChannelID
}

func truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit]) + "..."
}
