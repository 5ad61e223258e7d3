package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"sentinel-automod/internal/analytics"
	"sentinel-automod/internal/automod"
	"sentinel-automod/internal/config"
	"sentinel-automod/internal/lockdown"
	"sentinel-automod/internal/modules/antiraid"
	"sentinel-automod/internal/modules/audit"
	"sentinel-automod/internal/utils"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const retentionInterval = 24 * time.Hour

// Store is the persistence the bot needs on top of the AutoMod config store.
type Store interface {
	automod.ConfigStore
	CleanupAutomodLogs(ctx context.Context, retentionDays int) (int64, error)
}

type Deps struct {
	Store     Store
	Stats     automod.StatsStore
	Audit     *audit.Logger
	Lockdown  *lockdown.Engine
	Analytics *analytics.Service
}

type Bot struct {
	cfg       config.Config
	logger    *zap.Logger
	session   *discordgo.Session
	store     Store
	audit     *audit.Logger
	lockdown  *lockdown.Engine
	analytics *analytics.Service
	automod   *automod.Manager
	antiraid  *antiraid.Module

	stopOnce sync.Once
	stop     chan struct{}
	wg       sync.WaitGroup
}

func New(cfg config.Config, logger *zap.Logger, deps Deps) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, err
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsMessageContent

	b := &Bot{
		cfg:       cfg,
		logger:    logger,
		session:   session,
		store:     deps.Store,
		audit:     deps.Audit,
		lockdown:  deps.Lockdown,
		analytics: deps.Analytics,
		stop:      make(chan struct{}),
	}

	b.automod = automod.NewManager(deps.Store, b, deps.Audit, deps.Stats, automod.Options{
		CacheTTL:          cfg.AutoMod.CacheTTL(),
		BadwordCacheTTL:   cfg.AutoMod.BadwordCacheTTL(),
		SpamSweepInterval: cfg.AutoMod.SweepInterval(),
		SpamHistoryMaxAge: cfg.AutoMod.HistoryMaxAge(),
	}, logger)
	b.antiraid = antiraid.New(b.automod.Configs(), deps.Lockdown, b, deps.Audit, logger)

	if b.audit != nil {
		b.audit.SetNotifier(b)
	}
	b.lockdown.OnExpire(b.onLockdownExpired)

	return b, nil
}

func (b *Bot) Start() error {
	b.session.AddHandler(b.onReady)
	b.session.AddHandler(b.onMessageCreate)
	b.session.AddHandler(b.onGuildMemberAdd)
	b.session.AddHandler(b.onGuildMemberRemove)
	b.session.AddHandler(b.onInteractionCreate)

	if err := b.session.Open(); err != nil {
		return err
	}

	if err := b.registerCommands(); err != nil {
		return err
	}

	b.automod.Start()
	b.startRetention()

	return nil
}

// Close stops background work and the gateway session.
func (b *Bot) Close(ctx context.Context) error {
	b.stopOnce.Do(func() { close(b.stop) })
	b.automod.Close()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}

	if b.session != nil {
		return b.session.Close()
	}
	return nil
}

func (b *Bot) onReady(session *discordgo.Session, event *discordgo.Ready) {
	b.logger.Info("discord ready", zap.String("user", session.State.User.Username), zap.Int("guilds", len(event.Guilds)))
}

func (b *Bot) onLockdownExpired(state lockdown.State) {
	b.audit.System(context.Background(), audit.Notice{
		GuildID:     state.GuildID,
		Title:       "Lockdown ended",
		Description: fmt.Sprintf("Automatic lockdown lifted after %s.", utils.FormatDurationShort(time.Since(state.ActivatedAt))),
		Level:       audit.LevelSuccess,
	})
}

// startRetention prunes old AutoMod records once at startup and then daily.
func (b *Bot) startRetention() {
	if b.cfg.RetentionDays <= 0 {
		return
	}
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.cleanupLogs()
		ticker := time.NewTicker(retentionInterval)
		defer ticker.Stop()
		for {
			select {
			case <-b.stop:
				return
			case <-ticker.C:
				b.cleanupLogs()
			}
		}
	}()
}

func (b *Bot) cleanupLogs() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	removed, err := b.store.CleanupAutomodLogs(ctx, b.cfg.RetentionDays)
	if err != nil {
		b.logger.Warn("automod log cleanup failed", zap.Error(err))
		return
	}
	if removed > 0 {
		b.logger.Info("automod logs pruned", zap.Int64("removed", removed), zap.Int("retention_days", b.cfg.RetentionDays))
	}
}

func (b *Bot) respond(session *discordgo.Session, interaction *discordgo.InteractionCreate, content string, ephemeral bool) {
	flags := discordgo.MessageFlags(0)
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}
	_ = session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   flags,
		},
	})
}

func (b *Bot) respondEmbed(session *discordgo.Session, interaction *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, ephemeral bool) {
	if embed == nil {
		b.respond(session, interaction, "No response available.", ephemeral)
		return
	}
	flags := discordgo.MessageFlags(0)
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}
	err := session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  flags,
		},
	})
	if err != nil {
		b.logger.Warn("interaction response failed", zap.String("guild_id", interaction.GuildID), zap.Error(err))
	}
}

func (b *Bot) commandEmbed(title, description string, color int, fields []*discordgo.MessageEmbedField) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Timestamp:   time.Now().Format(time.RFC3339),
		Fields:      fields,
	}
}

func (b *Bot) levelColor(level string) int {
	colors := b.cfg.Notifications.EmbedColors
	switch level {
	case audit.LevelSuccess:
		return colors.Success
	case audit.LevelWarn:
		return colors.Warning
	case audit.LevelCrit:
		return colors.Error
	default:
		return colors.Info
	}
}
