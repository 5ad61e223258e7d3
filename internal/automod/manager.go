package automod

import (
	"context"
	"fmt"
	"time"

	"sentinel-automod/internal/moderation"
	"sentinel-automod/internal/modules/audit"
	"sentinel-automod/internal/modules/badwords"
	"sentinel-automod/internal/modules/caps"
	"sentinel-automod/internal/modules/invites"
	"sentinel-automod/internal/modules/links"
	"sentinel-automod/internal/modules/mentions"
	"sentinel-automod/internal/modules/spam"

	"go.uber.org/zap"
)

type Options struct {
	CacheTTL          time.Duration
	BadwordCacheTTL   time.Duration
	SpamSweepInterval time.Duration
	SpamHistoryMaxAge time.Duration
}

// Manager runs the filter chain for every guild message.
type Manager struct {
	store    ConfigStore
	cache    *ConfigCache
	filters  []moderation.Filter
	badwords *badwords.Filter
	spam     *spam.Filter
	executor *Executor
	stats    StatsStore
	logger   *zap.Logger
}

func NewManager(store ConfigStore, platform Platform, auditLogger *audit.Logger, stats StatsStore, opts Options, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if stats == nil {
		stats = NewMemoryStats()
	}
	badwordsFilter := badwords.New(store, opts.BadwordCacheTTL, logger)
	spamFilter := spam.New(spam.Config{SweepInterval: opts.SpamSweepInterval, MaxAge: opts.SpamHistoryMaxAge}, logger)

	return &Manager{
		store:    store,
		cache:    NewConfigCache(store, opts.CacheTTL),
		badwords: badwordsFilter,
		spam:     spamFilter,
		// Cheap deterministic checks run before the stateful and fuzzy ones.
		filters: []moderation.Filter{
			badwordsFilter,
			invites.New(platform, logger),
			links.New(),
			caps.New(),
			mentions.New(),
			spamFilter,
		},
		executor: NewExecutor(platform, auditLogger, logger),
		stats:    stats,
		logger:   logger,
	}
}

// Start launches the spam history sweep.
func (m *Manager) Start() {
	m.spam.Start()
}

func (m *Manager) Close() {
	m.spam.Stop()
}

func (m *Manager) Configs() *ConfigCache {
	return m.cache
}

func (m *Manager) Store() ConfigStore {
	return m.store
}

// ProcessMessage evaluates msg and returns the result of the filter that
// stopped the chain. When only log-action filters fired it returns the last of
// them rather than nil, so callers can tell an observed message from a clean
// one. It returns nil when nothing matched. Panics are contained to the message.
func (m *Manager) ProcessMessage(ctx context.Context, msg moderation.Message) (result *moderation.FilterResult) {
	if msg.AuthorBot || msg.WebhookID != "" || msg.GuildID == "" {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("automod panic",
				zap.String("guild_id", msg.GuildID),
				zap.String("message_id", msg.ID),
				zap.String("panic", fmt.Sprint(r)),
			)
			result = nil
		}
	}()

	cfg, _, err := m.cache.Get(ctx, msg.GuildID)
	if err != nil {
		m.logger.Warn("load automod config failed", zap.String("guild_id", msg.GuildID), zap.Error(err))
		return nil
	}
	if !cfg.Enabled || m.exempt(msg, cfg) {
		return nil
	}

	var last *moderation.FilterResult
	for _, filter := range m.filters {
		name := filter.Name()
		if !cfg.FilterEnabled(name) {
			continue
		}
		outcome := filter.Check(ctx, msg, cfg)
		if !outcome.Triggered {
			continue
		}

		m.logger.Info("automod filter triggered",
			zap.String("guild_id", msg.GuildID),
			zap.String("user_id", msg.AuthorID),
			zap.String("filter", name),
			zap.String("action", string(outcome.Action)),
		)
		m.executor.Execute(ctx, msg, outcome, name, cfg)
		if err := m.stats.Increment(ctx, msg.GuildID, name); err != nil {
			m.logger.Warn("increment automod stats failed", zap.String("guild_id", msg.GuildID), zap.Error(err))
		}

		triggered := outcome
		if outcome.Action.StopsChain() {
			return &triggered
		}
		last = &triggered
	}
	return last
}

func (m *Manager) exempt(msg moderation.Message, cfg moderation.GuildConfig) bool {
	if cfg.AdminBypass && msg.AuthorIsAdmin {
		return true
	}
	return cfg.IsExemptRole(msg.AuthorRoles) || cfg.IsExemptChannel(msg.ChannelID)
}

// ClearConfigCache drops the cached configuration and word list of a guild.
func (m *Manager) ClearConfigCache(guildID string) {
	m.cache.Invalidate(guildID)
	m.badwords.ClearCache(guildID)
	m.logger.Debug("automod cache cleared", zap.String("guild_id", guildID))
}

func (m *Manager) ClearAllConfigCache() {
	m.cache.InvalidateAll()
	m.badwords.ClearAll()
}

func (m *Manager) GuildStats(ctx context.Context, guildID string) (Stats, error) {
	perFilter, total, err := m.stats.Counts(ctx, guildID)
	if err != nil {
		return Stats{}, err
	}
	return Stats{PerFilter: perFilter, Total: total}, nil
}

// ResetStats clears the trigger counters of a guild.
func (m *Manager) ResetStats(ctx context.Context, guildID string) error {
	return m.stats.Reset(ctx, guildID)
}

// ResetUser forgets the spam history of a member, e.g. once they leave.
func (m *Manager) ResetUser(guildID, userID string) {
	m.spam.ResetUser(guildID, userID)
}

// UpdateConfig persists update and invalidates the guild's cache before
// returning, so the next message sees the change.
func (m *Manager) UpdateConfig(ctx context.Context, guildID string, update moderation.ConfigUpdate) error {
	if err := update.Validate(); err != nil {
		return err
	}
	err := m.store.UpdateGuildAutomodConfig(ctx, guildID, update)
	m.ClearConfigCache(guildID)
	return err
}

func (m *Manager) AddBadword(ctx context.Context, guildID, word, addedBy string) (moderation.BadwordAddResult, error) {
	result, err := m.store.AddBadword(ctx, guildID, word, addedBy)
	m.ClearConfigCache(guildID)
	return result, err
}

func (m *Manager) RemoveBadword(ctx context.Context, guildID, word string) (bool, error) {
	removed, err := m.store.RemoveBadword(ctx, guildID, word)
	m.ClearConfigCache(guildID)
	return removed, err
}
