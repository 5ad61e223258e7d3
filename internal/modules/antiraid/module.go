package antiraid

import (
	"context"
	"fmt"
	"sync"
	"time"

	"sentinel-automod/internal/lockdown"
	"sentinel-automod/internal/moderation"
	"sentinel-automod/internal/modules/audit"
	"sentinel-automod/internal/utils"

	"go.uber.org/zap"
)

// StatusRetention keeps joins long enough for the one-minute status count.
const StatusRetention = time.Minute

type Join struct {
	GuildID          string
	UserID           string
	AccountCreatedAt time.Time
}

// Decision describes what HandleJoin did with a join.
type Decision struct {
	// Locked is set when the guild was already locked down.
	Locked          bool
	Suspicious      bool
	Raid            bool
	Action          moderation.Action
	LockdownStarted bool
	Kicked          []string
}

type ConfigSource interface {
	Get(ctx context.Context, guildID string) (moderation.GuildConfig, bool, error)
}

type Kicker interface {
	Kick(ctx context.Context, guildID, userID, reason string) error
}

type Module struct {
	mu       sync.Mutex
	windows  map[string]*utils.SlidingWindow[Join]
	configs  ConfigSource
	lockdown *lockdown.Engine
	kicker   Kicker
	audit    *audit.Logger
	logger   *zap.Logger
	now      func() time.Time
}

func New(configs ConfigSource, lockdownEngine *lockdown.Engine, kicker Kicker, auditLogger *audit.Logger, logger *zap.Logger) *Module {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Module{
		windows:  make(map[string]*utils.SlidingWindow[Join]),
		configs:  configs,
		lockdown: lockdownEngine,
		kicker:   kicker,
		audit:    auditLogger,
		logger:   logger,
		now:      time.Now,
	}
}

func (m *Module) WithClock(now func() time.Time) {
	m.now = now
}

// HandleJoin runs the join-burst detector for one member join.
func (m *Module) HandleJoin(ctx context.Context, join Join) Decision {
	if join.GuildID == "" {
		return Decision{}
	}
	cfg, found, err := m.configs.Get(ctx, join.GuildID)
	if err != nil {
		m.logger.Warn("load antiraid config failed", zap.String("guild_id", join.GuildID), zap.Error(err))
		return Decision{}
	}
	if !found {
		return Decision{}
	}
	settings := cfg.AntiRaid
	if !settings.Enabled {
		return Decision{}
	}

	if m.lockdown.IsActive(join.GuildID) && settings.Action == moderation.ActionLockdown {
		decision := Decision{Locked: true, Suspicious: true, Action: moderation.ActionLog}
		if m.kick(ctx, join.GuildID, join.UserID, "Anti-raid: lockdown active") {
			decision.Action = moderation.ActionKick
			decision.Kicked = []string{join.UserID}
		}
		m.recordSuspicious(ctx, join, decision.Action, "Joined during lockdown")
		return decision
	}

	now := m.now()
	recent := m.track(join, now, settings.JoinWindow)

	decision := Decision{Action: settings.Action}
	ageDays := int(now.Sub(join.AccountCreatedAt) / utils.Day)
	if !join.AccountCreatedAt.IsZero() && ageDays < settings.AccountAgeDays {
		decision.Suspicious = true
		m.audit.System(ctx, audit.Notice{
			GuildID:     join.GuildID,
			Title:       "Suspicious member",
			Description: fmt.Sprintf("<@%s> joined with an account created %d days ago", join.UserID, ageDays),
			Level:       audit.LevelWarn,
		})
	}

	if len(recent) < settings.JoinThreshold {
		return decision
	}
	decision.Raid = true
	m.trigger(ctx, cfg, recent, &decision)
	return decision
}

// track appends the join and returns the joins inside the detection window.
// The window mutation happens under the module lock before any I/O.
func (m *Module) track(join Join, now time.Time, joinWindow time.Duration) []utils.Entry[Join] {
	retention := joinWindow
	if retention < StatusRetention {
		retention = StatusRetention
	}

	m.mu.Lock()
	window := m.windows[join.GuildID]
	if window == nil {
		window = utils.NewSlidingWindow[Join](retention)
		m.windows[join.GuildID] = window
	}
	window.SetWindow(retention)
	window.Add(now, join)
	recent := window.Within(now, joinWindow)
	m.mu.Unlock()
	return recent
}

func (m *Module) trigger(ctx context.Context, cfg moderation.GuildConfig, recent []utils.Entry[Join], decision *Decision) {
	settings := cfg.AntiRaid
	if m.lockdown.IsActive(cfg.GuildID) {
		return
	}
	m.logger.Warn("raid detected",
		zap.String("guild_id", cfg.GuildID),
		zap.Int("joins", len(recent)),
		zap.Int("threshold", settings.JoinThreshold),
		zap.String("action", string(settings.Action)),
	)

	switch settings.Action {
	case moderation.ActionLockdown:
		if _, started := m.lockdown.Activate(ctx, cfg.GuildID, lockdown.ActivatedByAuto, false, settings.JoinThreshold); !started {
			return
		}
		decision.LockdownStarted = true
		mention := "@here"
		if cfg.ModRoleID != "" {
			mention = "<@&" + cfg.ModRoleID + ">"
		}
		m.audit.System(ctx, audit.Notice{
			GuildID: cfg.GuildID,
			Title:   "RAID DETECTED - LOCKDOWN ACTIVE",
			Description: fmt.Sprintf("**%d+** members joined within %s.\n\nNew members are kicked automatically.\nUse `/antiraid off` to end the lockdown.",
				settings.JoinThreshold, utils.FormatDuration(settings.JoinWindow)),
			Level:   audit.LevelCrit,
			Mention: mention,
		})
	case moderation.ActionKick:
		for _, entry := range recent {
			if m.kick(ctx, cfg.GuildID, entry.Value.UserID, "Anti-raid: mass join detected") {
				decision.Kicked = append(decision.Kicked, entry.Value.UserID)
				m.recordSuspicious(ctx, entry.Value, moderation.ActionKick, "Mass join detected")
			}
		}
		m.resetWindow(cfg.GuildID)
		m.audit.System(ctx, audit.Notice{
			GuildID:     cfg.GuildID,
			Title:       "Anti-raid",
			Description: fmt.Sprintf("%d members kicked after a detected raid", len(decision.Kicked)),
			Level:       audit.LevelWarn,
		})
	default:
		m.audit.System(ctx, audit.Notice{
			GuildID:     cfg.GuildID,
			Title:       "Possible raid detected",
			Description: fmt.Sprintf("%d+ members joined within %s", settings.JoinThreshold, utils.FormatDuration(settings.JoinWindow)),
			Level:       audit.LevelWarn,
		})
	}
}

// kick is best-effort: failures are logged and reported as false.
func (m *Module) kick(ctx context.Context, guildID, userID, reason string) bool {
	if m.kicker == nil {
		return false
	}
	if err := m.kicker.Kick(ctx, guildID, userID, reason); err != nil {
		m.logger.Warn("antiraid kick failed", zap.String("guild_id", guildID), zap.String("user_id", userID), zap.Error(err))
		return false
	}
	return true
}

// recordSuspicious stores a blacklist record. action is log when the kick failed.
func (m *Module) recordSuspicious(ctx context.Context, join Join, action moderation.Action, reason string) {
	_ = m.audit.Record(ctx, audit.Record{
		GuildID: join.GuildID,
		UserID:  join.UserID,
		Filter:  moderation.FilterAntiRaid,
		Action:  action,
		Reason:  reason,
	})
}

func (m *Module) resetWindow(guildID string) {
	m.mu.Lock()
	if window := m.windows[guildID]; window != nil {
		window.Reset()
	}
	m.mu.Unlock()
}

// RecentJoins counts the joins of a guild younger than within. Counts are
// bounded by StatusRetention or the configured join window, whichever is larger.
func (m *Module) RecentJoins(guildID string, now time.Time, within time.Duration) int {
	m.mu.Lock()
	window := m.windows[guildID]
	m.mu.Unlock()
	if window == nil {
		return 0
	}
	return len(window.Within(now, within))
}
