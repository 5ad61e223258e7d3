package automod

import (
	"context"
	"fmt"
	"time"

	"sentinel-automod/internal/moderation"
	"sentinel-automod/internal/modules/audit"
	"sentinel-automod/internal/utils"

	"go.uber.org/zap"
)

const (
	StepDelete  = "delete"
	StepNotify  = "notify"
	StepTimeout = "timeout"
	StepKick    = "kick"
	StepBan     = "ban"
	StepAudit   = "audit"
)

// Outcome is the result of one best-effort side effect. Failures are logged
// and never undo earlier steps.
type Outcome struct {
	Step string
	Err  error
}

func (o Outcome) Failed() bool { return o.Err != nil }

type Executor struct {
	platform Platform
	audit    *audit.Logger
	logger   *zap.Logger
	now      func() time.Time
}

func NewExecutor(platform Platform, auditLogger *audit.Logger, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{platform: platform, audit: auditLogger, logger: logger, now: time.Now}
}

// Execute applies the action of a triggered filter and records it.
func (e *Executor) Execute(ctx context.Context, msg moderation.Message, result moderation.FilterResult, filterName string, cfg moderation.GuildConfig) []Outcome {
	var outcomes []Outcome
	step := func(name string, err error) {
		outcome := Outcome{Step: name, Err: err}
		outcomes = append(outcomes, outcome)
		if err != nil {
			e.logger.Warn("automod step failed",
				zap.String("step", name),
				zap.String("guild_id", msg.GuildID),
				zap.String("user_id", msg.AuthorID),
				zap.String("filter", filterName),
				zap.Error(err),
			)
		}
	}

	if result.Action.DeletesMessage() {
		step(StepDelete, e.platform.DeleteMessage(ctx, msg.ChannelID, msg.ID))
	}

	switch result.Action {
	case moderation.ActionWarn:
		step(StepNotify, e.platform.SendDirect(ctx, msg.AuthorID, Notice{
			Title:       "AutoMod warning",
			Description: fmt.Sprintf("Your message was removed in **%s**", guildLabel(msg)),
			Fields: []NoticeField{
				{Name: "Reason", Value: result.Reason},
				{Name: "Rule", Value: filterName},
			},
			Level: audit.LevelWarn,
		}))
	case moderation.ActionMute:
		duration := muteDuration(cfg, filterName)
		reason := "AutoMod: " + result.Reason
		step(StepTimeout, e.platform.Timeout(ctx, msg.GuildID, msg.AuthorID, e.now().Add(duration), reason))
		step(StepNotify, e.platform.SendDirect(ctx, msg.AuthorID, Notice{
			Title:       "AutoMod mute",
			Description: fmt.Sprintf("You have been muted in **%s**", guildLabel(msg)),
			Fields: []NoticeField{
				{Name: "Reason", Value: result.Reason},
				{Name: "Duration", Value: utils.FormatDuration(duration)},
			},
			Level: audit.LevelCrit,
		}))
	case moderation.ActionKick:
		step(StepKick, e.platform.Kick(ctx, msg.GuildID, msg.AuthorID, "AutoMod: "+result.Reason))
	case moderation.ActionBan:
		step(StepBan, e.platform.Ban(ctx, msg.GuildID, msg.AuthorID, "AutoMod: "+result.Reason))
	}

	if e.audit != nil {
		step(StepAudit, e.audit.Record(ctx, audit.Record{
			GuildID:   msg.GuildID,
			UserID:    msg.AuthorID,
			ChannelID: msg.ChannelID,
			MessageID: msg.ID,
			Filter:    filterName,
			Content:   result.MatchedContent,
			Action:    result.Action,
			Reason:    result.Reason,
		}))
	}
	return outcomes
}

func muteDuration(cfg moderation.GuildConfig, filterName string) time.Duration {
	settings, err := cfg.Settings(filterName)
	if err != nil || settings.MuteDuration <= 0 {
		return moderation.DefaultMuteDuration
	}
	return settings.MuteDuration
}

func guildLabel(msg moderation.Message) string {
	if msg.GuildName != "" {
		return msg.GuildName
	}
	return msg.GuildID
}
