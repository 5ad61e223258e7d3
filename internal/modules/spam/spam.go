package spam

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"sentinel-automod/internal/moderation"
	"sentinel-automod/internal/utils"

	"go.uber.org/zap"
)

const (
	DefaultSweepInterval = 60 * time.Second
	DefaultMaxAge        = 30 * time.Second
	previewLength        = 100
	minSimilarHistory    = 3
)

type Config struct {
	SweepInterval time.Duration
	// MaxAge caps history retention whatever the guild's time window is.
	MaxAge time.Duration
}

// Filter keeps a per guild:user message history. The map and every window are
// only touched while mu is held, so each check is one atomic read-modify-write.
type Filter struct {
	mu      sync.Mutex
	cfg     Config
	now     func() time.Time
	history map[string]*utils.SlidingWindow[string]
	logger  *zap.Logger

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func New(cfg Config, logger *zap.Logger) *Filter {
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = DefaultSweepInterval
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = DefaultMaxAge
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Filter{
		cfg:     cfg,
		now:     time.Now,
		history: make(map[string]*utils.SlidingWindow[string]),
		logger:  logger,
		stop:    make(chan struct{}),
	}
}

func (f *Filter) WithClock(now func() time.Time) {
	f.now = now
}

func (f *Filter) Name() string { return moderation.FilterSpam }

func key(guildID, userID string) string {
	return guildID + ":" + userID
}

func (f *Filter) Check(ctx context.Context, msg moderation.Message, cfg moderation.GuildConfig) moderation.FilterResult {
	settings := cfg.Spam
	content := strings.ToLower(msg.Content)

	f.mu.Lock()
	now := f.now()
	k := key(msg.GuildID, msg.AuthorID)
	window := f.history[k]
	if window == nil {
		window = utils.NewSlidingWindow[string](f.cfg.MaxAge)
		f.history[k] = window
	}
	recent := window.Append(now, content, settings.TimeWindow)
	f.mu.Unlock()

	if len(recent) > settings.MaxMessages {
		return moderation.FilterResult{
			Triggered: true,
			Action:    settings.Action,
			Reason:    fmt.Sprintf("Flood detected (%d messages in %s)", len(recent), utils.FormatDurationShort(settings.TimeWindow)),
		}
	}

	duplicates := 0
	for _, entry := range recent {
		if entry.Value == content {
			duplicates++
		}
	}
	if duplicates > settings.MaxDuplicates {
		return moderation.FilterResult{
			Triggered:      true,
			Action:         settings.Action,
			Reason:         fmt.Sprintf("Repeated identical messages (%dx)", duplicates),
			MatchedContent: preview(msg.Content),
		}
	}

	if len(recent) >= minSimilarHistory {
		similar := 0
		for _, entry := range recent[:len(recent)-1] {
			if Similarity(entry.Value, content) >= settings.SimilarityThreshold {
				similar++
			}
		}
		if similar >= settings.MaxDuplicates {
			return moderation.FilterResult{
				Triggered:      true,
				Action:         settings.Action,
				Reason:         "Repeated similar messages",
				MatchedContent: preview(msg.Content),
			}
		}
	}
	return moderation.Pass
}

// ResetUser drops the history of one member.
func (f *Filter) ResetUser(guildID, userID string) {
	f.mu.Lock()
	delete(f.history, key(guildID, userID))
	f.mu.Unlock()
}

// Sweep drops entries older than MaxAge and forgets empty histories. It
// returns the number of histories left.
func (f *Filter) Sweep() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	cutoff := f.now().Add(-f.cfg.MaxAge)
	for k, window := range f.history {
		if window.Prune(cutoff) == 0 {
			delete(f.history, k)
		}
	}
	return len(f.history)
}

// Start runs Sweep every SweepInterval until Stop is called.
func (f *Filter) Start() {
	f.mu.Lock()
	if f.done != nil {
		f.mu.Unlock()
		return
	}
	f.done = make(chan struct{})
	f.mu.Unlock()

	go func() {
		defer close(f.done)
		ticker := time.NewTicker(f.cfg.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-f.stop:
				return
			case <-ticker.C:
				left := f.Sweep()
				f.logger.Debug("spam history swept", zap.Int("histories", left))
			}
		}
	}()
}

// Stop ends the sweep loop. It is safe to call more than once.
func (f *Filter) Stop() {
	f.stopOnce.Do(func() { close(f.stop) })
	f.mu.Lock()
	done := f.done
	f.mu.Unlock()
	if done != nil {
		<-done
	}
}

func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLength {
		return content
	}
	return string(runes[:previewLength])
}
