package badwords

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"

	"sentinel-automod/internal/moderation"

	"go.uber.org/zap"
)

const DefaultCacheTTL = 5 * time.Minute

var defaultWords = []string{
	"test", "insulte", "merde", "pute", "connard",
	"salope", "enculé", "fdp", "ntm",
	"spam", "abuser", "toxic", "cancer", "nazi",
	"kill", "mort", "suicide", "drogue",
}

// WordSource returns the words a guild added.
type WordSource interface {
	GetBadwords(ctx context.Context, guildID string) ([]string, error)
}

// rule is a lowercased word with its whole-word patterns compiled once.
type rule struct {
	word  string
	whole *regexp.Regexp
	plain variant
	leet  variant
}

// variant is the folded form of a word for one leet setting. whole is nil
// when folding leaves the word unchanged.
type variant struct {
	folded string
	whole  *regexp.Regexp
}

var defaultRules = compileRules(defaultWords)

func compileRules(words []string) []rule {
	rules := make([]rule, 0, len(words))
	for _, word := range words {
		word = strings.ToLower(strings.TrimSpace(word))
		if word == "" {
			continue
		}
		rules = append(rules, rule{
			word:  word,
			whole: wholeWord(word),
			plain: newVariant(word, false),
			leet:  newVariant(word, true),
		})
	}
	return rules
}

func newVariant(word string, detectLeet bool) variant {
	folded := Normalize(word, detectLeet)
	if folded == word {
		return variant{folded: folded}
	}
	return variant{folded: folded, whole: wholeWord(folded)}
}

func wholeWord(term string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
}

func (r rule) forLeet(detectLeet bool) variant {
	if detectLeet {
		return r.leet
	}
	return r.plain
}

type cachedWords struct {
	rules     []rule
	fetchedAt time.Time
}

type Filter struct {
	mu     sync.Mutex
	source WordSource
	ttl    time.Duration
	now    func() time.Time
	cache  map[string]cachedWords
	// patterns holds compiled custom expressions; invalid ones map to nil.
	patterns map[string]*regexp.Regexp
	logger   *zap.Logger
}

func New(source WordSource, ttl time.Duration, logger *zap.Logger) *Filter {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Filter{
		source:   source,
		ttl:      ttl,
		now:      time.Now,
		cache:    make(map[string]cachedWords),
		patterns: make(map[string]*regexp.Regexp),
		logger:   logger,
	}
}

func (f *Filter) WithClock(now func() time.Time) {
	f.now = now
}

func (f *Filter) Name() string { return moderation.FilterBadwords }

// ClearCache forgets the cached word list of a guild.
func (f *Filter) ClearCache(guildID string) {
	f.mu.Lock()
	delete(f.cache, guildID)
	f.mu.Unlock()
}

func (f *Filter) ClearAll() {
	f.mu.Lock()
	f.cache = make(map[string]cachedWords)
	f.patterns = make(map[string]*regexp.Regexp)
	f.mu.Unlock()
}

func (f *Filter) Check(ctx context.Context, msg moderation.Message, cfg moderation.GuildConfig) moderation.FilterResult {
	settings := cfg.Badwords
	guild := f.guildRules(ctx, msg.GuildID)
	if len(guild) == 0 && !settings.UseDefaults && len(settings.CustomRegex) == 0 {
		return moderation.Pass
	}

	content := strings.ToLower(msg.Content)
	normalized := Normalize(msg.Content, settings.DetectLeet)
	leet := content
	if settings.DetectLeet {
		leet = reverseLeet(msg.Content)
	}

	ruleSets := [][]rule{guild}
	if settings.UseDefaults {
		ruleSets = [][]rule{defaultRules, guild}
	}
	for _, rules := range ruleSets {
		for _, r := range rules {
			if matchWord(r, content, normalized, leet, settings) {
				return moderation.FilterResult{
					Triggered:      true,
					Action:         settings.Action,
					Reason:         "Forbidden word detected",
					MatchedContent: mask(r.word),
				}
			}
		}
	}

	for _, pattern := range settings.CustomRegex {
		re := f.pattern(pattern)
		if re == nil {
			continue
		}
		if match := re.FindString(content); match != "" {
			return moderation.FilterResult{
				Triggered:      true,
				Action:         settings.Action,
				Reason:         "Forbidden pattern detected",
				MatchedContent: mask(match),
			}
		}
	}
	return moderation.Pass
}

func matchWord(r rule, content, normalized, leet string, settings moderation.BadwordsConfig) bool {
	v := r.forLeet(settings.DetectLeet)
	if settings.WholeWord {
		if r.whole.MatchString(content) || r.whole.MatchString(leet) {
			return true
		}
		return v.whole != nil && v.whole.MatchString(leet)
	}
	return strings.Contains(content, r.word) || strings.Contains(normalized, r.word) || strings.Contains(normalized, v.folded)
}

// pattern compiles a custom expression on first use.
func (f *Filter) pattern(expr string) *regexp.Regexp {
	f.mu.Lock()
	defer f.mu.Unlock()
	if re, ok := f.patterns[expr]; ok {
		return re
	}
	re, err := regexp.Compile("(?i)" + expr)
	if err != nil {
		f.logger.Debug("invalid custom badword pattern", zap.String("pattern", expr), zap.Error(err))
		re = nil
	}
	f.patterns[expr] = re
	return re
}

// mask wraps a term in spoiler markers so it is never shown in clear text.
func mask(term string) string {
	return "||" + term + "||"
}

// guildRules returns the compiled word list of a guild. The returned slice is
// shared and must not be modified.
func (f *Filter) guildRules(ctx context.Context, guildID string) []rule {
	if f.source == nil {
		return nil
	}

	f.mu.Lock()
	cached, ok := f.cache[guildID]
	now := f.now()
	f.mu.Unlock()
	if ok && now.Sub(cached.fetchedAt) < f.ttl {
		return cached.rules
	}

	words, err := f.source.GetBadwords(ctx, guildID)
	if err != nil {
		f.logger.Warn("load badwords failed", zap.String("guild_id", guildID), zap.Error(err))
		return nil
	}
	rules := compileRules(words)

	f.mu.Lock()
	f.cache[guildID] = cachedWords{rules: rules, fetchedAt: now}
	f.mu.Unlock()
	return rules
}
