package caps

import (
	"context"
	"fmt"
	"math"
	"unicode"

	"sentinel-automod/internal/moderation"
)

const previewLength = 50

type Filter struct{}

func New() *Filter { return &Filter{} }

func (f *Filter) Name() string { return moderation.FilterCaps }

// Check triggers when the share of uppercase letters is strictly above the
// configured maximum. Messages with fewer than MinLength letters are ignored.
func (f *Filter) Check(ctx context.Context, msg moderation.Message, cfg moderation.GuildConfig) moderation.FilterResult {
	letters, upper := countLetters(msg.Content)
	if letters == 0 || letters < cfg.Caps.MinLength {
		return moderation.Pass
	}

	pct := float64(upper) / float64(letters) * 100
	if pct <= float64(cfg.Caps.MaxPercentage) {
		return moderation.Pass
	}
	return moderation.FilterResult{
		Triggered:      true,
		Action:         cfg.Caps.Action,
		Reason:         fmt.Sprintf("Excessive caps (%d%%)", int(math.Round(pct))),
		MatchedContent: preview(msg.Content),
	}
}

// countLetters counts ASCII and Latin-1 letters.
func countLetters(content string) (letters, upper int) {
	for _, r := range content {
		if !isLetter(r) {
			continue
		}
		letters++
		if unicode.IsUpper(r) {
			upper++
		}
	}
	return letters, upper
}

func isLetter(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return true
	case r >= 'À' && r <= 'ÿ':
		return r != '×' && r != '÷'
	default:
		return false
	}
}

func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLength {
		return content
	}
	return string(runes[:previewLength]) + "..."
}
