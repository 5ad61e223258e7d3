package badwords

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var leetReplacer = strings.NewReplacer(
	"4", "a", "@", "a",
	"8", "b",
	"(", "c",
	"3", "e",
	"6", "g",
	"#", "h",
	"1", "i", "!", "i", "|", "i",
	"0", "o",
	"5", "s", "$", "s",
	"7", "t", "+", "t",
	"µ", "u",
	"2", "z",
)

var separators = regexp.MustCompile(`[_\-.\s]+`)

// Normalize lowercases text and, when leet is set, reverses leet-speak,
// folds accents, collapses runs of three or more identical characters to two
// and drops separators between letters.
func Normalize(text string, leet bool) string {
	text = strings.ToLower(text)
	if !leet {
		return text
	}
	text = foldAccents(leetReplacer.Replace(text))
	text = collapseRepeats(text)
	return separators.ReplaceAllString(text, "")
}

// reverseLeet keeps word boundaries so whole-word matching still works.
func reverseLeet(text string) string {
	return foldAccents(leetReplacer.Replace(strings.ToLower(text)))
}

func foldAccents(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return folded
}

func collapseRepeats(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	var prev rune
	run := 0
	for i, r := range text {
		if i > 0 && r == prev {
			run++
		} else {
			run = 1
		}
		prev = r
		if run <= 2 {
			b.WriteRune(r)
		}
	}
	return b.String()
}
