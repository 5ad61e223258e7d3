package utils

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidDuration = errors.New("invalid duration")

const (
	Day  = 24 * time.Hour
	Week = 7 * Day
)

var durationRegex = regexp.MustCompile(`(?i)(\d+)\s*(s|m|h|d|w)`)

type durationUnit struct {
	short string
	name  string
	value time.Duration
}

var durationUnits = []durationUnit{
	{short: "w", name: "week", value: Week},
	{short: "d", name: "day", value: Day},
	{short: "h", name: "hour", value: time.Hour},
	{short: "m", name: "minute", value: time.Minute},
	{short: "s", name: "second", value: time.Second},
}

const maxDuration = time.Duration(math.MaxInt64)

// ParseDuration sums every "<n><unit>" group of input, e.g. "1d12h30m".
// Units are s, m, h, d and w. A zero total or one that overflows is rejected.
func ParseDuration(input string) (time.Duration, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return 0, fmt.Errorf("%w: empty input", ErrInvalidDuration)
	}

	var total time.Duration
	for _, match := range durationRegex.FindAllStringSubmatch(trimmed, -1) {
		value, err := strconv.ParseInt(match[1], 10, 64)
		if err != nil || value <= 0 {
			continue
		}
		unit := unitFor(strings.ToLower(match[2]))
		if value > int64(maxDuration/unit) {
			return 0, fmt.Errorf("%w: %q is too long", ErrInvalidDuration, input)
		}
		step := time.Duration(value) * unit
		if total > maxDuration-step {
			return 0, fmt.Errorf("%w: %q is too long", ErrInvalidDuration, input)
		}
		total += step
	}
	if total <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, input)
	}
	return total, nil
}

// FormatDuration renders d as "1 hour 1 minute 1 second". Non-positive
// durations are "permanent".
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "permanent"
	}
	parts := make([]string, 0, len(durationUnits))
	remaining := d
	for _, unit := range durationUnits {
		count := remaining / unit.value
		if count <= 0 {
			continue
		}
		label := unit.name
		if count > 1 {
			label += "s"
		}
		parts = append(parts, fmt.Sprintf("%d %s", count, label))
		remaining %= unit.value
	}
	if len(parts) == 0 {
		return "0 seconds"
	}
	return strings.Join(parts, " ")
}

// FormatDurationShort renders d as "1h 1m 1s".
func FormatDurationShort(d time.Duration) string {
	if d <= 0 {
		return "perm"
	}
	parts := make([]string, 0, len(durationUnits))
	remaining := d
	for _, unit := range durationUnits {
		count := remaining / unit.value
		if count <= 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%d%s", count, unit.short))
		remaining %= unit.value
	}
	if len(parts) == 0 {
		return "0s"
	}
	return strings.Join(parts, " ")
}

// Relative describes target against now, e.g. "in 5 minutes" or "2 hours ago".
func Relative(target, now time.Time) string {
	if target.IsZero() {
		return "unknown"
	}
	diff := target.Sub(now)
	if diff > 0 {
		return "in " + FormatDuration(diff)
	}
	return FormatDuration(-diff) + " ago"
}

func unitFor(short string) time.Duration {
	for _, unit := range durationUnits {
		if unit.short == short {
			return unit.value
		}
	}
	return 0
}
