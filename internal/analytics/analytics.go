package analytics

import (
	"context"
	"fmt"
	"time"

	"sentinel-automod/internal/storage"
)

const (
	ViewGeneral  = "general"
	ViewUsers    = "users"
	ViewTriggers = "triggers"

	topUsers = 10
)

var periods = map[string]time.Duration{
	"1h":  time.Hour,
	"24h": 24 * time.Hour,
	"7d":  7 * 24 * time.Hour,
	"30d": 30 * 24 * time.Hour,
}

// LogSource aggregates stored AutoMod records.
type LogSource interface {
	CountAutomodLogs(ctx context.Context, guildID string, since time.Time) (int, error)
	GroupAutomodLogs(ctx context.Context, guildID string, since time.Time, by storage.LogGroup, limit int) ([]storage.LogCount, error)
}

type Service struct {
	source LogSource
	now    func() time.Time
}

func New(source LogSource) *Service {
	return &Service{source: source, now: time.Now}
}

// Count is one labelled bucket of a report. Buckets are sorted by descending
// Count, ties by Key.
type Count struct {
	Key   string
	Count int
}

type Report struct {
	Period    string
	View      string
	Since     time.Time
	Total     int
	ByTrigger []Count
	ByAction  []Count
	TopUsers  []Count
}

// ParsePeriod accepts 1h, 24h, 7d and 30d. An empty value means 24h.
func ParsePeriod(value string) (time.Duration, error) {
	if value == "" {
		value = "24h"
	}
	d, ok := periods[value]
	if !ok {
		return 0, fmt.Errorf("unknown period %q", value)
	}
	return d, nil
}

func (s *Service) Report(ctx context.Context, guildID, period, view string) (Report, error) {
	if period == "" {
		period = "24h"
	}
	window, err := ParsePeriod(period)
	if err != nil {
		return Report{}, err
	}
	switch view {
	case "":
		view = ViewGeneral
	case ViewGeneral, ViewUsers, ViewTriggers:
	default:
		return Report{}, fmt.Errorf("unknown view %q", view)
	}

	since := s.now().Add(-window)
	total, err := s.source.CountAutomodLogs(ctx, guildID, since)
	if err != nil {
		return Report{}, err
	}

	report := Report{Period: period, View: view, Since: since, Total: total}
	group := func(by storage.LogGroup, limit int) ([]Count, error) {
		rows, err := s.source.GroupAutomodLogs(ctx, guildID, since, by, limit)
		if err != nil {
			return nil, err
		}
		counts := make([]Count, 0, len(rows))
		for _, row := range rows {
			counts = append(counts, Count{Key: row.Key, Count: row.Count})
		}
		return counts, nil
	}

	switch view {
	case ViewGeneral:
		if report.ByTrigger, err = group(storage.GroupByTrigger, 0); err != nil {
			return Report{}, err
		}
		if report.ByAction, err = group(storage.GroupByAction, 0); err != nil {
			return Report{}, err
		}
	case ViewUsers:
		if report.TopUsers, err = group(storage.GroupByUser, topUsers); err != nil {
			return Report{}, err
		}
	case ViewTriggers:
		if report.ByTrigger, err = group(storage.GroupByTrigger, 0); err != nil {
			return Report{}, err
		}
	}
	return report, nil
}
