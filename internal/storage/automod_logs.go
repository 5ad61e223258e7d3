package storage

import (
	"context"
	"fmt"
	"time"
)

// AutomodLog is the persisted audit record read by statistics.
type AutomodLog struct {
	ID              int64
	GuildID         string
	UserID          string
	ModeratorID     string
	ChannelID       string
	MessageID       string
	TriggerType     string
	TriggerContent  string
	ActionTaken     string
	Severity        string
	ConfidenceScore *float64
	CreatedAt       time.Time
}

func (s *Store) AddAutomodLog(ctx context.Context, log AutomodLog) error {
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO automod_logs (
			guild_id, user_id, moderator_id, channel_id, message_id,
			trigger_type, trigger_content, action_taken, severity, confidence_score, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		log.GuildID,
		log.UserID,
		nullString(log.ModeratorID),
		nullString(log.ChannelID),
		nullString(log.MessageID),
		log.TriggerType,
		nullString(log.TriggerContent),
		log.ActionTaken,
		nullString(log.Severity),
		nullFloat(log.ConfidenceScore),
		log.CreatedAt,
	)
	return err
}

// LogGroup is a column AutoMod records can be grouped by.
type LogGroup string

const (
	GroupByTrigger LogGroup = "trigger_type"
	GroupByAction  LogGroup = "action_taken"
	GroupByUser    LogGroup = "user_id"
)

// LogCount is the number of records sharing one Key.
type LogCount struct {
	Key   string
	Count int
}

func (s *Store) CountAutomodLogs(ctx context.Context, guildID string, since time.Time) (int, error) {
	var total int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM automod_logs WHERE guild_id = $1 AND created_at >= $2
	`, guildID, since).Scan(&total)
	return total, err
}

// GroupAutomodLogs counts records since a point in time per value of by,
// largest first. A positive limit keeps only the top groups.
func (s *Store) GroupAutomodLogs(ctx context.Context, guildID string, since time.Time, by LogGroup, limit int) ([]LogCount, error) {
	switch by {
	case GroupByTrigger, GroupByAction, GroupByUser:
	default:
		return nil, fmt.Errorf("unknown log group %q", by)
	}

	query := fmt.Sprintf(`
		SELECT %[1]s, COUNT(*) AS total
		FROM automod_logs
		WHERE guild_id = $1 AND created_at >= $2 AND %[1]s <> ''
		GROUP BY %[1]s
		ORDER BY total DESC, %[1]s ASC`, by)
	args := []any{guildID, since}
	if limit > 0 {
		query += " LIMIT $3"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []LogCount
	for rows.Next() {
		var count LogCount
		if err := rows.Scan(&count.Key, &count.Count); err != nil {
			return nil, err
		}
		counts = append(counts, count)
	}
	return counts, rows.Err()
}

// CleanupAutomodLogs deletes records older than retentionDays and returns how
// many were removed.
func (s *Store) CleanupAutomodLogs(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	res, err := s.db.ExecContext(ctx, `DELETE FROM automod_logs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
