package storage

import (
	"context"
	"strings"

	"sentinel-automod/internal/moderation"
)

func normalizeWord(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

func (s *Store) GetBadwords(ctx context.Context, guildID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT word FROM badwords WHERE guild_id = $1 ORDER BY word`, guildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var words []string
	for rows.Next() {
		var word string
		if err := rows.Scan(&word); err != nil {
			return nil, err
		}
		words = append(words, word)
	}
	return words, rows.Err()
}

// AddBadword stores word lowercased and trimmed and refreshes the guild's
// denormalized count in the same transaction.
func (s *Store) AddBadword(ctx context.Context, guildID, word, addedBy string) (result moderation.BadwordAddResult, err error) {
	word = normalizeWord(word)
	if word == "" {
		return moderation.BadwordAddResult{}, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return moderation.BadwordAddResult{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO badwords (guild_id, word, added_by)
		VALUES ($1, $2, $3)
		ON CONFLICT (guild_id, (lower(word))) DO NOTHING
	`, guildID, word, addedBy)
	if err != nil {
		return moderation.BadwordAddResult{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return moderation.BadwordAddResult{}, err
	}
	if affected == 0 {
		if err = tx.Commit(); err != nil {
			return moderation.BadwordAddResult{}, err
		}
		return moderation.BadwordAddResult{AlreadyExists: true}, nil
	}

	if _, err = tx.ExecContext(ctx, refreshBadwordCount, guildID); err != nil {
		return moderation.BadwordAddResult{}, err
	}
	if err = tx.Commit(); err != nil {
		return moderation.BadwordAddResult{}, err
	}
	return moderation.BadwordAddResult{Added: true}, nil
}

func (s *Store) RemoveBadword(ctx context.Context, guildID, word string) (removed bool, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `DELETE FROM badwords WHERE guild_id = $1 AND lower(word) = $2`, guildID, normalizeWord(word))
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected > 0 {
		if _, err = tx.ExecContext(ctx, refreshBadwordCount, guildID); err != nil {
			return false, err
		}
	}
	if err = tx.Commit(); err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *Store) CountBadwords(ctx context.Context, guildID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM badwords WHERE guild_id = $1`, guildID).Scan(&count)
	return count, err
}

const refreshBadwordCount = `
	INSERT INTO guild_automod (guild_id, badword_count)
	VALUES ($1, (SELECT COUNT(*) FROM badwords WHERE guild_id = $1))
	ON CONFLICT (guild_id) DO UPDATE SET
		badword_count = EXCLUDED.badword_count,
		updated_at = NOW()
`
