package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/moodscope/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/moodscope/internal/wellness/domain"
)

// MoodRepository implements domain.MoodRepository with one row per user and day.
type MoodRepository struct {
	conn database.Connection
}

// NewMoodRepository creates a mood repository on conn.
func NewMoodRepository(conn database.Connection) *MoodRepository {
	return &MoodRepository{conn: conn}
}

func (r *MoodRepository) Save(ctx context.Context, e domain.MoodEntry) error {
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `
		INSERT INTO mood_entries (user_id, date, level, label, logged_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, date) DO UPDATE SET
			level = excluded.level,
			label = excluded.label,
			logged_at = excluded.logged_at`,
		e.UserID, e.Date, e.Level, e.Label, e.LoggedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save mood entry: %w", err)
	}
	return nil
}

func (r *MoodRepository) ListRange(ctx context.Context, userID, from, to string) ([]domain.MoodEntry, error) {
	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx, `
		SELECT date, level, label, logged_at
		FROM mood_entries
		WHERE user_id = ? AND date >= ? AND date <= ?
		ORDER BY date`, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list mood entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.MoodEntry
	for rows.Next() {
		e := domain.MoodEntry{UserID: userID}
		var loggedAt string
		if err := rows.Scan(&e.Date, &e.Level, &e.Label, &loggedAt); err != nil {
			return nil, fmt.Errorf("scan mood entry: %w", err)
		}
		if e.LoggedAt, err = time.Parse(time.RFC3339, loggedAt); err != nil {
			return nil, fmt.Errorf("parse mood logged_at: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mood entries: %w", err)
	}
	return entries, nil
}
