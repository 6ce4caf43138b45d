// Package persistence stores wellness state in SQLite or PostgreSQL through
// the shared database.Executor. Queries use ? placeholders; the postgres
// backend rebinds them.
package persistence

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/moodscope/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/moodscope/internal/wellness/domain"
)

// HistoryRepository implements domain.InteractionHistoryRepository.
type HistoryRepository struct {
	conn database.Connection
}

// NewHistoryRepository creates a history repository on conn.
func NewHistoryRepository(conn database.Connection) *HistoryRepository {
	return &HistoryRepository{conn: conn}
}

func (r *HistoryRepository) List(ctx context.Context, userID string) ([]domain.DailyInteractionSummary, error) {
	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx, `
		SELECT date, outgoing_count, incoming_count, missed_count, rejected_count, avg_duration, unique_contacts
		FROM interaction_history
		WHERE user_id = ?
		ORDER BY date DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list interaction history: %w", err)
	}
	defer rows.Close()

	var history []domain.DailyInteractionSummary
	for rows.Next() {
		var s domain.DailyInteractionSummary
		if err := rows.Scan(&s.Date, &s.OutgoingCount, &s.IncomingCount, &s.MissedCount,
			&s.RejectedCount, &s.AvgDuration, &s.UniqueContacts); err != nil {
			return nil, fmt.Errorf("scan interaction history: %w", err)
		}
		history = append(history, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interaction history: %w", err)
	}
	return history, nil
}

// Replace swaps the stored history of userID for history in one transaction.
func (r *HistoryRepository) Replace(ctx context.Context, userID string, history []domain.DailyInteractionSummary) error {
	return database.RunInTx(ctx, r.conn, func(ctx context.Context) error {
		exec := database.ExecutorFromContext(ctx, r.conn)
		if _, err := exec.Exec(ctx, `DELETE FROM interaction_history WHERE user_id = ?`, userID); err != nil {
			return fmt.Errorf("clear interaction history: %w", err)
		}
		for _, s := range history {
			_, err := exec.Exec(ctx, `
				INSERT INTO interaction_history
					(user_id, date, outgoing_count, incoming_count, missed_count, rejected_count, avg_duration, unique_contacts)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				userID, s.Date, s.OutgoingCount, s.IncomingCount, s.MissedCount,
				s.RejectedCount, s.AvgDuration, s.UniqueContacts)
			if err != nil {
				return fmt.Errorf("insert interaction summary %s: %w", s.Date, err)
			}
		}
		return nil
	})
}
