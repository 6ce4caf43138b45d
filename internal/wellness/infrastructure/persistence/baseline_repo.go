package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/moodscope/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/moodscope/internal/wellness/domain"
)

// BaselineRepository implements domain.BaselineRepository.
type BaselineRepository struct {
	conn database.Connection
}

// NewBaselineRepository creates a baseline repository on conn.
func NewBaselineRepository(conn database.Connection) *BaselineRepository {
	return &BaselineRepository{conn: conn}
}

func (r *BaselineRepository) Find(ctx context.Context, userID string) (*domain.InteractionBaseline, error) {
	var (
		b         domain.InteractionBaseline
		updatedAt string
	)
	err := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx, `
		SELECT avg_outgoing, avg_incoming, avg_missed, avg_rejected, avg_duration, avg_unique_contacts, days, updated_at
		FROM interaction_baselines
		WHERE user_id = ?`, userID).
		Scan(&b.AvgOutgoing, &b.AvgIncoming, &b.AvgMissed, &b.AvgRejected,
			&b.AvgDuration, &b.AvgUniqueContacts, &b.Days, &updatedAt)
	if database.IsNoRows(err) {
		return nil, fmt.Errorf("%w: no baseline for user %s", domain.ErrInsufficientData, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("find baseline: %w", err)
	}

	b.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse baseline updated_at: %w", err)
	}
	return &b, nil
}

func (r *BaselineRepository) Save(ctx context.Context, userID string, b domain.InteractionBaseline) error {
	updatedAt := b.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `
		INSERT INTO interaction_baselines
			(user_id, avg_outgoing, avg_incoming, avg_missed, avg_rejected, avg_duration, avg_unique_contacts, days, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			avg_outgoing = excluded.avg_outgoing,
			avg_incoming = excluded.avg_incoming,
			avg_missed = excluded.avg_missed,
			avg_rejected = excluded.avg_rejected,
			avg_duration = excluded.avg_duration,
			avg_unique_contacts = excluded.avg_unique_contacts,
			days = excluded.days,
			updated_at = excluded.updated_at`,
		userID, b.AvgOutgoing, b.AvgIncoming, b.AvgMissed, b.AvgRejected,
		b.AvgDuration, b.AvgUniqueContacts, b.Days, updatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save baseline: %w", err)
	}
	return nil
}
