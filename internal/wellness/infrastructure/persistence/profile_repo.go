package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixgeelhaar/moodscope/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/moodscope/internal/wellness/domain"
)

// ProfileRepository implements domain.ProfileRepository. Profiles are stored
// as JSON documents.
type ProfileRepository struct {
	conn database.Connection
}

// NewProfileRepository creates a profile repository on conn.
func NewProfileRepository(conn database.Connection) *ProfileRepository {
	return &ProfileRepository{conn: conn}
}

func (r *ProfileRepository) Find(ctx context.Context, userID string) (*domain.UserProfile, error) {
	var doc string
	err := database.ExecutorFromContext(ctx, r.conn).
		QueryRow(ctx, `SELECT profile FROM user_profiles WHERE user_id = ?`, userID).
		Scan(&doc)
	if database.IsNoRows(err) {
		return nil, fmt.Errorf("%w: %s", domain.ErrProfileNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("find profile: %w", err)
	}

	var p domain.UserProfile
	if err := json.Unmarshal([]byte(doc), &p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &p, nil
}

func (r *ProfileRepository) Save(ctx context.Context, userID string, p domain.UserProfile) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	_, err = database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `
		INSERT INTO user_profiles (user_id, profile, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET profile = excluded.profile, updated_at = excluded.updated_at`,
		userID, string(doc), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}
