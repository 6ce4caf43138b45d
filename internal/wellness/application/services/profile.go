package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/moodscope/internal/wellness/domain"
)

// ProfileService resolves the profile every scorer is evaluated against.
type ProfileService struct {
	repo     domain.ProfileRepository
	fallback domain.UserProfile
	logger   *slog.Logger
}

// NewProfileService creates a profile service. fallback is served for users
// without a stored profile and must be valid.
func NewProfileService(repo domain.ProfileRepository, fallback domain.UserProfile, logger *slog.Logger) *ProfileService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileService{repo: repo, fallback: fallback, logger: logger}
}

// Get returns the stored profile of userID. Users without one, or whose
// profile cannot be read, get the fallback; the status tells them apart.
func (s *ProfileService) Get(ctx context.Context, userID string) (domain.UserProfile, domain.SignalStatus) {
	p, err := s.repo.Find(ctx, userID)
	switch {
	case err == nil:
		return *p, domain.StatusMeasured
	case errors.Is(err, domain.ErrProfileNotFound):
		s.logger.DebugContext(ctx, "no stored profile, using default", "user_id", userID)
		return s.fallback, domain.StatusDefaulted
	default:
		s.logger.WarnContext(ctx, "failed to load profile, using default", "user_id", userID, "error", err)
		return s.fallback, domain.StatusUnavailable
	}
}

// Save validates and stores the profile of userID.
func (s *ProfileService) Save(ctx context.Context, userID string, p domain.UserProfile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, userID, p); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}
