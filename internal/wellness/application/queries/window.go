package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/moodscope/internal/wellness/application/services"
	"github.com/felixgeelhaar/moodscope/internal/wellness/domain"
)

// DefaultWindowDays is the window length used when a query leaves it unset.
const DefaultWindowDays = 7

// windowBuilder resolves a user's profile into a series request ending today.
type windowBuilder struct {
	profiles *services.ProfileService
	deviceID string
	now      func() time.Time
}

func (b windowBuilder) request(ctx context.Context, userID string, days int) (services.SeriesRequest, time.Time) {
	if days == 0 {
		days = DefaultWindowDays
	}
	now := b.now()
	profile, _ := b.profiles.Get(ctx, userID)
	req := services.SeriesRequest{
		UserID:   userID,
		DeviceID: b.deviceID,
		Profile:  profile,
	}
	if days > 0 {
		req.Days = domain.Window(now, days, profile.Location())
	}
	return req, now
}
