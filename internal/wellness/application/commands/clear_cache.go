package commands

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/moodscope/internal/wellness/application/cache"
	"github.com/felixgeelhaar/moodscope/pkg/observability"
)

// ClearCacheCommand drops cached results. An empty UserID clears everything.
type ClearCacheCommand struct {
	UserID string
}

// ClearCacheResult reports what was removed.
type ClearCacheResult struct {
	Removed int  `json:"removed"`
	All     bool `json:"all"`
}

// ClearCacheHandler handles ClearCacheCommand.
type ClearCacheHandler struct {
	cache   cache.Cache
	metrics observability.Metrics
}

// NewClearCacheHandler creates a new clear cache handler.
func NewClearCacheHandler(c cache.Cache, metrics observability.Metrics) *ClearCacheHandler {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &ClearCacheHandler{cache: c, metrics: metrics}
}

// Handle executes the clear cache command.
func (h *ClearCacheHandler) Handle(ctx context.Context, cmd ClearCacheCommand) (*ClearCacheResult, error) {
	if cmd.UserID == "" {
		if err := h.cache.Clear(ctx); err != nil {
			return nil, fmt.Errorf("failed to clear cache: %w", err)
		}
		h.metrics.Counter(observability.MetricCacheInvalidate, 1, observability.T("scope", "all"))
		return &ClearCacheResult{All: true}, nil
	}

	n, err := h.cache.Invalidate(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to invalidate cache: %w", err)
	}
	h.metrics.Counter(observability.MetricCacheInvalidate, int64(n), observability.T("scope", "user"))
	return &ClearCacheResult{Removed: n}, nil
}
