// Package cache holds computed wellness results for a bounded time.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Key identifies a cached result.
type Key struct {
	UserID string
	Signal string
	// Window describes the requested range, e.g. "2024-05-09..2024-05-15".
	Window string
}

func (k Key) String() string {
	return fmt.Sprintf("user:%s:%s:%s", k.UserID, k.Signal, k.Window)
}

// Cache stores JSON-encodable values. Readers get a fresh copy, never
// the instance passed to Set.
type Cache interface {
	// Get decodes the entry for key into dst and reports whether it was
	// present and fresh.
	Get(ctx context.Context, key Key, dst any) (bool, error)
	Set(ctx context.Context, key Key, value any, ttl time.Duration) error
	// Invalidate drops every entry of userID and returns how many were removed.
	Invalidate(ctx context.Context, userID string) (int, error)
	Clear(ctx context.Context) error
}

func userPrefix(userID string) string {
	return "user:" + userID + ":"
}
