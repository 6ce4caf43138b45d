// Package breaker guards outbound calls to external services with a
// consecutive-failure circuit breaker.
package breaker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/felixgeelhaar/moodscope/pkg/observability"
)

// ErrOpen is returned without calling the service while the circuit is open.
var ErrOpen = errors.New("circuit open")

// Config configures a Breaker.
type Config struct {
	Name string
	// FailureThreshold consecutive failures open the circuit. Default 5.
	FailureThreshold uint32
	// OpenTimeout is how long the circuit stays open. Default 30s.
	OpenTimeout time.Duration
	// HalfOpenRequests are let through while probing. Default 1.
	HalfOpenRequests uint32
	// Interval resets the closed-state counts. Zero never resets.
	Interval time.Duration
}

// Breaker wraps a gobreaker circuit for one external service.
type Breaker struct {
	cb      *gobreaker.CircuitBreaker[any]
	metrics observability.Metrics
}

// New creates a breaker. A nil logger uses slog.Default and nil metrics
// records nothing.
func New(cfg Config, logger *slog.Logger, metrics observability.Metrics) *Breaker {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.OpenTimeout == 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	if cfg.HalfOpenRequests == 0 {
		cfg.HalfOpenRequests = 1
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.HalfOpenRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		// A caller giving up is not a service failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
			metrics.Counter(observability.MetricBreakerStateChange, 1,
				observability.T("breaker", name), observability.T("state", to.String()))
		},
	}

	return &Breaker{cb: gobreaker.NewCircuitBreaker[any](settings), metrics: metrics}
}

// State reports the current circuit state as closed, half-open or open.
func (b *Breaker) State() string {
	return b.cb.State().String()
}

// Do runs fn through the breaker.
func Do[T any](b *Breaker, fn func() (T, error)) (T, error) {
	var zero T
	out, err := b.cb.Execute(func() (any, error) {
		return fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return zero, fmt.Errorf("%s: %w", b.cb.Name(), ErrOpen)
	}
	if err != nil {
		return zero, err
	}
	v, ok := out.(T)
	if !ok {
		return zero, fmt.Errorf("%s: unexpected result type %T", b.cb.Name(), out)
	}
	return v, nil
}
