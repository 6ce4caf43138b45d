package domain

import "errors"

var (
	// ErrInsufficientData means a baseline or history needed for a computation does not exist yet.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrSignalUnavailable means an upstream signal could not be obtained.
	ErrSignalUnavailable = errors.New("signal unavailable")
	// ErrMalformedResponse means an external service broke its response contract.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrComputationDegenerate means a normalization step would divide by zero.
	ErrComputationDegenerate = errors.New("computation degenerate")

	ErrInvalidProfile  = errors.New("invalid profile")
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidWindow   = errors.New("invalid window")
	ErrInvalidMood     = errors.New("invalid mood level")
)

// NeutralScore is the 0-10 score used when a signal is structurally absent.
const NeutralScore = 5.0

// OrDefault returns v when err is nil and fallback otherwise.
func OrDefault[T any](v T, err error, fallback T) T {
	if err != nil {
		return fallback
	}
	return v
}

// OrNeutral returns v when err is nil and NeutralScore otherwise.
func OrNeutral(v float64, err error) float64 {
	return OrDefault(v, err, NeutralScore)
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampScore bounds v to the 0-10 wellbeing scale.
func ClampScore(v float64) float64 {
	return clamp(v, 0, 10)
}
