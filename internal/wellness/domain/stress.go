package domain

import "fmt"

// StressSignal is the external work-stress reading. Score runs 1-10 and
// higher means more stressed.
type StressSignal struct {
	Score float64 `json:"score"`
	Level string  `json:"level"`
	Trend Trend   `json:"trend"`
}

// Validate checks the reading against the stress API contract.
func (s StressSignal) Validate() error {
	if s.Score < 1 || s.Score > 10 {
		return fmt.Errorf("%w: stress score %v outside [1, 10]", ErrMalformedResponse, s.Score)
	}
	if s.Trend != "" && !s.Trend.IsValid() {
		return fmt.Errorf("%w: unknown stress trend %q", ErrMalformedResponse, s.Trend)
	}
	return nil
}

// WorkWellbeing converts a raw stress score into a 0-10 wellbeing score.
func WorkWellbeing(stress float64) float64 {
	return ClampScore(10 - stress)
}
