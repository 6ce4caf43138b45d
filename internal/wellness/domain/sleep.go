package domain

import "time"

// SleepStatus is the detection status of a sleep segment.
type SleepStatus int

const (
	SleepStatusSuccessful SleepStatus = iota
	SleepStatusMissingData
	SleepStatusNotDetected
)

// SleepSegment is one detected sleep interval.
type SleepSegment struct {
	Start  time.Time   `json:"start"`
	End    time.Time   `json:"end"`
	Status SleepStatus `json:"status"`
}

// Duration returns the length of the segment.
func (s SleepSegment) Duration() time.Duration {
	if s.End.Before(s.Start) {
		return 0
	}
	return s.End.Sub(s.Start)
}

// SleepSummary is the sleep of one night.
type SleepSummary struct {
	Date     string  `json:"date"`
	Hours    float64 `json:"hours"`
	Score    float64 `json:"score"`
	Detected bool    `json:"detected"`
}

// SummarizeSleep totals the successful segments that end on day in loc.
func SummarizeSleep(segments []SleepSegment, day string, loc *time.Location) SleepSummary {
	summary := SleepSummary{Date: day, Score: NeutralScore}
	var total time.Duration
	for _, s := range segments {
		if s.Status != SleepStatusSuccessful || DateKey(s.End, loc) != day {
			continue
		}
		total += s.Duration()
		summary.Detected = true
	}
	if summary.Detected {
		summary.Hours = Round1(total.Hours())
		summary.Score = Round1(SleepScore(total.Hours()))
	}
	return summary
}

// SleepScore maps nightly hours onto 0-10. 7 to 9 hours scores 10.
func SleepScore(hours float64) float64 {
	switch {
	case hours < 7:
		return ClampScore(10 - (7-hours)*2)
	case hours > 9:
		return ClampScore(10 - (hours-9)*2)
	default:
		return 10
	}
}
