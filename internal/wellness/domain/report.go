package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ReportKind selects the report-generator endpoint.
type ReportKind string

const (
	ReportMood       ReportKind = "mood"
	ReportScreenTime ReportKind = "screentime"
)

// MoodPatterns summarizes the mood factor of a window.
type MoodPatterns struct {
	AverageMoodScore float64 `json:"average_mood_score"`
	MoodFluctuations string  `json:"mood_fluctuations"`
}

// SocialHealth carries the raw daily call summaries.
type SocialHealth struct {
	DailySummaries []ReportInteractionSummary `json:"daily_summaries"`
}

// ReportInteractionSummary is a DailyInteractionSummary in the generator's field names.
type ReportInteractionSummary struct {
	Date           string  `json:"date"`
	OutgoingCount  int     `json:"outgoingCount"`
	IncomingCount  int     `json:"incomingCount"`
	MissedCount    int     `json:"missedCount"`
	RejectedCount  int     `json:"rejectedCount"`
	AvgDuration    float64 `json:"avgDuration"`
	UniqueContacts int     `json:"uniqueContacts"`
}

// WorkStressSection summarizes the stress factor.
type WorkStressSection struct {
	WorkStressScore float64 `json:"work_stress_score"`
	Level           string  `json:"level,omitempty"`
	Trend           Trend   `json:"trend,omitempty"`
}

// SleepPattern summarizes the sleep signal.
type SleepPattern struct {
	SleepScore          float64 `json:"sleep_score"`
	AverageHours        float64 `json:"average_hours"`
	SleepTrackingAccess bool    `json:"sleep_tracking_access"`
}

// ScreenTimeUsage summarizes the screen time factor.
type ScreenTimeUsage struct {
	ScreenTimeScore float64 `json:"screentime_score"`
	AverageHours    float64 `json:"average_hours"`
}

// ReportDay is one day of the combined series.
type ReportDay struct {
	Date       string  `json:"date"`
	Overall    float64 `json:"overall"`
	Mood       float64 `json:"mood"`
	Social     float64 `json:"social"`
	ScreenTime float64 `json:"screen_time"`
	WorkStress float64 `json:"work_stress"`
}

// MoodReportRequest is the body sent to the mood report endpoint.
type MoodReportRequest struct {
	AverageScore    float64           `json:"average_score"`
	MoodPatterns    MoodPatterns      `json:"mood_patterns"`
	SocialHealth    SocialHealth      `json:"social_health"`
	WorkStress      WorkStressSection `json:"work_stress"`
	SleepPattern    SleepPattern      `json:"sleep_pattern"`
	ScreenTimeUsage ScreenTimeUsage   `json:"screentime_usage"`
	Daily           []ReportDay       `json:"daily"`
}

// DailyScreenTime is one day of the screen time report.
type DailyScreenTime struct {
	Date       string  `json:"date"`
	TotalHours float64 `json:"total_hours"`
}

// AppUsageSummary is one application of the screen time report.
type AppUsageSummary struct {
	AppName    string  `json:"app_name"`
	UsageHours float64 `json:"usage_hours"`
}

// ScreenTimeReportRequest is the body sent to the screen time report endpoint.
type ScreenTimeReportRequest struct {
	DailyScreenTime   []DailyScreenTime `json:"daily_screen_time"`
	AppUsageBreakdown []AppUsageSummary `json:"app_usage_breakdown"`
}

// moodStableSpread is the largest daily mood spread still labelled stable.
const moodStableSpread = 2.0

// ReportInputs are the signals a mood report is built from.
type ReportInputs struct {
	Series  *WellnessChartData
	History []DailyInteractionSummary
	Stress  *StressSignal
	Screen  []ScreenTimeData
	Sleep   []SleepSummary
	// SleepAccess is false when the sleep source refused access.
	SleepAccess bool
}

// BuildMoodReportRequest formats the inputs into the generator schema.
func BuildMoodReportRequest(in ReportInputs) MoodReportRequest {
	req := MoodReportRequest{
		SocialHealth:    SocialHealth{DailySummaries: []ReportInteractionSummary{}},
		Daily:           []ReportDay{},
		MoodPatterns:    summarizeMood(nil),
		ScreenTimeUsage: ScreenTimeUsage{ScreenTimeScore: NeutralScore},
		SleepPattern:    SleepPattern{SleepScore: NeutralScore, SleepTrackingAccess: in.SleepAccess},
		WorkStress:      WorkStressSection{WorkStressScore: NeutralScore},
	}

	if s := in.Series; s != nil {
		req.AverageScore = s.Average
		req.MoodPatterns = summarizeMood(s.Breakdown.Mood)
		req.ScreenTimeUsage.ScreenTimeScore = Round1(mean(s.Breakdown.ScreenTime, NeutralScore))
		for i := range s.Data {
			day := ReportDay{Overall: s.Data[i]}
			if i < len(s.Days) {
				day.Date = s.Days[i].Date
			}
			day.Mood = at(s.Breakdown.Mood, i)
			day.Social = at(s.Breakdown.Social, i)
			day.ScreenTime = at(s.Breakdown.ScreenTime, i)
			day.WorkStress = at(s.Breakdown.WorkStress, i)
			req.Daily = append(req.Daily, day)
		}
	}

	for _, h := range in.History {
		req.SocialHealth.DailySummaries = append(req.SocialHealth.DailySummaries, ReportInteractionSummary(h))
	}

	if in.Stress != nil {
		req.WorkStress = WorkStressSection{
			WorkStressScore: in.Stress.Score,
			Level:           in.Stress.Level,
			Trend:           in.Stress.Trend,
		}
	}

	hours := make([]float64, 0, len(in.Screen))
	for _, d := range in.Screen {
		hours = append(hours, d.Hours)
	}
	req.ScreenTimeUsage.AverageHours = Round1(mean(hours, 0))

	var sleepHours, sleepScores []float64
	for _, s := range in.Sleep {
		if s.Detected {
			sleepHours = append(sleepHours, s.Hours)
			sleepScores = append(sleepScores, s.Score)
		}
	}
	if len(sleepScores) > 0 {
		req.SleepPattern.SleepScore = Round1(mean(sleepScores, NeutralScore))
		req.SleepPattern.AverageHours = Round1(mean(sleepHours, 0))
	}

	return req
}

// BuildScreenTimeReportRequest formats screen time and app usage for the generator.
func BuildScreenTimeReportRequest(screen []ScreenTimeData, apps []AppUsageRecord) ScreenTimeReportRequest {
	req := ScreenTimeReportRequest{
		DailyScreenTime:   make([]DailyScreenTime, 0, len(screen)),
		AppUsageBreakdown: make([]AppUsageSummary, 0, len(apps)),
	}
	for _, d := range screen {
		req.DailyScreenTime = append(req.DailyScreenTime, DailyScreenTime{Date: d.Date, TotalHours: Round1(d.Hours)})
	}
	for _, a := range apps {
		name := a.AppName
		if name == "" {
			name = a.AppID
		}
		req.AppUsageBreakdown = append(req.AppUsageBreakdown, AppUsageSummary{AppName: name, UsageHours: Round1(a.Hours())})
	}
	return req
}

func summarizeMood(levels []float64) MoodPatterns {
	patterns := MoodPatterns{AverageMoodScore: Round1(mean(levels, NeutralScore)), MoodFluctuations: "stable"}
	if len(levels) == 0 {
		return patterns
	}
	lo, hi := levels[0], levels[0]
	for _, l := range levels[1:] {
		lo = min(lo, l)
		hi = max(hi, l)
	}
	if hi-lo > moodStableSpread {
		patterns.MoodFluctuations = "volatile"
	}
	return patterns
}

func mean(values []float64, empty float64) float64 {
	if len(values) == 0 {
		return empty
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func at(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return NeutralScore
}

// Report is a validated report-generator response.
type Report struct {
	WeeklyInsights         []string `json:"weekly_insights"`
	ImprovementSuggestions []string `json:"improvement_suggestions"`
}

// ParseReport validates a generator response body. Both lists must be present
// as arrays of strings and no error field may be set; anything else fails
// with ErrMalformedResponse.
func ParseReport(body []byte) (*Report, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if raw, ok := fields["error"]; ok && !isJSONNull(raw) {
		return nil, fmt.Errorf("%w: generator reported %s", ErrMalformedResponse, bytes.TrimSpace(raw))
	}

	insights, err := stringList(fields, "weekly_insights")
	if err != nil {
		return nil, err
	}
	suggestions, err := stringList(fields, "improvement_suggestions")
	if err != nil {
		return nil, err
	}
	return &Report{WeeklyInsights: insights, ImprovementSuggestions: suggestions}, nil
}

func stringList(fields map[string]json.RawMessage, key string) ([]string, error) {
	raw, ok := fields[key]
	if !ok || isJSONNull(raw) {
		return nil, fmt.Errorf("%w: missing %s", ErrMalformedResponse, key)
	}
	var items []*string
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %s is not a list of strings", ErrMalformedResponse, key)
	}
	list := make([]string, len(items))
	for i, item := range items {
		if item == nil {
			return nil, fmt.Errorf("%w: %s[%d] is null", ErrMalformedResponse, key, i)
		}
		list[i] = *item
	}
	return list, nil
}

func isJSONNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
