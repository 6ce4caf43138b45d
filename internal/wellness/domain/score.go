package domain

import "time"

// Signal names an upstream wellbeing input.
type Signal string

const (
	SignalMood       Signal = "mood"
	SignalSocial     Signal = "social"
	SignalScreenTime Signal = "screen_time"
	SignalAppUsage   Signal = "app_usage"
	SignalWorkStress Signal = "work_stress"
	SignalSleep      Signal = "sleep"
	SignalProfile    Signal = "profile"
)

// SignalStatus records how a signal contributed to a result.
type SignalStatus string

const (
	// StatusMeasured means the signal was fetched and carried data.
	StatusMeasured SignalStatus = "measured"
	// StatusDefaulted means the signal was fetched but had no data, so the
	// neutral default stood in.
	StatusDefaulted SignalStatus = "defaulted"
	// StatusUnavailable means fetching the signal failed and it was left out
	// of the weighted combination.
	StatusUnavailable SignalStatus = "unavailable"
)

// WellnessScore is the composite score of one day.
type WellnessScore struct {
	Date          string   `json:"date"`
	Label         string   `json:"label"`
	Mood          *float64 `json:"mood"`
	Social        *float64 `json:"social"`
	ScreenTime    *float64 `json:"screen_time"`
	WorkWellbeing *float64 `json:"work_wellbeing"`
	Overall       float64  `json:"overall"`
}

// Parts returns the weighted inputs of the day for Combine.
func (s WellnessScore) Parts(w Weights) []Part {
	return []Part{
		{Value: s.Mood, Weight: w.Mood},
		{Value: s.Social, Weight: w.Social},
		{Value: s.WorkWellbeing, Weight: w.WorkStress},
		{Value: s.ScreenTime, Weight: w.ScreenTime},
	}
}

// Breakdown holds the per-factor series used for charting.
type Breakdown struct {
	Mood       []float64 `json:"mood"`
	Social     []float64 `json:"social"`
	ScreenTime []float64 `json:"screenTime"`
	WorkStress []float64 `json:"workStress"`
}

// WellnessChartData is the daily wellbeing series for a window.
type WellnessChartData struct {
	Labels      []string                `json:"labels"`
	Data        []float64               `json:"data"`
	Average     float64                 `json:"average"`
	Breakdown   Breakdown               `json:"breakdown"`
	Days        []WellnessScore         `json:"days,omitempty"`
	Signals     map[Signal]SignalStatus `json:"signals,omitempty"`
	Weights     Weights                 `json:"weights"`
	Fallback    bool                    `json:"fallback"`
	GeneratedAt time.Time               `json:"generated_at"`
}

// FallbackChartData is the static dataset served when no signal source
// could be reached at all.
func FallbackChartData() *WellnessChartData {
	return &WellnessChartData{
		Labels:  []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"},
		Data:    []float64{4.2, 4.5, 3.8, 5.1, 4.7, 5.3, 4.9},
		Average: 4.6,
		Breakdown: Breakdown{
			Mood:       []float64{6.5, 7.2, 5.8, 8.1, 7.5, 8.3, 7.7},
			Social:     []float64{5.2, 6.1, 4.8, 7.2, 6.5, 6.9, 6.8},
			ScreenTime: []float64{6.5, 7.2, 5.1, 8.8, 7.0, 7.5, 8.2},
			WorkStress: []float64{3.5, 4.8, 2.2, 6.9, 4.1, 5.5, 4.3},
		},
		Fallback: true,
	}
}

// Window returns the last n calendar days ending on now in loc, oldest first.
func Window(now time.Time, n int, loc *time.Location) []time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	days := make([]time.Time, 0, n)
	for i := n - 1; i >= 0; i-- {
		days = append(days, midnight.AddDate(0, 0, -i))
	}
	return days
}
