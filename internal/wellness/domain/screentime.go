package domain

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// ScreenTimeData is the total screen time of one calendar day.
type ScreenTimeData struct {
	Date  string  `json:"date"`
	Hours float64 `json:"hours"`
}

// ScreenTimeFor returns the entry dated day.
func ScreenTimeFor(data []ScreenTimeData, day string) (ScreenTimeData, bool) {
	for _, d := range data {
		if d.Date == day {
			return d, true
		}
	}
	return ScreenTimeData{}, false
}

// ScreenTimeContext bundles the inputs of the contextual scorer.
type ScreenTimeContext struct {
	Usage   []ScreenTimeData
	Apps    []AppUsageRecord
	Profile UserProfile
	Now     time.Time
}

func (c ScreenTimeContext) today() (ScreenTimeData, error) {
	day := DateKey(c.Now, c.Profile.Location())
	entry, ok := ScreenTimeFor(c.Usage, day)
	if !ok {
		return ScreenTimeData{}, fmt.Errorf("%w: no screen time for %s", ErrInsufficientData, day)
	}
	if math.IsNaN(entry.Hours) || math.IsInf(entry.Hours, 0) || entry.Hours < 0 {
		return ScreenTimeData{}, fmt.Errorf("%w: invalid screen time %v for %s", ErrInsufficientData, entry.Hours, day)
	}
	return entry, nil
}

// ScoreScreenTime computes the context-aware screen time score on [0,10].
// It fails with ErrInsufficientData when there is no valid entry for the
// current day in the profile's timezone.
func ScoreScreenTime(in ScreenTimeContext) (float64, error) {
	today, err := in.today()
	if err != nil {
		return NeutralScore, err
	}

	hours := today.Hours
	analysis := AnalyzeUsagePatterns(in.Apps)
	tc := TimeContextAt(in.Profile, in.Now)

	score := NeutralScore
	switch {
	case hours > 8:
		score -= 2.0
	case hours > 6:
		score -= 1.0
	case hours < 2:
		score -= 0.5
	}

	score += categoryAdjustment(analysis, in.Profile.Role, tc)
	score += contextAdjustment(analysis, tc)
	score += overloadPenalty(analysis, hours, in.Profile.Role)

	switch in.Profile.Role {
	case RoleWorkingAdult, RoleProfessional:
		score += workLifeBalance(analysis, tc)
	case RoleStudent:
		score += studyEfficiency(analysis, tc)
	}

	return ClampScore(score), nil
}

// ContextualScreenTimeScore is ScoreScreenTime with the neutral default applied.
func ContextualScreenTimeScore(in ScreenTimeContext) float64 {
	return OrNeutral(ScoreScreenTime(in))
}

func categoryAdjustment(a UsageAnalysis, role Role, tc TimeContext) float64 {
	var score float64

	score += a.Ratio(CategoryProductivity) * 2.0

	if role == RoleStudent {
		score += a.Ratio(CategoryEducation) * 2.5
	} else {
		score += a.Ratio(CategoryEducation) * 1.0
	}

	switch tc {
	case TimeContextWork:
		score += a.Ratio(CategoryWorkCommunication) * 1.5
		score -= a.Ratio(CategoryEntertainment) * 2.0
	case TimeContextStudy:
		score += a.Ratio(CategoryWorkCommunication) * 0.5
		score -= a.Ratio(CategoryEntertainment) * 2.0
	case TimeContextLeisure:
		score += a.Ratio(CategoryWorkCommunication) * 0.5
		score -= a.Ratio(CategoryEntertainment) * 0.5
	}

	if a.Ratio(CategorySocial) > 0.3 {
		score -= 0.5
	}
	score += a.Ratio(CategoryHealthWellness) * 1.5
	score += a.Ratio(CategoryNewsInformation) * 0.8
	score += a.Ratio(CategoryFinance) * 0.5

	return score
}

func contextAdjustment(a UsageAnalysis, tc TimeContext) float64 {
	var score float64
	switch tc {
	case TimeContextWork:
		if a.IsProductive {
			score += 1.0
		}
		if a.IsWorkFocused {
			score += 0.5
		}
		if a.IsEntertainmentHeavy {
			score -= 1.5
		}
	case TimeContextStudy:
		if a.IsEducational {
			score += 1.5
		}
		if a.IsProductive {
			score += 0.5
		}
		if a.IsEntertainmentHeavy {
			score -= 2.0
		}
	case TimeContextLeisure:
		if a.IsEntertainmentHeavy {
			score -= 0.5
		}
		if a.IsProductive {
			score += 0.3
		}
	}
	return score
}

func overloadPenalty(a UsageAnalysis, hours float64, role Role) float64 {
	var penalty float64
	switch {
	case hours > 10:
		penalty -= 2.0
	case hours > 8:
		penalty -= 1.0
	}
	if a.IsEntertainmentHeavy && hours > 6 {
		penalty -= 1.0
	}
	if role.IsWorking() && a.IsWorkFocused && hours > 8 {
		penalty -= 0.5
	}
	return penalty
}

func workLifeBalance(a UsageAnalysis, tc TimeContext) float64 {
	var score float64
	if tc == TimeContextLeisure && !a.IsWorkFocused {
		score += 0.5
	}
	if tc == TimeContextWork && a.IsProductive {
		score += 0.3
	}
	return score
}

func studyEfficiency(a UsageAnalysis, tc TimeContext) float64 {
	if tc != TimeContextStudy {
		return 0
	}
	var score float64
	if a.IsEducational {
		score += 1.0
	}
	if a.IsProductive {
		score += 0.5
	}
	if a.IsEntertainmentHeavy {
		score -= 1.5
	}
	return score
}

// Screen time insight messages.
const (
	InsightHighScreenTime      = "High screen time detected. Consider taking breaks."
	InsightLowScreenTime       = "Low screen time today. Great job!"
	InsightEntertainmentAtWork = "High entertainment usage during work hours. Stay focused!"
	InsightEducational         = "Great use of educational apps! Keep learning."
	InsightProductive          = "Good productivity app usage. You're being efficient!"
	InsightDisconnect          = "Consider disconnecting from work during leisure time."
	InsightHealthApps          = "Great job using health & wellness apps!"
)

// ScreenTimeInsights returns observations about today's usage. It is empty
// when there is no entry for today.
func ScreenTimeInsights(in ScreenTimeContext) []string {
	insights := []string{}
	today, err := in.today()
	if err != nil {
		return insights
	}

	analysis := AnalyzeUsagePatterns(in.Apps)
	tc := TimeContextAt(in.Profile, in.Now)

	switch {
	case today.Hours > 8:
		insights = append(insights, InsightHighScreenTime)
	case today.Hours < 3:
		insights = append(insights, InsightLowScreenTime)
	}
	if analysis.IsEntertainmentHeavy && tc == TimeContextWork {
		insights = append(insights, InsightEntertainmentAtWork)
	}
	if analysis.IsEducational && in.Profile.Role == RoleStudent {
		insights = append(insights, InsightEducational)
	}
	if analysis.IsProductive {
		insights = append(insights, InsightProductive)
	}
	if in.Profile.Role == RoleWorkingAdult && analysis.IsWorkFocused && tc == TimeContextLeisure {
		insights = append(insights, InsightDisconnect)
	}
	if analysis.Ratio(CategoryHealthWellness) > 0.1 {
		insights = append(insights, InsightHealthApps)
	}
	return insights
}

// ScreenTimeWellbeing maps daily hours onto the simple wellbeing curve used
// when no app breakdown is available.
func ScreenTimeWellbeing(hours float64) float64 {
	switch {
	case hours <= 2:
		return 10
	case hours <= 4:
		return 10 - (hours-2)*0.5
	case hours <= 6:
		return 9 - (hours - 4)
	case hours <= 8:
		return 7 - (hours-6)*1.5
	default:
		return math.Max(1, 4-(hours-8)*0.5)
	}
}

// Trend is the direction of a signal over recent days.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// IsValid reports whether t is a known trend.
func (t Trend) IsValid() bool {
	return t == TrendUp || t == TrendDown || t == TrendStable
}

// ScreenTimeTrend summarizes recent screen time.
type ScreenTimeTrend struct {
	AverageHours  float64 `json:"average_hours"`
	TotalHours    float64 `json:"total_hours"`
	Trend         Trend   `json:"trend"`
	ChangePercent float64 `json:"change_percent"`
}

// ComputeScreenTimeTrend compares the most recent three days against the
// three before them.
func ComputeScreenTimeTrend(data []ScreenTimeData) ScreenTimeTrend {
	result := ScreenTimeTrend{Trend: TrendStable}
	if len(data) == 0 {
		return result
	}

	sorted := make([]ScreenTimeData, len(data))
	copy(sorted, data)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	for _, d := range sorted {
		result.TotalHours += d.Hours
	}
	result.AverageHours = Round1(result.TotalHours / float64(len(sorted)))
	result.TotalHours = Round1(result.TotalHours)

	if len(sorted) < 2 {
		return ScreenTimeTrend{Trend: TrendStable}
	}

	recent := sorted[max(0, len(sorted)-3):]
	previous := sorted[max(0, len(sorted)-6):max(0, len(sorted)-3)]
	if len(previous) == 0 {
		return result
	}

	recentAvg, previousAvg := meanHours(recent), meanHours(previous)
	change := 0.0
	if previousAvg > 0 {
		change = (recentAvg - previousAvg) / previousAvg * 100
	}
	switch {
	case change > 5:
		result.Trend = TrendUp
	case change < -5:
		result.Trend = TrendDown
	}
	result.ChangePercent = Round1(change)
	return result
}

func meanHours(data []ScreenTimeData) float64 {
	if len(data) == 0 {
		return 0
	}
	var sum float64
	for _, d := range data {
		sum += d.Hours
	}
	return sum / float64(len(data))
}

// UsageInsights returns general observations about recent screen time and
// the most used application.
func UsageInsights(data []ScreenTimeData, apps []AppUsageRecord) []string {
	insights := []string{}
	if len(data) == 0 {
		return insights
	}

	trend := ComputeScreenTimeTrend(data)
	switch {
	case trend.AverageHours < 4:
		insights = append(insights, "Great job! Your screen time is well within healthy limits.")
	case trend.AverageHours < 6:
		insights = append(insights, "Your screen time is moderate. Consider taking more breaks to maintain digital wellness.")
	default:
		insights = append(insights, "Your screen time is quite high. Try setting daily limits for different apps.")
	}

	switch {
	case trend.Trend == TrendDown && trend.ChangePercent < -10:
		insights = append(insights, fmt.Sprintf("Excellent! You've reduced your screen time by %.1f%% recently.", math.Abs(trend.ChangePercent)))
	case trend.Trend == TrendUp && trend.ChangePercent > 10:
		insights = append(insights, fmt.Sprintf("Your screen time has increased by %.1f%%. Consider setting some boundaries.", trend.ChangePercent))
	}

	var top AppUsageRecord
	for _, a := range apps {
		if a.Duration > top.Duration {
			top = a
		}
	}
	if top.Hours() > 2 {
		name := top.AppName
		if name == "" {
			name = top.AppID
		}
		insights = append(insights, fmt.Sprintf("%s is your most used app with %.1f hours today.", name, top.Hours()))
	}

	var weekend, weekday []ScreenTimeData
	for _, d := range data {
		t, err := time.Parse(DateLayout, d.Date)
		if err != nil {
			continue
		}
		if wd := t.Weekday(); wd == time.Saturday || wd == time.Sunday {
			weekend = append(weekend, d)
		} else {
			weekday = append(weekday, d)
		}
	}
	if len(weekend) > 0 && len(weekday) > 0 && meanHours(weekend) > meanHours(weekday)*1.5 {
		insights = append(insights, "You tend to use your phone more on weekends. Consider planning some screen-free activities.")
	}
	return insights
}
