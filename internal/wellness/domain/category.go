package domain

import (
	"sort"
	"strings"
	"time"
)

// AppCategory is the semantic usage category of an application.
type AppCategory int

const (
	CategoryProductivity AppCategory = iota
	CategoryEducation
	CategoryWorkCommunication
	CategoryEntertainment
	CategorySocial
	CategoryHealthWellness
	CategoryNewsInformation
	CategoryFinance
	CategoryOther
)

// AllCategories returns every category in enumeration order.
func AllCategories() []AppCategory {
	return []AppCategory{
		CategoryProductivity,
		CategoryEducation,
		CategoryWorkCommunication,
		CategoryEntertainment,
		CategorySocial,
		CategoryHealthWellness,
		CategoryNewsInformation,
		CategoryFinance,
		CategoryOther,
	}
}

func (c AppCategory) String() string {
	switch c {
	case CategoryProductivity:
		return "productivity"
	case CategoryEducation:
		return "education"
	case CategoryWorkCommunication:
		return "work_communication"
	case CategoryEntertainment:
		return "entertainment"
	case CategorySocial:
		return "social"
	case CategoryHealthWellness:
		return "health_wellness"
	case CategoryNewsInformation:
		return "news_information"
	case CategoryFinance:
		return "finance"
	default:
		return "other"
	}
}

// MarshalText encodes the category by name.
func (c AppCategory) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a category name. Unknown names decode as CategoryOther.
func (c *AppCategory) UnmarshalText(text []byte) error {
	*c = CategoryOther
	for _, cat := range AllCategories() {
		if cat.String() == string(text) {
			*c = cat
			break
		}
	}
	return nil
}

// categoryTable lists identifier fragments per category. Lookup order is the
// enumeration order, so an identifier listed under two categories resolves to
// the earlier one.
var categoryTable = [...][]string{
	CategoryProductivity: {
		"com.microsoft.office", "com.google.android.apps.docs", "com.google.android.apps.sheets",
		"com.google.android.apps.slides", "com.adobe.reader", "com.notion.id", "com.evernote",
		"com.todoist", "com.trello", "com.asana",
	},
	CategoryEducation: {
		"com.google.android.apps.classroom", "com.khanacademy", "edu.stanford", "com.coursera",
		"com.udemy", "com.edx", "com.duolingo", "com.babbel", "com.quizlet", "com.cambridge",
	},
	CategoryWorkCommunication: {
		"com.microsoft.teams", "com.zoom", "com.skype", "com.slack", "com.discord",
		"com.telegram", "com.signal", "com.whatsapp.business", "com.google.android.apps.meet",
	},
	CategoryEntertainment: {
		"com.netflix", "com.spotify", "com.youtube", "com.disney", "com.hulu", "com.twitch",
		"com.tiktok", "com.instagram", "com.snapchat", "com.pinterest", "com.reddit", "com.tumblr",
	},
	CategorySocial: {
		"com.whatsapp", "com.facebook", "com.twitter", "com.linkedin", "com.instagram",
		"com.snapchat", "com.tiktok", "com.pinterest", "com.reddit",
	},
	CategoryHealthWellness: {
		"com.myfitnesspal", "com.headspace", "com.calm", "com.strava", "com.fitbit",
		"com.nike.trainingclub", "com.meditation", "com.sleepcycle", "com.insighttimer",
	},
	CategoryNewsInformation: {
		"com.google.android.apps.news", "com.bbc.news", "com.cnn.mobile", "com.nytimes.android",
		"com.washingtonpost.rainbow", "com.reddit.frontpage", "com.medium.reader",
	},
	CategoryFinance: {
		"com.paypal", "com.venmo", "com.cashapp", "com.robinhood", "com.etrade",
		"com.fidelity", "com.chase", "com.bankofamerica",
	},
}

// Categorize maps an application identifier to its category.
func Categorize(appID string) AppCategory {
	for cat, fragments := range categoryTable {
		for _, fragment := range fragments {
			if strings.Contains(appID, fragment) {
				return AppCategory(cat)
			}
		}
	}
	return CategoryOther
}

// AppUsageRecord is the usage of a single application on one day.
type AppUsageRecord struct {
	AppID    string        `json:"app_id"`
	AppName  string        `json:"app_name,omitempty"`
	Duration time.Duration `json:"usage_duration"`
}

// Hours returns the usage in hours.
func (r AppUsageRecord) Hours() float64 {
	return r.Duration.Hours()
}

func totalUsage(records []AppUsageRecord) time.Duration {
	var total time.Duration
	for _, r := range records {
		if r.Duration > 0 {
			total += r.Duration
		}
	}
	return total
}

func categoryUsage(records []AppUsageRecord, category AppCategory) time.Duration {
	var sum time.Duration
	for _, r := range records {
		if r.Duration > 0 && Categorize(r.AppID) == category {
			sum += r.Duration
		}
	}
	return sum
}

// CategoryRatio returns the share of total usage spent in category.
// Zero total usage yields 0.
func CategoryRatio(records []AppUsageRecord, category AppCategory) float64 {
	total := totalUsage(records)
	if total == 0 {
		return 0
	}
	return float64(categoryUsage(records, category)) / float64(total)
}

// CategoryHours returns the hours spent in category.
func CategoryHours(records []AppUsageRecord, category AppCategory) float64 {
	return categoryUsage(records, category).Hours()
}

// Usage pattern thresholds.
const (
	ProductiveRatioThreshold         = 0.3
	EducationalRatioThreshold        = 0.2
	EntertainmentHeavyRatioThreshold = 0.4
	WorkFocusedRatioThreshold        = 0.2

	topCategoryCount = 3
)

// CategoryUsage is the usage of one category.
type CategoryUsage struct {
	Category AppCategory `json:"category"`
	Ratio    float64     `json:"ratio"`
	Hours    float64     `json:"hours"`
}

// UsageAnalysis summarizes a day of app usage by category.
type UsageAnalysis struct {
	TotalHours           float64         `json:"total_hours"`
	Breakdown            []CategoryUsage `json:"breakdown"`
	TopCategories        []CategoryUsage `json:"top_categories"`
	IsProductive         bool            `json:"is_productive"`
	IsEducational        bool            `json:"is_educational"`
	IsEntertainmentHeavy bool            `json:"is_entertainment_heavy"`
	IsWorkFocused        bool            `json:"is_work_focused"`
}

// Ratio returns the ratio recorded for category.
func (a UsageAnalysis) Ratio(category AppCategory) float64 {
	for _, b := range a.Breakdown {
		if b.Category == category {
			return b.Ratio
		}
	}
	return 0
}

// Hours returns the hours recorded for category.
func (a UsageAnalysis) Hours(category AppCategory) float64 {
	for _, b := range a.Breakdown {
		if b.Category == category {
			return b.Hours
		}
	}
	return 0
}

// AnalyzeUsagePatterns computes the per-category breakdown of records.
func AnalyzeUsagePatterns(records []AppUsageRecord) UsageAnalysis {
	total := totalUsage(records)
	byCategory := make(map[AppCategory]time.Duration)
	for _, r := range records {
		if r.Duration > 0 {
			byCategory[Categorize(r.AppID)] += r.Duration
		}
	}

	analysis := UsageAnalysis{TotalHours: total.Hours()}
	for _, cat := range AllCategories() {
		usage := CategoryUsage{Category: cat, Hours: byCategory[cat].Hours()}
		if total > 0 {
			usage.Ratio = float64(byCategory[cat]) / float64(total)
		}
		analysis.Breakdown = append(analysis.Breakdown, usage)
	}

	top := make([]CategoryUsage, len(analysis.Breakdown))
	copy(top, analysis.Breakdown)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Hours > top[j].Hours
	})
	analysis.TopCategories = top[:topCategoryCount]

	analysis.IsProductive = analysis.Ratio(CategoryProductivity) > ProductiveRatioThreshold
	analysis.IsEducational = analysis.Ratio(CategoryEducation) > EducationalRatioThreshold
	analysis.IsEntertainmentHeavy = analysis.Ratio(CategoryEntertainment) > EntertainmentHeavyRatioThreshold
	analysis.IsWorkFocused = analysis.Ratio(CategoryWorkCommunication) > WorkFocusedRatioThreshold

	return analysis
}
