package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		appID    string
		expected AppCategory
	}{
		{"com.spotify.music", CategoryEntertainment},
		{"com.unknown.app", CategoryOther},
		{"com.google.android.apps.docs.editors", CategoryProductivity},
		{"com.duolingo", CategoryEducation},
		{"us.zoom.videomeetings", CategoryOther},
		{"com.zoom.us", CategoryWorkCommunication},
		{"com.whatsapp.business", CategoryWorkCommunication},
		{"com.whatsapp", CategorySocial},
		{"com.instagram.android", CategoryEntertainment},
		{"com.reddit.frontpage", CategoryEntertainment},
		{"com.facebook.katana", CategorySocial},
		{"com.calm.android", CategoryHealthWellness},
		{"com.bbc.news", CategoryNewsInformation},
		{"com.paypal.android.p2pmobile", CategoryFinance},
		{"", CategoryOther},
	}

	for _, tc := range tests {
		t.Run(tc.appID, func(t *testing.T) {
			assert.Equal(t, tc.expected, Categorize(tc.appID))
		})
	}
}

func TestAppCategory_String(t *testing.T) {
	assert.Equal(t, "entertainment", CategoryEntertainment.String())
	assert.Equal(t, "other", CategoryOther.String())
	assert.Equal(t, "other", AppCategory(42).String())
	assert.Len(t, AllCategories(), 9)
}

func TestCategoryRatio_NoUsage(t *testing.T) {
	for _, cat := range AllCategories() {
		assert.Zero(t, CategoryRatio(nil, cat))
		assert.Zero(t, CategoryRatio([]AppUsageRecord{{AppID: "com.netflix", Duration: 0}}, cat))
	}
}

func TestCategoryRatio_SumsToOne(t *testing.T) {
	records := []AppUsageRecord{
		{AppID: "com.netflix.mediaclient", Duration: 90 * time.Minute},
		{AppID: "com.slack", Duration: 45 * time.Minute},
		{AppID: "com.unknown.app", Duration: 17 * time.Minute},
		{AppID: "com.todoist", Duration: 2 * time.Hour},
		{AppID: "com.strava", Duration: 11 * time.Minute},
	}

	var sum float64
	for _, cat := range AllCategories() {
		ratio := CategoryRatio(records, cat)
		assert.GreaterOrEqual(t, ratio, 0.0)
		assert.LessOrEqual(t, ratio, 1.0)
		sum += ratio
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestCategoryHours(t *testing.T) {
	records := []AppUsageRecord{
		{AppID: "com.spotify.music", Duration: 90 * time.Minute},
		{AppID: "com.youtube.android", Duration: 30 * time.Minute},
		{AppID: "com.slack", Duration: time.Hour},
		{AppID: "com.netflix", Duration: -time.Hour},
	}

	assert.InDelta(t, 2.0, CategoryHours(records, CategoryEntertainment), 1e-9)
	assert.InDelta(t, 1.0, CategoryHours(records, CategoryWorkCommunication), 1e-9)
	assert.Zero(t, CategoryHours(records, CategoryFinance))
}

func TestAnalyzeUsagePatterns(t *testing.T) {
	t.Run("productive day", func(t *testing.T) {
		records := []AppUsageRecord{
			{AppID: "com.google.android.apps.docs", Duration: 4 * time.Hour},
			{AppID: "com.unknown.app", Duration: 6 * time.Hour},
		}

		analysis := AnalyzeUsagePatterns(records)

		assert.InDelta(t, 10.0, analysis.TotalHours, 1e-9)
		assert.InDelta(t, 0.4, analysis.Ratio(CategoryProductivity), 1e-9)
		assert.True(t, analysis.IsProductive)
		assert.False(t, analysis.IsEducational)
		assert.False(t, analysis.IsEntertainmentHeavy)
		assert.False(t, analysis.IsWorkFocused)
		assert.Len(t, analysis.Breakdown, len(AllCategories()))
	})

	t.Run("top categories break ties by enumeration order", func(t *testing.T) {
		records := []AppUsageRecord{
			{AppID: "com.google.android.apps.docs", Duration: 4 * time.Hour},
			{AppID: "com.unknown.app", Duration: 6 * time.Hour},
		}

		top := AnalyzeUsagePatterns(records).TopCategories

		assert.Len(t, top, 3)
		assert.Equal(t, CategoryOther, top[0].Category)
		assert.Equal(t, CategoryProductivity, top[1].Category)
		assert.Equal(t, CategoryEducation, top[2].Category)
	})

	t.Run("flags", func(t *testing.T) {
		records := []AppUsageRecord{
			{AppID: "com.netflix", Duration: 5 * time.Hour},
			{AppID: "com.slack", Duration: 3 * time.Hour},
			{AppID: "com.khanacademy", Duration: 2*time.Hour + 30*time.Minute},
		}

		analysis := AnalyzeUsagePatterns(records)

		assert.True(t, analysis.IsEntertainmentHeavy)
		assert.True(t, analysis.IsWorkFocused)
		assert.True(t, analysis.IsEducational)
		assert.False(t, analysis.IsProductive)
		assert.InDelta(t, 3.0, analysis.Hours(CategoryWorkCommunication), 1e-9)
	})

	t.Run("no usage", func(t *testing.T) {
		analysis := AnalyzeUsagePatterns(nil)

		assert.Zero(t, analysis.TotalHours)
		for _, b := range analysis.Breakdown {
			assert.Zero(t, b.Ratio)
		}
		assert.False(t, analysis.IsProductive)
	})
}

func TestAppCategory_TextRoundTrip(t *testing.T) {
	for _, cat := range AllCategories() {
		text, err := cat.MarshalText()
		assert.NoError(t, err)

		var decoded AppCategory
		assert.NoError(t, decoded.UnmarshalText(text))
		assert.Equal(t, cat, decoded)
	}

	var unknown AppCategory
	assert.NoError(t, unknown.UnmarshalText([]byte("gaming")))
	assert.Equal(t, CategoryOther, unknown)
}
