package reportgen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/moodscope/internal/shared/infrastructure/breaker"
	"github.com/felixgeelhaar/moodscope/internal/wellness/domain"
)

func TestClient_GenerateMoodReport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/generate-mood-report", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req domain.MoodReportRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 6.2, req.AverageScore)
		assert.Equal(t, "stable", req.MoodPatterns.MoodFluctuations)

		_, _ = w.Write([]byte(`{"weekly_insights":["Calls were up"],"improvement_suggestions":["Sleep earlier"]}`))
	}))
	defer server.Close()

	report, err := NewClient(server.URL, nil).GenerateMoodReport(context.Background(), domain.MoodReportRequest{
		AverageScore: 6.2,
		MoodPatterns: domain.MoodPatterns{AverageMoodScore: 6, MoodFluctuations: "stable"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Calls were up"}, report.WeeklyInsights)
	assert.Equal(t, []string{"Sleep earlier"}, report.ImprovementSuggestions)
}

func TestClient_GenerateScreenTimeReport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/generate-screentime-report", r.URL.Path)
		_, _ = w.Write([]byte(`{"weekly_insights":[],"improvement_suggestions":["Take breaks"]}`))
	}))
	defer server.Close()

	report, err := NewClient(server.URL, nil).GenerateScreenTimeReport(context.Background(), domain.ScreenTimeReportRequest{
		DailyScreenTime: []domain.DailyScreenTime{{Date: "2024-05-15", TotalHours: 4}},
	})
	require.NoError(t, err)
	assert.Empty(t, report.WeeklyInsights)
	assert.Equal(t, []string{"Take breaks"}, report.ImprovementSuggestions)
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"server error", http.StatusInternalServerError, `{}`, domain.ErrSignalUnavailable},
		{"bad request", http.StatusBadRequest, `{"error":"bad"}`, domain.ErrSignalUnavailable},
		{"error field", http.StatusOK, `{"error":"quota exceeded"}`, domain.ErrMalformedResponse},
		{"missing suggestions", http.StatusOK, `{"weekly_insights":["a"]}`, domain.ErrMalformedResponse},
		{"wrong element type", http.StatusOK, `{"weekly_insights":[1],"improvement_suggestions":[]}`, domain.ErrMalformedResponse},
		{"not json", http.StatusOK, `<html>`, domain.ErrMalformedResponse},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			_, err := NewClient(server.URL, nil).GenerateMoodReport(context.Background(), domain.MoodReportRequest{})
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestClient_OpenBreakerShortCircuits(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	b := breaker.New(breaker.Config{Name: "report-api", FailureThreshold: 1, OpenTimeout: time.Minute}, nil, nil)
	client := NewClient(server.URL, nil).WithBreaker(b)

	_, err := client.GenerateMoodReport(context.Background(), domain.MoodReportRequest{})
	assert.ErrorIs(t, err, domain.ErrSignalUnavailable)
	_, err = client.GenerateMoodReport(context.Background(), domain.MoodReportRequest{})
	assert.ErrorIs(t, err, breaker.ErrOpen)
	assert.Equal(t, 1, calls)
}
