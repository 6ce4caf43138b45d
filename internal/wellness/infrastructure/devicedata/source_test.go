package devicedata

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/moodscope/internal/wellness/domain"
)

func writeExport(t *testing.T, dir, user, name, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, user), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, user, name), []byte(body), 0o600))
}

func TestSource_MissingFilesYieldNoData(t *testing.T) {
	ctx := context.Background()
	src := NewSource(t.TempDir())
	now := time.Now()

	events, err := src.CallEvents(ctx, "u1", now)
	require.NoError(t, err)
	assert.Empty(t, events)

	screen, err := src.ScreenTime(ctx, "u1", now, now)
	require.NoError(t, err)
	assert.Empty(t, screen)

	apps, err := src.AppUsage(ctx, "u1", now)
	require.NoError(t, err)
	assert.Empty(t, apps)

	sleep, err := src.SleepSegments(ctx, "u1", now, now)
	require.NoError(t, err)
	assert.Empty(t, sleep)
}

func TestSource_CallEvents(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "u1", callsFile, `[
		{"counterparty_id":"a","type":"outgoing","duration_seconds":120,"timestamp":"2024-05-14T23:00:00Z"},
		{"counterparty_id":"b","type":"incoming","duration_seconds":60,"timestamp":"2024-05-15T09:00:00Z"},
		{"counterparty_id":"c","type":"missed","duration_seconds":0,"timestamp":"2024-05-15T10:00:00Z"}
	]`)

	events, err := NewSource(dir).CallEvents(context.Background(), "u1", time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, domain.CallIncoming, events[0].Type)
	assert.Equal(t, domain.CallMissed, events[1].Type)
}

func TestSource_ScreenTimeAndApps(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "u1", screenTimeFile, `[
		{"date":"2024-05-16","hours":2},
		{"date":"2024-05-14","hours":5.5},
		{"date":"2024-05-01","hours":9}
	]`)
	writeExport(t, dir, "u1", appUsageFile, `{
		"2024-05-15":[{"app_id":"com.slack","app_name":"Slack","usage_ms":5400000}],
		"2024-05-14":[{"app_id":"com.netflix.mediaclient","usage_ms":60000}]
	}`)
	src := NewSource(dir)
	ctx := context.Background()

	screen, err := src.ScreenTime(ctx, "u1",
		time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), time.Date(2024, 5, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, []domain.ScreenTimeData{{Date: "2024-05-14", Hours: 5.5}, {Date: "2024-05-16", Hours: 2}}, screen)

	apps, err := src.AppUsage(ctx, "u1", time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "Slack", apps[0].AppName)
	assert.Equal(t, 90*time.Minute, apps[0].Duration)
}

func TestSource_SleepSegments(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "u1", sleepFile, `[
		{"start":"2024-05-14T23:00:00Z","end":"2024-05-15T07:00:00Z","status":0},
		{"start":"2024-05-15T23:00:00Z","end":"2024-05-16T06:00:00Z","status":0}
	]`)

	segments, err := NewSource(dir).SleepSegments(context.Background(), "u1",
		time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC), time.Date(2024, 5, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Equal(t, 8*time.Hour, segments[0].Duration())
}

func TestSource_CorruptFileIsUnavailable(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "u1", callsFile, `{not json`)

	_, err := NewSource(dir).CallEvents(context.Background(), "u1", time.Time{})
	assert.ErrorIs(t, err, domain.ErrSignalUnavailable)
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestSource_PermissionDeniedIsUnavailable(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced for this user")
	}
	dir := t.TempDir()
	writeExport(t, dir, "u1", screenTimeFile, `[]`)
	require.NoError(t, os.Chmod(filepath.Join(dir, "u1", screenTimeFile), 0o000))

	_, err := NewSource(dir).ScreenTime(context.Background(), "u1", time.Time{}, time.Now())
	assert.ErrorIs(t, err, domain.ErrSignalUnavailable)
}

func TestSource_UserIDCannotLeaveTheExportDir(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "exports")
	writeExport(t, root, "secret", callsFile, `[]`)

	_, err := NewSource(dir).CallEvents(context.Background(), "../secret", time.Time{})
	assert.ErrorIs(t, err, domain.ErrSignalUnavailable)
}
