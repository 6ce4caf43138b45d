// Package devicedata reads call logs, usage statistics and sleep segments
// exported by the device into a per-user directory:
//
//	<dir>/<user>/calls.json       call log events
//	<dir>/<user>/screentime.json  daily screen time totals
//	<dir>/<user>/app_usage.json   per-day app usage, keyed by date
//	<dir>/<user>/sleep.json       detected sleep segments
//
// A missing file means the device exported nothing and yields no data. An
// unreadable file means the platform denied access and wraps
// domain.ErrSignalUnavailable.
package devicedata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"time"

	"github.com/felixgeelhaar/moodscope/internal/shared/infrastructure/security"
	"github.com/felixgeelhaar/moodscope/internal/wellness/domain"
)

const (
	callsFile      = "calls.json"
	screenTimeFile = "screentime.json"
	appUsageFile   = "app_usage.json"
	sleepFile      = "sleep.json"
)

// Source implements domain.CallEventSource, domain.UsageStatsSource and
// domain.SleepSource.
type Source struct {
	dir string
}

// NewSource reads exports below dir.
func NewSource(dir string) *Source {
	return &Source{dir: dir}
}

type appUsageEntry struct {
	AppID       string `json:"app_id"`
	AppName     string `json:"app_name,omitempty"`
	UsageMillis int64  `json:"usage_ms"`
}

func (s *Source) CallEvents(_ context.Context, userID string, since time.Time) ([]domain.CallEvent, error) {
	var events []domain.CallEvent
	if err := s.read(userID, callsFile, &events); err != nil {
		return nil, err
	}
	out := events[:0]
	for _, e := range events {
		if !e.Timestamp.Before(since) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Source) ScreenTime(_ context.Context, userID string, from, to time.Time) ([]domain.ScreenTimeData, error) {
	var data []domain.ScreenTimeData
	if err := s.read(userID, screenTimeFile, &data); err != nil {
		return nil, err
	}
	lo, hi := from.Format(domain.DateLayout), to.Format(domain.DateLayout)
	out := data[:0]
	for _, d := range data {
		if d.Date >= lo && d.Date <= hi {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (s *Source) AppUsage(_ context.Context, userID string, day time.Time) ([]domain.AppUsageRecord, error) {
	var byDay map[string][]appUsageEntry
	if err := s.read(userID, appUsageFile, &byDay); err != nil {
		return nil, err
	}
	entries := byDay[day.Format(domain.DateLayout)]
	records := make([]domain.AppUsageRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, domain.AppUsageRecord{
			AppID:    e.AppID,
			AppName:  e.AppName,
			Duration: time.Duration(e.UsageMillis) * time.Millisecond,
		})
	}
	return records, nil
}

func (s *Source) SleepSegments(_ context.Context, userID string, from, to time.Time) ([]domain.SleepSegment, error) {
	var segments []domain.SleepSegment
	if err := s.read(userID, sleepFile, &segments); err != nil {
		return nil, err
	}
	out := segments[:0]
	for _, seg := range segments {
		if !seg.End.Before(from) && seg.End.Before(to) {
			out = append(out, seg)
		}
	}
	return out, nil
}

func (s *Source) read(userID, name string, dst any) error {
	data, err := security.ReadFileInDir(s.dir, userID, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", domain.ErrSignalUnavailable, name, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: %w: decode %s: %v", domain.ErrSignalUnavailable, domain.ErrMalformedResponse, name, err)
	}
	return nil
}
