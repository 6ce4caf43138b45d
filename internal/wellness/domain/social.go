package domain

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// DateLayout is the calendar-day key format used across the wellness context.
const DateLayout = "2006-01-02"

// DateKey formats t as a calendar day in loc.
func DateKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateLayout)
}

// CallType classifies a raw call event.
type CallType string

const (
	CallOutgoing CallType = "outgoing"
	CallIncoming CallType = "incoming"
	CallMissed   CallType = "missed"
	CallRejected CallType = "rejected"
)

// CallEvent is a single entry from the device call log.
type CallEvent struct {
	CounterpartyID  string    `json:"counterparty_id"`
	Type            CallType  `json:"type"`
	DurationSeconds float64   `json:"duration_seconds"`
	Timestamp       time.Time `json:"timestamp"`
}

// DailyInteractionSummary aggregates one calendar day of call activity.
type DailyInteractionSummary struct {
	Date           string  `json:"date"`
	OutgoingCount  int     `json:"outgoing_count"`
	IncomingCount  int     `json:"incoming_count"`
	MissedCount    int     `json:"missed_count"`
	RejectedCount  int     `json:"rejected_count"`
	AvgDuration    float64 `json:"avg_duration"`
	UniqueContacts int     `json:"unique_contacts"`
}

// Answered returns the number of answered calls.
func (s DailyInteractionSummary) Answered() int {
	return s.OutgoingCount + s.IncomingCount
}

// SummarizeDay aggregates events into a summary for date. Duration and
// distinct counterparties are counted for answered calls only.
func SummarizeDay(date string, events []CallEvent) DailyInteractionSummary {
	summary := DailyInteractionSummary{Date: date}
	contacts := make(map[string]struct{})
	var totalDuration float64

	for _, e := range events {
		switch e.Type {
		case CallOutgoing:
			summary.OutgoingCount++
		case CallIncoming:
			summary.IncomingCount++
		case CallMissed:
			summary.MissedCount++
			continue
		case CallRejected:
			summary.RejectedCount++
			continue
		default:
			continue
		}
		totalDuration += e.DurationSeconds
		if e.CounterpartyID != "" {
			contacts[e.CounterpartyID] = struct{}{}
		}
	}

	if answered := summary.Answered(); answered > 0 {
		summary.AvgDuration = totalDuration / float64(answered)
	}
	summary.UniqueContacts = len(contacts)
	return summary
}

// SummarizeByDay produces one summary per date in days, grouping events by
// their calendar day in loc. Days without events get an all-zero summary.
func SummarizeByDay(events []CallEvent, days []string, loc *time.Location) []DailyInteractionSummary {
	grouped := make(map[string][]CallEvent)
	for _, e := range events {
		key := DateKey(e.Timestamp, loc)
		grouped[key] = append(grouped[key], e)
	}

	summaries := make([]DailyInteractionSummary, 0, len(days))
	for _, day := range days {
		summaries = append(summaries, SummarizeDay(day, grouped[day]))
	}
	return summaries
}

// UpdateHistory inserts summary into history, replacing any entry for the same
// date, and keeps at most maxLen entries ordered newest first.
func UpdateHistory(history []DailyInteractionSummary, summary DailyInteractionSummary, maxLen int) []DailyInteractionSummary {
	updated := make([]DailyInteractionSummary, 0, len(history)+1)
	updated = append(updated, summary)
	for _, h := range history {
		if h.Date != summary.Date {
			updated = append(updated, h)
		}
	}

	sort.SliceStable(updated, func(i, j int) bool {
		return updated[i].Date > updated[j].Date
	})

	if maxLen > 0 && len(updated) > maxLen {
		updated = updated[:maxLen]
	}
	return updated
}

// InteractionBaseline is a user's rolling average of daily call activity.
type InteractionBaseline struct {
	AvgOutgoing       float64   `json:"avg_outgoing"`
	AvgIncoming       float64   `json:"avg_incoming"`
	AvgMissed         float64   `json:"avg_missed"`
	AvgRejected       float64   `json:"avg_rejected"`
	AvgDuration       float64   `json:"avg_duration"`
	AvgUniqueContacts float64   `json:"avg_unique_contacts"`
	Days              int       `json:"days"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ComputeBaseline averages the counters of history. Duration is weighted by
// answered calls so quiet days do not drag it down.
func ComputeBaseline(history []DailyInteractionSummary) (InteractionBaseline, error) {
	if len(history) == 0 {
		return InteractionBaseline{}, fmt.Errorf("%w: empty interaction history", ErrInsufficientData)
	}

	var b InteractionBaseline
	var weightedDuration float64
	var answered int
	for _, h := range history {
		b.AvgOutgoing += float64(h.OutgoingCount)
		b.AvgIncoming += float64(h.IncomingCount)
		b.AvgMissed += float64(h.MissedCount)
		b.AvgRejected += float64(h.RejectedCount)
		b.AvgUniqueContacts += float64(h.UniqueContacts)
		weightedDuration += h.AvgDuration * float64(h.Answered())
		answered += h.Answered()
	}

	n := float64(len(history))
	b.AvgOutgoing /= n
	b.AvgIncoming /= n
	b.AvgMissed /= n
	b.AvgRejected /= n
	b.AvgUniqueContacts /= n
	if answered > 0 {
		b.AvgDuration = weightedDuration / float64(answered)
	}
	b.Days = len(history)
	return b, nil
}

// Social score coefficients per unit of difference from the baseline.
const (
	outgoingWeight = 0.75
	incomingWeight = 0.4
	durationWeight = 1.0 / 150.0
	contactsWeight = 0.5
	missedWeight   = 1.0
	rejectedWeight = 1.5
)

// RawSocialScore is the unbounded weighted-delta score of today against baseline.
func RawSocialScore(today DailyInteractionSummary, baseline InteractionBaseline) float64 {
	score := NeutralScore
	score += (float64(today.OutgoingCount) - baseline.AvgOutgoing) * outgoingWeight
	score += (float64(today.IncomingCount) - baseline.AvgIncoming) * incomingWeight
	score += (today.AvgDuration - baseline.AvgDuration) * durationWeight
	score += (float64(today.UniqueContacts) - baseline.AvgUniqueContacts) * contactsWeight
	score -= (float64(today.MissedCount) - baseline.AvgMissed) * missedWeight
	score -= (float64(today.RejectedCount) - baseline.AvgRejected) * rejectedWeight
	return score
}

// SocialBounds returns the plausible best and worst raw scores for baseline.
func SocialBounds(baseline InteractionBaseline) (best, worst float64) {
	best = NeutralScore +
		outgoingWeight*baseline.AvgOutgoing +
		incomingWeight*baseline.AvgIncoming +
		contactsWeight*baseline.AvgUniqueContacts
	worst = NeutralScore -
		outgoingWeight*baseline.AvgOutgoing -
		missedWeight*baseline.AvgMissed -
		rejectedWeight*baseline.AvgRejected
	return best, worst
}

// NormalizeSocialScore maps raw onto [0,10] using the baseline's bounds.
// The neutral raw score maps to 5; each side scales against its own
// half-span so a day equal to the baseline stays neutral. The endpoints
// match the linear (raw-worst)/(best-worst)*10 mapping, but values in
// between differ from it whenever the bounds are asymmetric around 5.
func NormalizeSocialScore(raw float64, baseline InteractionBaseline) (float64, error) {
	best, worst := SocialBounds(baseline)
	if math.Abs(best-worst) < 1e-9 {
		return NeutralScore, fmt.Errorf("%w: best and worst case coincide", ErrComputationDegenerate)
	}

	up := best - NeutralScore
	down := NeutralScore - worst
	if up <= 0 {
		up = down
	}
	if down <= 0 {
		down = up
	}

	var normalized float64
	if raw >= NeutralScore {
		normalized = NeutralScore + (raw-NeutralScore)/up*NeutralScore
	} else {
		normalized = NeutralScore - (NeutralScore-raw)/down*NeutralScore
	}
	return ClampScore(normalized), nil
}

// ComputeSocialScore scores today's interactions against baseline on [0,10],
// rounded to one decimal. A degenerate baseline yields NeutralScore together
// with ErrComputationDegenerate.
func ComputeSocialScore(today DailyInteractionSummary, baseline InteractionBaseline) (float64, error) {
	score, err := NormalizeSocialScore(RawSocialScore(today, baseline), baseline)
	if err != nil {
		return NeutralScore, err
	}
	return Round1(score), nil
}

// SocialState is the baseline lifecycle of a user.
type SocialState string

const (
	SocialNoBaseline  SocialState = "no_baseline"
	SocialHasBaseline SocialState = "has_baseline"
)

// SocialStateOf reports whether a user can be scored.
func SocialStateOf(baseline *InteractionBaseline, history []DailyInteractionSummary) SocialState {
	if baseline != nil && len(history) > 0 {
		return SocialHasBaseline
	}
	return SocialNoBaseline
}

// HistoryPeriod is a named look-back window over interaction history.
type HistoryPeriod string

const (
	PeriodWeek    HistoryPeriod = "week"
	PeriodMonth   HistoryPeriod = "month"
	PeriodQuarter HistoryPeriod = "quarter"
)

// Days returns the length of the period in days.
func (p HistoryPeriod) Days() (int, error) {
	switch p {
	case PeriodWeek:
		return 7, nil
	case PeriodMonth:
		return 30, nil
	case PeriodQuarter:
		return 90, nil
	}
	return 0, fmt.Errorf("%w: unknown period %q", ErrInvalidWindow, p)
}

// DatedScore is a score attached to a calendar day.
type DatedScore struct {
	Date  string  `json:"date"`
	Score float64 `json:"score"`
}

// ScoreHistory scores every summary dated on or after since against
// baseline, oldest first.
func ScoreHistory(history []DailyInteractionSummary, baseline InteractionBaseline, since string) []DatedScore {
	scores := make([]DatedScore, 0, len(history))
	for _, h := range history {
		if h.Date < since {
			continue
		}
		scores = append(scores, DatedScore{
			Date:  h.Date,
			Score: OrNeutral(ComputeSocialScore(h, baseline)),
		})
	}
	sort.Slice(scores, func(i, j int) bool {
		return scores[i].Date < scores[j].Date
	})
	return scores
}
