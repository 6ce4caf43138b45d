package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	// Profiles name IANA zones; embed the database for hosts without one.
	_ "time/tzdata"
)

// Role is the life role a user identifies with.
type Role string

const (
	RoleStudent      Role = "student"
	RoleWorkingAdult Role = "working_adult"
	RoleProfessional Role = "professional"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleWorkingAdult, RoleProfessional:
		return true
	}
	return false
}

// IsWorking reports whether r is one of the employed roles.
func (r Role) IsWorking() bool {
	return r == RoleWorkingAdult || r == RoleProfessional
}

// WorkHours is a local wall-clock window in HH:MM form.
type WorkHours struct {
	Start string `json:"start" toml:"start"`
	End   string `json:"end" toml:"end"`
}

// Preferences holds optional scheduling preferences.
type Preferences struct {
	// WorkDays are lower-case weekday names. Nil means every day.
	WorkDays []string `json:"work_days,omitempty" toml:"work_days"`
	// StudyHours is a [start, end] pair of HH:MM strings.
	StudyHours []string `json:"study_hours,omitempty" toml:"study_hours"`
}

// UserProfile is the per-user configuration consumed by the scorers.
type UserProfile struct {
	Name        string      `json:"name" toml:"name"`
	Age         int         `json:"age" toml:"age"`
	Role        Role        `json:"role" toml:"role"`
	WorkHours   WorkHours   `json:"work_hours" toml:"work_hours"`
	Timezone    string      `json:"timezone" toml:"timezone"`
	Preferences Preferences `json:"preferences" toml:"preferences"`
}

// DefaultUserProfile returns the profile used when none has been stored.
func DefaultUserProfile() UserProfile {
	return UserProfile{
		Name:      "User",
		Age:       25,
		Role:      RoleWorkingAdult,
		WorkHours: WorkHours{Start: "09:00", End: "17:00"},
		Timezone:  "UTC",
		Preferences: Preferences{
			WorkDays: []string{"monday", "tuesday", "wednesday", "thursday", "friday"},
		},
	}
}

// Validate checks the profile fields.
func (p UserProfile) Validate() error {
	if !p.Role.IsValid() {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidProfile, p.Role)
	}
	if p.Age <= 0 || p.Age >= 130 {
		return fmt.Errorf("%w: age must be between 1 and 129", ErrInvalidProfile)
	}
	if _, ok := parseClock(p.WorkHours.Start); !ok {
		return fmt.Errorf("%w: invalid work start %q", ErrInvalidProfile, p.WorkHours.Start)
	}
	if _, ok := parseClock(p.WorkHours.End); !ok {
		return fmt.Errorf("%w: invalid work end %q", ErrInvalidProfile, p.WorkHours.End)
	}
	if _, err := time.LoadLocation(p.Timezone); err != nil {
		return fmt.Errorf("%w: unknown timezone %q", ErrInvalidProfile, p.Timezone)
	}
	for _, day := range p.Preferences.WorkDays {
		if _, ok := parseWeekday(day); !ok {
			return fmt.Errorf("%w: unknown work day %q", ErrInvalidProfile, day)
		}
	}
	if study := p.Preferences.StudyHours; len(study) > 0 {
		if len(study) != 2 {
			return fmt.Errorf("%w: study hours need a start and an end", ErrInvalidProfile)
		}
		for _, s := range study {
			if _, ok := parseClock(s); !ok {
				return fmt.Errorf("%w: invalid study hour %q", ErrInvalidProfile, s)
			}
		}
	}
	return nil
}

// Location resolves the profile timezone, falling back to UTC.
func (p UserProfile) Location() *time.Location {
	if p.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IsWorkDay reports whether the weekday of t is a configured work day.
func (p UserProfile) IsWorkDay(t time.Time) bool {
	if p.Preferences.WorkDays == nil {
		return true
	}
	for _, day := range p.Preferences.WorkDays {
		if wd, ok := parseWeekday(day); ok && wd == t.Weekday() {
			return true
		}
	}
	return false
}

// parseClock converts HH:MM into minutes since midnight.
func parseClock(s string) (int, bool) {
	h, m, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found {
		return 0, false
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}

func parseWeekday(s string) (time.Weekday, bool) {
	name := strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.ToLower(d.String()) == name {
			return d, true
		}
	}
	return time.Sunday, false
}

// TimeContext classifies a moment as work, study or leisure.
type TimeContext string

const (
	TimeContextWork    TimeContext = "work"
	TimeContextStudy   TimeContext = "study"
	TimeContextLeisure TimeContext = "leisure"
)

// TimeContextAt classifies now against the profile's wall-clock windows,
// evaluated in the profile's timezone. Unparseable windows never match.
func TimeContextAt(p UserProfile, now time.Time) TimeContext {
	local := now.In(p.Location())
	minutes := local.Hour()*60 + local.Minute()

	if p.inWorkHours(local, minutes) {
		return TimeContextWork
	}

	if p.Role == RoleStudent && len(p.Preferences.StudyHours) == 2 {
		from, okFrom := parseClock(p.Preferences.StudyHours[0])
		to, okTo := parseClock(p.Preferences.StudyHours[1])
		if okFrom && okTo && local.Hour() >= from/60 && local.Hour() <= to/60 {
			return TimeContextStudy
		}
	}

	return TimeContextLeisure
}

// inWorkHours reports whether local falls in the work window of a work day.
// A window whose start is after its end runs overnight; its early-morning
// part belongs to the shift that began the day before.
func (p UserProfile) inWorkHours(local time.Time, minutes int) bool {
	start, okStart := parseClock(p.WorkHours.Start)
	end, okEnd := parseClock(p.WorkHours.End)
	if !okStart || !okEnd {
		return false
	}
	if start <= end {
		return minutes >= start && minutes <= end && p.IsWorkDay(local)
	}
	if minutes >= start {
		return p.IsWorkDay(local)
	}
	return minutes <= end && p.IsWorkDay(local.AddDate(0, 0, -1))
}

// Weights are the per-signal weights used to combine daily scores.
type Weights struct {
	Mood       float64 `json:"mood"`
	Social     float64 `json:"social"`
	WorkStress float64 `json:"work_stress"`
	ScreenTime float64 `json:"screen_time"`
}

// Sum returns the total of all four weights.
func (w Weights) Sum() float64 {
	return w.Mood + w.Social + w.WorkStress + w.ScreenTime
}

// WeightsFor returns the weight vector for a role. Age does not currently
// change the result.
func WeightsFor(age int, role Role) Weights {
	switch role {
	case RoleStudent:
		return Weights{Mood: 0.40, Social: 0.25, WorkStress: 0.15, ScreenTime: 0.20}
	case RoleWorkingAdult:
		return Weights{Mood: 0.35, Social: 0.20, WorkStress: 0.30, ScreenTime: 0.15}
	case RoleProfessional:
		return Weights{Mood: 0.30, Social: 0.25, WorkStress: 0.25, ScreenTime: 0.20}
	default:
		return Weights{Mood: 0.40, Social: 0.25, WorkStress: 0.20, ScreenTime: 0.15}
	}
}
