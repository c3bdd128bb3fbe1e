package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/BruksfildServices01/booking-engine/internal/models"
)

var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

// ParseWeekday accepts english names, three letter abbreviations and 0..6
// (0 = Sunday), case-insensitively.
func ParseWeekday(s string) (time.Weekday, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	if wd, ok := weekdayNames[key]; ok {
		return wd, true
	}
	if n, err := strconv.Atoi(key); err == nil && n >= 0 && n <= 6 {
		return time.Weekday(n), true
	}
	return 0, false
}

// ParseClock turns "HH:MM" into an offset from midnight.
func ParseClock(hm string) (time.Duration, bool) {
	t, err := time.Parse("15:04", strings.TrimSpace(hm))
	if err != nil {
		return 0, false
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, true
}

// At places an "HH:MM" clock on the calendar day of date, in date's location.
func At(date time.Time, hm string) (time.Time, bool) {
	t, err := time.Parse("15:04", strings.TrimSpace(hm))
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), 0, 0,
		date.Location(),
	), true
}

// DayFor returns the template entry for a weekday. Missing entries are
// reported as a disabled day.
func DayFor(template models.WeeklyHours, weekday time.Weekday) models.DayHours {
	for key, day := range template {
		if wd, ok := ParseWeekday(key); ok && wd == weekday {
			return day
		}
	}
	return models.DayHours{}
}

// ResolveWorkingHours returns the open intervals of date. Disabled days,
// unparsable clocks and ranges with start >= end yield nothing; no error is
// ever raised because the template is operator-entered.
func ResolveWorkingHours(template models.WeeklyHours, date time.Time) []Interval {
	day := DayFor(template, date.Weekday())
	if !day.Enabled {
		return nil
	}

	var out []Interval

	add := func(start, end string) {
		s, ok1 := At(date, start)
		e, ok2 := At(date, end)
		if !ok1 || !ok2 || !e.After(s) {
			return
		}
		out = append(out, Interval{Start: s, End: e})
	}

	add(day.Start, day.End)
	for _, shift := range day.Shifts {
		add(shift.Start, shift.End)
	}

	return out
}

// ErrInvalidWorkingHours is returned by ValidateWeeklyHours for templates the
// resolver would silently ignore.
var ErrInvalidWorkingHours = errors.New("invalid working hours")

// ValidateWeeklyHours is the write-side check: every key must name a weekday
// once, and enabled days need well-formed ranges with start before end.
func ValidateWeeklyHours(template models.WeeklyHours) error {
	seen := make(map[time.Weekday]bool, len(template))

	valid := func(start, end string) bool {
		s, ok1 := ParseClock(start)
		e, ok2 := ParseClock(end)
		return ok1 && ok2 && s < e
	}

	for key, day := range template {
		wd, ok := ParseWeekday(key)
		if !ok || seen[wd] {
			return fmt.Errorf("%w: weekday %q", ErrInvalidWorkingHours, key)
		}
		seen[wd] = true

		if !day.Enabled {
			continue
		}
		if !valid(day.Start, day.End) {
			return fmt.Errorf("%w: %s range %s-%s", ErrInvalidWorkingHours, key, day.Start, day.End)
		}
		for _, shift := range day.Shifts {
			if !valid(shift.Start, shift.End) {
				return fmt.Errorf("%w: %s shift %s-%s", ErrInvalidWorkingHours, key, shift.Start, shift.End)
			}
		}
	}
	return nil
}
