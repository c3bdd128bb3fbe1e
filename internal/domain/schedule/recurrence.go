package schedule

import (
	"errors"
	"time"
)

var ErrInvalidDailyRange = errors.New("daily range must be HH:MM with start before end")

// DailyRule is a "same clock range every day" recurrence, e.g. a lunch break.
type DailyRule struct {
	Start string
	End   string

	// Skip, when set, excludes one weekday from the rule.
	Skip *time.Weekday
}

func (r DailyRule) Validate() error {
	s, ok1 := ParseClock(r.Start)
	e, ok2 := ParseClock(r.End)
	if !ok1 || !ok2 || e <= s {
		return ErrInvalidDailyRange
	}
	return nil
}

// Materialize expands the rule into one interval per calendar day starting at
// from (inclusive) for the given number of days. Days are built with
// time.Date in from's location so DST shifts keep the wall clock.
func (r DailyRule) Materialize(from time.Time, days int) ([]Interval, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	out := make([]Interval, 0, days)
	for i := 0; i < days; i++ {
		day := time.Date(from.Year(), from.Month(), from.Day()+i, 0, 0, 0, 0, from.Location())
		if r.Skip != nil && day.Weekday() == *r.Skip {
			continue
		}

		start, _ := At(day, r.Start)
		end, _ := At(day, r.End)
		out = append(out, Interval{Start: start, End: end})
	}

	return out, nil
}

// Chunk splits n items into consecutive [lo, hi) ranges of at most size.
func Chunk(n, size int) [][2]int {
	if size <= 0 {
		size = n
	}
	var out [][2]int
	for lo := 0; lo < n; lo += size {
		hi := lo + size
		if hi > n {
			hi = n
		}
		out = append(out, [2]int{lo, hi})
	}
	return out
}
