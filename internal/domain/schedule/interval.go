package schedule

import "time"

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (i Interval) Valid() bool {
	return i.End.After(i.Start)
}

// Overlaps uses half-open semantics: touching intervals do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

// Contains reports whether o lies entirely inside i.
func (i Interval) Contains(o Interval) bool {
	return !o.Start.Before(i.Start) && !o.End.After(i.End)
}

func (i Interval) Extend(d time.Duration) Interval {
	return Interval{Start: i.Start, End: i.End.Add(d)}
}

func overlapsAny(target Interval, others []Interval) bool {
	for _, o := range others {
		if target.Overlaps(o) {
			return true
		}
	}
	return false
}

func containedInAny(target Interval, windows []Interval) bool {
	for _, w := range windows {
		if w.Contains(target) {
			return true
		}
	}
	return false
}
