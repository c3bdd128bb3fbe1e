package schedule

import (
	"sort"
	"time"
)

// Reasons a candidate start time is rejected. The empty reason means available.
type Reason string

const (
	ReasonNone                Reason = ""
	ReasonTooSoon             Reason = "too_soon"
	ReasonOutsideWorkingHours Reason = "outside_working_hours"
	ReasonBlocked             Reason = "blocked"
	ReasonTimeConflict        Reason = "time_conflict"
)

// SlotRequest is everything needed to judge candidates for one employee,
// service and day. Booked holds only pending/confirmed appointments.
type SlotRequest struct {
	Open          []Interval
	Blocks        []Interval
	Booked        []Interval
	Duration      time.Duration
	Step          time.Duration
	Buffer        time.Duration
	EarliestStart time.Time
}

type Slot struct {
	Time      time.Time `json:"time"`
	Available bool      `json:"available"`
	Reason    Reason    `json:"reason,omitempty"`
}

// Evaluate is the single availability predicate, shared by slot listing and
// by the commit-time re-check.
func Evaluate(req SlotRequest, start time.Time) Reason {
	window := Interval{Start: start, End: start.Add(req.Duration)}

	if start.Before(req.EarliestStart) {
		return ReasonTooSoon
	}

	if !containedInAny(window, req.Open) {
		return ReasonOutsideWorkingHours
	}

	if overlapsAny(window, req.Blocks) {
		return ReasonBlocked
	}

	// The buffer trails both the candidate and every existing booking.
	padded := window.Extend(req.Buffer)
	for _, b := range req.Booked {
		if padded.Overlaps(b.Extend(req.Buffer)) {
			return ReasonTimeConflict
		}
	}

	return ReasonNone
}

// GenerateSlots walks every open interval in Step increments and returns the
// candidates whose service window fits inside that interval, in
// chronological order. Overlapping intervals can produce the same start time
// twice; those are merged and the slot is available if any copy is.
func GenerateSlots(req SlotRequest) []Slot {
	if req.Duration <= 0 || req.Step <= 0 {
		return []Slot{}
	}

	byTime := make(map[int64]int)
	slots := make([]Slot, 0)

	for _, open := range req.Open {
		if !open.Valid() {
			continue
		}
		for t := open.Start; !t.Add(req.Duration).After(open.End); t = t.Add(req.Step) {
			reason := Evaluate(req, t)
			slot := Slot{Time: t, Available: reason == ReasonNone, Reason: reason}

			key := t.UnixNano()
			if idx, seen := byTime[key]; seen {
				if slot.Available && !slots[idx].Available {
					slots[idx] = slot
				}
				continue
			}

			byTime[key] = len(slots)
			slots = append(slots, slot)
		}
	}

	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].Time.Before(slots[j].Time)
	})

	return slots
}
