package models

// WeeklyHours maps a weekday name ("monday", "mon" or "1") to that day's hours.
type WeeklyHours map[string]DayHours

type DayHours struct {
	Enabled bool   `json:"enabled"`
	Start   string `json:"start"`
	End     string `json:"end"`

	// Shifts are extra open ranges on the same day (split shifts).
	Shifts []Shift `json:"shifts,omitempty"`
}

type Shift struct {
	Start string `json:"start"`
	End   string `json:"end"`
}
