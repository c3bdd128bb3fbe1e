package appointment

import (
	"time"

	"github.com/BruksfildServices01/booking-engine/internal/models"
	"github.com/BruksfildServices01/booking-engine/internal/timezone"
)

// SettingsFor resolves a tenant's effective settings. Lead time and buffer
// accept zero; only negative values fall back. Interval and horizon must be
// positive.
func SettingsFor(t *models.Tenant, d Defaults) Settings {
	minAdvance := t.MinAdvanceHours
	if minAdvance < 0 {
		minAdvance = d.MinAdvanceHours
	}

	maxDays := t.MaxAdvanceDays
	if maxDays <= 0 {
		maxDays = d.MaxAdvanceDays
	}

	interval := t.SlotIntervalMinutes
	if interval <= 0 {
		interval = d.SlotIntervalMinutes
	}
	if interval <= 0 {
		interval = 30
	}

	buffer := t.BufferMinutes
	if buffer < 0 {
		buffer = d.BufferMinutes
	}

	return Settings{
		MinAdvance:     time.Duration(minAdvance) * time.Hour,
		MaxAdvanceDays: maxDays,
		SlotInterval:   time.Duration(interval) * time.Minute,
		Buffer:         time.Duration(buffer) * time.Minute,
		AutoConfirm:    t.AutoConfirm,
		Location:       timezone.Location(t.Timezone),
	}
}
