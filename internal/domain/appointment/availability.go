package appointment

import "time"

type AvailabilityInput struct {
	TenantID   uint
	EmployeeID uint
	ServiceID  uint
	Date       time.Time
}

// Defaults are the service-wide fallbacks for tenant scheduling settings.
type Defaults struct {
	MinAdvanceHours     int
	MaxAdvanceDays      int
	SlotIntervalMinutes int
	BufferMinutes       int
}

// Settings are the effective scheduling parameters of one tenant.
type Settings struct {
	MinAdvance     time.Duration
	MaxAdvanceDays int
	SlotInterval   time.Duration
	Buffer         time.Duration
	AutoConfirm    bool
	Location       *time.Location
}
