package models

import "time"

// Tenant is an independent business. Out-of-range scheduling settings fall
// back to the service-wide defaults.
type Tenant struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Name       string `gorm:"size:100;not null" json:"name"`
	Slug       string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Phone      string `gorm:"size:20" json:"phone"`
	Address    string `gorm:"size:255" json:"address"`
	Timezone   string `gorm:"size:64" json:"timezone"`
	OwnerEmail string `gorm:"size:100" json:"owner_email"`
	OwnerPhone string `gorm:"size:20" json:"owner_phone"`
	WebhookURL string `gorm:"size:255" json:"webhook_url"`

	MinAdvanceHours     int  `gorm:"default:2" json:"min_advance_hours"`
	MaxAdvanceDays      int  `gorm:"default:30" json:"max_advance_days"`
	SlotIntervalMinutes int  `gorm:"default:30" json:"slot_interval_minutes"`
	BufferMinutes       int  `gorm:"default:0" json:"buffer_between_appointments"`
	AutoConfirm         bool `gorm:"default:false" json:"auto_confirm"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
