package models

import "time"

const RecurrenceDailyLunch = "daily_lunch"

type ScheduleBlock struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	TenantID   uint `gorm:"index;not null" json:"tenant_id"`
	EmployeeID uint `gorm:"index:idx_block_employee_range;not null" json:"employee_id"`

	StartTime time.Time `gorm:"index:idx_block_employee_range" json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Reason    string    `gorm:"size:255" json:"reason"`

	Recurring      bool   `gorm:"default:false" json:"recurring"`
	RecurrenceRule string `gorm:"size:50" json:"recurrence_rule,omitempty"`
	RecurrenceID   string `gorm:"size:36;index" json:"recurrence_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
