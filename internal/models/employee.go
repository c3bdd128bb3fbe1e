package models

import "time"

type Employee struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	TenantID uint   `gorm:"index;not null" json:"tenant_id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Email    string `gorm:"size:100" json:"email"`
	Phone    string `gorm:"size:20" json:"phone"`
	Active   bool   `gorm:"default:true" json:"active"`

	// Replaced wholesale on edit.
	WorkingHours WeeklyHours `gorm:"serializer:json;type:text" json:"working_hours"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
