package models

import "time"

// Client has no login; phone is the dedup key within a tenant.
type Client struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	TenantID uint `gorm:"uniqueIndex:idx_client_tenant_phone;not null" json:"tenant_id"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Phone string `gorm:"size:20;uniqueIndex:idx_client_tenant_phone" json:"phone"`
	Email string `gorm:"size:100" json:"email"`

	VisitCount int     `gorm:"default:0" json:"visit_count"`
	TotalSpent float64 `gorm:"default:0" json:"total_spent"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
