package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	TenantID uint   `gorm:"index;not null" json:"tenant_id"`
	Tenant   Tenant `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	EmployeeID uint     `gorm:"index:idx_appointment_employee_range;not null" json:"employee_id"`
	Employee   Employee `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"employee,omitempty"`

	ClientID uint   `json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client,omitempty"`

	ServiceID uint    `json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service,omitempty"`

	// EndTime is frozen at creation; later service duration edits do not move it.
	StartTime time.Time `gorm:"index:idx_appointment_employee_range" json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	Status        string `gorm:"size:20;default:'pending';index" json:"status"`
	PaymentStatus string `gorm:"size:20;default:'pending'" json:"payment_status"`
	PaymentMethod string `gorm:"size:30" json:"payment_method"`

	Price              float64 `json:"price"`
	Notes              string  `gorm:"size:255" json:"notes"`
	CancellationReason string  `gorm:"size:255" json:"cancellation_reason"`

	ConfirmedAt *time.Time `json:"confirmed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
