package dto

import "time"

type AppointmentListDTO struct {
	ID            uint      `json:"id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	Price         float64   `json:"price"`
	EmployeeID    uint      `json:"employee_id"`
	EmployeeName  string    `json:"employee_name"`
	ClientName    string    `json:"client_name"`
	ClientPhone   string    `json:"client_phone"`
	ServiceName   string    `json:"service_name"`
}
