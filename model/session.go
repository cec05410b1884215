package model

// PaymentStatus tracks whether a session has been settled.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentWaived  PaymentStatus = "waived"
)

// Valid reports whether s is one of the known statuses.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentWaived:
		return true
	}
	return false
}

const (
	MinSessionMinutes = 10
	MaxSessionMinutes = 180
)

// Session is one therapy encounter with a patient
// @Description Therapy session information
type Session struct {
	Document
	PatientID     string        `json:"patient_id" gorm:"column:patient_id;type:varchar(36);not null;index" example:"3f1c7f0e-8a4e-4d4b-9a59-1f1f3c1c2b7d"`
	Date          CalendarDate  `json:"date" gorm:"column:date;not null;index" example:"2025-01-15"`
	DurationMin   int           `json:"duration_min" gorm:"column:duration_min;not null" example:"45"`
	Focus         *string       `json:"focus" gorm:"column:focus" example:"Fine motor skills"`
	Notes         *string       `json:"notes" gorm:"column:notes;type:text"`
	PaymentStatus PaymentStatus `json:"payment_status" gorm:"column:payment_status;type:varchar(16);not null;default:pending" example:"pending"`
	Amount        *float64      `json:"amount" gorm:"column:amount" example:"50"`
}

// CreateSessionRequest is the payload for logging a session.
type CreateSessionRequest struct {
	PatientID     string   `json:"patient_id" binding:"required"`
	Date          string   `json:"date" binding:"required" example:"2025-01-15"`
	DurationMin   int      `json:"duration_min" binding:"required,min=10,max=180" example:"45"`
	Focus         *string  `json:"focus,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
	PaymentStatus string   `json:"payment_status,omitempty" binding:"omitempty,oneof=pending paid waived" example:"pending"`
	Amount        *float64 `json:"amount,omitempty" binding:"omitempty,gte=0" example:"50"`
}
