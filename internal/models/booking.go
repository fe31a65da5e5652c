package models

import (
	"time"

	"github.com/google/uuid"
)

// Booking statuses.
const (
	BookingPending   = "pending"
	BookingApproved  = "approved"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
)

// Payment statuses.
const (
	PaymentUnpaid   = "unpaid"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// Booking is a scheduled driving lesson. StartTime and EndTime are
// same-day "HH:MM" strings; EndTime is always StartTime plus Duration
// minutes, wrapping at midnight.
type Booking struct {
	BaseModel
	UserID        uuid.UUID  `gorm:"type:uuid;index" json:"user_id"`
	User          *User      `json:"user,omitempty"`
	InstructorID  uuid.UUID  `gorm:"type:uuid;index" json:"instructor_id"`
	Instructor    *User      `gorm:"foreignKey:InstructorID" json:"instructor,omitempty"`
	ClassTypeID   *uuid.UUID `gorm:"type:uuid" json:"class_type_id"`
	ClassType     *ClassType `json:"class_type,omitempty"`
	Location      string     `json:"location"`
	Date          time.Time  `gorm:"type:date;index" json:"date"`
	StartTime     string     `json:"start_time"`
	EndTime       string     `json:"end_time"`
	Duration      int        `json:"duration"`
	Status        string     `gorm:"default:pending" json:"status"`
	PaymentStatus string     `gorm:"default:unpaid" json:"payment_status"`
	Notes         string     `json:"notes"`
}
