package models

import "time"

// User roles.
const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

// User represents a registered account: students booking lessons,
// instructors teaching them, admins managing the catalog.
type User struct {
	BaseModel
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `gorm:"uniqueIndex" json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	Role         string    `gorm:"default:student" json:"role"`
	IsVerified   bool      `json:"is_verified"`
	GoogleID     string    `gorm:"index" json:"-"`
	Bookings     []Booking `gorm:"foreignKey:UserID" json:"bookings,omitempty"`
}

// LoginAttempt is one recorded authentication attempt. Rows are
// append-only and never updated; the rate limiter reads them back
// with time-windowed counts.
type LoginAttempt struct {
	BaseModel
	Email       string    `gorm:"index:idx_login_attempts_key" json:"email"`
	IPAddress   string    `gorm:"index:idx_login_attempts_key" json:"ip_address"`
	Successful  bool      `json:"successful"`
	AttemptedAt time.Time `gorm:"index" json:"attempted_at"`
}
