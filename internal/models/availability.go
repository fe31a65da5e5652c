package models

import "time"

// GlobalAvailability is one entry of the recurring weekly template.
// Day is 0 (Sunday) through 6 (Saturday). StartDate/EndDate optionally
// bound the entry to a validity window, so the same weekday can carry
// different hours for different seasons. Uniqueness is on the triple
// (day, start_date, end_date), not on day alone.
type GlobalAvailability struct {
	BaseModel
	Day         int        `gorm:"uniqueIndex:idx_global_availability_key" json:"day"`
	StartTime   string     `json:"start_time"`
	EndTime     string     `json:"end_time"`
	IsAvailable bool       `json:"is_available"`
	StartDate   *time.Time `gorm:"type:date;uniqueIndex:idx_global_availability_key" json:"start_date"`
	EndDate     *time.Time `gorm:"type:date;uniqueIndex:idx_global_availability_key" json:"end_date"`
}

// SpecialAvailability is a date-ranged override of the weekly template:
// holidays, reduced hours, one-off extended days. StartDate and EndDate
// are mandatory, and a matching special row always wins over the global
// template for dates inside its range.
type SpecialAvailability struct {
	BaseModel
	Day         int       `gorm:"uniqueIndex:idx_special_availability_key" json:"day"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	IsAvailable bool      `json:"is_available"`
	StartDate   time.Time `gorm:"type:date;uniqueIndex:idx_special_availability_key" json:"start_date"`
	EndDate     time.Time `gorm:"type:date;uniqueIndex:idx_special_availability_key" json:"end_date"`
}
