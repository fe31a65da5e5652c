package models

import "github.com/google/uuid"

// Location is a service area where lessons are offered.
type Location struct {
	BaseModel
	Name     string `gorm:"uniqueIndex" json:"name"`
	Address  string `json:"address"`
	IsActive bool   `gorm:"default:true" json:"is_active"`
}

// ClassType describes a lesson offering (e.g. beginner lesson, road
// test preparation) and its default duration.
type ClassType struct {
	BaseModel
	Name        string `json:"name"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`
}

// PricePackage is a purchasable bundle of lessons for a class type.
type PricePackage struct {
	BaseModel
	ClassTypeID *uuid.UUID `gorm:"type:uuid" json:"class_type_id"`
	ClassType   *ClassType `json:"class_type,omitempty"`
	Name        string     `json:"name"`
	LessonCount int        `json:"lesson_count"`
	Price       float64    `json:"price"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
}
