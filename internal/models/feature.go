package models

import "time"

// Feature is a reusable, catalog-priced billable service line.
// Deletion is a soft delete via IsActive: inactive features disappear from
// listings but stay resolvable by id, so historical quotes keep a valid
// reference.
type Feature struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"not null" json:"description"`
	BasePrice   float64   `gorm:"not null" json:"basePrice"`
	Category    string    `gorm:"not null;index" json:"category"`
	IsActive    bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
