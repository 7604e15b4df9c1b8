package models

import "time"

// Client entity
type Client struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"not null;index" json:"name"`
	Email   string `gorm:"unique;not null" json:"email"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`
	Address string `json:"address,omitempty"`
	// Derived counters, maintained as a side effect of project creation.
	ProjectCount int       `gorm:"not null;default:0" json:"projectCount"`
	TotalValue   float64   `gorm:"not null;default:0" json:"totalValue"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
