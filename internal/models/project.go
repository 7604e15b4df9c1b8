package models

import "time"

// Project lifecycle statuses.
const (
	ProjectPlanning   = "planning"
	ProjectInProgress = "in-progress"
	ProjectCompleted  = "completed"
	ProjectOnHold     = "on-hold"
)

// ValidProjectStatus reports whether s is a known project status.
func ValidProjectStatus(s string) bool {
	switch s {
	case ProjectPlanning, ProjectInProgress, ProjectCompleted, ProjectOnHold:
		return true
	}
	return false
}

type Project struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `json:"description"`
	ClientID    uint       `gorm:"not null;index" json:"clientId"`
	Client      Client     `gorm:"foreignKey:ClientID" json:"client"`
	Status      string     `gorm:"not null;default:'planning'" json:"status"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	TotalValue  float64    `gorm:"not null;default:0" json:"totalValue"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
