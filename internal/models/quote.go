package models

import "time"

// Quote lifecycle statuses. Transitions are deliberately unconstrained: any
// status may be set from any other, only enum membership is validated.
const (
	QuoteDraft    = "draft"
	QuoteSent     = "sent"
	QuoteAccepted = "accepted"
	QuoteRejected = "rejected"
)

// ValidQuoteStatus reports whether s is a known quote status.
func ValidQuoteStatus(s string) bool {
	switch s {
	case QuoteDraft, QuoteSent, QuoteAccepted, QuoteRejected:
		return true
	}
	return false
}

// Quote is a priced proposal for a client/project pair. Tax is a percentage
// (10 means 10%), not an amount.
type Quote struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	ClientID    uint        `gorm:"not null;index" json:"clientId"`
	Client      Client      `gorm:"foreignKey:ClientID" json:"client"`
	ProjectID   uint        `gorm:"not null;index" json:"projectId"`
	Project     Project     `gorm:"foreignKey:ProjectID" json:"project"`
	QuoteNumber string      `gorm:"uniqueIndex;not null" json:"quoteNumber"`
	Items       []QuoteItem `gorm:"foreignKey:QuoteID" json:"features"`
	Subtotal    float64     `gorm:"not null" json:"subtotal"`
	Tax         float64     `gorm:"not null;default:0" json:"tax"`
	Total       float64     `gorm:"not null" json:"total"`
	Status      string      `gorm:"not null;default:'draft'" json:"status"`
	ValidUntil  *time.Time  `json:"validUntil,omitempty"`
	Notes       string      `json:"notes,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// QuoteItem snapshots a catalog feature at quote-creation time. Title,
// description and base price are copied so later catalog edits never alter a
// stored quote.
type QuoteItem struct {
	ID          uint     `gorm:"primaryKey" json:"-"`
	QuoteID     uint     `gorm:"not null;index" json:"-"`
	FeatureID   uint     `gorm:"not null" json:"featureId"`
	Title       string   `gorm:"not null" json:"title"`
	Description string   `json:"description"`
	BasePrice   float64  `gorm:"not null" json:"basePrice"`
	CustomPrice *float64 `json:"customPrice,omitempty"`
	Quantity    int      `gorm:"not null;default:1" json:"quantity"`
}

// UnitPrice is the effective per-unit price of the line: the custom override
// when present, the snapshotted base price otherwise.
func (it QuoteItem) UnitPrice() float64 {
	if it.CustomPrice != nil {
		return *it.CustomPrice
	}
	return it.BasePrice
}
