package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/debangshucode/client-management-system/internal/models"
)

// QuoteService encapsulates quote pricing and numbering. Persistence stays in
// the handlers; the service only needs a DB handle for number assignment.
type QuoteService struct{}

func NewQuoteService() *QuoteService { return &QuoteService{} }

// ComputeTotals derives subtotal, tax amount and total from quote lines.
// Each line contributes its effective unit price (custom override or the
// snapshotted base price) times quantity; taxPercent applies to the subtotal
// as a percentage. The same computation over the stored lines must reproduce
// the persisted figures.
func (s *QuoteService) ComputeTotals(items []models.QuoteItem, taxPercent float64) (subtotal, taxAmount, total float64) {
	for _, it := range items {
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		subtotal += it.UnitPrice() * float64(qty)
	}
	if taxPercent < 0 {
		taxPercent = 0
	}
	taxAmount = subtotal * taxPercent / 100
	total = subtotal + taxAmount
	return subtotal, taxAmount, total
}

// NextNumber assigns the next human-readable quote identifier, "Q" plus a
// four digit zero-padded sequence derived from the current quote count. Call
// it inside the creation transaction so the count and the insert see the same
// state. Numbers are monotonic but not gap-free once quotes are deleted.
func (s *QuoteService) NextNumber(tx *gorm.DB) (string, error) {
	var count int64
	if err := tx.Model(&models.Quote{}).Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("Q%04d", count+1), nil
}
