package services

import (
	"gorm.io/gorm"

	"github.com/debangshucode/client-management-system/internal/models"
)

// DashboardService computes the read-only summary shown on the dashboard.
// The counts come from independent queries; there is no snapshot guarantee
// under concurrent writes, which is acceptable for a reporting view.
type DashboardService struct {
	DB *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService { return &DashboardService{DB: db} }

type DashboardCounts struct {
	Clients        int64   `json:"clients"`
	Projects       int64   `json:"projects"`
	ActiveProjects int64   `json:"activeProjects"`
	Quotes         int64   `json:"quotes"`
	TotalValue     float64 `json:"totalValue"`
}

type DashboardStats struct {
	Stats        DashboardCounts `json:"stats"`
	RecentQuotes []models.Quote  `json:"recentQuotes"`
}

// Compute gathers entity counts, the revenue total over sent and accepted
// quotes, and the five most recent quotes with client and project joined.
func (s *DashboardService) Compute() (*DashboardStats, error) {
	var out DashboardStats
	if err := s.DB.Model(&models.Client{}).Count(&out.Stats.Clients).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Project{}).Count(&out.Stats.Projects).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Project{}).
		Where("status IN ?", []string{models.ProjectPlanning, models.ProjectInProgress}).
		Count(&out.Stats.ActiveProjects).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Quote{}).Count(&out.Stats.Quotes).Error; err != nil {
		return nil, err
	}
	// Drafts and rejected quotes are excluded from revenue.
	if err := s.DB.Model(&models.Quote{}).
		Where("status IN ?", []string{models.QuoteSent, models.QuoteAccepted}).
		Select("COALESCE(SUM(total), 0)").
		Scan(&out.Stats.TotalValue).Error; err != nil {
		return nil, err
	}
	if err := s.DB.
		Preload("Client").
		Preload("Project").
		Preload("Items").
		Order("created_at desc").
		Limit(5).
		Find(&out.RecentQuotes).Error; err != nil {
		return nil, err
	}
	return &out, nil
}
