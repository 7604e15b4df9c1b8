package handlers

import (
	"net/http"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/debangshucode/client-management-system/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.User{}, &models.Client{}, &models.Project{},
		&models.Feature{}, &models.Quote{}, &models.QuoteItem{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func seedClient(t *testing.T, conn *gorm.DB, email string) models.Client {
	t.Helper()
	c := models.Client{Name: "Client " + email, Email: email}
	if err := conn.Create(&c).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}
	return c
}

func seedProject(t *testing.T, conn *gorm.DB, clientID uint) models.Project {
	t.Helper()
	p := models.Project{Title: "Project", ClientID: clientID, Status: models.ProjectPlanning}
	if err := conn.Create(&p).Error; err != nil {
		t.Fatalf("seed project: %v", err)
	}
	return p
}

func seedFeature(t *testing.T, conn *gorm.DB, title string, price float64) models.Feature {
	t.Helper()
	f := models.Feature{Title: title, Description: "desc", BasePrice: price, Category: "web", IsActive: true}
	if err := conn.Create(&f).Error; err != nil {
		t.Fatalf("seed feature: %v", err)
	}
	return f
}

// withID rewrites a request so mux path values resolve without a router.
func withID(r *http.Request, id string) *http.Request {
	r.SetPathValue("id", id)
	return r
}
