package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/debangshucode/client-management-system/internal/models"
)

func TestProjectCreateIncrementsClientCounter(t *testing.T) {
	conn := setupTestDB(t)
	h := NewProjectHandler(conn)
	c := seedClient(t, conn, "acme@example.com")

	body := `{"title":"Website","description":"Marketing site","clientId":` + itoa(c.ID) + `}`
	req := httptest.NewRequest(http.MethodPost, "/projects", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.Create(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", rr.Code, rr.Body.String())
	}

	var created models.Project
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Status != models.ProjectPlanning {
		t.Fatalf("default status = %q, want planning", created.Status)
	}
	if created.Client.Name == "" {
		t.Fatal("response should join the client")
	}

	var client models.Client
	conn.First(&client, c.ID)
	if client.ProjectCount != 1 {
		t.Fatalf("projectCount = %d, want 1", client.ProjectCount)
	}
}

func TestProjectCreateUnknownClient(t *testing.T) {
	conn := setupTestDB(t)
	h := NewProjectHandler(conn)

	req := httptest.NewRequest(http.MethodPost, "/projects", strings.NewReader(`{"title":"Orphan","clientId":42}`))
	rr := httptest.NewRecorder()
	h.Create(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
	var count int64
	conn.Model(&models.Project{}).Count(&count)
	if count != 0 {
		t.Fatal("no project should be created for an unknown client")
	}
}

func TestProjectCreateInvalidStatus(t *testing.T) {
	conn := setupTestDB(t)
	h := NewProjectHandler(conn)
	c := seedClient(t, conn, "acme@example.com")

	body := `{"title":"Website","clientId":` + itoa(c.ID) + `,"status":"archived"}`
	rr := httptest.NewRecorder()
	h.Create(rr, httptest.NewRequest(http.MethodPost, "/projects", strings.NewReader(body)))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
}

func TestProjectUpdateStatus(t *testing.T) {
	conn := setupTestDB(t)
	h := NewProjectHandler(conn)
	c := seedClient(t, conn, "acme@example.com")
	p := seedProject(t, conn, c.ID)

	req := withID(httptest.NewRequest(http.MethodPut, "/projects/1", strings.NewReader(`{"status":"completed"}`)), itoa(p.ID))
	rr := httptest.NewRecorder()
	h.Update(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", rr.Code, rr.Body.String())
	}
	var updated models.Project
	conn.First(&updated, p.ID)
	if updated.Status != models.ProjectCompleted {
		t.Fatalf("status = %q, want completed", updated.Status)
	}
}

func TestProjectDeleteRestrictedWithQuotes(t *testing.T) {
	conn := setupTestDB(t)
	h := NewProjectHandler(conn)
	c := seedClient(t, conn, "acme@example.com")
	p := seedProject(t, conn, c.ID)
	q := models.Quote{ClientID: c.ID, ProjectID: p.ID, QuoteNumber: "Q0001", Status: models.QuoteDraft}
	if err := conn.Create(&q).Error; err != nil {
		t.Fatalf("quote: %v", err)
	}

	rr := httptest.NewRecorder()
	h.Delete(rr, withID(httptest.NewRequest(http.MethodDelete, "/projects/1", nil), itoa(p.ID)))
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rr.Code)
	}
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
