package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/debangshucode/client-management-system/internal/models"
	"github.com/debangshucode/client-management-system/internal/services"
)

func TestQuoteCreatePricingScenario(t *testing.T) {
	conn := setupTestDB(t)
	h := NewQuoteHandler(conn, services.NewQuoteService())
	c := seedClient(t, conn, "acme@example.com")
	p := seedProject(t, conn, c.ID)
	f1 := seedFeature(t, conn, "Landing page", 100)
	f2 := seedFeature(t, conn, "Contact form", 50)

	body := `{"clientId":` + itoa(c.ID) + `,"projectId":` + itoa(p.ID) + `,"tax":10,
		"features":[{"featureId":` + itoa(f1.ID) + `,"quantity":2},{"featureId":` + itoa(f2.ID) + `,"quantity":1}]}`
	rr := httptest.NewRecorder()
	h.Create(rr, httptest.NewRequest(http.MethodPost, "/quotes", strings.NewReader(body)))
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", rr.Code, rr.Body.String())
	}

	var quote models.Quote
	if err := json.Unmarshal(rr.Body.Bytes(), &quote); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if quote.Subtotal != 250 {
		t.Fatalf("subtotal = %v, want 250", quote.Subtotal)
	}
	if quote.Total != 275 {
		t.Fatalf("total = %v, want 275", quote.Total)
	}
	if quote.QuoteNumber != "Q0001" {
		t.Fatalf("quoteNumber = %q, want Q0001", quote.QuoteNumber)
	}
	if quote.Status != models.QuoteDraft {
		t.Fatalf("status = %q, want draft", quote.Status)
	}
	if len(quote.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(quote.Items))
	}
	if quote.Client.Name == "" || quote.Project.Title == "" {
		t.Fatal("response should join client and project")
	}
}

func TestQuoteNumberingMonotonic(t *testing.T) {
	conn := setupTestDB(t)
	h := NewQuoteHandler(conn, services.NewQuoteService())
	c := seedClient(t, conn, "acme@example.com")
	p := seedProject(t, conn, c.ID)
	f := seedFeature(t, conn, "Landing page", 100)

	want := []string{"Q0001", "Q0002", "Q0003"}
	for _, n := range want {
		body := `{"clientId":` + itoa(c.ID) + `,"projectId":` + itoa(p.ID) + `,"features":[{"featureId":` + itoa(f.ID) + `}]}`
		rr := httptest.NewRecorder()
		h.Create(rr, httptest.NewRequest(http.MethodPost, "/quotes", strings.NewReader(body)))
		if rr.Code != http.StatusCreated {
			t.Fatalf("expected 201 got %d", rr.Code)
		}
		var quote models.Quote
		if err := json.Unmarshal(rr.Body.Bytes(), &quote); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if quote.QuoteNumber != n {
			t.Fatalf("quoteNumber = %q, want %q", quote.QuoteNumber, n)
		}
	}
}

func TestQuoteSnapshotIsolation(t *testing.T) {
	conn := setupTestDB(t)
	h := NewQuoteHandler(conn, services.NewQuoteService())
	c := seedClient(t, conn, "acme@example.com")
	p := seedProject(t, conn, c.ID)
	f := seedFeature(t, conn, "Landing page", 100)

	body := `{"clientId":` + itoa(c.ID) + `,"projectId":` + itoa(p.ID) + `,"features":[{"featureId":` + itoa(f.ID) + `,"quantity":1}]}`
	rr := httptest.NewRecorder()
	h.Create(rr, httptest.NewRequest(http.MethodPost, "/quotes", strings.NewReader(body)))
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rr.Code)
	}

	// Reprice the catalog feature after the quote exists.
	if err := conn.Model(&models.Feature{}).Where("id = ?", f.ID).Update("base_price", 999).Error; err != nil {
		t.Fatalf("update feature: %v", err)
	}

	var item models.QuoteItem
	if err := conn.Where("feature_id = ?", f.ID).First(&item).Error; err != nil {
		t.Fatalf("load item: %v", err)
	}
	if item.BasePrice != 100 {
		t.Fatalf("snapshot price = %v, want 100 despite catalog edit", item.BasePrice)
	}

	// Stored totals still reproduce from the snapshot.
	var quote models.Quote
	if err := conn.Preload("Items").First(&quote).Error; err != nil {
		t.Fatalf("load quote: %v", err)
	}
	subtotal, _, total := services.NewQuoteService().ComputeTotals(quote.Items, quote.Tax)
	if subtotal != quote.Subtotal || total != quote.Total {
		t.Fatalf("recomputed %v/%v != stored %v/%v", subtotal, total, quote.Subtotal, quote.Total)
	}
}

func TestQuoteCreateEmptyFeatures(t *testing.T) {
	conn := setupTestDB(t)
	h := NewQuoteHandler(conn, services.NewQuoteService())
	c := seedClient(t, conn, "acme@example.com")
	p := seedProject(t, conn, c.ID)

	body := `{"clientId":` + itoa(c.ID) + `,"projectId":` + itoa(p.ID) + `,"features":[]}`
	rr := httptest.NewRecorder()
	h.Create(rr, httptest.NewRequest(http.MethodPost, "/quotes", strings.NewReader(body)))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
	var count int64
	conn.Model(&models.Quote{}).Count(&count)
	if count != 0 {
		t.Fatal("no quote should persist on validation failure")
	}
}

func TestQuoteCreateUnknownReferences(t *testing.T) {
	conn := setupTestDB(t)
	h := NewQuoteHandler(conn, services.NewQuoteService())
	c := seedClient(t, conn, "acme@example.com")
	p := seedProject(t, conn, c.ID)

	// Unknown feature
	body := `{"clientId":` + itoa(c.ID) + `,"projectId":` + itoa(p.ID) + `,"features":[{"featureId":404}]}`
	rr := httptest.NewRecorder()
	h.Create(rr, httptest.NewRequest(http.MethodPost, "/quotes", strings.NewReader(body)))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unknown feature: expected 400 got %d", rr.Code)
	}

	// Unknown project
	f := seedFeature(t, conn, "Landing page", 100)
	body = `{"clientId":` + itoa(c.ID) + `,"projectId":404,"features":[{"featureId":` + itoa(f.ID) + `}]}`
	rr = httptest.NewRecorder()
	h.Create(rr, httptest.NewRequest(http.MethodPost, "/quotes", strings.NewReader(body)))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unknown project: expected 400 got %d", rr.Code)
	}
}

func TestQuoteCustomPriceOverride(t *testing.T) {
	conn := setupTestDB(t)
	h := NewQuoteHandler(conn, services.NewQuoteService())
	c := seedClient(t, conn, "acme@example.com")
	p := seedProject(t, conn, c.ID)
	f := seedFeature(t, conn, "Landing page", 100)

	body := `{"clientId":` + itoa(c.ID) + `,"projectId":` + itoa(p.ID) + `,"features":[{"featureId":` + itoa(f.ID) + `,"quantity":2,"customPrice":80}]}`
	rr := httptest.NewRecorder()
	h.Create(rr, httptest.NewRequest(http.MethodPost, "/quotes", strings.NewReader(body)))
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rr.Code)
	}
	var quote models.Quote
	if err := json.Unmarshal(rr.Body.Bytes(), &quote); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if quote.Subtotal != 160 {
		t.Fatalf("subtotal = %v, want 160 with custom price", quote.Subtotal)
	}
}

func TestQuoteSetStatus(t *testing.T) {
	conn := setupTestDB(t)
	h := NewQuoteHandler(conn, services.NewQuoteService())
	c := seedClient(t, conn, "acme@example.com")
	p := seedProject(t, conn, c.ID)
	q := models.Quote{ClientID: c.ID, ProjectID: p.ID, QuoteNumber: "Q0001", Status: models.QuoteDraft}
	if err := conn.Create(&q).Error; err != nil {
		t.Fatalf("quote: %v", err)
	}

	req := withID(httptest.NewRequest(http.MethodPatch, "/quotes/1/status", strings.NewReader(`{"status":"sent"}`)), itoa(q.ID))
	rr := httptest.NewRecorder()
	h.SetStatus(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", rr.Code, rr.Body.String())
	}
	var updated models.Quote
	conn.First(&updated, q.ID)
	if updated.Status != models.QuoteSent {
		t.Fatalf("status = %q, want sent", updated.Status)
	}

	// Unknown enum value is rejected.
	req = withID(httptest.NewRequest(http.MethodPatch, "/quotes/1/status", strings.NewReader(`{"status":"archived"}`)), itoa(q.ID))
	rr = httptest.NewRecorder()
	h.SetStatus(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}

	// Any known value from any other is fine, accepted back to draft included.
	req = withID(httptest.NewRequest(http.MethodPatch, "/quotes/1/status", strings.NewReader(`{"status":"draft"}`)), itoa(q.ID))
	rr = httptest.NewRecorder()
	h.SetStatus(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
}

func TestQuoteUpdateTaxRecomputesTotals(t *testing.T) {
	conn := setupTestDB(t)
	h := NewQuoteHandler(conn, services.NewQuoteService())
	c := seedClient(t, conn, "acme@example.com")
	p := seedProject(t, conn, c.ID)
	f := seedFeature(t, conn, "Landing page", 100)

	body := `{"clientId":` + itoa(c.ID) + `,"projectId":` + itoa(p.ID) + `,"tax":0,"features":[{"featureId":` + itoa(f.ID) + `,"quantity":2}]}`
	rr := httptest.NewRecorder()
	h.Create(rr, httptest.NewRequest(http.MethodPost, "/quotes", strings.NewReader(body)))
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rr.Code)
	}
	var quote models.Quote
	if err := json.Unmarshal(rr.Body.Bytes(), &quote); err != nil {
		t.Fatalf("decode: %v", err)
	}

	req := withID(httptest.NewRequest(http.MethodPut, "/quotes/1", strings.NewReader(`{"tax":20}`)), itoa(quote.ID))
	rr = httptest.NewRecorder()
	h.Update(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", rr.Code, rr.Body.String())
	}
	var updated models.Quote
	if err := json.Unmarshal(rr.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.Subtotal != 200 {
		t.Fatalf("subtotal = %v, want 200", updated.Subtotal)
	}
	if updated.Total != 240 {
		t.Fatalf("total = %v, want 240 after tax change", updated.Total)
	}
}
