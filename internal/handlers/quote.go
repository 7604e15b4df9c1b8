package handlers

import (
	"errors"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/debangshucode/client-management-system/internal/httpx"
	"github.com/debangshucode/client-management-system/internal/models"
	"github.com/debangshucode/client-management-system/internal/services"
	"github.com/debangshucode/client-management-system/internal/validation"
)

type QuoteHandler struct {
	DB  *gorm.DB
	Svc *services.QuoteService
}

func NewQuoteHandler(db *gorm.DB, svc *services.QuoteService) *QuoteHandler {
	return &QuoteHandler{DB: db, Svc: svc}
}

// List: GET /quotes, newest first with client and project joined.
func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	var quotes []models.Quote
	if err := h.DB.
		Preload("Client").
		Preload("Project").
		Preload("Items").
		Order("created_at desc").
		Find(&quotes).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_quotes", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, quotes)
}

// Create: POST /quotes. Validates the referenced client, project and features
// exist, snapshots each selected feature into a quote line, computes totals
// and assigns the next quote number, all inside one transaction.
func (h *QuoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	type lineReq struct {
		FeatureID   uint     `json:"featureId"`
		Quantity    int      `json:"quantity"`
		CustomPrice *float64 `json:"customPrice"`
	}
	var input struct {
		ClientID   uint       `json:"clientId"`
		ProjectID  uint       `json:"projectId"`
		Features   []lineReq  `json:"features"`
		Tax        float64    `json:"tax"`
		Status     string     `json:"status"`
		ValidUntil *time.Time `json:"validUntil"`
		Notes      string     `json:"notes"`
	}
	if err := httpx.Decode(r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.RequiredID("clientId", input.ClientID, v)
	validation.RequiredID("projectId", input.ProjectID, v)
	validation.NonNegativeFloat("tax", input.Tax, v)
	if len(input.Features) == 0 {
		v["features"] = "required"
	}
	if input.Status != "" && !models.ValidQuoteStatus(input.Status) {
		v["status"] = "invalid_value"
	}
	for _, line := range input.Features {
		if line.FeatureID == 0 {
			v["features"] = "invalid_feature_or_quantity"
		}
		if line.Quantity < 0 {
			v["features"] = "invalid_feature_or_quantity"
		}
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}

	status := input.Status
	if status == "" {
		status = models.QuoteDraft
	}

	var quote models.Quote
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var client models.Client
		if err := tx.First(&client, input.ClientID).Error; err != nil {
			return err
		}
		var project models.Project
		if err := tx.First(&project, input.ProjectID).Error; err != nil {
			return err
		}

		featureIDs := make([]uint, 0, len(input.Features))
		for _, line := range input.Features {
			featureIDs = append(featureIDs, line.FeatureID)
		}
		var catalog []models.Feature
		if err := tx.Where("id IN ?", featureIDs).Find(&catalog).Error; err != nil {
			return err
		}
		byID := make(map[uint]models.Feature, len(catalog))
		for _, f := range catalog {
			byID[f.ID] = f
		}

		items := make([]models.QuoteItem, 0, len(input.Features))
		for _, line := range input.Features {
			f, ok := byID[line.FeatureID]
			if !ok {
				return gorm.ErrRecordNotFound
			}
			qty := line.Quantity
			if qty < 1 {
				qty = 1
			}
			// Snapshot the catalog fields; later feature edits must not
			// change this quote.
			items = append(items, models.QuoteItem{
				FeatureID:   f.ID,
				Title:       f.Title,
				Description: f.Description,
				BasePrice:   f.BasePrice,
				CustomPrice: line.CustomPrice,
				Quantity:    qty,
			})
		}

		subtotal, _, total := h.Svc.ComputeTotals(items, input.Tax)
		number, err := h.Svc.NextNumber(tx)
		if err != nil {
			return err
		}
		quote = models.Quote{
			ClientID:    input.ClientID,
			ProjectID:   input.ProjectID,
			QuoteNumber: number,
			Subtotal:    subtotal,
			Tax:         input.Tax,
			Total:       total,
			Status:      status,
			ValidUntil:  input.ValidUntil,
			Notes:       input.Notes,
		}
		if err := tx.Create(&quote).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].QuoteID = quote.ID
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"reference": "unknown_client_project_or_feature"})
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "quote_create_failed", nil)
		return
	}

	if err := h.load(&quote, quote.ID); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "quote_create_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, quote)
}

// Get: GET /quotes/{id}
func (h *QuoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var quote models.Quote
	if err := h.load(&quote, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "quote_fetch_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, quote)
}

// Update: PUT /quotes/{id}. Partial update of tax, validity, notes and
// status. Line items are immutable after creation; a changed tax rate
// recomputes the totals from the stored snapshot.
func (h *QuoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var quote models.Quote
	if err := h.DB.Preload("Items").First(&quote, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "quote_fetch_failed", nil)
		return
	}
	var input struct {
		Tax        *float64   `json:"tax"`
		Status     *string    `json:"status"`
		ValidUntil *time.Time `json:"validUntil"`
		Notes      *string    `json:"notes"`
	}
	if err := httpx.Decode(r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if input.Status != nil && !models.ValidQuoteStatus(*input.Status) {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"status": "invalid_value"})
		return
	}
	if input.Tax != nil && *input.Tax < 0 {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"tax": "must_not_be_negative"})
		return
	}
	if input.Status != nil {
		quote.Status = *input.Status
	}
	if input.ValidUntil != nil {
		quote.ValidUntil = input.ValidUntil
	}
	if input.Notes != nil {
		quote.Notes = *input.Notes
	}
	if input.Tax != nil {
		quote.Tax = *input.Tax
		subtotal, _, total := h.Svc.ComputeTotals(quote.Items, quote.Tax)
		quote.Subtotal = subtotal
		quote.Total = total
	}
	if err := h.DB.Save(&quote).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "quote_update_failed", nil)
		return
	}
	if err := h.load(&quote, quote.ID); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "quote_update_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, quote)
}

// SetStatus: PATCH /quotes/{id}/status. The lifecycle is a flat enum: any
// known status can be set from any other, only membership is checked.
func (h *QuoteHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var input struct {
		Status string `json:"status"`
	}
	if err := httpx.Decode(r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if !models.ValidQuoteStatus(input.Status) {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"status": "invalid_value"})
		return
	}
	var quote models.Quote
	if err := h.DB.First(&quote, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "quote_fetch_failed", nil)
		return
	}
	if err := h.DB.Model(&quote).Update("status", input.Status).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "quote_update_failed", nil)
		return
	}
	if err := h.load(&quote, quote.ID); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "quote_update_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, quote)
}

func (h *QuoteHandler) load(dst *models.Quote, id uint) error {
	return h.DB.
		Preload("Client").
		Preload("Project").
		Preload("Items").
		First(dst, id).Error
}
