package handlers

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/debangshucode/client-management-system/internal/httpx"
	"github.com/debangshucode/client-management-system/internal/models"
	"github.com/debangshucode/client-management-system/internal/validation"
)

type FeatureHandler struct {
	DB *gorm.DB
}

func NewFeatureHandler(db *gorm.DB) *FeatureHandler { return &FeatureHandler{DB: db} }

// List: GET /features. Only active features, sorted by category then title so
// the catalog groups naturally.
func (h *FeatureHandler) List(w http.ResponseWriter, r *http.Request) {
	var features []models.Feature
	if err := h.DB.Where("is_active = ?", true).Order("category asc, title asc").Find(&features).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_features", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, features)
}

// Create: POST /features
func (h *FeatureHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Title       string  `json:"title"`
		Description string  `json:"description"`
		BasePrice   float64 `json:"basePrice"`
		Category    string  `json:"category"`
	}
	if err := httpx.Decode(r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("title", input.Title, v)
	validation.Required("description", input.Description, v)
	validation.Required("category", input.Category, v)
	validation.NonNegativeFloat("basePrice", input.BasePrice, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	feature := models.Feature{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		BasePrice:   input.BasePrice,
		Category:    strings.TrimSpace(input.Category),
		IsActive:    true,
	}
	if err := h.DB.Create(&feature).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "feature_create_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, feature)
}

// Get: GET /features/{id}. Resolves inactive features too; only listings hide
// them.
func (h *FeatureHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var feature models.Feature
	if err := h.DB.First(&feature, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "feature_fetch_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, feature)
}

// Update: PUT /features/{id}. Price edits here never touch quotes that
// already snapshotted the feature.
func (h *FeatureHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var feature models.Feature
	if err := h.DB.First(&feature, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "feature_fetch_failed", nil)
		return
	}
	var input struct {
		Title       *string  `json:"title"`
		Description *string  `json:"description"`
		BasePrice   *float64 `json:"basePrice"`
		Category    *string  `json:"category"`
		IsActive    *bool    `json:"isActive"`
	}
	if err := httpx.Decode(r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if input.BasePrice != nil && *input.BasePrice < 0 {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"basePrice": "must_not_be_negative"})
		return
	}
	if input.Title != nil {
		feature.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		feature.Description = *input.Description
	}
	if input.BasePrice != nil {
		feature.BasePrice = *input.BasePrice
	}
	if input.Category != nil {
		feature.Category = strings.TrimSpace(*input.Category)
	}
	if input.IsActive != nil {
		feature.IsActive = *input.IsActive
	}
	if err := h.DB.Save(&feature).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "feature_update_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, feature)
}

// Delete: DELETE /features/{id}. Soft delete: the row stays, the flag flips.
func (h *FeatureHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var feature models.Feature
	if err := h.DB.First(&feature, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "feature_fetch_failed", nil)
		return
	}
	if err := h.DB.Model(&feature).Update("is_active", false).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "feature_delete_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "feature deactivated"})
}
