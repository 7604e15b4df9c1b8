package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/debangshucode/client-management-system/internal/httpx"
	"github.com/debangshucode/client-management-system/internal/models"
	"github.com/debangshucode/client-management-system/internal/validation"
)

type ProjectHandler struct {
	DB *gorm.DB
}

func NewProjectHandler(db *gorm.DB) *ProjectHandler { return &ProjectHandler{DB: db} }

// List: GET /projects, newest first with the client joined.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	var projects []models.Project
	if err := h.DB.Preload("Client").Order("created_at desc").Find(&projects).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_projects", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, projects)
}

// Create: POST /projects. The referenced client must exist; its projectCount
// is incremented in the same transaction as the insert so the counter cannot
// drift on a partial failure.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Title       string     `json:"title"`
		Description string     `json:"description"`
		ClientID    uint       `json:"clientId"`
		Status      string     `json:"status"`
		Deadline    *time.Time `json:"deadline"`
		TotalValue  float64    `json:"totalValue"`
	}
	if err := httpx.Decode(r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("title", input.Title, v)
	validation.RequiredID("clientId", input.ClientID, v)
	if input.Status != "" && !models.ValidProjectStatus(input.Status) {
		v["status"] = "invalid_value"
	}
	validation.NonNegativeFloat("totalValue", input.TotalValue, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}

	status := input.Status
	if status == "" {
		status = models.ProjectPlanning
	}
	project := models.Project{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		ClientID:    input.ClientID,
		Status:      status,
		Deadline:    input.Deadline,
		TotalValue:  input.TotalValue,
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var client models.Client
		if err := tx.First(&client, input.ClientID).Error; err != nil {
			return err
		}
		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		return tx.Model(&client).
			Update("project_count", gorm.Expr("project_count + 1")).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"clientId": "unknown_client"})
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "project_create_failed", nil)
		return
	}

	if err := h.DB.Preload("Client").First(&project, project.ID).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "project_create_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, project)
}

// Get: GET /projects/{id}
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var project models.Project
	if err := h.DB.Preload("Client").First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "project_fetch_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, project)
}

// Update: PUT /projects/{id}
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var project models.Project
	if err := h.DB.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "project_fetch_failed", nil)
		return
	}
	var input struct {
		Title       *string    `json:"title"`
		Description *string    `json:"description"`
		Status      *string    `json:"status"`
		Deadline    *time.Time `json:"deadline"`
		TotalValue  *float64   `json:"totalValue"`
	}
	if err := httpx.Decode(r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if input.Status != nil && !models.ValidProjectStatus(*input.Status) {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"status": "invalid_value"})
		return
	}
	if input.Title != nil {
		project.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Status != nil {
		project.Status = *input.Status
	}
	if input.Deadline != nil {
		project.Deadline = input.Deadline
	}
	if input.TotalValue != nil {
		project.TotalValue = *input.TotalValue
	}
	if err := h.DB.Save(&project).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "project_update_failed", nil)
		return
	}
	if err := h.DB.Preload("Client").First(&project, project.ID).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "project_update_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, project)
}

// Delete: DELETE /projects/{id}. Restricted while dependent quotes exist.
// The client's projectCount counts created projects and is left untouched.
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var project models.Project
	if err := h.DB.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "project_fetch_failed", nil)
		return
	}
	var quotes int64
	if err := h.DB.Model(&models.Quote{}).Where("project_id = ?", id).Count(&quotes).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "project_delete_failed", nil)
		return
	}
	if quotes > 0 {
		httpx.JSONError(w, http.StatusConflict, "project_has_quotes", map[string]int64{"quotes": quotes})
		return
	}
	if err := h.DB.Delete(&project).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "project_delete_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "project deleted"})
}
