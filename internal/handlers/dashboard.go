package handlers

import (
	"net/http"

	"github.com/debangshucode/client-management-system/internal/httpx"
	"github.com/debangshucode/client-management-system/internal/services"
)

type DashboardHandler struct {
	Svc *services.DashboardService
}

func NewDashboardHandler(svc *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{Svc: svc}
}

// Stats: GET /dashboard/stats
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Svc.Compute()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_fetch_stats", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, stats)
}
