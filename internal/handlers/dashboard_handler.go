package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/preppal-app/coaching-service/internal/services"
	"github.com/preppal-app/coaching-service/internal/utils"
)

type DashboardHandler struct {
	BaseHandler
	dashboardService services.DashboardService
}

func NewDashboardHandler(dashboardService services.DashboardService, logger utils.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler:      NewBaseHandler(logger),
		dashboardService: dashboardService,
	}
}

// GetStats returns aggregate practice statistics for a user.
// @Summary Dashboard stats
// @Tags dashboard
// @Produce json
// @Param user_id path string true "User id"
// @Success 200 {object} models.DashboardStats
// @Router /dashboard/{user_id} [get]
func (h *DashboardHandler) GetStats(c *gin.Context) {
	userID := c.Param("user_id")

	h.LogRequest(c, "Getting dashboard stats", "user_id", userID)

	stats, err := h.dashboardService.Stats(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ExportReport streams the user's session history as an xlsx workbook.
// @Summary Export dashboard report
// @Tags dashboard
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param user_id path string true "User id"
// @Success 200 {file} binary
// @Router /dashboard/{user_id}/export [get]
func (h *DashboardHandler) ExportReport(c *gin.Context) {
	userID := c.Param("user_id")

	h.LogRequest(c, "Exporting dashboard report", "user_id", userID)

	report, err := h.dashboardService.ExportReport(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "practice-sessions.xlsx"))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		report)
}
