package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "finspace/internal/errors"
	"finspace/internal/services"
)

// DashboardHandler handles dashboard summary requests.
type DashboardHandler struct {
	dashboardService services.DashboardServicer
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService services.DashboardServicer) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// monthPeriodQuery reads the month_period query parameter, defaulting to the
// current month.
func monthPeriodQuery(c *gin.Context) (string, error) {
	v := c.Query("month_period")
	if v == "" {
		return time.Now().Format("2006-01"), nil
	}
	if _, err := time.Parse("2006-01", v); err != nil {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "month_period must be in YYYY-MM format")
	}
	return v, nil
}

// GetSummary handles retrieving the dashboard summary for a space.
// @Summary     Get dashboard summary
// @Description Get the aggregated monthly view of a space: master budget totals, per-type breakdown, secondary budgets, and top spending
// @Tags        dashboard
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id           path  int    true  "Space ID"
// @Param       month_period query string false "Month (YYYY-MM, defaults to current)"
// @Success     200 {object} services.DashboardSummary "Dashboard summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not a member"
// @Failure     404 {object} ErrorResponse "Space not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /spaces/{id}/dashboard [get]
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	spaceID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	monthPeriod, err := monthPeriodQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.dashboardService.GetSummary(userID, spaceID, monthPeriod)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
