package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "finspace/internal/errors"
	"finspace/internal/models"
	"finspace/internal/services"
)

type mockDashboardService struct {
	getSummaryFn func(userID, spaceID uint, monthPeriod string) (*services.DashboardSummary, error)
}

func (m *mockDashboardService) GetSummary(userID, spaceID uint, monthPeriod string) (*services.DashboardSummary, error) {
	if m.getSummaryFn != nil {
		return m.getSummaryFn(userID, spaceID, monthPeriod)
	}
	return &services.DashboardSummary{}, nil
}

var _ services.DashboardServicer = (*mockDashboardService)(nil)

func setupDashboardRouter(handler *DashboardHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.GET("/spaces/:id/dashboard", handler.GetSummary)
	return r
}

func TestDashboardHandler_GetSummary(t *testing.T) {
	t.Run("returns the summary for the requested month", func(t *testing.T) {
		var gotMonth string
		svc := &mockDashboardService{
			getSummaryFn: func(_, spaceID uint, monthPeriod string) (*services.DashboardSummary, error) {
				gotMonth = monthPeriod
				return &services.DashboardSummary{
					SpaceID:     spaceID,
					SpaceName:   "Personal",
					MonthPeriod: monthPeriod,
					Currency:    "USD",
					TotalIncome: 500000,
					TotalSpent:  175000,
					Remaining:   325000,
					TopSpending: []models.BudgetItem{{Category: "Rent", SpentAmount: 150000}},
				}, nil
			},
		}
		handler := NewDashboardHandler(svc)
		r := setupDashboardRouter(handler)

		rec := doRequest(r, "GET", "/spaces/1/dashboard?month_period=2026-08", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotMonth != "2026-08" {
			t.Errorf("expected month 2026-08, got %q", gotMonth)
		}
		summary := parseJSON(t, rec)["summary"].(map[string]interface{})
		if summary["remaining"].(float64) != 325000 {
			t.Errorf("expected remaining 325000, got %v", summary["remaining"])
		}
		topSpending := summary["top_spending"].([]interface{})
		if len(topSpending) != 1 {
			t.Errorf("expected 1 top spending item, got %d", len(topSpending))
		}
	})

	t.Run("defaults to the current month", func(t *testing.T) {
		var gotMonth string
		svc := &mockDashboardService{
			getSummaryFn: func(_, _ uint, monthPeriod string) (*services.DashboardSummary, error) {
				gotMonth = monthPeriod
				return &services.DashboardSummary{MonthPeriod: monthPeriod}, nil
			},
		}
		handler := NewDashboardHandler(svc)
		r := setupDashboardRouter(handler)

		rec := doRequest(r, "GET", "/spaces/1/dashboard", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if want := time.Now().Format("2006-01"); gotMonth != want {
			t.Errorf("expected current month %s, got %q", want, gotMonth)
		}
	})

	t.Run("returns 400 on a malformed month", func(t *testing.T) {
		handler := NewDashboardHandler(&mockDashboardService{})
		r := setupDashboardRouter(handler)

		rec := doRequest(r, "GET", "/spaces/1/dashboard?month_period=August", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 403 for non-members", func(t *testing.T) {
		svc := &mockDashboardService{
			getSummaryFn: func(_, _ uint, _ string) (*services.DashboardSummary, error) {
				return nil, apperrors.ErrNotSpaceMember
			},
		}
		handler := NewDashboardHandler(svc)
		r := setupDashboardRouter(handler)

		rec := doRequest(r, "GET", "/spaces/1/dashboard", "")

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "NOT_SPACE_MEMBER")
	})
}
