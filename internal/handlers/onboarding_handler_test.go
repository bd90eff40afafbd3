package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "finspace/internal/errors"
	"finspace/internal/models"
	"finspace/internal/services"
)

type mockOnboardingService struct {
	completeFn func(userID uint, in services.OnboardingInput) (*services.OnboardingResult, error)
	statusFn   func(userID uint) (bool, error)
}

func (m *mockOnboardingService) Complete(userID uint, in services.OnboardingInput) (*services.OnboardingResult, error) {
	if m.completeFn != nil {
		return m.completeFn(userID, in)
	}
	return &services.OnboardingResult{
		Space:  &models.Space{},
		Budget: &models.Budget{},
		Items:  []models.BudgetItem{},
	}, nil
}

func (m *mockOnboardingService) Status(userID uint) (bool, error) {
	if m.statusFn != nil {
		return m.statusFn(userID)
	}
	return false, nil
}

var _ services.OnboardingServicer = (*mockOnboardingService)(nil)

func setupOnboardingRouter(handler *OnboardingHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.GET("/onboarding/status", handler.GetStatus)
	auth.POST("/onboarding/complete", handler.Complete)
	return r
}

func TestOnboardingHandler_GetStatus(t *testing.T) {
	svc := &mockOnboardingService{
		statusFn: func(_ uint) (bool, error) { return true, nil },
	}
	handler := NewOnboardingHandler(svc, &mockAuditService{})
	r := setupOnboardingRouter(handler)

	rec := doRequest(r, "GET", "/onboarding/status", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if parseJSON(t, rec)["onboarding_completed"] != true {
		t.Error("expected onboarding_completed true")
	}
}

func TestOnboardingHandler_Complete(t *testing.T) {
	t.Run("returns 201 with the created resources", func(t *testing.T) {
		var got services.OnboardingInput
		svc := &mockOnboardingService{
			completeFn: func(_ uint, in services.OnboardingInput) (*services.OnboardingResult, error) {
				got = in
				return &services.OnboardingResult{
					Space:  &models.Space{Base: models.Base{ID: 1}, Name: "Personal", SpaceType: models.SpaceTypePersonal},
					Budget: &models.Budget{Base: models.Base{ID: 1}, Type: models.BudgetTypeMaster},
					Items:  []models.BudgetItem{{Base: models.Base{ID: 1}}},
				}, nil
			},
		}
		handler := NewOnboardingHandler(svc, &mockAuditService{})
		r := setupOnboardingRouter(handler)

		rec := doRequest(r, "POST", "/onboarding/complete",
			`{"currency":"EUR","month_period":"2026-08","framework":"50_30_20","total_income":500000}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Framework != models.Framework503020 || got.Currency != "EUR" {
			t.Errorf("unexpected input passed through: %+v", got)
		}
		result := parseJSON(t, rec)
		if result["space"] == nil || result["budget"] == nil || result["items"] == nil {
			t.Error("expected space, budget, and items in the response")
		}
	})

	t.Run("returns 400 on unknown framework", func(t *testing.T) {
		handler := NewOnboardingHandler(&mockOnboardingService{}, &mockAuditService{})
		r := setupOnboardingRouter(handler)

		rec := doRequest(r, "POST", "/onboarding/complete",
			`{"month_period":"2026-08","framework":"70_20_10"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 when already onboarded", func(t *testing.T) {
		svc := &mockOnboardingService{
			completeFn: func(_ uint, _ services.OnboardingInput) (*services.OnboardingResult, error) {
				return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "onboarding already completed")
			},
		}
		handler := NewOnboardingHandler(svc, &mockAuditService{})
		r := setupOnboardingRouter(handler)

		rec := doRequest(r, "POST", "/onboarding/complete",
			`{"month_period":"2026-08","framework":"custom"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 409 when a personal space exists", func(t *testing.T) {
		svc := &mockOnboardingService{
			completeFn: func(_ uint, _ services.OnboardingInput) (*services.OnboardingResult, error) {
				return nil, apperrors.ErrPersonalSpaceExists
			},
		}
		handler := NewOnboardingHandler(svc, &mockAuditService{})
		r := setupOnboardingRouter(handler)

		rec := doRequest(r, "POST", "/onboarding/complete",
			`{"month_period":"2026-08","framework":"custom"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})
}
