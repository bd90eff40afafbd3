package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "finspace/internal/errors"
	"finspace/internal/models"
	"finspace/internal/services"
)

// OnboardingHandler handles first-run setup requests.
type OnboardingHandler struct {
	onboardingService services.OnboardingServicer
	auditService      services.AuditServicer
}

// NewOnboardingHandler creates a new OnboardingHandler.
func NewOnboardingHandler(onboardingService services.OnboardingServicer, auditService services.AuditServicer) *OnboardingHandler {
	return &OnboardingHandler{onboardingService: onboardingService, auditService: auditService}
}

// OnboardingRequest represents the onboarding completion payload.
type OnboardingRequest struct {
	SpaceName   string           `json:"space_name" binding:"omitempty,max=100"`
	Currency    string           `json:"currency" binding:"omitempty,iso4217"`
	MonthPeriod string           `json:"month_period" binding:"required,month_period"`
	Framework   models.Framework `json:"framework" binding:"required,framework"`
	TotalIncome int64            `json:"total_income" binding:"gte=0"`
}

// GetStatus returns whether the user has completed onboarding.
// @Summary     Get onboarding status
// @Description Check whether the authenticated user has completed first-run setup
// @Tags        onboarding
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]bool "Onboarding status"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /onboarding/status [get]
func (h *OnboardingHandler) GetStatus(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	completed, err := h.onboardingService.Status(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"onboarding_completed": completed})
}

// Complete runs first-run setup for the user.
// @Summary     Complete onboarding
// @Description Create the personal space and master budget from the chosen framework
// @Tags        onboarding
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body OnboardingRequest true "Onboarding answers"
// @Success     201 {object} services.OnboardingResult "Created space, budget, and items"
// @Failure     400 {object} ErrorResponse "Invalid input or already onboarded"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Personal space already exists"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /onboarding/complete [post]
func (h *OnboardingHandler) Complete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req OnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.onboardingService.Complete(userID, services.OnboardingInput{
		SpaceName:   req.SpaceName,
		Currency:    req.Currency,
		MonthPeriod: req.MonthPeriod,
		Framework:   req.Framework,
		TotalIncome: req.TotalIncome,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "COMPLETE_ONBOARDING", "space", result.Space.ID, c.ClientIP(),
		map[string]interface{}{"framework": req.Framework, "month_period": req.MonthPeriod})

	c.JSON(http.StatusCreated, result)
}
