package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "finspace/internal/errors"
	"finspace/internal/services"
)

// CurrencyHandler handles currency reference data requests.
type CurrencyHandler struct {
	currencyService services.CurrencyServicer
	auditService    services.AuditServicer
}

// NewCurrencyHandler creates a new CurrencyHandler.
func NewCurrencyHandler(currencyService services.CurrencyServicer, auditService services.AuditServicer) *CurrencyHandler {
	return &CurrencyHandler{currencyService: currencyService, auditService: auditService}
}

// CreateCurrencyRequest represents the payload for adding a currency.
type CreateCurrencyRequest struct {
	Code          string `json:"code" binding:"required,len=3"`
	Name          string `json:"name" binding:"required,min=1,max=100"`
	Symbol        string `json:"symbol" binding:"max=8"`
	DecimalPlaces int    `json:"decimal_places" binding:"gte=0,lte=4"`
	DisplayOrder  int    `json:"display_order" binding:"gte=0"`
}

// UpdateCurrencyRequest represents the payload for updating a currency.
type UpdateCurrencyRequest struct {
	Name          *string `json:"name" binding:"omitempty,min=1,max=100"`
	Symbol        *string `json:"symbol" binding:"omitempty,max=8"`
	DecimalPlaces *int    `json:"decimal_places" binding:"omitempty,gte=0,lte=4"`
	DisplayOrder  *int    `json:"display_order" binding:"omitempty,gte=0"`
	IsActive      *bool   `json:"is_active"`
}

// GetCurrencies handles listing currencies.
// @Summary     Get currencies
// @Description Get the currency reference list ordered for display
// @Tags        currencies
// @Accept      json
// @Produce     json
// @Param       include_inactive query bool false "Include inactive currencies"
// @Success     200 {object} []models.Currency "Currencies"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /currencies [get]
func (h *CurrencyHandler) GetCurrencies(c *gin.Context) {
	activeOnly := c.Query("include_inactive") != "true"

	currencies, err := h.currencyService.ListCurrencies(activeOnly)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"currencies": currencies})
}

// GetCurrency handles retrieving a single currency.
// @Summary     Get currency by code
// @Description Get a currency by its ISO 4217 code
// @Tags        currencies
// @Accept      json
// @Produce     json
// @Param       code path string true "Currency code"
// @Success     200 {object} models.Currency "Currency"
// @Failure     404 {object} ErrorResponse "Currency not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /currencies/{code} [get]
func (h *CurrencyHandler) GetCurrency(c *gin.Context) {
	code := strings.ToUpper(c.Param("code"))

	currency, err := h.currencyService.GetCurrency(code)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"currency": currency})
}

// CreateCurrency handles adding a currency to the reference table.
// @Summary     Create currency
// @Description Add a currency to the reference table
// @Tags        currencies
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateCurrencyRequest true "Currency details"
// @Success     201 {object} models.Currency "Currency created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Currency already exists"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /currencies [post]
func (h *CurrencyHandler) CreateCurrency(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	currency, err := h.currencyService.CreateCurrency(req.Code, req.Name, req.Symbol, req.DecimalPlaces, req.DisplayOrder)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_CURRENCY", "currency", currency.ID, c.ClientIP(),
		map[string]interface{}{"code": currency.Code})

	c.JSON(http.StatusCreated, gin.H{"currency": currency})
}

// UpdateCurrency handles updating a currency.
// @Summary     Update currency
// @Description Update a currency's display fields or active flag
// @Tags        currencies
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       code    path string                true "Currency code"
// @Param       request body UpdateCurrencyRequest true "Updated currency details"
// @Success     200 {object} models.Currency "Updated currency"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Currency not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /currencies/{code} [put]
func (h *CurrencyHandler) UpdateCurrency(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	code := strings.ToUpper(c.Param("code"))

	var req UpdateCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	currency, err := h.currencyService.UpdateCurrency(code, req.Name, req.Symbol, req.DecimalPlaces, req.DisplayOrder, req.IsActive)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_CURRENCY", "currency", currency.ID, c.ClientIP(),
		map[string]interface{}{"code": code})

	c.JSON(http.StatusOK, gin.H{"currency": currency})
}

// DeleteCurrency handles removing a currency.
// @Summary     Delete currency
// @Description Remove a currency from the reference table (soft delete)
// @Tags        currencies
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       code path string true "Currency code"
// @Success     200 {object} MessageResponse "Currency deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Currency not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /currencies/{code} [delete]
func (h *CurrencyHandler) DeleteCurrency(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	code := strings.ToUpper(c.Param("code"))

	if err := h.currencyService.DeleteCurrency(code); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_CURRENCY", "currency", 0, c.ClientIP(),
		map[string]interface{}{"code": code})

	c.JSON(http.StatusOK, gin.H{"message": "Currency deleted successfully"})
}
