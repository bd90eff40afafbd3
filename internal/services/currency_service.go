package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "finspace/internal/errors"
	"finspace/internal/models"
)

// currencyService handles the currency reference data.
type currencyService struct {
	db *gorm.DB
}

// NewCurrencyService creates a new CurrencyServicer.
func NewCurrencyService(db *gorm.DB) CurrencyServicer {
	return &currencyService{db: db}
}

// defaultCurrencies seeds the reference table on first boot.
var defaultCurrencies = []models.Currency{
	{Code: "USD", Name: "US Dollar", Symbol: "$", DecimalPlaces: 2, DisplayOrder: 1, IsActive: true},
	{Code: "EUR", Name: "Euro", Symbol: "€", DecimalPlaces: 2, DisplayOrder: 2, IsActive: true},
	{Code: "GBP", Name: "British Pound", Symbol: "£", DecimalPlaces: 2, DisplayOrder: 3, IsActive: true},
	{Code: "JPY", Name: "Japanese Yen", Symbol: "¥", DecimalPlaces: 0, DisplayOrder: 4, IsActive: true},
	{Code: "SGD", Name: "Singapore Dollar", Symbol: "S$", DecimalPlaces: 2, DisplayOrder: 5, IsActive: true},
	{Code: "MYR", Name: "Malaysian Ringgit", Symbol: "RM", DecimalPlaces: 2, DisplayOrder: 6, IsActive: true},
	{Code: "AUD", Name: "Australian Dollar", Symbol: "A$", DecimalPlaces: 2, DisplayOrder: 7, IsActive: true},
	{Code: "CAD", Name: "Canadian Dollar", Symbol: "C$", DecimalPlaces: 2, DisplayOrder: 8, IsActive: true},
	{Code: "CHF", Name: "Swiss Franc", Symbol: "Fr", DecimalPlaces: 2, DisplayOrder: 9, IsActive: true},
	{Code: "INR", Name: "Indian Rupee", Symbol: "₹", DecimalPlaces: 2, DisplayOrder: 10, IsActive: true},
}

// SeedDefaults inserts the default currency set, skipping codes that exist.
func (s *currencyService) SeedDefaults() error {
	for _, c := range defaultCurrencies {
		var count int64
		if err := s.db.Model(&models.Currency{}).Where("code = ?", c.Code).Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			continue
		}
		currency := c
		if err := s.db.Create(&currency).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return nil
}

// ListCurrencies returns currencies ordered for display.
func (s *currencyService) ListCurrencies(activeOnly bool) ([]models.Currency, error) {
	query := s.db.Model(&models.Currency{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var currencies []models.Currency
	if err := query.Order("display_order, code").Find(&currencies).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return currencies, nil
}

// GetCurrency returns a currency by its ISO 4217 code.
func (s *currencyService) GetCurrency(code string) (*models.Currency, error) {
	var currency models.Currency
	if err := s.db.Where("code = ?", strings.ToUpper(code)).First(&currency).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCurrencyNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &currency, nil
}

// CreateCurrency adds a currency to the reference table.
func (s *currencyService) CreateCurrency(code, name, symbol string, decimalPlaces, displayOrder int) (*models.Currency, error) {
	code = strings.ToUpper(code)
	if len(code) != 3 || name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "a three-letter code and a name are required")
	}

	var count int64
	if err := s.db.Model(&models.Currency{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrCurrencyExists
	}

	currency := &models.Currency{
		Code:          code,
		Name:          name,
		Symbol:        symbol,
		DecimalPlaces: decimalPlaces,
		DisplayOrder:  displayOrder,
		IsActive:      true,
	}
	if err := s.db.Create(currency).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return currency, nil
}

// UpdateCurrency updates a currency's display fields and active flag.
func (s *currencyService) UpdateCurrency(code string, name, symbol *string, decimalPlaces, displayOrder *int, isActive *bool) (*models.Currency, error) {
	currency, err := s.GetCurrency(code)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != nil && *name != "" {
		updates["name"] = *name
	}
	if symbol != nil {
		updates["symbol"] = *symbol
	}
	if decimalPlaces != nil {
		updates["decimal_places"] = *decimalPlaces
	}
	if displayOrder != nil {
		updates["display_order"] = *displayOrder
	}
	if isActive != nil {
		updates["is_active"] = *isActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(currency).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return currency, nil
}

// DeleteCurrency soft-deletes a currency from the reference table.
func (s *currencyService) DeleteCurrency(code string) error {
	currency, err := s.GetCurrency(code)
	if err != nil {
		return err
	}
	if err := s.db.Delete(currency).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
