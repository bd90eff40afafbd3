package models

// Currency is reference data for a supported currency. Currencies are
// soft-disabled via IsActive rather than deleted.
type Currency struct {
	Base
	Code          string `gorm:"size:3;uniqueIndex;not null" json:"code"`
	Name          string `gorm:"not null" json:"name"`
	Symbol        string `gorm:"size:8" json:"symbol"`
	DecimalPlaces int    `gorm:"default:2" json:"decimal_places"`
	DisplayOrder  int    `gorm:"default:0" json:"display_order"`
	IsActive      bool   `gorm:"default:true" json:"is_active"`
}
