package models

// BudgetType distinguishes the single master budget of a month from
// additional secondary budgets.
type BudgetType string

const (
	BudgetTypeMaster    BudgetType = "master"
	BudgetTypeSecondary BudgetType = "secondary"
)

// Framework is a named preset allocation scheme used to auto-populate a
// budget's items from a total income figure.
type Framework string

const (
	Framework503020   Framework = "50_30_20"
	Framework602020   Framework = "60_20_20"
	FrameworkZeroBase Framework = "zero_based"
	FrameworkCustom   Framework = "custom"
)

// Budget is a monthly financial plan within a space. TotalBudgeted and
// TotalSpent are derived fields: they always equal the sum over the budget's
// top-level items and are rewritten after every item mutation.
type Budget struct {
	Base
	SpaceID       uint       `gorm:"not null;index" json:"space_id"`
	Name          string     `gorm:"not null" json:"name"`
	Description   string     `json:"description"`
	Type          BudgetType `gorm:"not null;default:master" json:"type"`
	MonthPeriod   string     `gorm:"size:7;not null;index" json:"month_period"`
	Framework     Framework  `gorm:"not null;default:custom" json:"framework"`
	Currency      string     `gorm:"size:3;not null;default:USD" json:"currency"`
	TotalIncome   int64      `gorm:"not null;default:0" json:"total_income"`
	TotalBudgeted int64      `gorm:"not null;default:0" json:"total_budgeted"`
	TotalSpent    int64      `gorm:"not null;default:0" json:"total_spent"`
	AutoGenerated bool       `gorm:"default:false" json:"auto_generated"`
	CreatedBy     uint       `gorm:"not null" json:"created_by"`

	// Relationships
	Items []BudgetItem `gorm:"foreignKey:BudgetID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}
