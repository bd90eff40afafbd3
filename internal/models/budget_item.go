package models

// CategoryType classifies a budget item within a budgeting framework.
type CategoryType string

const (
	CategoryTypeNeeds   CategoryType = "needs"
	CategoryTypeWants   CategoryType = "wants"
	CategoryTypeSavings CategoryType = "savings"
	CategoryTypeIncome  CategoryType = "income"
)

// BudgetItem is a single category line within a budget. An item is exactly
// one of: standalone (ParentID nil, IsParent false), parent (ParentID nil,
// IsParent true), or child (ParentID set, IsParent false). Nesting is two
// levels deep at most; a child can never itself be a parent.
//
// For a parent, BudgetedAmount and SpentAmount are derived from its children
// and are never settable directly. Amounts are cents.
type BudgetItem struct {
	Base
	BudgetID       uint         `gorm:"not null;index" json:"budget_id"`
	Category       string       `gorm:"size:100;not null" json:"category"`
	Description    string       `json:"description"`
	CategoryType   CategoryType `gorm:"not null;default:needs" json:"category_type"`
	BudgetedAmount int64        `gorm:"not null;default:0" json:"budgeted_amount"`
	SpentAmount    int64        `gorm:"not null;default:0" json:"spent_amount"`
	Icon           string       `json:"icon"`
	Color          string       `gorm:"size:7;default:#4ADE80" json:"color"`
	DisplayOrder   int          `gorm:"not null;default:0" json:"display_order"`
	IsParent       bool         `gorm:"default:false" json:"is_parent"`
	ParentID       *uint        `gorm:"index" json:"parent_id,omitempty"`
}

// IsChild reports whether the item is nested under a parent.
func (i *BudgetItem) IsChild() bool {
	return i.ParentID != nil
}

// IsTopLevel reports whether the item counts toward budget totals.
// Children are excluded: their amounts are already folded into their parent.
func (i *BudgetItem) IsTopLevel() bool {
	return i.ParentID == nil
}
