package services

import (
	"math"

	apperrors "finspace/internal/errors"
	"finspace/internal/models"
)

// TemplateCategory is one line of a framework template. Percentage is the
// category's share of total income.
type TemplateCategory struct {
	Category     string              `json:"category"`
	CategoryType models.CategoryType `json:"category_type"`
	Percentage   float64             `json:"percentage"`
	Icon         string              `json:"icon"`
	Color        string              `json:"color"`
}

// FrameworkTemplate is a named preset allocation scheme. Proportional
// templates have category percentages summing to 1, and expansion reconciles
// any rounding remainder so the generated amounts sum to the income exactly.
type FrameworkTemplate struct {
	Key          models.Framework   `json:"key"`
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	Proportional bool               `json:"proportional"`
	Categories   []TemplateCategory `json:"categories"`
}

// splitGroup expresses a proportional framework as nested shares: the
// category type takes Share of income, and each category takes a share of
// the type (amount = income x type share x category share).
type splitGroup struct {
	Type       models.CategoryType
	Share      float64
	Categories []groupCategory
}

type groupCategory struct {
	Name  string
	Share float64
	Icon  string
}

const (
	colorNeeds   = "#10B981"
	colorWants   = "#F59E0B"
	colorSavings = "#3B82F6"
	colorIncome  = "#14B8A6"
)

// expandGroups flattens nested type/category shares into income percentages.
func expandGroups(groups []splitGroup) []TemplateCategory {
	var out []TemplateCategory
	for _, g := range groups {
		for _, c := range g.Categories {
			out = append(out, TemplateCategory{
				Category:     c.Name,
				CategoryType: g.Type,
				Percentage:   g.Share * c.Share,
				Icon:         c.Icon,
				Color:        typeColor(g.Type),
			})
		}
	}
	return out
}

func typeColor(t models.CategoryType) string {
	switch t {
	case models.CategoryTypeNeeds:
		return colorNeeds
	case models.CategoryTypeWants:
		return colorWants
	case models.CategoryTypeSavings:
		return colorSavings
	case models.CategoryTypeIncome:
		return colorIncome
	}
	return "#4ADE80"
}

var frameworkTemplates = []FrameworkTemplate{
	{
		Key:          models.Framework503020,
		Name:         "50/30/20 Rule",
		Description:  "50% needs, 30% wants, 20% savings",
		Proportional: true,
		Categories: expandGroups([]splitGroup{
			{Type: models.CategoryTypeNeeds, Share: 0.50, Categories: []groupCategory{
				{Name: "Housing", Share: 0.30, Icon: "home"},
				{Name: "Food", Share: 0.30, Icon: "shopping-cart"},
				{Name: "Transportation", Share: 0.20, Icon: "car"},
				{Name: "Utilities", Share: 0.20, Icon: "zap"},
			}},
			{Type: models.CategoryTypeWants, Share: 0.30, Categories: []groupCategory{
				{Name: "Entertainment", Share: 0.50, Icon: "film"},
				{Name: "Shopping", Share: 0.50, Icon: "shopping-bag"},
			}},
			{Type: models.CategoryTypeSavings, Share: 0.20, Categories: []groupCategory{
				{Name: "Savings", Share: 1.00, Icon: "piggy-bank"},
			}},
		}),
	},
	{
		Key:          models.Framework602020,
		Name:         "60/20/20 Rule",
		Description:  "60% needs, 20% wants, 20% savings",
		Proportional: true,
		Categories: []TemplateCategory{
			{Category: "Housing", CategoryType: models.CategoryTypeNeeds, Percentage: 0.30, Icon: "home", Color: colorNeeds},
			{Category: "Utilities", CategoryType: models.CategoryTypeNeeds, Percentage: 0.06, Icon: "zap", Color: colorNeeds},
			{Category: "Groceries", CategoryType: models.CategoryTypeNeeds, Percentage: 0.12, Icon: "shopping-cart", Color: colorNeeds},
			{Category: "Transportation", CategoryType: models.CategoryTypeNeeds, Percentage: 0.08, Icon: "car", Color: colorNeeds},
			{Category: "Insurance", CategoryType: models.CategoryTypeNeeds, Percentage: 0.04, Icon: "shield", Color: colorNeeds},
			{Category: "Dining Out", CategoryType: models.CategoryTypeWants, Percentage: 0.08, Icon: "utensils", Color: colorWants},
			{Category: "Entertainment", CategoryType: models.CategoryTypeWants, Percentage: 0.07, Icon: "film", Color: colorWants},
			{Category: "Shopping", CategoryType: models.CategoryTypeWants, Percentage: 0.05, Icon: "shopping-bag", Color: colorWants},
			{Category: "Emergency Fund", CategoryType: models.CategoryTypeSavings, Percentage: 0.10, Icon: "piggy-bank", Color: colorSavings},
			{Category: "Retirement", CategoryType: models.CategoryTypeSavings, Percentage: 0.07, Icon: "trending-up", Color: colorSavings},
			{Category: "Investments", CategoryType: models.CategoryTypeSavings, Percentage: 0.03, Icon: "bar-chart", Color: colorSavings},
		},
	},
	{
		Key:         models.FrameworkZeroBase,
		Name:        "Zero-Based Budget",
		Description: "Every dollar has a job, income minus expenses equals zero",
		Categories: []TemplateCategory{
			{Category: "Salary", CategoryType: models.CategoryTypeIncome, Icon: "dollar-sign", Color: colorIncome},
			{Category: "Side Income", CategoryType: models.CategoryTypeIncome, Icon: "briefcase", Color: colorIncome},
			{Category: "Housing", CategoryType: models.CategoryTypeNeeds, Icon: "home", Color: colorNeeds},
			{Category: "Utilities", CategoryType: models.CategoryTypeNeeds, Icon: "zap", Color: colorNeeds},
			{Category: "Groceries", CategoryType: models.CategoryTypeNeeds, Icon: "shopping-cart", Color: colorNeeds},
			{Category: "Transportation", CategoryType: models.CategoryTypeNeeds, Icon: "car", Color: colorNeeds},
			{Category: "Insurance", CategoryType: models.CategoryTypeNeeds, Icon: "shield", Color: colorNeeds},
			{Category: "Dining Out", CategoryType: models.CategoryTypeWants, Icon: "utensils", Color: colorWants},
			{Category: "Entertainment", CategoryType: models.CategoryTypeWants, Icon: "film", Color: colorWants},
			{Category: "Emergency Fund", CategoryType: models.CategoryTypeSavings, Icon: "piggy-bank", Color: colorSavings},
			{Category: "Debt Payoff", CategoryType: models.CategoryTypeSavings, Icon: "credit-card", Color: colorSavings},
		},
	},
	{
		Key:         models.FrameworkCustom,
		Name:        "Custom Budget",
		Description: "Create your own categories and allocations",
		Categories:  []TemplateCategory{},
	},
}

// Frameworks returns the catalog of available framework templates.
func Frameworks() []FrameworkTemplate {
	return frameworkTemplates
}

func frameworkByKey(key models.Framework) (*FrameworkTemplate, bool) {
	for i := range frameworkTemplates {
		if frameworkTemplates[i].Key == key {
			return &frameworkTemplates[i], true
		}
	}
	return nil, false
}

// roundHalfUpCents converts a non-negative fractional cent value to whole
// cents, rounding halves up (never banker's rounding).
func roundHalfUpCents(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}

// ExpandFramework produces the initial budget items for a framework applied
// to a total income (cents). Template categories are generated as standalone
// items with directly computed amounts; parents only ever come from explicit
// parent-category creation, so the aggregation engine stays the sole writer
// of parent totals.
func ExpandFramework(key models.Framework, totalIncome int64) ([]models.BudgetItem, error) {
	tmpl, ok := frameworkByKey(key)
	if !ok {
		return nil, apperrors.ErrUnknownFramework
	}
	if totalIncome < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "total income must not be negative")
	}

	amounts := make([]int64, len(tmpl.Categories))
	var allocated int64
	for i, tc := range tmpl.Categories {
		amounts[i] = roundHalfUpCents(float64(totalIncome) * tc.Percentage)
		allocated += amounts[i]
	}

	if tmpl.Proportional && len(amounts) > 0 {
		// Fold the rounding remainder into the last category so the
		// expansion sums to the income exactly. Half-up rounding can
		// over-allocate on tiny incomes; claw the deficit back from earlier
		// categories so no amount ever goes negative.
		i := len(amounts) - 1
		amounts[i] += totalIncome - allocated
		for i > 0 && amounts[i] < 0 {
			amounts[i-1] += amounts[i]
			amounts[i] = 0
			i--
		}
	}

	items := make([]models.BudgetItem, 0, len(tmpl.Categories))
	for i, tc := range tmpl.Categories {
		items = append(items, models.BudgetItem{
			Category:       tc.Category,
			CategoryType:   tc.CategoryType,
			BudgetedAmount: amounts[i],
			SpentAmount:    0,
			Icon:           tc.Icon,
			Color:          tc.Color,
			DisplayOrder:   i,
		})
	}

	return items, nil
}
