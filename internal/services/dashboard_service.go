package services

import (
	"errors"
	"sort"

	"gorm.io/gorm"

	apperrors "finspace/internal/errors"
	"finspace/internal/models"
)

// topSpendingLimit caps the highest-spending items shown on the dashboard.
const topSpendingLimit = 5

// dashboardService assembles the per-space monthly summary.
type dashboardService struct {
	db     *gorm.DB
	spaces SpaceServicer
}

// NewDashboardService creates a new DashboardServicer.
func NewDashboardService(db *gorm.DB, spaces SpaceServicer) DashboardServicer {
	return &dashboardService{db: db, spaces: spaces}
}

// GetSummary aggregates a space's budgets for one month: the master budget's
// totals and per-type breakdown plus the list of secondary budgets. Totals
// come from the master budget; a month without one reports zeros.
func (s *dashboardService) GetSummary(userID, spaceID uint, monthPeriod string) (*DashboardSummary, error) {
	if _, err := s.spaces.ActiveMembership(userID, spaceID); err != nil {
		return nil, err
	}

	var space models.Space
	if err := s.db.Where("id = ? AND is_active = ?", spaceID, true).First(&space).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSpaceNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary := &DashboardSummary{
		SpaceID:          space.ID,
		SpaceName:        space.Name,
		MonthPeriod:      monthPeriod,
		Currency:         space.Currency,
		SecondaryBudgets: []models.Budget{},
		ByType:           make(map[models.CategoryType]TypeBreakdown),
		TopSpending:      []models.BudgetItem{},
	}

	var master models.Budget
	err := s.db.Where("space_id = ? AND month_period = ? AND type = ?", spaceID, monthPeriod, models.BudgetTypeMaster).
		First(&master).Error
	switch {
	case err == nil:
		summary.MasterBudget = &master
		summary.TotalIncome = master.TotalIncome
		summary.TotalBudgeted = master.TotalBudgeted
		summary.TotalSpent = master.TotalSpent
		summary.Remaining = master.TotalIncome - master.TotalSpent

		var items []models.BudgetItem
		if err := s.db.Where("budget_id = ? AND parent_id IS NULL", master.ID).Find(&items).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		for _, item := range items {
			entry := summary.ByType[item.CategoryType]
			entry.Budgeted += item.BudgetedAmount
			entry.Spent += item.SpentAmount
			entry.Items++
			summary.ByType[item.CategoryType] = entry
		}

		sort.SliceStable(items, func(i, j int) bool {
			return items[i].SpentAmount > items[j].SpentAmount
		})
		for _, item := range items {
			if item.SpentAmount <= 0 || len(summary.TopSpending) == topSpendingLimit {
				break
			}
			summary.TopSpending = append(summary.TopSpending, item)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// No master budget this month; totals stay zero.
	default:
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	err = s.db.Where("space_id = ? AND month_period = ? AND type = ?", spaceID, monthPeriod, models.BudgetTypeSecondary).
		Order("id").
		Find(&summary.SecondaryBudgets).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return summary, nil
}
