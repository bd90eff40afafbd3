package services

import (
	"errors"
	"sync"

	"gorm.io/gorm"

	apperrors "finspace/internal/errors"
	"finspace/internal/models"
	"finspace/internal/pagination"
)

// budgetService handles budget and budget-item business logic. All item
// mutations run inside a transaction guarded by a per-budget lock so that
// parent and budget totals are recomputed atomically with the mutation.
type budgetService struct {
	db *gorm.DB

	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{
		db:    db,
		locks: make(map[uint]*sync.Mutex),
	}
}

// lockFor returns the mutation lock for a budget, creating it on first use.
func (s *budgetService) lockFor(budgetID uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[budgetID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[budgetID] = lock
	}
	return lock
}

// withBudgetLock runs fn in a transaction while holding the budget's
// mutation lock. A failed recompute inside fn rolls back the whole mutation.
func (s *budgetService) withBudgetLock(budgetID uint, fn func(tx *gorm.DB) error) error {
	lock := s.lockFor(budgetID)
	lock.Lock()
	defer lock.Unlock()
	return s.db.Transaction(fn)
}

// requireMember verifies the user has an active membership in the space.
func (s *budgetService) requireMember(userID, spaceID uint) error {
	var count int64
	err := s.db.Model(&models.SpaceMember{}).
		Where("space_id = ? AND user_id = ? AND is_active = ?", spaceID, userID, true).
		Count(&count).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.ErrNotSpaceMember
	}
	return nil
}

// budgetForUser loads a budget and verifies the user may access it.
func (s *budgetService) budgetForUser(userID, budgetID uint) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.First(&budget, budgetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.requireMember(userID, budget.SpaceID); err != nil {
		return nil, err
	}
	return &budget, nil
}

// itemForUser loads a budget item and verifies the user may access its budget.
func (s *budgetService) itemForUser(userID, itemID uint) (*models.BudgetItem, *models.Budget, error) {
	var item models.BudgetItem
	if err := s.db.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.ErrBudgetItemNotFound
		}
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	budget, err := s.budgetForUser(userID, item.BudgetID)
	if err != nil {
		return nil, nil, err
	}
	return &item, budget, nil
}

type amountSums struct {
	Budgeted int64
	Spent    int64
}

// recalcParentTotals rewrites a parent item's amounts as the sum of its
// children's amounts.
func recalcParentTotals(tx *gorm.DB, parentID uint) error {
	var sums amountSums
	err := tx.Model(&models.BudgetItem{}).
		Select("COALESCE(SUM(budgeted_amount), 0) AS budgeted, COALESCE(SUM(spent_amount), 0) AS spent").
		Where("parent_id = ?", parentID).
		Scan(&sums).Error
	if err != nil {
		return err
	}
	return tx.Model(&models.BudgetItem{}).
		Where("id = ?", parentID).
		Updates(map[string]interface{}{
			"budgeted_amount": sums.Budgeted,
			"spent_amount":    sums.Spent,
		}).Error
}

// recalcBudgetTotals rewrites a budget's totals as the sum of its top-level
// items. Children are excluded: their amounts are already in their parent.
func recalcBudgetTotals(tx *gorm.DB, budgetID uint) error {
	var sums amountSums
	err := tx.Model(&models.BudgetItem{}).
		Select("COALESCE(SUM(budgeted_amount), 0) AS budgeted, COALESCE(SUM(spent_amount), 0) AS spent").
		Where("budget_id = ? AND parent_id IS NULL", budgetID).
		Scan(&sums).Error
	if err != nil {
		return err
	}
	return tx.Model(&models.Budget{}).
		Where("id = ?", budgetID).
		Updates(map[string]interface{}{
			"total_budgeted": sums.Budgeted,
			"total_spent":    sums.Spent,
		}).Error
}

// CreateBudget creates a budget in a space. A non-custom framework expands
// into initial items from TotalIncome; at most one master budget may exist
// per space and month.
func (s *budgetService) CreateBudget(userID, spaceID uint, in BudgetInput) (*models.Budget, error) {
	if err := s.requireMember(userID, spaceID); err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget name is required")
	}
	if in.Type == "" {
		in.Type = models.BudgetTypeMaster
	}
	if in.Framework == "" {
		in.Framework = models.FrameworkCustom
	}
	if in.Currency == "" {
		var space models.Space
		if err := s.db.First(&space, spaceID).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		in.Currency = space.Currency
	}

	items, err := ExpandFramework(in.Framework, in.TotalIncome)
	if err != nil {
		return nil, err
	}

	budget := &models.Budget{
		SpaceID:     spaceID,
		Name:        in.Name,
		Description: in.Description,
		Type:        in.Type,
		MonthPeriod: in.MonthPeriod,
		Framework:   in.Framework,
		Currency:    in.Currency,
		TotalIncome: in.TotalIncome,
		CreatedBy:   userID,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if in.Type == models.BudgetTypeMaster {
			var count int64
			err := tx.Model(&models.Budget{}).
				Where("space_id = ? AND month_period = ? AND type = ?", spaceID, in.MonthPeriod, models.BudgetTypeMaster).
				Count(&count).Error
			if err != nil {
				return err
			}
			if count > 0 {
				return apperrors.ErrMasterBudgetExists
			}
		}

		if err := tx.Create(budget).Error; err != nil {
			return err
		}

		for i := range items {
			items[i].BudgetID = budget.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}

		return recalcBudgetTotals(tx, budget.ID)
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.First(budget, budget.ID).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	budget.Items = items

	return budget, nil
}

// GetSpaceBudgets returns a paginated list of a space's budgets with
// optional type and month filters.
func (s *budgetService) GetSpaceBudgets(userID, spaceID uint, page pagination.PageRequest, budgetType *models.BudgetType, monthPeriod *string) (*pagination.PageResponse[models.Budget], error) {
	if err := s.requireMember(userID, spaceID); err != nil {
		return nil, err
	}
	page.Defaults()

	base := s.db.Model(&models.Budget{}).Where("space_id = ?", spaceID)
	if budgetType != nil {
		base = base.Where("type = ?", *budgetType)
	}
	if monthPeriod != nil {
		base = base.Where("month_period = ?", *monthPeriod)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := base.Order("month_period DESC, id").Scopes(pagination.Paginate(page)).Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBudgetByID returns a budget with its items if the user may access it.
func (s *budgetService) GetBudgetByID(userID, budgetID uint) (*models.Budget, error) {
	budget, err := s.budgetForUser(userID, budgetID)
	if err != nil {
		return nil, err
	}
	if err := s.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("display_order, id")
	}).First(budget, budgetID).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budget, nil
}

// UpdateBudget updates a budget's name, description, or income. Changing the
// income never re-expands the framework; existing items stay as they are.
func (s *budgetService) UpdateBudget(userID, budgetID uint, name, description *string, totalIncome *int64) (*models.Budget, error) {
	budget, err := s.budgetForUser(userID, budgetID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != nil && *name != "" {
		updates["name"] = *name
	}
	if description != nil {
		updates["description"] = *description
	}
	if totalIncome != nil {
		if *totalIncome < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "total income must not be negative")
		}
		updates["total_income"] = *totalIncome
	}

	if len(updates) > 0 {
		if err := s.db.Model(budget).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return budget, nil
}

// DeleteBudget soft-deletes a budget and all of its items.
func (s *budgetService) DeleteBudget(userID, budgetID uint) error {
	budget, err := s.budgetForUser(userID, budgetID)
	if err != nil {
		return err
	}

	err = s.withBudgetLock(budgetID, func(tx *gorm.DB) error {
		if err := tx.Where("budget_id = ?", budgetID).Delete(&models.BudgetItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(budget).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// validateChildParent checks that parentID identifies a parent item in the
// given budget.
func validateChildParent(tx *gorm.DB, budgetID, parentID uint) error {
	var parent models.BudgetItem
	if err := tx.First(&parent, parentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrBudgetItemNotFound
		}
		return err
	}
	if parent.BudgetID != budgetID || !parent.IsParent {
		return apperrors.ErrInvalidHierarchy
	}
	return nil
}

// CreateItem creates a standalone or child item and recomputes the affected
// totals. Parents are created through CreateParentWithChildren.
func (s *budgetService) CreateItem(userID, budgetID uint, in ItemInput) (*models.BudgetItem, error) {
	if _, err := s.budgetForUser(userID, budgetID); err != nil {
		return nil, err
	}
	if in.Category == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}

	item := &models.BudgetItem{
		BudgetID:       budgetID,
		Category:       in.Category,
		Description:    in.Description,
		CategoryType:   in.CategoryType,
		BudgetedAmount: in.BudgetedAmount,
		SpentAmount:    in.SpentAmount,
		Icon:           in.Icon,
		Color:          in.Color,
		DisplayOrder:   in.DisplayOrder,
		ParentID:       in.ParentID,
	}

	err := s.withBudgetLock(budgetID, func(tx *gorm.DB) error {
		if in.ParentID != nil {
			if err := validateChildParent(tx, budgetID, *in.ParentID); err != nil {
				return err
			}
		}
		if err := tx.Create(item).Error; err != nil {
			return err
		}
		if in.ParentID != nil {
			if err := recalcParentTotals(tx, *in.ParentID); err != nil {
				return apperrors.Wrap(apperrors.ErrAggregationFailed, err)
			}
		}
		if err := recalcBudgetTotals(tx, budgetID); err != nil {
			return apperrors.Wrap(apperrors.ErrAggregationFailed, err)
		}
		return nil
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return item, nil
}

// CreateParentWithChildren creates a parent category and its children in one
// transaction. The parent's amounts are derived from the children.
func (s *budgetService) CreateParentWithChildren(userID, budgetID uint, parent ItemInput, children []ItemInput) (*ItemNode, error) {
	if _, err := s.budgetForUser(userID, budgetID); err != nil {
		return nil, err
	}
	if parent.Category == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}
	if parent.ParentID != nil {
		return nil, apperrors.ErrInvalidHierarchy
	}

	parentItem := &models.BudgetItem{
		BudgetID:     budgetID,
		Category:     parent.Category,
		Description:  parent.Description,
		CategoryType: parent.CategoryType,
		Icon:         parent.Icon,
		Color:        parent.Color,
		DisplayOrder: parent.DisplayOrder,
		IsParent:     true,
	}
	childItems := make([]models.BudgetItem, 0, len(children))

	err := s.withBudgetLock(budgetID, func(tx *gorm.DB) error {
		if err := tx.Create(parentItem).Error; err != nil {
			return err
		}
		for i, c := range children {
			if c.ParentID != nil {
				return apperrors.ErrInvalidHierarchy
			}
			childItems = append(childItems, models.BudgetItem{
				BudgetID:       budgetID,
				Category:       c.Category,
				Description:    c.Description,
				CategoryType:   c.CategoryType,
				BudgetedAmount: c.BudgetedAmount,
				SpentAmount:    c.SpentAmount,
				Icon:           c.Icon,
				Color:          c.Color,
				DisplayOrder:   i,
				ParentID:       &parentItem.ID,
			})
		}
		if len(childItems) > 0 {
			if err := tx.Create(&childItems).Error; err != nil {
				return err
			}
		}
		if err := recalcParentTotals(tx, parentItem.ID); err != nil {
			return apperrors.Wrap(apperrors.ErrAggregationFailed, err)
		}
		if err := recalcBudgetTotals(tx, budgetID); err != nil {
			return apperrors.Wrap(apperrors.ErrAggregationFailed, err)
		}
		return tx.First(parentItem, parentItem.ID).Error
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &ItemNode{BudgetItem: *parentItem, Children: childItems}, nil
}

// AddChild creates a child item under an existing parent. Adding a child to
// a non-parent item is an error; items never become parents implicitly.
func (s *budgetService) AddChild(userID, parentItemID uint, in ItemInput) (*models.BudgetItem, error) {
	parent, _, err := s.itemForUser(userID, parentItemID)
	if err != nil {
		return nil, err
	}
	if !parent.IsParent {
		return nil, apperrors.ErrInvalidHierarchy
	}

	in.ParentID = &parent.ID
	return s.CreateItem(userID, parent.BudgetID, in)
}

// UpdateItem updates an item and recomputes the affected totals. Amounts may
// not be set directly on a parent, a child may not become a parent, and a
// parent with children may not be demoted.
func (s *budgetService) UpdateItem(userID, itemID uint, in ItemUpdate) (*models.BudgetItem, error) {
	item, _, err := s.itemForUser(userID, itemID)
	if err != nil {
		return nil, err
	}

	err = s.withBudgetLock(item.BudgetID, func(tx *gorm.DB) error {
		oldParentID := item.ParentID
		updates := make(map[string]interface{})

		if in.Category != nil && *in.Category != "" {
			updates["category"] = *in.Category
		}
		if in.Description != nil {
			updates["description"] = *in.Description
		}
		if in.CategoryType != nil {
			updates["category_type"] = *in.CategoryType
		}
		if in.Icon != nil {
			updates["icon"] = *in.Icon
		}
		if in.Color != nil {
			updates["color"] = *in.Color
		}
		if in.DisplayOrder != nil {
			updates["display_order"] = *in.DisplayOrder
		}

		if in.BudgetedAmount != nil || in.SpentAmount != nil {
			if item.IsParent {
				return apperrors.WithMessage(apperrors.ErrInvalidInput, "parent amounts are derived from children and cannot be set directly")
			}
			if in.BudgetedAmount != nil {
				updates["budgeted_amount"] = *in.BudgetedAmount
			}
			if in.SpentAmount != nil {
				updates["spent_amount"] = *in.SpentAmount
			}
		}

		if in.IsParent != nil && *in.IsParent != item.IsParent {
			if *in.IsParent {
				if item.ParentID != nil || in.ParentID != nil {
					return apperrors.ErrInvalidHierarchy
				}
				updates["is_parent"] = true
			} else {
				var childCount int64
				if err := tx.Model(&models.BudgetItem{}).Where("parent_id = ?", item.ID).Count(&childCount).Error; err != nil {
					return err
				}
				if childCount > 0 {
					return apperrors.ErrInvalidHierarchy
				}
				updates["is_parent"] = false
			}
		}

		switch {
		case in.ClearParent:
			updates["parent_id"] = nil
		case in.ParentID != nil:
			if item.IsParent {
				return apperrors.ErrInvalidHierarchy
			}
			if err := validateChildParent(tx, item.BudgetID, *in.ParentID); err != nil {
				return err
			}
			updates["parent_id"] = *in.ParentID
		}

		if len(updates) > 0 {
			if err := tx.Model(item).Updates(updates).Error; err != nil {
				return err
			}
		}

		if err := tx.First(item, item.ID).Error; err != nil {
			return err
		}

		// Recompute every parent the item touched, then the budget. The item
		// itself counts as touched when it is a parent: a freshly promoted
		// item must shed its old standalone amounts, since parent amounts are
		// always derived from children.
		if item.IsParent {
			if err := recalcParentTotals(tx, item.ID); err != nil {
				return apperrors.Wrap(apperrors.ErrAggregationFailed, err)
			}
		}
		if oldParentID != nil {
			if err := recalcParentTotals(tx, *oldParentID); err != nil {
				return apperrors.Wrap(apperrors.ErrAggregationFailed, err)
			}
		}
		if item.ParentID != nil && (oldParentID == nil || *item.ParentID != *oldParentID) {
			if err := recalcParentTotals(tx, *item.ParentID); err != nil {
				return apperrors.Wrap(apperrors.ErrAggregationFailed, err)
			}
		}
		if err := recalcBudgetTotals(tx, item.BudgetID); err != nil {
			return apperrors.Wrap(apperrors.ErrAggregationFailed, err)
		}
		return tx.First(item, item.ID).Error
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return item, nil
}

// DeleteItem soft-deletes an item and recomputes the affected totals.
// Deleting a parent cascades to its children.
func (s *budgetService) DeleteItem(userID, itemID uint) error {
	item, _, err := s.itemForUser(userID, itemID)
	if err != nil {
		return err
	}

	err = s.withBudgetLock(item.BudgetID, func(tx *gorm.DB) error {
		if item.IsParent {
			if err := tx.Where("parent_id = ?", item.ID).Delete(&models.BudgetItem{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Delete(item).Error; err != nil {
			return err
		}
		if item.ParentID != nil {
			if err := recalcParentTotals(tx, *item.ParentID); err != nil {
				return apperrors.Wrap(apperrors.ErrAggregationFailed, err)
			}
		}
		if err := recalcBudgetTotals(tx, item.BudgetID); err != nil {
			return apperrors.Wrap(apperrors.ErrAggregationFailed, err)
		}
		return nil
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetItemTree returns the budget's items as a two-level tree.
func (s *budgetService) GetItemTree(userID, budgetID uint) ([]ItemNode, error) {
	if _, err := s.budgetForUser(userID, budgetID); err != nil {
		return nil, err
	}

	var items []models.BudgetItem
	if err := s.db.Where("budget_id = ?", budgetID).Order("display_order, id").Find(&items).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return BuildItemTree(items), nil
}

// GetParentCategories returns the budget's parent items.
func (s *budgetService) GetParentCategories(userID, budgetID uint) ([]models.BudgetItem, error) {
	if _, err := s.budgetForUser(userID, budgetID); err != nil {
		return nil, err
	}

	var parents []models.BudgetItem
	err := s.db.Where("budget_id = ? AND is_parent = ?", budgetID, true).
		Order("display_order, id").
		Find(&parents).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return parents, nil
}

// GetChildren returns the children of a parent item.
func (s *budgetService) GetChildren(userID, parentItemID uint) ([]models.BudgetItem, error) {
	parent, _, err := s.itemForUser(userID, parentItemID)
	if err != nil {
		return nil, err
	}
	if !parent.IsParent {
		return nil, apperrors.ErrInvalidHierarchy
	}

	var children []models.BudgetItem
	err = s.db.Where("parent_id = ?", parent.ID).Order("display_order, id").Find(&children).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return children, nil
}

// GetBudgetStats returns aggregate figures for a budget. The per-type
// breakdown covers top-level items only, matching how budget totals count.
func (s *budgetService) GetBudgetStats(userID, budgetID uint) (*BudgetStats, error) {
	budget, err := s.budgetForUser(userID, budgetID)
	if err != nil {
		return nil, err
	}

	var items []models.BudgetItem
	if err := s.db.Where("budget_id = ? AND parent_id IS NULL", budgetID).Find(&items).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	byType := make(map[models.CategoryType]TypeBreakdown)
	for _, item := range items {
		entry := byType[item.CategoryType]
		entry.Budgeted += item.BudgetedAmount
		entry.Spent += item.SpentAmount
		entry.Items++
		byType[item.CategoryType] = entry
	}

	var spentPct float64
	if budget.TotalBudgeted > 0 {
		spentPct = float64(budget.TotalSpent) / float64(budget.TotalBudgeted) * 100
	}

	return &BudgetStats{
		BudgetID:      budget.ID,
		TotalIncome:   budget.TotalIncome,
		TotalBudgeted: budget.TotalBudgeted,
		TotalSpent:    budget.TotalSpent,
		Remaining:     budget.TotalIncome - budget.TotalBudgeted,
		SpentPct:      spentPct,
		ByType:        byType,
	}, nil
}

// RecalculateTotals resynchronizes every derived amount in a budget from its
// leaf items: each parent from its children, then the budget from its
// top-level items.
func (s *budgetService) RecalculateTotals(userID, budgetID uint) (*models.Budget, error) {
	budget, err := s.budgetForUser(userID, budgetID)
	if err != nil {
		return nil, err
	}

	err = s.withBudgetLock(budgetID, func(tx *gorm.DB) error {
		var parentIDs []uint
		err := tx.Model(&models.BudgetItem{}).
			Where("budget_id = ? AND is_parent = ?", budgetID, true).
			Pluck("id", &parentIDs).Error
		if err != nil {
			return err
		}
		for _, parentID := range parentIDs {
			if err := recalcParentTotals(tx, parentID); err != nil {
				return apperrors.Wrap(apperrors.ErrAggregationFailed, err)
			}
		}
		if err := recalcBudgetTotals(tx, budgetID); err != nil {
			return apperrors.Wrap(apperrors.ErrAggregationFailed, err)
		}
		return tx.First(budget, budgetID).Error
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return budget, nil
}

// ReplicateBudget copies a budget and its items into a target month. Spent
// amounts reset to zero; the item hierarchy is preserved. Replicating a
// master budget into a month that already has one is a conflict.
func (s *budgetService) ReplicateBudget(userID, budgetID uint, targetMonth string) (*models.Budget, error) {
	source, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}
	if targetMonth == source.MonthPeriod {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target month must differ from the source month")
	}

	replica := &models.Budget{
		SpaceID:       source.SpaceID,
		Name:          source.Name,
		Description:   source.Description,
		Type:          source.Type,
		MonthPeriod:   targetMonth,
		Framework:     source.Framework,
		Currency:      source.Currency,
		TotalIncome:   source.TotalIncome,
		AutoGenerated: true,
		CreatedBy:     userID,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if source.Type == models.BudgetTypeMaster {
			var count int64
			err := tx.Model(&models.Budget{}).
				Where("space_id = ? AND month_period = ? AND type = ?", source.SpaceID, targetMonth, models.BudgetTypeMaster).
				Count(&count).Error
			if err != nil {
				return err
			}
			if count > 0 {
				return apperrors.ErrMasterBudgetExists
			}
		}

		if err := tx.Create(replica).Error; err != nil {
			return err
		}

		// Copy parents first so children can point at the new IDs.
		parentMap := make(map[uint]uint)
		for _, item := range source.Items {
			if !item.IsParent {
				continue
			}
			dup := models.BudgetItem{
				BudgetID:     replica.ID,
				Category:     item.Category,
				Description:  item.Description,
				CategoryType: item.CategoryType,
				Icon:         item.Icon,
				Color:        item.Color,
				DisplayOrder: item.DisplayOrder,
				IsParent:     true,
			}
			if err := tx.Create(&dup).Error; err != nil {
				return err
			}
			parentMap[item.ID] = dup.ID
		}

		for _, item := range source.Items {
			if item.IsParent {
				continue
			}
			dup := models.BudgetItem{
				BudgetID:       replica.ID,
				Category:       item.Category,
				Description:    item.Description,
				CategoryType:   item.CategoryType,
				BudgetedAmount: item.BudgetedAmount,
				Icon:           item.Icon,
				Color:          item.Color,
				DisplayOrder:   item.DisplayOrder,
			}
			if item.ParentID != nil {
				if newID, ok := parentMap[*item.ParentID]; ok {
					dup.ParentID = &newID
				}
			}
			if err := tx.Create(&dup).Error; err != nil {
				return err
			}
		}

		for _, newParentID := range parentMap {
			if err := recalcParentTotals(tx, newParentID); err != nil {
				return apperrors.Wrap(apperrors.ErrAggregationFailed, err)
			}
		}
		if err := recalcBudgetTotals(tx, replica.ID); err != nil {
			return apperrors.Wrap(apperrors.ErrAggregationFailed, err)
		}
		return tx.First(replica, replica.ID).Error
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return replica, nil
}
