package services

import (
	"finspace/internal/models"
	"finspace/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID uint, tokenHash string) error
	GetRefreshTokenHash(userID uint) (string, error)
	MarkOnboardingCompleted(userID uint) error
}

// SpaceServicer defines the contract for space and membership business logic.
type SpaceServicer interface {
	CreateSpace(userID uint, name, description string, spaceType models.SpaceType, currency string) (*models.Space, error)
	GetUserSpaces(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Space], error)
	GetSpaceByID(userID, spaceID uint) (*models.Space, error)
	UpdateSpace(userID, spaceID uint, name, description, currency *string) (*models.Space, error)
	DeleteSpace(userID, spaceID uint) error
	JoinByInviteCode(userID uint, code string) (*models.Space, error)
	LeaveSpace(userID, spaceID uint) error
	GetMembers(userID, spaceID uint) ([]models.SpaceMember, error)
	RegenerateInviteCode(userID, spaceID uint) (*models.Space, error)
	ActiveMembership(userID, spaceID uint) (*models.SpaceMember, error)
}

// BudgetInput holds the fields for creating a budget. A non-custom framework
// auto-populates the budget's items from TotalIncome.
type BudgetInput struct {
	Name        string
	Description string
	Type        models.BudgetType
	MonthPeriod string
	Framework   models.Framework
	Currency    string
	TotalIncome int64
}

// ItemInput holds the fields for creating a budget item. BudgetedAmount and
// SpentAmount are ignored when the item is created as a parent; parent
// amounts are always derived from children.
type ItemInput struct {
	Category       string
	Description    string
	CategoryType   models.CategoryType
	BudgetedAmount int64
	SpentAmount    int64
	Icon           string
	Color          string
	DisplayOrder   int
	ParentID       *uint
}

// ItemUpdate holds optional updates for a budget item. Nil fields are left
// unchanged. Setting ParentID reparents the item; ClearParent detaches it
// back to top level.
type ItemUpdate struct {
	Category       *string
	Description    *string
	CategoryType   *models.CategoryType
	BudgetedAmount *int64
	SpentAmount    *int64
	Icon           *string
	Color          *string
	DisplayOrder   *int
	IsParent       *bool
	ParentID       *uint
	ClearParent    bool
}

// TypeBreakdown aggregates budgeted and spent amounts for one category type.
type TypeBreakdown struct {
	Budgeted int64 `json:"budgeted"`
	Spent    int64 `json:"spent"`
	Items    int   `json:"items"`
}

// BudgetStats contains aggregate figures for a budget. Remaining is income
// minus budgeted; SpentPct is spent over budgeted as a percentage.
type BudgetStats struct {
	BudgetID      uint                                  `json:"budget_id"`
	TotalIncome   int64                                 `json:"total_income"`
	TotalBudgeted int64                                 `json:"total_budgeted"`
	TotalSpent    int64                                 `json:"total_spent"`
	Remaining     int64                                 `json:"remaining"`
	SpentPct      float64                               `json:"spent_pct"`
	ByType        map[models.CategoryType]TypeBreakdown `json:"by_type"`
}

// BudgetServicer defines the contract for budget and budget-item business
// logic, including the aggregation of parent and budget totals.
type BudgetServicer interface {
	CreateBudget(userID, spaceID uint, in BudgetInput) (*models.Budget, error)
	GetSpaceBudgets(userID, spaceID uint, page pagination.PageRequest, budgetType *models.BudgetType, monthPeriod *string) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(userID, budgetID uint) (*models.Budget, error)
	UpdateBudget(userID, budgetID uint, name, description *string, totalIncome *int64) (*models.Budget, error)
	DeleteBudget(userID, budgetID uint) error

	CreateItem(userID, budgetID uint, in ItemInput) (*models.BudgetItem, error)
	UpdateItem(userID, itemID uint, in ItemUpdate) (*models.BudgetItem, error)
	DeleteItem(userID, itemID uint) error
	CreateParentWithChildren(userID, budgetID uint, parent ItemInput, children []ItemInput) (*ItemNode, error)
	AddChild(userID, parentItemID uint, in ItemInput) (*models.BudgetItem, error)

	GetItemTree(userID, budgetID uint) ([]ItemNode, error)
	GetParentCategories(userID, budgetID uint) ([]models.BudgetItem, error)
	GetChildren(userID, parentItemID uint) ([]models.BudgetItem, error)
	GetBudgetStats(userID, budgetID uint) (*BudgetStats, error)
	RecalculateTotals(userID, budgetID uint) (*models.Budget, error)
	ReplicateBudget(userID, budgetID uint, targetMonth string) (*models.Budget, error)
}

// OnboardingInput holds the answers collected during first-run onboarding.
type OnboardingInput struct {
	SpaceName   string
	Currency    string
	MonthPeriod string
	Framework   models.Framework
	TotalIncome int64
}

// OnboardingResult is everything created by completing onboarding.
type OnboardingResult struct {
	Space  *models.Space       `json:"space"`
	Budget *models.Budget      `json:"budget"`
	Items  []models.BudgetItem `json:"items"`
}

// OnboardingServicer defines the contract for first-run setup.
type OnboardingServicer interface {
	Complete(userID uint, in OnboardingInput) (*OnboardingResult, error)
	Status(userID uint) (bool, error)
}

// CurrencyServicer defines the contract for the currency reference data.
type CurrencyServicer interface {
	ListCurrencies(activeOnly bool) ([]models.Currency, error)
	GetCurrency(code string) (*models.Currency, error)
	CreateCurrency(code, name, symbol string, decimalPlaces, displayOrder int) (*models.Currency, error)
	UpdateCurrency(code string, name, symbol *string, decimalPlaces, displayOrder *int, isActive *bool) (*models.Currency, error)
	DeleteCurrency(code string) error
	SeedDefaults() error
}

// DashboardSummary is the aggregated view of a space for a given month.
type DashboardSummary struct {
	SpaceID          uint                                  `json:"space_id"`
	SpaceName        string                                `json:"space_name"`
	MonthPeriod      string                                `json:"month_period"`
	Currency         string                                `json:"currency"`
	MasterBudget     *models.Budget                        `json:"master_budget,omitempty"`
	SecondaryBudgets []models.Budget                       `json:"secondary_budgets"`
	TotalIncome      int64                                 `json:"total_income"`
	TotalBudgeted    int64                                 `json:"total_budgeted"`
	TotalSpent       int64                                 `json:"total_spent"`
	Remaining        int64                                 `json:"remaining"`
	ByType           map[models.CategoryType]TypeBreakdown `json:"by_type"`
	TopSpending      []models.BudgetItem                   `json:"top_spending"`
}

// DashboardServicer defines the contract for the dashboard summary.
type DashboardServicer interface {
	GetSummary(userID, spaceID uint, monthPeriod string) (*DashboardSummary, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}
