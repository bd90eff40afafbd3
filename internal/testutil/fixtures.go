package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"finspace/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestSpace creates a space with the creator enrolled as owner.
func CreateTestSpace(t *testing.T, db *gorm.DB, ownerID uint, spaceType models.SpaceType) *models.Space {
	t.Helper()

	n := nextID()
	space := &models.Space{
		Name:       fmt.Sprintf("Test Space %d", n),
		SpaceType:  spaceType,
		Currency:   "USD",
		InviteCode: fmt.Sprintf("T%05d", n%100000),
		IsActive:   true,
		CreatedBy:  ownerID,
	}
	if err := db.Create(space).Error; err != nil {
		t.Fatalf("failed to create test space: %v", err)
	}

	member := &models.SpaceMember{
		SpaceID:  space.ID,
		UserID:   ownerID,
		Role:     models.MemberRoleOwner,
		IsActive: true,
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("failed to create test space owner: %v", err)
	}
	return space
}

// AddTestMember adds a user to a space with the given role.
func AddTestMember(t *testing.T, db *gorm.DB, spaceID, userID uint, role models.MemberRole) *models.SpaceMember {
	t.Helper()

	member := &models.SpaceMember{
		SpaceID:  spaceID,
		UserID:   userID,
		Role:     role,
		IsActive: true,
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("failed to create test space member: %v", err)
	}
	return member
}

// CreateTestBudget creates a custom master budget in the given space.
func CreateTestBudget(t *testing.T, db *gorm.DB, spaceID, userID uint, monthPeriod string) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		SpaceID:     spaceID,
		Name:        fmt.Sprintf("Test Budget %d", nextID()),
		Type:        models.BudgetTypeMaster,
		MonthPeriod: monthPeriod,
		Framework:   models.FrameworkCustom,
		Currency:    "USD",
		TotalIncome: 500000, // $5000.00
		CreatedBy:   userID,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestItem creates a standalone item with the given amounts (in cents).
func CreateTestItem(t *testing.T, db *gorm.DB, budgetID uint, budgeted, spent int64) *models.BudgetItem {
	t.Helper()

	item := &models.BudgetItem{
		BudgetID:       budgetID,
		Category:       fmt.Sprintf("Test Category %d", nextID()),
		CategoryType:   models.CategoryTypeNeeds,
		BudgetedAmount: budgeted,
		SpentAmount:    spent,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("failed to create test item: %v", err)
	}
	return item
}

// CreateTestParent creates a parent item with no children.
func CreateTestParent(t *testing.T, db *gorm.DB, budgetID uint) *models.BudgetItem {
	t.Helper()

	item := &models.BudgetItem{
		BudgetID:     budgetID,
		Category:     fmt.Sprintf("Test Parent %d", nextID()),
		CategoryType: models.CategoryTypeNeeds,
		IsParent:     true,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("failed to create test parent item: %v", err)
	}
	return item
}

// CreateTestChild creates a child item under the given parent.
func CreateTestChild(t *testing.T, db *gorm.DB, budgetID, parentID uint, budgeted, spent int64) *models.BudgetItem {
	t.Helper()

	item := &models.BudgetItem{
		BudgetID:       budgetID,
		Category:       fmt.Sprintf("Test Child %d", nextID()),
		CategoryType:   models.CategoryTypeNeeds,
		BudgetedAmount: budgeted,
		SpentAmount:    spent,
		ParentID:       &parentID,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("failed to create test child item: %v", err)
	}
	return item
}
