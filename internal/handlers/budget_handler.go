package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "finspace/internal/errors"
	"finspace/internal/models"
	"finspace/internal/pagination"
	"finspace/internal/services"
)

// BudgetHandler handles budget and budget-item requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
	auditService  services.AuditServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer, auditService services.AuditServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService, auditService: auditService}
}

// CreateBudgetRequest represents the request payload for creating a budget.
type CreateBudgetRequest struct {
	Name        string            `json:"name" binding:"required,min=1,max=100"`
	Description string            `json:"description" binding:"max=500"`
	Type        models.BudgetType `json:"type" binding:"omitempty,budget_type"`
	MonthPeriod string            `json:"month_period" binding:"required,month_period"`
	Framework   models.Framework  `json:"framework" binding:"omitempty,framework"`
	Currency    string            `json:"currency" binding:"omitempty,iso4217"`
	TotalIncome int64             `json:"total_income" binding:"gte=0"`
}

// UpdateBudgetRequest represents the request payload for updating a budget.
type UpdateBudgetRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	TotalIncome *int64  `json:"total_income" binding:"omitempty,gte=0"`
}

// ItemRequest represents the request payload for creating a budget item.
type ItemRequest struct {
	Category       string              `json:"category" binding:"required,min=1,max=100"`
	Description    string              `json:"description" binding:"max=500"`
	CategoryType   models.CategoryType `json:"category_type" binding:"required,category_type"`
	BudgetedAmount int64               `json:"budgeted_amount" binding:"gte=0"`
	SpentAmount    int64               `json:"spent_amount" binding:"gte=0"`
	Icon           string              `json:"icon" binding:"max=50"`
	Color          string              `json:"color" binding:"omitempty,hex_color"`
	DisplayOrder   int                 `json:"display_order" binding:"gte=0"`
	ParentID       *uint               `json:"parent_id"`
}

func (r ItemRequest) toInput() services.ItemInput {
	return services.ItemInput{
		Category:       r.Category,
		Description:    r.Description,
		CategoryType:   r.CategoryType,
		BudgetedAmount: r.BudgetedAmount,
		SpentAmount:    r.SpentAmount,
		Icon:           r.Icon,
		Color:          r.Color,
		DisplayOrder:   r.DisplayOrder,
		ParentID:       r.ParentID,
	}
}

// UpdateItemRequest represents the request payload for updating a budget item.
type UpdateItemRequest struct {
	Category       *string              `json:"category" binding:"omitempty,min=1,max=100"`
	Description    *string              `json:"description" binding:"omitempty,max=500"`
	CategoryType   *models.CategoryType `json:"category_type" binding:"omitempty,category_type"`
	BudgetedAmount *int64               `json:"budgeted_amount" binding:"omitempty,gte=0"`
	SpentAmount    *int64               `json:"spent_amount" binding:"omitempty,gte=0"`
	Icon           *string              `json:"icon" binding:"omitempty,max=50"`
	Color          *string              `json:"color" binding:"omitempty,hex_color"`
	DisplayOrder   *int                 `json:"display_order" binding:"omitempty,gte=0"`
	IsParent       *bool                `json:"is_parent"`
	ParentID       *uint                `json:"parent_id"`
	ClearParent    bool                 `json:"clear_parent"`
}

// ParentWithChildrenRequest represents the payload for creating a parent
// category together with its children.
type ParentWithChildrenRequest struct {
	Parent   ItemRequest   `json:"parent" binding:"required"`
	Children []ItemRequest `json:"children" binding:"dive"`
}

// ReplicateBudgetRequest represents the payload for replicating a budget.
type ReplicateBudgetRequest struct {
	TargetMonth string `json:"target_month" binding:"required,month_period"`
}

// CreateBudget handles the creation of a new budget.
// @Summary     Create a budget
// @Description Create a budget in a space; a non-custom framework populates initial items from total income
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                 true "Space ID"
// @Param       request body CreateBudgetRequest true "Budget details"
// @Success     201 {object} models.Budget "Budget created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not a member"
// @Failure     409 {object} ErrorResponse "Master budget already exists"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /spaces/{id}/budgets [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	spaceID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.budgetService.CreateBudget(userID, spaceID, services.BudgetInput{
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		MonthPeriod: req.MonthPeriod,
		Framework:   req.Framework,
		Currency:    req.Currency,
		TotalIncome: req.TotalIncome,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_BUDGET", "budget", budget.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "month_period": req.MonthPeriod, "framework": budget.Framework})

	c.JSON(http.StatusCreated, gin.H{"budget": budget})
}

// GetBudgets handles listing a space's budgets.
// @Summary     Get budgets
// @Description Get a paginated list of a space's budgets with optional filters
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id           path  int    true  "Space ID"
// @Param       type         query string false "Filter by type (master/secondary)"
// @Param       month_period query string false "Filter by month (YYYY-MM)"
// @Param       page         query int    false "Page number (default 1)"
// @Param       page_size    query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Budget] "Paginated budgets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not a member"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /spaces/{id}/budgets [get]
func (h *BudgetHandler) GetBudgets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	spaceID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var budgetType *models.BudgetType
	if v := c.Query("type"); v != "" {
		t := models.BudgetType(v)
		if t != models.BudgetTypeMaster && t != models.BudgetTypeSecondary {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be 'master' or 'secondary'"))
			return
		}
		budgetType = &t
	}

	var monthPeriod *string
	if v := c.Query("month_period"); v != "" {
		monthPeriod = &v
	}

	result, err := h.budgetService.GetSpaceBudgets(userID, spaceID, page, budgetType, monthPeriod)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetBudget handles retrieving a specific budget.
// @Summary     Get budget by ID
// @Description Get a specific budget with its items
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Budget ID"
// @Success     200 {object} models.Budget "Budget details"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [get]
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.GetBudgetByID(userID, budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// UpdateBudget handles updating an existing budget.
// @Summary     Update budget
// @Description Update a budget's name, description, or total income
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                 true "Budget ID"
// @Param       request body UpdateBudgetRequest true "Updated budget details"
// @Success     200 {object} models.Budget "Updated budget"
// @Failure     400 {object} ErrorResponse "Invalid input or budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [put]
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.budgetService.UpdateBudget(userID, budgetID, req.Name, req.Description, req.TotalIncome)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_BUDGET", "budget", budgetID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// DeleteBudget handles deleting a budget.
// @Summary     Delete budget
// @Description Delete a budget and all of its items (soft delete)
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Budget ID"
// @Success     200 {object} MessageResponse "Budget deleted"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteBudget(userID, budgetID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_BUDGET", "budget", budgetID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Budget deleted successfully"})
}

// CreateItem handles creating a budget item.
// @Summary     Create budget item
// @Description Create a standalone or child item in a budget
// @Tags        budget-items
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int         true "Budget ID"
// @Param       request body ItemRequest true "Item details"
// @Success     201 {object} models.BudgetItem "Item created"
// @Failure     400 {object} ErrorResponse "Invalid input or hierarchy"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/items [post]
func (h *BudgetHandler) CreateItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	item, err := h.budgetService.CreateItem(userID, budgetID, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_BUDGET_ITEM", "budget_item", item.ID, c.ClientIP(),
		map[string]interface{}{"category": req.Category, "budgeted_amount": req.BudgetedAmount})

	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// GetItems handles listing a budget's items as a tree.
// @Summary     Get budget items
// @Description Get a budget's items as a two-level tree of parents and children
// @Tags        budget-items
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Budget ID"
// @Success     200 {object} []services.ItemNode "Item tree"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/items [get]
func (h *BudgetHandler) GetItems(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	tree, err := h.budgetService.GetItemTree(userID, budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": tree})
}

// UpdateItem handles updating a budget item.
// @Summary     Update budget item
// @Description Update an item; parent amounts are derived and cannot be set directly
// @Tags        budget-items
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int               true "Item ID"
// @Param       request body UpdateItemRequest true "Updated item details"
// @Success     200 {object} models.BudgetItem "Updated item"
// @Failure     400 {object} ErrorResponse "Invalid input or hierarchy"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Item not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /items/{id} [put]
func (h *BudgetHandler) UpdateItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	itemID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	item, err := h.budgetService.UpdateItem(userID, itemID, services.ItemUpdate{
		Category:       req.Category,
		Description:    req.Description,
		CategoryType:   req.CategoryType,
		BudgetedAmount: req.BudgetedAmount,
		SpentAmount:    req.SpentAmount,
		Icon:           req.Icon,
		Color:          req.Color,
		DisplayOrder:   req.DisplayOrder,
		IsParent:       req.IsParent,
		ParentID:       req.ParentID,
		ClearParent:    req.ClearParent,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_BUDGET_ITEM", "budget_item", itemID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"item": item})
}

// DeleteItem handles deleting a budget item.
// @Summary     Delete budget item
// @Description Delete an item; deleting a parent cascades to its children
// @Tags        budget-items
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Item ID"
// @Success     200 {object} MessageResponse "Item deleted"
// @Failure     400 {object} ErrorResponse "Invalid item ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Item not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /items/{id} [delete]
func (h *BudgetHandler) DeleteItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	itemID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteItem(userID, itemID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_BUDGET_ITEM", "budget_item", itemID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
}

// CreateParentCategory handles creating a parent category with children.
// @Summary     Create parent category
// @Description Create a parent category and its children in one call; the parent's amounts are derived from the children
// @Tags        budget-items
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                       true "Budget ID"
// @Param       request body ParentWithChildrenRequest true "Parent and children"
// @Success     201 {object} services.ItemNode "Parent with children"
// @Failure     400 {object} ErrorResponse "Invalid input or hierarchy"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/parent-categories [post]
func (h *BudgetHandler) CreateParentCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ParentWithChildrenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	children := make([]services.ItemInput, len(req.Children))
	for i, child := range req.Children {
		children[i] = child.toInput()
	}

	node, err := h.budgetService.CreateParentWithChildren(userID, budgetID, req.Parent.toInput(), children)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_PARENT_CATEGORY", "budget_item", node.ID, c.ClientIP(),
		map[string]interface{}{"category": req.Parent.Category, "children": len(req.Children)})

	c.JSON(http.StatusCreated, gin.H{"parent": node})
}

// GetParentCategories handles listing a budget's parent categories.
// @Summary     Get parent categories
// @Description Get the parent items of a budget
// @Tags        budget-items
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Budget ID"
// @Success     200 {object} []models.BudgetItem "Parent categories"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/parent-categories [get]
func (h *BudgetHandler) GetParentCategories(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	parents, err := h.budgetService.GetParentCategories(userID, budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"parents": parents})
}

// AddChild handles adding a child under an existing parent item.
// @Summary     Add child item
// @Description Add a child item under an existing parent category
// @Tags        budget-items
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int         true "Parent item ID"
// @Param       request body ItemRequest true "Child item details"
// @Success     201 {object} models.BudgetItem "Child created"
// @Failure     400 {object} ErrorResponse "Invalid input or hierarchy"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Parent item not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /items/{id}/children [post]
func (h *BudgetHandler) AddChild(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	parentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	item, err := h.budgetService.AddChild(userID, parentID, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "ADD_CHILD_ITEM", "budget_item", item.ID, c.ClientIP(),
		map[string]interface{}{"category": req.Category, "parent_id": parentID})

	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// GetChildren handles listing the children of a parent item.
// @Summary     Get child items
// @Description Get the children of a parent category
// @Tags        budget-items
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Parent item ID"
// @Success     200 {object} []models.BudgetItem "Child items"
// @Failure     400 {object} ErrorResponse "Invalid item ID or not a parent"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Item not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /items/{id}/children [get]
func (h *BudgetHandler) GetChildren(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	parentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	children, err := h.budgetService.GetChildren(userID, parentID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"children": children})
}

// GetBudgetStats handles retrieving aggregate figures for a budget.
// @Summary     Get budget stats
// @Description Get a budget's totals, remaining amount, and per-type breakdown
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Budget ID"
// @Success     200 {object} services.BudgetStats "Budget stats"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/stats [get]
func (h *BudgetHandler) GetBudgetStats(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	stats, err := h.budgetService.GetBudgetStats(userID, budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// RecalculateTotals handles a full resync of a budget's derived amounts.
// @Summary     Recalculate budget totals
// @Description Resynchronize parent and budget totals from leaf items
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Budget ID"
// @Success     200 {object} models.Budget "Budget with recalculated totals"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Recalculation failed"
// @Router      /budgets/{id}/recalculate [post]
func (h *BudgetHandler) RecalculateTotals(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.RecalculateTotals(userID, budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// ReplicateBudget handles copying a budget into another month.
// @Summary     Replicate budget
// @Description Copy a budget and its items into a target month with spent amounts reset
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                    true "Budget ID"
// @Param       request body ReplicateBudgetRequest true "Target month"
// @Success     201 {object} models.Budget "Replicated budget"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     409 {object} ErrorResponse "Master budget already exists in target month"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/replicate [post]
func (h *BudgetHandler) ReplicateBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ReplicateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.budgetService.ReplicateBudget(userID, budgetID, req.TargetMonth)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "REPLICATE_BUDGET", "budget", budget.ID, c.ClientIP(),
		map[string]interface{}{"source_budget_id": budgetID, "target_month": req.TargetMonth})

	c.JSON(http.StatusCreated, gin.H{"budget": budget})
}

// GetFrameworks handles listing the available budgeting frameworks.
// @Summary     Get frameworks
// @Description Get the catalog of budgeting framework templates
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Success     200 {object} []services.FrameworkTemplate "Framework catalog"
// @Router      /frameworks [get]
func (h *BudgetHandler) GetFrameworks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"frameworks": services.Frameworks()})
}
