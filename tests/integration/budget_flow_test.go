package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestBudgetFlow_FrameworkExpansionAndStats(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "framework@test.com", "password123")
	spaceID, _ := app.createSpace(t, token, "Budget Space")

	// Step 1: Create a master budget from the 50/30/20 framework with $5000 income
	budgetID := app.createBudget(t, token, spaceID,
		`{"name":"August","month_period":"2026-08","framework":"50_30_20","total_income":500000}`)

	// Step 2: Items were expanded and their amounts sum to the income
	rec := app.request("GET", fmt.Sprintf("/api/v1/budgets/%.0f", budgetID), "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("get budget failed: %d %s", rec.Code, rec.Body.String())
	}
	budget := parseJSON(t, rec)["budget"].(map[string]interface{})
	items := budget["items"].([]interface{})
	if len(items) != 7 {
		t.Fatalf("expected 7 framework items, got %d", len(items))
	}
	var total float64
	for _, raw := range items {
		total += raw.(map[string]interface{})["budgeted_amount"].(float64)
	}
	if total != 500000 {
		t.Errorf("expected items to sum to 500000, got %.0f", total)
	}
	if budget["total_budgeted"].(float64) != 500000 {
		t.Errorf("expected total_budgeted 500000, got %v", budget["total_budgeted"])
	}

	// Step 3: Stats reflect the expansion
	rec = app.request("GET", fmt.Sprintf("/api/v1/budgets/%.0f/stats", budgetID), "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("get stats failed: %d %s", rec.Code, rec.Body.String())
	}
	stats := parseJSON(t, rec)["stats"].(map[string]interface{})
	if stats["total_budgeted"].(float64) != 500000 {
		t.Errorf("expected stats budgeted 500000, got %v", stats["total_budgeted"])
	}
	if stats["remaining"].(float64) != 0 {
		t.Errorf("expected remaining 0 for a fully allocated budget, got %v", stats["remaining"])
	}
}

func TestBudgetFlow_MasterBudgetConflict(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "conflict@test.com", "password123")
	spaceID, _ := app.createSpace(t, token, "Budget Space")

	app.createBudget(t, token, spaceID,
		`{"name":"August","month_period":"2026-08"}`)

	rec := app.request("POST", fmt.Sprintf("/api/v1/spaces/%.0f/budgets", spaceID),
		`{"name":"August Again","month_period":"2026-08"}`, token)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
	errObj := parseJSON(t, rec)["error"].(map[string]interface{})
	if errObj["code"] != "MASTER_BUDGET_EXISTS" {
		t.Errorf("expected MASTER_BUDGET_EXISTS, got %v", errObj["code"])
	}

	// A secondary budget in the same month is fine
	rec = app.request("POST", fmt.Sprintf("/api/v1/spaces/%.0f/budgets", spaceID),
		`{"name":"Vacation","type":"secondary","month_period":"2026-08"}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 for secondary budget, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestBudgetFlow_HierarchyAndAggregation(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "hierarchy@test.com", "password123")
	spaceID, _ := app.createSpace(t, token, "Budget Space")
	budgetID := app.createBudget(t, token, spaceID,
		`{"name":"August","month_period":"2026-08","total_income":500000}`)

	// Step 1: Create a parent category with two children
	rec := app.request("POST", fmt.Sprintf("/api/v1/budgets/%.0f/parent-categories", budgetID),
		`{"parent":{"category":"Utilities","category_type":"needs"},
		  "children":[
		    {"category":"Electricity","category_type":"needs","budgeted_amount":8000,"spent_amount":2000},
		    {"category":"Water","category_type":"needs","budgeted_amount":3000}
		  ]}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create parent failed: %d %s", rec.Code, rec.Body.String())
	}
	parent := parseJSON(t, rec)["parent"].(map[string]interface{})
	parentID := parent["id"].(float64)
	if parent["budgeted_amount"].(float64) != 11000 {
		t.Errorf("expected parent budgeted 11000, got %v", parent["budgeted_amount"])
	}

	// Step 2: Add a third child through the items endpoint
	rec = app.request("POST", fmt.Sprintf("/api/v1/items/%.0f/children", parentID),
		`{"category":"Internet","category_type":"needs","budgeted_amount":6000}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add child failed: %d %s", rec.Code, rec.Body.String())
	}
	child := parseJSON(t, rec)["item"].(map[string]interface{})
	childID := child["id"].(float64)

	// Step 3: The budget counts the parent once, not the children
	rec = app.request("GET", fmt.Sprintf("/api/v1/budgets/%.0f", budgetID), "", token)
	budget := parseJSON(t, rec)["budget"].(map[string]interface{})
	if budget["total_budgeted"].(float64) != 17000 {
		t.Errorf("expected total_budgeted 17000, got %v", budget["total_budgeted"])
	}

	// Step 4: Update a child's spending; parent and budget follow
	rec = app.request("PUT", fmt.Sprintf("/api/v1/items/%.0f", childID),
		`{"spent_amount":5500}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("update item failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = app.request("GET", fmt.Sprintf("/api/v1/items/%.0f/children", parentID), "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("get children failed: %d %s", rec.Code, rec.Body.String())
	}
	children := parseJSON(t, rec)["children"].([]interface{})
	if len(children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(children))
	}

	rec = app.request("GET", fmt.Sprintf("/api/v1/budgets/%.0f", budgetID), "", token)
	budget = parseJSON(t, rec)["budget"].(map[string]interface{})
	if budget["total_spent"].(float64) != 7500 {
		t.Errorf("expected total_spent 7500 (2000+5500), got %v", budget["total_spent"])
	}

	// Step 5: Nesting under a non-parent is rejected
	rec = app.request("POST", fmt.Sprintf("/api/v1/items/%.0f/children", childID),
		`{"category":"Too Deep","category_type":"needs"}`, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 nesting under a child, got %d: %s", rec.Code, rec.Body.String())
	}
	errObj := parseJSON(t, rec)["error"].(map[string]interface{})
	if errObj["code"] != "INVALID_HIERARCHY" {
		t.Errorf("expected INVALID_HIERARCHY, got %v", errObj["code"])
	}

	// Step 6: Deleting the parent cascades and zeroes the budget
	rec = app.request("DELETE", fmt.Sprintf("/api/v1/items/%.0f", parentID), "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete parent failed: %d %s", rec.Code, rec.Body.String())
	}
	rec = app.request("GET", fmt.Sprintf("/api/v1/budgets/%.0f", budgetID), "", token)
	budget = parseJSON(t, rec)["budget"].(map[string]interface{})
	if budget["total_budgeted"].(float64) != 0 {
		t.Errorf("expected total_budgeted 0 after cascade delete, got %v", budget["total_budgeted"])
	}
	items := budget["items"].([]interface{})
	if len(items) != 0 {
		t.Errorf("expected no items after cascade delete, got %d", len(items))
	}
}

func TestBudgetFlow_ReplicateToNextMonth(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "replicate@test.com", "password123")
	spaceID, _ := app.createSpace(t, token, "Budget Space")
	budgetID := app.createBudget(t, token, spaceID,
		`{"name":"August","month_period":"2026-08","total_income":500000}`)

	rec := app.request("POST", fmt.Sprintf("/api/v1/budgets/%.0f/items", budgetID),
		`{"category":"Rent","category_type":"needs","budgeted_amount":150000,"spent_amount":150000}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create item failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = app.request("POST", fmt.Sprintf("/api/v1/budgets/%.0f/replicate", budgetID),
		`{"target_month":"2026-09"}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("replicate failed: %d %s", rec.Code, rec.Body.String())
	}
	replica := parseJSON(t, rec)["budget"].(map[string]interface{})
	if replica["month_period"] != "2026-09" {
		t.Errorf("expected month 2026-09, got %v", replica["month_period"])
	}
	if replica["total_budgeted"].(float64) != 150000 {
		t.Errorf("expected budgeted carried over, got %v", replica["total_budgeted"])
	}
	if replica["total_spent"].(float64) != 0 {
		t.Errorf("expected spent reset to 0, got %v", replica["total_spent"])
	}
	if replica["auto_generated"] != true {
		t.Errorf("expected auto_generated flag")
	}

	// Replicating again into the same month conflicts with the new master
	rec = app.request("POST", fmt.Sprintf("/api/v1/budgets/%.0f/replicate", budgetID),
		`{"target_month":"2026-09"}`, token)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestBudgetFlow_Dashboard(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "dashboard@test.com", "password123")
	spaceID, _ := app.createSpace(t, token, "Budget Space")
	budgetID := app.createBudget(t, token, spaceID,
		`{"name":"August","month_period":"2026-08","total_income":500000}`)

	rec := app.request("POST", fmt.Sprintf("/api/v1/budgets/%.0f/items", budgetID),
		`{"category":"Rent","category_type":"needs","budgeted_amount":150000,"spent_amount":150000}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create item failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = app.request("GET", fmt.Sprintf("/api/v1/spaces/%.0f/dashboard?month_period=2026-08", spaceID), "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard failed: %d %s", rec.Code, rec.Body.String())
	}
	summary := parseJSON(t, rec)["summary"].(map[string]interface{})
	if summary["total_income"].(float64) != 500000 {
		t.Errorf("expected income 500000, got %v", summary["total_income"])
	}
	if summary["total_spent"].(float64) != 150000 {
		t.Errorf("expected spent 150000, got %v", summary["total_spent"])
	}
	top := summary["top_spending"].([]interface{})
	if len(top) != 1 {
		t.Fatalf("expected 1 top-spending item, got %d", len(top))
	}

	// A month with no budgets reports zeros
	rec = app.request("GET", fmt.Sprintf("/api/v1/spaces/%.0f/dashboard?month_period=2026-12", spaceID), "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard failed: %d %s", rec.Code, rec.Body.String())
	}
	summary = parseJSON(t, rec)["summary"].(map[string]interface{})
	if summary["total_income"].(float64) != 0 {
		t.Errorf("expected zero income for an empty month, got %v", summary["total_income"])
	}
}

func TestBudgetFlow_NonMemberForbidden(t *testing.T) {
	app := setupApp(t)
	ownerToken, _, _ := app.registerUser(t, "budgetowner@test.com", "password123")
	outsiderToken, _, _ := app.registerUser(t, "outsider@test.com", "password123")
	spaceID, _ := app.createSpace(t, ownerToken, "Budget Space")
	budgetID := app.createBudget(t, ownerToken, spaceID,
		`{"name":"August","month_period":"2026-08"}`)

	rec := app.request("GET", fmt.Sprintf("/api/v1/budgets/%.0f", budgetID), "", outsiderToken)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rec.Code, rec.Body.String())
	}
	errObj := parseJSON(t, rec)["error"].(map[string]interface{})
	if errObj["code"] != "NOT_SPACE_MEMBER" {
		t.Errorf("expected NOT_SPACE_MEMBER, got %v", errObj["code"])
	}
}
