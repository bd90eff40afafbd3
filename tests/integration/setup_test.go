package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"finspace/internal/handlers"
	"finspace/internal/logger"
	"finspace/internal/middleware"
	"finspace/internal/models"
	"finspace/internal/services"
	"finspace/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Space{},
		&models.SpaceMember{},
		&models.Currency{},
		&models.Budget{},
		&models.BudgetItem{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	auditService := services.NewAuditService(db)
	userService := services.NewUserService(db)
	spaceService := services.NewSpaceService(db)
	budgetService := services.NewBudgetService(db)
	currencyService := services.NewCurrencyService(db)
	onboardingService := services.NewOnboardingService(db, userService)
	dashboardService := services.NewDashboardService(db, spaceService)

	if err := currencyService.SeedDefaults(); err != nil {
		t.Fatalf("failed to seed currencies: %v", err)
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	spaceHandler := handlers.NewSpaceHandler(spaceService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService)
	onboardingHandler := handlers.NewOnboardingHandler(onboardingService, auditService)
	currencyHandler := handlers.NewCurrencyHandler(currencyService, auditService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	v1.GET("/currencies", currencyHandler.GetCurrencies)
	v1.GET("/currencies/:code", currencyHandler.GetCurrency)
	v1.GET("/frameworks", budgetHandler.GetFrameworks)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)
	protected.POST("/auth/logout", authHandler.Logout)

	onboarding := protected.Group("/onboarding")
	onboarding.GET("/status", onboardingHandler.GetStatus)
	onboarding.POST("/complete", onboardingHandler.Complete)

	spaces := protected.Group("/spaces")
	spaces.POST("", spaceHandler.CreateSpace)
	spaces.GET("", spaceHandler.GetSpaces)
	spaces.POST("/join", spaceHandler.JoinSpace)
	spaces.GET("/:id", spaceHandler.GetSpace)
	spaces.PUT("/:id", spaceHandler.UpdateSpace)
	spaces.DELETE("/:id", spaceHandler.DeleteSpace)
	spaces.POST("/:id/leave", spaceHandler.LeaveSpace)
	spaces.GET("/:id/members", spaceHandler.GetMembers)
	spaces.POST("/:id/invite-code", spaceHandler.RegenerateInviteCode)
	spaces.POST("/:id/budgets", budgetHandler.CreateBudget)
	spaces.GET("/:id/budgets", budgetHandler.GetBudgets)
	spaces.GET("/:id/dashboard", dashboardHandler.GetSummary)

	budgets := protected.Group("/budgets")
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.POST("/:id/items", budgetHandler.CreateItem)
	budgets.GET("/:id/items", budgetHandler.GetItems)
	budgets.POST("/:id/parent-categories", budgetHandler.CreateParentCategory)
	budgets.GET("/:id/parent-categories", budgetHandler.GetParentCategories)
	budgets.GET("/:id/stats", budgetHandler.GetBudgetStats)
	budgets.POST("/:id/recalculate", budgetHandler.RecalculateTotals)
	budgets.POST("/:id/replicate", budgetHandler.ReplicateBudget)

	items := protected.Group("/items")
	items.PUT("/:id", budgetHandler.UpdateItem)
	items.DELETE("/:id", budgetHandler.DeleteItem)
	items.POST("/:id/children", budgetHandler.AddChild)
	items.GET("/:id/children", budgetHandler.GetChildren)

	currencies := protected.Group("/currencies")
	currencies.POST("", currencyHandler.CreateCurrency)
	currencies.PUT("/:code", currencyHandler.UpdateCurrency)
	currencies.DELETE("/:code", currencyHandler.DeleteCurrency)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the access token, refresh token, and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (accessToken, refreshToken string, userID float64) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"first_name":"Test","last_name":"User"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["access_token"].(string), result["refresh_token"].(string), user["id"].(float64)
}

// loginUser logs in and returns the access and refresh tokens.
func (app *testApp) loginUser(t *testing.T, email, password string) (accessToken, refreshToken string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["access_token"].(string), result["refresh_token"].(string)
}

// createSpace creates a shared space and returns its ID and invite code.
func (app *testApp) createSpace(t *testing.T, token, name string) (spaceID float64, inviteCode string) {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"space_type":"shared","currency":"USD"}`, name)
	rec := app.request("POST", "/api/v1/spaces", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create space failed: %d %s", rec.Code, rec.Body.String())
	}
	space := parseJSON(t, rec)["space"].(map[string]interface{})
	return space["id"].(float64), space["invite_code"].(string)
}

// createBudget creates a budget in a space and returns its ID.
func (app *testApp) createBudget(t *testing.T, token string, spaceID float64, body string) float64 {
	t.Helper()
	rec := app.request("POST", fmt.Sprintf("/api/v1/spaces/%.0f/budgets", spaceID), body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create budget failed: %d %s", rec.Code, rec.Body.String())
	}
	budget := parseJSON(t, rec)["budget"].(map[string]interface{})
	return budget["id"].(float64)
}
