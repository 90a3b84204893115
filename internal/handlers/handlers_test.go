package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/minhle-dev/rentroom-backend/internal/config"
	"github.com/minhle-dev/rentroom-backend/internal/database"
	"github.com/minhle-dev/rentroom-backend/internal/handlers"
	"github.com/minhle-dev/rentroom-backend/internal/models"
	"github.com/minhle-dev/rentroom-backend/internal/routes"
	"github.com/minhle-dev/rentroom-backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	app *fiber.App
	db  *gorm.DB
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db

	cfg := config.Load()
	cfg.JWTSecret = "test-secret-key"

	authService := services.NewAuthService(db, cfg)
	listingService := services.NewListingService(db)
	adminListingService := services.NewAdminListingService(db)
	reviewService := services.NewReviewService(db, cfg.Moderation)
	reportService := services.NewReportService(db, cfg.Moderation)
	adminUserService := services.NewAdminUserService(db)
	dashboardService := services.NewDashboardService(db)
	mediaService := services.NewMediaService(db)
	locationService := services.NewLocationService(db)

	app := fiber.New()
	routes.Setup(app, cfg, db,
		handlers.NewAuthHandler(authService),
		handlers.NewHealthHandler(),
		handlers.NewListingHandler(listingService),
		handlers.NewAdminListingHandler(adminListingService),
		handlers.NewReviewHandler(reviewService, mediaService),
		handlers.NewAdminReviewHandler(reviewService),
		handlers.NewReportHandler(reportService),
		handlers.NewAdminUserHandler(adminUserService),
		handlers.NewDashboardHandler(dashboardService),
		handlers.NewLocationHandler(locationService),
	)

	return &testEnv{app: app, db: db}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var parsed map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&parsed)
	return resp.StatusCode, parsed
}

// signup registers an account and returns its access token and user id.
func (e *testEnv) signup(t *testing.T, name string) (string, uint) {
	t.Helper()

	status, body := e.do(t, "POST", "/api/auth/register", "", map[string]string{
		"name":     name,
		"email":    name + "@example.com",
		"password": "password123",
	})
	require.Equal(t, fiber.StatusCreated, status)

	data := body["data"].(map[string]any)
	token := data["access_token"].(string)
	id := uint(data["user"].(map[string]any)["id"].(float64))
	return token, id
}

func (e *testEnv) promote(t *testing.T, userID uint, role string) {
	t.Helper()
	require.NoError(t, e.db.Model(&models.User{}).
		Where("id = ?", userID).Update("role", role).Error)
}

func TestListingModerationFlow(t *testing.T) {
	env := setupTestEnv(t)

	ownerToken, _ := env.signup(t, "owner")
	adminToken, adminID := env.signup(t, "admin")
	env.promote(t, adminID, models.RoleAdmin)

	// Owner creates a listing; it starts pending.
	status, body := env.do(t, "POST", "/api/listings", ownerToken, map[string]any{
		"title": "Bright studio",
		"price": 4200000,
		"type":  "apartment",
	})
	require.Equal(t, fiber.StatusCreated, status)
	listing := body["data"].(map[string]any)
	listingID := uint(listing["id"].(float64))
	assert.Equal(t, "pending", listing["approval_status"])

	// Not visible to the public yet.
	status, _ = env.do(t, "GET", fmt.Sprintf("/api/listings/%d", listingID), "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	// A plain user cannot reach the admin panel.
	status, _ = env.do(t, "PUT", fmt.Sprintf("/api/admin/listings/%d/approve", listingID), ownerToken, map[string]any{})
	assert.Equal(t, fiber.StatusForbidden, status)

	// Admin approves; the listing becomes public.
	status, _ = env.do(t, "PUT", fmt.Sprintf("/api/admin/listings/%d/approve", listingID), adminToken, map[string]any{
		"admin_note": "ok",
	})
	require.Equal(t, fiber.StatusOK, status)

	status, body = env.do(t, "GET", fmt.Sprintf("/api/listings/%d", listingID), "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "approved", body["data"].(map[string]any)["approval_status"])
}

func TestRejectWithoutNoteIsBadRequest(t *testing.T) {
	env := setupTestEnv(t)

	ownerToken, _ := env.signup(t, "owner")
	adminToken, adminID := env.signup(t, "admin")
	env.promote(t, adminID, models.RoleAdmin)

	status, body := env.do(t, "POST", "/api/listings", ownerToken, map[string]any{
		"title": "Studio", "price": 100, "type": "room",
	})
	require.Equal(t, fiber.StatusCreated, status)
	listingID := uint(body["data"].(map[string]any)["id"].(float64))

	status, body = env.do(t, "PUT", fmt.Sprintf("/api/admin/listings/%d/reject", listingID), adminToken, map[string]any{})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "invalid", body["code"])
}

func TestAnonymousReport(t *testing.T) {
	env := setupTestEnv(t)

	ownerToken, _ := env.signup(t, "owner")
	status, body := env.do(t, "POST", "/api/listings", ownerToken, map[string]any{
		"title": "Studio", "price": 100, "type": "room",
	})
	require.Equal(t, fiber.StatusCreated, status)
	listingID := uint(body["data"].(map[string]any)["id"].(float64))

	status, body = env.do(t, "POST", "/api/reports", "", map[string]any{
		"target_type": "listing",
		"target_id":   listingID,
		"reason":      "looks like a scam",
	})
	require.Equal(t, fiber.StatusCreated, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, "pending", data["status"])
	_, hasReporter := data["reporter_id"]
	assert.False(t, hasReporter)
}

func TestLockedUserIsRejectedByMiddleware(t *testing.T) {
	env := setupTestEnv(t)

	token, userID := env.signup(t, "owner")
	require.NoError(t, env.db.Model(&models.User{}).
		Where("id = ?", userID).Update("is_locked", true).Error)

	status, _ := env.do(t, "GET", "/api/auth/me", token, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestSuperAdminOnlyPasswordReset(t *testing.T) {
	env := setupTestEnv(t)

	_, targetID := env.signup(t, "target")
	adminToken, adminID := env.signup(t, "admin")
	env.promote(t, adminID, models.RoleAdmin)
	bossToken, bossID := env.signup(t, "boss")
	env.promote(t, bossID, models.RoleSuperAdmin)

	path := fmt.Sprintf("/api/admin/users/%d/reset-password", targetID)

	status, _ := env.do(t, "PUT", path, adminToken, map[string]any{
		"new_password": "new-password-1",
	})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = env.do(t, "PUT", path, bossToken, map[string]any{
		"new_password": "new-password-1",
	})
	assert.Equal(t, fiber.StatusOK, status)
}

func TestHealthEndpoint(t *testing.T) {
	env := setupTestEnv(t)

	status, body := env.do(t, "GET", "/api/health", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}
