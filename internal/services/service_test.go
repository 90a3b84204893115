package services

import (
	"testing"

	"github.com/minhle-dev/rentroom-backend/internal/config"
	"github.com/minhle-dev/rentroom-backend/internal/database"
	"github.com/minhle-dev/rentroom-backend/internal/models"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func testModerationConfig() config.ModerationConfig {
	return config.ModerationConfig{
		MaxImagesPerReview:      10,
		MaxVideoDurationSeconds: 120,
		MaxMediaPerReview:       15,
		ReportHideThreshold:     3,
		TouchMarksHandled:       true,
		AuditReviewActions:      true,
	}
}

func seedUser(t *testing.T, db *gorm.DB, name, role string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: string(hash),
		Role:         role,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedListing(t *testing.T, db *gorm.DB, ownerID uint, approval string) *models.Listing {
	t.Helper()

	listing := models.Listing{
		Title:          "Sunny room near the market",
		Price:          3500000,
		Area:           22,
		Type:           models.ListingTypeRoom,
		UserID:         ownerID,
		Status:         models.ListingActive,
		ApprovalStatus: approval,
	}
	require.NoError(t, db.Create(&listing).Error)
	return &listing
}

func seedReview(t *testing.T, db *gorm.DB, listingID, userID uint, role, status string) *models.Review {
	t.Helper()

	review := models.Review{
		ListingID: listingID,
		UserID:    userID,
		Role:      role,
		Type:      models.MediaTypeImage,
		Title:     "Decent place",
		Content:   "Clean and quiet, landlord responds quickly.",
		Rating:    4,
		Status:    status,
	}
	require.NoError(t, db.Create(&review).Error)
	return &review
}

func seedReport(t *testing.T, db *gorm.DB, targetType string, targetID uint, severity string) *models.Report {
	t.Helper()

	report := models.Report{
		TargetType: targetType,
		TargetID:   targetID,
		Reason:     "misleading photos",
		Severity:   severity,
		Status:     models.ReportPending,
	}
	require.NoError(t, db.Create(&report).Error)
	return &report
}

func auditEntries(t *testing.T, db *gorm.DB, action string) []models.AdminLog {
	t.Helper()

	var logs []models.AdminLog
	require.NoError(t, db.Where("action = ?", action).Find(&logs).Error)
	return logs
}
