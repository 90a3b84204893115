package services

import (
	"testing"

	"github.com/minhle-dev/rentroom-backend/internal/apperr"
	"github.com/minhle-dev/rentroom-backend/internal/audit"
	"github.com/minhle-dev/rentroom-backend/internal/dto"
	"github.com/minhle-dev/rentroom-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReport(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(db, testModerationConfig())
	owner := seedUser(t, db, "owner", models.RoleUser)
	reporter := seedUser(t, db, "reporter", models.RoleUser)
	listing := seedListing(t, db, owner.ID, models.ApprovalApproved)

	report, err := svc.Create(&reporter.ID, &dto.CreateReportRequest{
		TargetType: models.TargetListing,
		TargetID:   listing.ID,
		Reason:     "price does not match the photos",
	})
	require.NoError(t, err)

	assert.Equal(t, models.ReportPending, report.Status)
	assert.Equal(t, models.SeverityLow, report.Severity)
	require.NotNil(t, report.ReporterID)
	assert.Equal(t, reporter.ID, *report.ReporterID)
}

func TestCreateReportAnonymous(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(db, testModerationConfig())
	owner := seedUser(t, db, "owner", models.RoleUser)
	listing := seedListing(t, db, owner.ID, models.ApprovalApproved)

	report, err := svc.Create(nil, &dto.CreateReportRequest{
		TargetType: models.TargetListing,
		TargetID:   listing.ID,
		Reason:     "scam",
		Severity:   models.SeverityHigh,
	})
	require.NoError(t, err)
	assert.Nil(t, report.ReporterID)
	assert.Equal(t, models.SeverityHigh, report.Severity)
}

func TestCreateReportValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(db, testModerationConfig())
	owner := seedUser(t, db, "owner", models.RoleUser)
	listing := seedListing(t, db, owner.ID, models.ApprovalApproved)

	_, err := svc.Create(nil, &dto.CreateReportRequest{
		TargetType: "comment", TargetID: listing.ID, Reason: "x",
	})
	assert.True(t, apperr.IsInvalid(err))

	_, err = svc.Create(nil, &dto.CreateReportRequest{
		TargetType: models.TargetListing, TargetID: listing.ID,
	})
	assert.True(t, apperr.IsInvalid(err))

	_, err = svc.Create(nil, &dto.CreateReportRequest{
		TargetType: models.TargetListing, TargetID: 9999, Reason: "x",
	})
	assert.True(t, apperr.IsNotFound(err))
}

func TestReportThresholdHidesListing(t *testing.T) {
	db := setupTestDB(t)
	cfg := testModerationConfig() // threshold 3
	svc := NewReportService(db, cfg)
	owner := seedUser(t, db, "owner", models.RoleUser)
	listing := seedListing(t, db, owner.ID, models.ApprovalApproved)

	for i := 0; i < cfg.ReportHideThreshold-1; i++ {
		_, err := svc.Create(nil, &dto.CreateReportRequest{
			TargetType: models.TargetListing, TargetID: listing.ID, Reason: "spam",
		})
		require.NoError(t, err)
	}

	var reloaded models.Listing
	require.NoError(t, db.First(&reloaded, listing.ID).Error)
	assert.Equal(t, models.ListingActive, reloaded.Status)

	_, err := svc.Create(nil, &dto.CreateReportRequest{
		TargetType: models.TargetListing, TargetID: listing.ID, Reason: "spam",
	})
	require.NoError(t, err)

	require.NoError(t, db.First(&reloaded, listing.ID).Error)
	assert.Equal(t, models.ListingInactive, reloaded.Status)

	// The escalation writes a system entry with no admin.
	logs := auditEntries(t, db, audit.ActionAutoHideListing)
	require.Len(t, logs, 1)
	assert.Nil(t, logs[0].AdminID)
	assert.Equal(t, listing.ID, logs[0].TargetID)
}

func TestHandleReportHideContent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(db, testModerationConfig())
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	owner := seedUser(t, db, "owner", models.RoleUser)
	listing := seedListing(t, db, owner.ID, models.ApprovalApproved)
	report := seedReport(t, db, models.TargetListing, listing.ID, models.SeverityHigh)

	handled, result, err := svc.Handle(report.ID, admin, &dto.HandleReportRequest{
		Action: ReportActionHideContent, AdminNote: "confirmed spam",
	}, "127.0.0.1")
	require.NoError(t, err)

	assert.Equal(t, models.ReportResolved, handled.Status)
	require.NotNil(t, handled.HandledBy)
	assert.Equal(t, admin.ID, *handled.HandledBy)
	assert.NotNil(t, handled.HandledAt)
	require.NotNil(t, result)
	assert.Equal(t, "listing hidden", *result)

	var reloaded models.Listing
	require.NoError(t, db.First(&reloaded, listing.ID).Error)
	assert.Equal(t, models.ListingInactive, reloaded.Status)

	// One sub-entry plus one summary entry, tied by correlation id.
	subs := auditEntries(t, db, audit.ActionHideFromReport)
	summaries := auditEntries(t, db, audit.ActionHandleReport)
	require.Len(t, subs, 1)
	require.Len(t, summaries, 1)
	assert.Equal(t, subs[0].CorrelationID, summaries[0].CorrelationID)
	assert.NotEmpty(t, subs[0].CorrelationID)
}

func TestHandleReportLockUser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(db, testModerationConfig())
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	offender := seedUser(t, db, "offender", models.RoleUser)
	report := seedReport(t, db, models.TargetUser, offender.ID, models.SeverityCritical)

	handled, result, err := svc.Handle(report.ID, admin, &dto.HandleReportRequest{
		Action: ReportActionLockUser,
	}, "127.0.0.1")
	require.NoError(t, err)

	assert.Equal(t, models.ReportResolved, handled.Status)
	require.NotNil(t, result)
	assert.Equal(t, "user locked", *result)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, offender.ID).Error)
	assert.True(t, reloaded.IsLocked)

	assert.Len(t, auditEntries(t, db, audit.ActionLockUserFromReport), 1)
}

func TestHandleReportLockSuperAdminIsNoOp(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(db, testModerationConfig())
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	boss := seedUser(t, db, "boss", models.RoleSuperAdmin)
	report := seedReport(t, db, models.TargetUser, boss.ID, models.SeverityHigh)

	handled, result, err := svc.Handle(report.ID, admin, &dto.HandleReportRequest{
		Action: ReportActionLockUser,
	}, "127.0.0.1")
	require.NoError(t, err)

	// The report still resolves; the account is left alone.
	assert.Equal(t, models.ReportResolved, handled.Status)
	assert.Nil(t, result)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, boss.ID).Error)
	assert.False(t, reloaded.IsLocked)

	assert.Empty(t, auditEntries(t, db, audit.ActionLockUserFromReport))
	assert.Len(t, auditEntries(t, db, audit.ActionHandleReport), 1)
}

func TestHandleReportInvalidActionRollsBack(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(db, testModerationConfig())
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	owner := seedUser(t, db, "owner", models.RoleUser)
	listing := seedListing(t, db, owner.ID, models.ApprovalApproved)
	review := seedReview(t, db, listing.ID, owner.ID, models.ReviewerLandlord, models.ReviewApproved)
	report := seedReport(t, db, models.TargetReview, review.ID, models.SeverityMedium)

	// lock_user makes no sense for a review target.
	_, _, err := svc.Handle(report.ID, admin, &dto.HandleReportRequest{
		Action: ReportActionLockUser,
	}, "127.0.0.1")
	require.Error(t, err)
	assert.True(t, apperr.IsInvalid(err))

	var reloaded models.Report
	require.NoError(t, db.First(&reloaded, report.ID).Error)
	assert.Equal(t, models.ReportPending, reloaded.Status)
	assert.Nil(t, reloaded.HandledBy)
	assert.Empty(t, auditEntries(t, db, audit.ActionHandleReport))
}

func TestHandleReportDismiss(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(db, testModerationConfig())
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	owner := seedUser(t, db, "owner", models.RoleUser)
	listing := seedListing(t, db, owner.ID, models.ApprovalApproved)
	report := seedReport(t, db, models.TargetListing, listing.ID, models.SeverityLow)

	handled, result, err := svc.Handle(report.ID, admin, &dto.HandleReportRequest{
		Action: ReportActionDismiss, AdminNote: "not actionable",
	}, "127.0.0.1")
	require.NoError(t, err)

	assert.Equal(t, models.ReportDismissed, handled.Status)
	assert.Nil(t, result)

	// The listing is untouched on a dismiss.
	var reloaded models.Listing
	require.NoError(t, db.First(&reloaded, listing.ID).Error)
	assert.Equal(t, models.ListingActive, reloaded.Status)
}

func TestUpdateReportStampsHandler(t *testing.T) {
	db := setupTestDB(t)
	cfg := testModerationConfig()
	svc := NewReportService(db, cfg)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	owner := seedUser(t, db, "owner", models.RoleUser)
	listing := seedListing(t, db, owner.ID, models.ApprovalApproved)
	report := seedReport(t, db, models.TargetListing, listing.ID, models.SeverityLow)

	severity := models.SeverityHigh
	updated, err := svc.UpdateStatus(report.ID, admin, &dto.UpdateReportRequest{
		Severity: &severity,
	}, "127.0.0.1")
	require.NoError(t, err)

	assert.Equal(t, models.SeverityHigh, updated.Severity)
	assert.Equal(t, models.ReportPending, updated.Status)
	// TouchMarksHandled is on: a severity-only edit stamps the handler.
	require.NotNil(t, updated.HandledBy)
	assert.Equal(t, admin.ID, *updated.HandledBy)

	assert.Len(t, auditEntries(t, db, audit.ActionUpdateReport), 1)
}

func TestUpdateReportWithoutTouchMarksHandled(t *testing.T) {
	db := setupTestDB(t)
	cfg := testModerationConfig()
	cfg.TouchMarksHandled = false
	svc := NewReportService(db, cfg)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	owner := seedUser(t, db, "owner", models.RoleUser)
	listing := seedListing(t, db, owner.ID, models.ApprovalApproved)
	report := seedReport(t, db, models.TargetListing, listing.ID, models.SeverityLow)

	severity := models.SeverityMedium
	updated, err := svc.UpdateStatus(report.ID, admin, &dto.UpdateReportRequest{
		Severity: &severity,
	}, "127.0.0.1")
	require.NoError(t, err)
	assert.Nil(t, updated.HandledBy)

	// A status edit still stamps the handler.
	status := models.ReportReviewed
	updated, err = svc.UpdateStatus(report.ID, admin, &dto.UpdateReportRequest{
		Status: &status,
	}, "127.0.0.1")
	require.NoError(t, err)
	require.NotNil(t, updated.HandledBy)
	assert.Equal(t, admin.ID, *updated.HandledBy)
}

func TestPendingQueueOrdersBySeverity(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(db, testModerationConfig())
	owner := seedUser(t, db, "owner", models.RoleUser)
	listing := seedListing(t, db, owner.ID, models.ApprovalApproved)

	seedReport(t, db, models.TargetListing, listing.ID, models.SeverityLow)
	critical := seedReport(t, db, models.TargetListing, listing.ID, models.SeverityCritical)
	seedReport(t, db, models.TargetListing, listing.ID, models.SeverityMedium)

	reports, _, err := svc.PendingQueue(1, 10)
	require.NoError(t, err)
	require.Len(t, reports, 3)
	assert.Equal(t, critical.ID, reports[0].ID)
	assert.Equal(t, models.SeverityMedium, reports[1].Severity)
	assert.Equal(t, models.SeverityLow, reports[2].Severity)
}
