package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/minhle-dev/rentroom-backend/internal/apperr"
	"github.com/minhle-dev/rentroom-backend/internal/audit"
	"github.com/minhle-dev/rentroom-backend/internal/config"
	"github.com/minhle-dev/rentroom-backend/internal/dto"
	"github.com/minhle-dev/rentroom-backend/internal/models"
	"gorm.io/gorm"
)

// Handling actions accepted by Handle.
const (
	ReportActionHideContent = "hide_content"
	ReportActionLockUser    = "lock_user"
	ReportActionDismiss     = "dismiss"
)

// ReportService owns the report lifecycle: intake (anonymous allowed),
// triage edits, and composite handling. Handling dispatches through a
// moderationTarget variant resolved from the report's target_type; an action
// the target does not support fails validation and rolls the transaction back.
type ReportService struct {
	db  *gorm.DB
	cfg config.ModerationConfig
}

func NewReportService(db *gorm.DB, cfg config.ModerationConfig) *ReportService {
	return &ReportService{db: db, cfg: cfg}
}

// Create files a report. reporterID is nil for anonymous reports. When the
// number of pending reports against a listing reaches the configured
// threshold, the listing is hidden in the same transaction.
func (s *ReportService) Create(reporterID *uint, req *dto.CreateReportRequest) (*models.Report, error) {
	if !models.ValidTargetType(req.TargetType) {
		return nil, apperr.Invalid("target type must be listing, user or review")
	}
	if req.Reason == "" {
		return nil, apperr.Invalid("a reason is required")
	}
	severity := req.Severity
	if severity == "" {
		severity = models.SeverityLow
	}
	if !models.ValidSeverity(severity) {
		return nil, apperr.Invalid("invalid severity")
	}

	if err := s.targetExists(req.TargetType, req.TargetID); err != nil {
		return nil, err
	}

	report := models.Report{
		ReporterID: reporterID,
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		Reason:     req.Reason,
		Severity:   severity,
		Status:     models.ReportPending,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&report).Error; err != nil {
			return err
		}
		if report.TargetType == models.TargetListing {
			return s.escalateListing(tx, report.TargetID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (s *ReportService) targetExists(targetType string, targetID uint) error {
	var err error
	switch targetType {
	case models.TargetListing:
		err = s.db.Where("status <> ?", models.ListingDeleted).First(&models.Listing{}, targetID).Error
	case models.TargetUser:
		err = s.db.First(&models.User{}, targetID).Error
	case models.TargetReview:
		err = s.db.First(&models.Review{}, targetID).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("report target not found")
	}
	return err
}

// escalateListing hides a listing once its pending report count reaches the
// threshold. The audit entry carries no admin id.
func (s *ReportService) escalateListing(tx *gorm.DB, listingID uint) error {
	if s.cfg.ReportHideThreshold <= 0 {
		return nil
	}

	var pending int64
	err := tx.Model(&models.Report{}).
		Where("target_type = ? AND target_id = ? AND status = ?", models.TargetListing, listingID, models.ReportPending).
		Count(&pending).Error
	if err != nil {
		return err
	}
	if pending < int64(s.cfg.ReportHideThreshold) {
		return nil
	}

	var listing models.Listing
	if err := tx.First(&listing, listingID).Error; err != nil {
		return err
	}
	if listing.Status != models.ListingActive {
		return nil
	}

	res := tx.Model(&models.Listing{}).
		Where("id = ? AND version = ?", listing.ID, listing.Version).
		Updates(map[string]interface{}{
			"status":  models.ListingInactive,
			"version": listing.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.Conflict("listing was modified concurrently, please retry")
	}

	return audit.Record(tx, audit.Entry{
		Action:     audit.ActionAutoHideListing,
		TargetType: models.TargetListing,
		TargetID:   listing.ID,
		Details:    map[string]any{"pending_reports": pending, "threshold": s.cfg.ReportHideThreshold},
	})
}

func (s *ReportService) List(f dto.ReportFilter) ([]models.Report, *dto.Pagination, error) {
	page, limit, offset := normalizePage(f.Page, f.Limit)

	query := s.db.Model(&models.Report{})
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.Severity != "" {
		query = query.Where("severity = ?", f.Severity)
	}
	if f.TargetType != "" {
		query = query.Where("target_type = ?", f.TargetType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var reports []models.Report
	err := query.
		Preload("Reporter").
		Preload("Handler").
		Order(sortClause(f.Sort, f.Order)).
		Limit(limit).
		Offset(offset).
		Find(&reports).Error
	if err != nil {
		return nil, nil, err
	}

	return reports, &dto.Pagination{
		Total: total, Page: page, Limit: limit, TotalPages: totalPages(total, limit),
	}, nil
}

// PendingQueue orders by severity (critical first), then oldest.
func (s *ReportService) PendingQueue(page, limit int) ([]models.Report, *dto.Pagination, error) {
	page, limit, offset := normalizePage(page, limit)

	query := s.db.Model(&models.Report{}).Where("status = ?", models.ReportPending)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var reports []models.Report
	err := query.
		Preload("Reporter").
		Order("CASE severity WHEN 'critical' THEN 3 WHEN 'high' THEN 2 WHEN 'medium' THEN 1 ELSE 0 END DESC, created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&reports).Error
	if err != nil {
		return nil, nil, err
	}

	return reports, &dto.Pagination{
		Total: total, Page: page, Limit: limit, TotalPages: totalPages(total, limit),
	}, nil
}

// GetByID returns the report together with its resolved target row.
func (s *ReportService) GetByID(id uint) (*models.Report, any, error) {
	var report models.Report
	err := s.db.Preload("Reporter").Preload("Handler").First(&report, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.NotFound("report not found")
		}
		return nil, nil, err
	}

	var target any
	switch report.TargetType {
	case models.TargetListing:
		var listing models.Listing
		if err := s.db.Preload("User").First(&listing, report.TargetID).Error; err == nil {
			target = &listing
		}
	case models.TargetUser:
		var user models.User
		if err := s.db.First(&user, report.TargetID).Error; err == nil {
			target = &user
		}
	case models.TargetReview:
		var review models.Review
		if err := s.db.Preload("User").First(&review, report.TargetID).Error; err == nil {
			target = &review
		}
	}

	return &report, target, nil
}

// UpdateStatus applies a partial triage edit. Whether an edit that never
// touches status still stamps handled_by/handled_at is controlled by
// TouchMarksHandled; the legacy behavior treats any edit as handling.
func (s *ReportService) UpdateStatus(id uint, admin *models.User, req *dto.UpdateReportRequest, ip string) (*models.Report, error) {
	if req.Status != nil && !models.ValidReportStatus(*req.Status) {
		return nil, apperr.Invalid("invalid report status")
	}
	if req.Severity != nil && !models.ValidSeverity(*req.Severity) {
		return nil, apperr.Invalid("invalid severity")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var report models.Report
		if err := tx.First(&report, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("report not found")
			}
			return err
		}

		updates := map[string]interface{}{"version": report.Version + 1}
		applyString(updates, "status", req.Status)
		applyString(updates, "severity", req.Severity)
		applyString(updates, "admin_note", req.AdminNote)

		if s.cfg.TouchMarksHandled || req.Status != nil {
			updates["handled_by"] = admin.ID
			updates["handled_at"] = time.Now()
		}

		res := tx.Model(&models.Report{}).
			Where("id = ? AND version = ?", report.ID, report.Version).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.Conflict("report was modified concurrently, please retry")
		}

		details := map[string]any{}
		if req.Status != nil {
			details["status"] = *req.Status
		}
		if req.Severity != nil {
			details["severity"] = *req.Severity
		}
		if req.AdminNote != nil {
			details["admin_note"] = *req.AdminNote
		}
		return audit.Record(tx, audit.Entry{
			AdminID:    admin.ID,
			Action:     audit.ActionUpdateReport,
			TargetType: "report",
			TargetID:   report.ID,
			Details:    details,
			IPAddress:  ip,
		})
	})
	if err != nil {
		return nil, err
	}

	var report models.Report
	if err := s.db.Preload("Reporter").Preload("Handler").First(&report, id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

// moderationTarget is the variant a report's target_type resolves to. apply
// performs one handling action and returns the human-readable result recorded
// in the audit details, or nil when the action was a permitted no-op.
type moderationTarget interface {
	apply(tx *gorm.DB, admin *models.User, action string, report *models.Report, corrID, ip string) (*string, error)
}

type listingTarget struct {
	listing *models.Listing
}

func (t listingTarget) apply(tx *gorm.DB, admin *models.User, action string, report *models.Report, corrID, ip string) (*string, error) {
	if action != ReportActionHideContent {
		return nil, apperr.Invalid("action " + action + " is not valid for a listing report")
	}

	res := tx.Model(&models.Listing{}).
		Where("id = ? AND version = ?", t.listing.ID, t.listing.Version).
		Updates(map[string]interface{}{
			"status":  models.ListingInactive,
			"version": t.listing.Version + 1,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.Conflict("listing was modified concurrently, please retry")
	}

	if err := audit.Record(tx, audit.Entry{
		AdminID:       admin.ID,
		Action:        audit.ActionHideFromReport,
		TargetType:    models.TargetListing,
		TargetID:      t.listing.ID,
		Details:       map[string]any{"report_id": report.ID},
		IPAddress:     ip,
		CorrelationID: corrID,
	}); err != nil {
		return nil, err
	}

	result := "listing hidden"
	return &result, nil
}

type userTarget struct {
	user *models.User
}

func (t userTarget) apply(tx *gorm.DB, admin *models.User, action string, report *models.Report, corrID, ip string) (*string, error) {
	if action != ReportActionLockUser {
		return nil, apperr.Invalid("action " + action + " is not valid for a user report")
	}

	// SUPER_ADMIN accounts cannot be locked from a report. The report is
	// still resolved; the target is simply left alone.
	if t.user.IsSuperAdmin() {
		return nil, nil
	}

	if err := tx.Model(&models.User{}).Where("id = ?", t.user.ID).
		Update("is_locked", true).Error; err != nil {
		return nil, err
	}

	if err := audit.Record(tx, audit.Entry{
		AdminID:       admin.ID,
		Action:        audit.ActionLockUserFromReport,
		TargetType:    models.TargetUser,
		TargetID:      t.user.ID,
		Details:       map[string]any{"report_id": report.ID},
		IPAddress:     ip,
		CorrelationID: corrID,
	}); err != nil {
		return nil, err
	}

	result := "user locked"
	return &result, nil
}

type reviewTarget struct{}

func (reviewTarget) apply(_ *gorm.DB, _ *models.User, action string, _ *models.Report, _, _ string) (*string, error) {
	return nil, apperr.Invalid("action " + action + " is not valid for a review report")
}

func resolveTarget(tx *gorm.DB, report *models.Report) (moderationTarget, error) {
	switch report.TargetType {
	case models.TargetListing:
		var listing models.Listing
		if err := tx.First(&listing, report.TargetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("report target not found")
			}
			return nil, err
		}
		return listingTarget{listing: &listing}, nil
	case models.TargetUser:
		var user models.User
		if err := tx.First(&user, report.TargetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("report target not found")
			}
			return nil, err
		}
		return userTarget{user: &user}, nil
	case models.TargetReview:
		return reviewTarget{}, nil
	}
	return nil, apperr.Invalid("unknown target type " + report.TargetType)
}

// Handle executes a composite handling action: the target mutation (if any),
// the report transition, a sub-action audit entry, and a summary audit entry,
// all in one transaction.
func (s *ReportService) Handle(id uint, admin *models.User, req *dto.HandleReportRequest, ip string) (*models.Report, *string, error) {
	switch req.Action {
	case ReportActionHideContent, ReportActionLockUser, ReportActionDismiss:
	default:
		return nil, nil, apperr.Invalid("action must be hide_content, lock_user or dismiss")
	}

	var actionResult *string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var report models.Report
		if err := tx.First(&report, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("report not found")
			}
			return err
		}

		corrID := uuid.NewString()
		newStatus := models.ReportResolved

		if req.Action == ReportActionDismiss {
			newStatus = models.ReportDismissed
		} else {
			target, err := resolveTarget(tx, &report)
			if err != nil {
				return err
			}
			actionResult, err = target.apply(tx, admin, req.Action, &report, corrID, ip)
			if err != nil {
				return err
			}
		}

		res := tx.Model(&models.Report{}).
			Where("id = ? AND version = ?", report.ID, report.Version).
			Updates(map[string]interface{}{
				"status":     newStatus,
				"admin_note": req.AdminNote,
				"handled_by": admin.ID,
				"handled_at": time.Now(),
				"version":    report.Version + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.Conflict("report was modified concurrently, please retry")
		}

		var resultDetail any
		if actionResult != nil {
			resultDetail = *actionResult
		}
		return audit.Record(tx, audit.Entry{
			AdminID:       admin.ID,
			Action:        audit.ActionHandleReport,
			TargetType:    "report",
			TargetID:      report.ID,
			Details:       map[string]any{"action": req.Action, "admin_note": req.AdminNote, "action_result": resultDetail},
			IPAddress:     ip,
			CorrelationID: corrID,
		})
	})
	if err != nil {
		return nil, nil, err
	}

	var report models.Report
	if err := s.db.Preload("Reporter").Preload("Handler").First(&report, id).Error; err != nil {
		return nil, nil, err
	}
	return &report, actionResult, nil
}
