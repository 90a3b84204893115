package services

import (
	"errors"
	"time"

	"github.com/minhle-dev/rentroom-backend/internal/apperr"
	"github.com/minhle-dev/rentroom-backend/internal/audit"
	"github.com/minhle-dev/rentroom-backend/internal/dto"
	"github.com/minhle-dev/rentroom-backend/internal/models"
	"gorm.io/gorm"
)

// AdminListingService owns the listing approval state machine. Every mutation
// and its audit entry commit in one transaction; listing rows are updated via
// compare-and-swap on the version column, so concurrent admin actions surface
// a conflict instead of silently losing a write.
type AdminListingService struct {
	db *gorm.DB
}

func NewAdminListingService(db *gorm.DB) *AdminListingService {
	return &AdminListingService{db: db}
}

func (s *AdminListingService) List(f dto.ListingFilter) ([]models.Listing, *dto.Pagination, error) {
	page, limit, offset := normalizePage(f.Page, f.Limit)

	query := s.db.Model(&models.Listing{})

	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ? OR address LIKE ?", pattern, pattern, pattern)
	}
	if f.Type != "" {
		query = query.Where("type = ?", f.Type)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.Approval != "" {
		query = query.Where("approval_status = ?", f.Approval)
	}
	if f.UserID != 0 {
		query = query.Where("user_id = ?", f.UserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var listings []models.Listing
	err := query.
		Preload("User").
		Preload("Images").
		Preload("Province").
		Preload("District").
		Order(sortClause(f.Sort, f.Order)).
		Limit(limit).
		Offset(offset).
		Find(&listings).Error
	if err != nil {
		return nil, nil, err
	}

	return listings, &dto.Pagination{
		Total: total, Page: page, Limit: limit, TotalPages: totalPages(total, limit),
	}, nil
}

// PendingQueue returns listings awaiting approval, oldest first.
func (s *AdminListingService) PendingQueue(page, limit int) ([]models.Listing, *dto.Pagination, error) {
	page, limit, offset := normalizePage(page, limit)

	query := s.db.Model(&models.Listing{}).
		Where("approval_status = ? AND status <> ?", models.ApprovalPending, models.ListingDeleted)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var listings []models.Listing
	err := query.
		Preload("User").
		Preload("Images").
		Preload("Province").
		Preload("District").
		Preload("Ward").
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&listings).Error
	if err != nil {
		return nil, nil, err
	}

	return listings, &dto.Pagination{
		Total: total, Page: page, Limit: limit, TotalPages: totalPages(total, limit),
	}, nil
}

// findModeratable loads a listing for an admin action. Deleted listings are
// reported as not found: deleted is terminal and accepts no further moderation.
func findModeratable(tx *gorm.DB, id uint) (*models.Listing, error) {
	var listing models.Listing
	if err := tx.First(&listing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("listing not found")
		}
		return nil, err
	}
	if listing.Status == models.ListingDeleted {
		return nil, apperr.NotFound("listing not found")
	}
	return &listing, nil
}

func casListingUpdate(tx *gorm.DB, listing *models.Listing, updates map[string]interface{}) error {
	updates["version"] = listing.Version + 1
	res := tx.Model(&models.Listing{}).
		Where("id = ? AND version = ?", listing.ID, listing.Version).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.Conflict("listing was modified concurrently, please retry")
	}
	return nil
}

// Approve moves a listing to approval_status=approved and stamps the
// reviewer. Re-approving an approved listing is allowed; it simply re-stamps
// reviewed_by and reviewed_at.
func (s *AdminListingService) Approve(id uint, admin *models.User, note, ip string) (*models.Listing, error) {
	var out *models.Listing
	err := s.db.Transaction(func(tx *gorm.DB) error {
		listing, err := findModeratable(tx, id)
		if err != nil {
			return err
		}

		now := time.Now()
		if err := casListingUpdate(tx, listing, map[string]interface{}{
			"approval_status": models.ApprovalApproved,
			"admin_note":      note,
			"reviewed_by":     admin.ID,
			"reviewed_at":     now,
		}); err != nil {
			return err
		}

		if err := audit.Record(tx, audit.Entry{
			AdminID:    admin.ID,
			Action:     audit.ActionApproveListing,
			TargetType: models.TargetListing,
			TargetID:   listing.ID,
			Details:    map[string]any{"admin_note": note},
			IPAddress:  ip,
		}); err != nil {
			return err
		}

		out = listing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.reload(out.ID)
}

// Reject requires a note explaining the decision.
func (s *AdminListingService) Reject(id uint, admin *models.User, note, ip string) (*models.Listing, error) {
	if note == "" {
		return nil, apperr.Invalid("a rejection note is required")
	}

	var out *models.Listing
	err := s.db.Transaction(func(tx *gorm.DB) error {
		listing, err := findModeratable(tx, id)
		if err != nil {
			return err
		}

		now := time.Now()
		if err := casListingUpdate(tx, listing, map[string]interface{}{
			"approval_status": models.ApprovalRejected,
			"admin_note":      note,
			"reviewed_by":     admin.ID,
			"reviewed_at":     now,
		}); err != nil {
			return err
		}

		if err := audit.Record(tx, audit.Entry{
			AdminID:    admin.ID,
			Action:     audit.ActionRejectListing,
			TargetType: models.TargetListing,
			TargetID:   listing.ID,
			Details:    map[string]any{"admin_note": note},
			IPAddress:  ip,
		}); err != nil {
			return err
		}

		out = listing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.reload(out.ID)
}

// ToggleVisibility switches status between active and inactive, independent
// of approval_status.
func (s *AdminListingService) ToggleVisibility(id uint, admin *models.User, status, reason, ip string) (*models.Listing, error) {
	if status != models.ListingActive && status != models.ListingInactive {
		return nil, apperr.Invalid("status must be active or inactive")
	}

	var out *models.Listing
	err := s.db.Transaction(func(tx *gorm.DB) error {
		listing, err := findModeratable(tx, id)
		if err != nil {
			return err
		}

		oldStatus := listing.Status
		if err := casListingUpdate(tx, listing, map[string]interface{}{
			"status": status,
		}); err != nil {
			return err
		}

		action := audit.ActionHideListing
		if status == models.ListingActive {
			action = audit.ActionShowListing
		}
		if err := audit.Record(tx, audit.Entry{
			AdminID:    admin.ID,
			Action:     action,
			TargetType: models.TargetListing,
			TargetID:   listing.ID,
			Details:    map[string]any{"old_status": oldStatus, "new_status": status, "reason": reason},
			IPAddress:  ip,
		}); err != nil {
			return err
		}

		out = listing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.reload(out.ID)
}

// Update lets an admin edit any listing, including moderation fields.
func (s *AdminListingService) Update(id uint, admin *models.User, req *dto.AdminUpdateListingRequest, ip string) (*models.Listing, error) {
	if req.Status != nil && *req.Status != models.ListingActive && *req.Status != models.ListingInactive {
		return nil, apperr.Invalid("status must be active or inactive")
	}
	if req.ApprovalStatus != nil {
		switch *req.ApprovalStatus {
		case models.ApprovalPending, models.ApprovalApproved, models.ApprovalRejected:
		default:
			return nil, apperr.Invalid("invalid approval status")
		}
	}
	if req.Type != nil && !models.ValidListingType(*req.Type) {
		return nil, apperr.Invalid("invalid listing type")
	}

	var out *models.Listing
	err := s.db.Transaction(func(tx *gorm.DB) error {
		listing, err := findModeratable(tx, id)
		if err != nil {
			return err
		}

		oldValues := map[string]any{
			"title":           listing.Title,
			"price":           listing.Price,
			"status":          listing.Status,
			"approval_status": listing.ApprovalStatus,
		}

		updates := map[string]interface{}{}
		applyString(updates, "title", req.Title)
		applyString(updates, "description", req.Description)
		applyFloat(updates, "price", req.Price)
		applyFloat(updates, "area", req.Area)
		applyString(updates, "type", req.Type)
		applyString(updates, "address", req.Address)
		applyUintPtr(updates, "province_id", req.ProvinceID)
		applyUintPtr(updates, "district_id", req.DistrictID)
		applyUintPtr(updates, "ward_id", req.WardID)
		applyString(updates, "status", req.Status)
		applyString(updates, "approval_status", req.ApprovalStatus)
		applyString(updates, "admin_note", req.AdminNote)

		if err := casListingUpdate(tx, listing, updates); err != nil {
			return err
		}

		if err := audit.Record(tx, audit.Entry{
			AdminID:    admin.ID,
			Action:     audit.ActionUpdateListing,
			TargetType: models.TargetListing,
			TargetID:   listing.ID,
			Details:    map[string]any{"old_values": oldValues},
			IPAddress:  ip,
		}); err != nil {
			return err
		}

		out = listing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.reload(out.ID)
}

// Delete soft-deletes any listing. The reason lands in admin_note.
func (s *AdminListingService) Delete(id uint, admin *models.User, reason, ip string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		listing, err := findModeratable(tx, id)
		if err != nil {
			return err
		}

		if err := casListingUpdate(tx, listing, map[string]interface{}{
			"status":     models.ListingDeleted,
			"admin_note": reason,
		}); err != nil {
			return err
		}

		return audit.Record(tx, audit.Entry{
			AdminID:    admin.ID,
			Action:     audit.ActionDeleteListing,
			TargetType: models.TargetListing,
			TargetID:   listing.ID,
			Details:    map[string]any{"reason": reason},
			IPAddress:  ip,
		})
	})
}

func (s *AdminListingService) reload(id uint) (*models.Listing, error) {
	var listing models.Listing
	err := s.db.
		Preload("User").
		Preload("Images").
		Preload("Province").
		Preload("District").
		Preload("Ward").
		First(&listing, id).Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}
