package services

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/minhle-dev/rentroom-backend/internal/apperr"
	"github.com/minhle-dev/rentroom-backend/internal/audit"
	"github.com/minhle-dev/rentroom-backend/internal/config"
	"github.com/minhle-dev/rentroom-backend/internal/dto"
	"github.com/minhle-dev/rentroom-backend/internal/models"
	"gorm.io/gorm"
)

// ReviewService owns the review moderation state machine. Admin-authored
// reviews skip the pending state; everything else waits for moderation, and
// any edit sends a review back to pending.
type ReviewService struct {
	db  *gorm.DB
	cfg config.ModerationConfig
}

func NewReviewService(db *gorm.DB, cfg config.ModerationConfig) *ReviewService {
	return &ReviewService{db: db, cfg: cfg}
}

func validMediaURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func (s *ReviewService) validateMedia(media []dto.ReviewMediaItem) error {
	if len(media) > s.cfg.MaxMediaPerReview {
		return apperr.Invalid(fmt.Sprintf("at most %d media items per review", s.cfg.MaxMediaPerReview))
	}

	images := 0
	for _, m := range media {
		if m.MediaType != models.MediaTypeVideo && m.MediaType != models.MediaTypeImage {
			return apperr.Invalid("media type must be video or image")
		}
		if !validMediaURL(m.URL) {
			return apperr.Invalid("media url must be a valid http or https URL")
		}
		if m.ThumbnailURL != "" && !validMediaURL(m.ThumbnailURL) {
			return apperr.Invalid("thumbnail url must be a valid http or https URL")
		}
		if m.MediaType == models.MediaTypeImage {
			images++
		}
		if m.MediaType == models.MediaTypeVideo && m.Duration > s.cfg.MaxVideoDurationSeconds {
			return apperr.Invalid(fmt.Sprintf("videos must be at most %d seconds", s.cfg.MaxVideoDurationSeconds))
		}
	}
	if images > s.cfg.MaxImagesPerReview {
		return apperr.Invalid(fmt.Sprintf("at most %d images per review", s.cfg.MaxImagesPerReview))
	}
	return nil
}

// reviewerRole computes the relationship of the author to the listing.
// The author's access tier wins over listing ownership.
func reviewerRole(author *models.User, listing *models.Listing) string {
	if author.IsAdmin() {
		return models.ReviewerAdmin
	}
	if listing.UserID == author.ID {
		return models.ReviewerLandlord
	}
	return models.ReviewerRenter
}

func reviewTypeFromMedia(media []dto.ReviewMediaItem) string {
	hasVideo, hasImage := false, false
	for _, m := range media {
		switch m.MediaType {
		case models.MediaTypeVideo:
			hasVideo = true
		case models.MediaTypeImage:
			hasImage = true
		}
	}
	if hasVideo && !hasImage {
		return models.MediaTypeVideo
	}
	if hasImage && !hasVideo {
		return models.MediaTypeImage
	}
	return "mixed"
}

// Create validates and persists a review with its media records in one
// transaction; a limit violation aborts the whole create.
func (s *ReviewService) Create(listingID uint, author *models.User, req *dto.CreateReviewRequest) (*models.Review, error) {
	var listing models.Listing
	err := s.db.Where("id = ? AND status <> ?", listingID, models.ListingDeleted).
		First(&listing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("listing not found")
		}
		return nil, err
	}

	if req.Rating < 1 || req.Rating > 5 {
		return nil, apperr.Invalid("rating must be between 1 and 5")
	}
	if err := s.validateMedia(req.Media); err != nil {
		return nil, err
	}

	role := reviewerRole(author, &listing)
	status := models.ReviewPending
	if role == models.ReviewerAdmin {
		status = models.ReviewApproved
	}

	reviewType := req.Type
	if reviewType == "" {
		reviewType = reviewTypeFromMedia(req.Media)
	}

	review := models.Review{
		ListingID: listingID,
		UserID:    author.ID,
		Role:      role,
		Type:      reviewType,
		Title:     req.Title,
		Content:   req.Content,
		Rating:    req.Rating,
		Status:    status,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		for i, m := range req.Media {
			order := m.DisplayOrder
			if order == 0 {
				order = i
			}
			rec := models.ReviewMedia{
				ReviewID:     review.ID,
				MediaType:    m.MediaType,
				URL:          m.URL,
				ThumbnailURL: m.ThumbnailURL,
				Duration:     m.Duration,
				DisplayOrder: order,
			}
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	return s.GetByID(review.ID)
}

// Update applies an author edit and always forces the review back to pending,
// even when the submitted fields match the stored ones. is_featured is left
// untouched.
func (s *ReviewService) Update(id, userID uint, req *dto.UpdateReviewRequest) (*models.Review, error) {
	var review models.Review
	if err := s.db.First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("review not found")
		}
		return nil, err
	}
	if review.UserID != userID {
		return nil, apperr.Forbidden("only the author may edit this review")
	}
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		return nil, apperr.Invalid("rating must be between 1 and 5")
	}

	updates := map[string]interface{}{
		"status":  models.ReviewPending,
		"version": review.Version + 1,
	}
	applyString(updates, "title", req.Title)
	applyString(updates, "content", req.Content)
	if req.Rating != nil {
		updates["rating"] = *req.Rating
	}

	res := s.db.Model(&models.Review{}).
		Where("id = ? AND version = ?", review.ID, review.Version).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.Conflict("review was modified concurrently, please retry")
	}

	return s.GetByID(id)
}

// Delete removes a review. The author or any admin may delete.
func (s *ReviewService) Delete(id uint, requester *models.User) error {
	var review models.Review
	if err := s.db.First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("review not found")
		}
		return err
	}
	if review.UserID != requester.ID && !requester.IsAdmin() {
		return apperr.Forbidden("you may not delete this review")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", review.ID).Delete(&models.ReviewMedia{}).Error; err != nil {
			return err
		}
		return tx.Delete(&review).Error
	})
}

func (s *ReviewService) GetByID(id uint) (*models.Review, error) {
	var review models.Review
	err := s.db.
		Preload("User").
		Preload("Listing").
		Preload("Media", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		First(&review, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("review not found")
		}
		return nil, err
	}
	return &review, nil
}

// ListByListing returns approved reviews for one listing plus aggregate stats
// and the featured review, if any.
func (s *ReviewService) ListByListing(listingID uint, f dto.ReviewFilter) ([]models.Review, *models.Review, *dto.ReviewStats, *dto.Pagination, error) {
	page, limit, offset := normalizePage(f.Page, f.Limit)

	query := s.db.Model(&models.Review{}).
		Where("listing_id = ? AND status = ?", listingID, models.ReviewApproved)
	if f.Type != "" {
		query = query.Where("type = ?", f.Type)
	}
	if f.MinRating > 0 {
		query = query.Where("rating >= ?", f.MinRating)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, nil, nil, err
	}

	var reviews []models.Review
	err := query.
		Preload("User").
		Preload("Media", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		Order(reviewSortClause(f.Sort)).
		Limit(limit).
		Offset(offset).
		Find(&reviews).Error
	if err != nil {
		return nil, nil, nil, nil, err
	}

	stats, err := s.statsForListing(listingID)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	var featured *models.Review
	var candidate models.Review
	err = s.db.
		Preload("User").
		Preload("Media").
		Where("listing_id = ? AND status = ? AND is_featured = ?", listingID, models.ReviewApproved, true).
		First(&candidate).Error
	if err == nil {
		featured = &candidate
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, nil, nil, err
	}

	return reviews, featured, stats, &dto.Pagination{
		Total: total, Page: page, Limit: limit, TotalPages: totalPages(total, limit),
	}, nil
}

func (s *ReviewService) statsForListing(listingID uint) (*dto.ReviewStats, error) {
	base := s.db.Model(&models.Review{}).
		Where("listing_id = ? AND status = ?", listingID, models.ReviewApproved)

	var stats dto.ReviewStats
	if err := base.Session(&gorm.Session{}).Count(&stats.TotalCount).Error; err != nil {
		return nil, err
	}
	if stats.TotalCount > 0 {
		row := base.Session(&gorm.Session{}).Select("AVG(rating)").Row()
		if err := row.Scan(&stats.AverageRating); err != nil {
			return nil, err
		}
	}
	if err := base.Session(&gorm.Session{}).Where("type = ?", models.MediaTypeVideo).Count(&stats.VideoCount).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("type = ?", models.MediaTypeImage).Count(&stats.ImageCount).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

// Feed returns the global approved-review feed.
func (s *ReviewService) Feed(f dto.ReviewFilter) ([]models.Review, *dto.Pagination, error) {
	page, limit, offset := normalizePage(f.Page, f.Limit)

	query := s.db.Model(&models.Review{}).Where("status = ?", models.ReviewApproved)
	if f.Type != "" {
		query = query.Where("type = ?", f.Type)
	}
	if f.MinRating > 0 {
		query = query.Where("rating >= ?", f.MinRating)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var reviews []models.Review
	err := query.
		Preload("User").
		Preload("Listing").
		Preload("Media", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		Order(reviewSortClause(f.Sort)).
		Limit(limit).
		Offset(offset).
		Find(&reviews).Error
	if err != nil {
		return nil, nil, err
	}

	return reviews, &dto.Pagination{
		Total: total, Page: page, Limit: limit, TotalPages: totalPages(total, limit),
	}, nil
}

// AdminList returns reviews in any status with aggregate status counts.
func (s *ReviewService) AdminList(f dto.ReviewFilter) ([]models.Review, *dto.ReviewStatusStats, *dto.Pagination, error) {
	page, limit, offset := normalizePage(f.Page, f.Limit)

	query := s.db.Model(&models.Review{})
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.ListingID != 0 {
		query = query.Where("listing_id = ?", f.ListingID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, nil, err
	}

	order := "created_at DESC"
	if f.Sort == "oldest" {
		order = "created_at ASC"
	}

	var reviews []models.Review
	err := query.
		Preload("User").
		Preload("Listing").
		Preload("Media").
		Order(order).
		Limit(limit).
		Offset(offset).
		Find(&reviews).Error
	if err != nil {
		return nil, nil, nil, err
	}

	var stats dto.ReviewStatusStats
	s.db.Model(&models.Review{}).Where("status = ?", models.ReviewPending).Count(&stats.Pending)
	s.db.Model(&models.Review{}).Where("status = ?", models.ReviewApproved).Count(&stats.Approved)
	s.db.Model(&models.Review{}).Where("status = ?", models.ReviewRejected).Count(&stats.Rejected)
	stats.Total = stats.Pending + stats.Approved + stats.Rejected

	return reviews, &stats, &dto.Pagination{
		Total: total, Page: page, Limit: limit, TotalPages: totalPages(total, limit),
	}, nil
}

// PendingQueue returns reviews awaiting moderation, oldest first.
func (s *ReviewService) PendingQueue(page, limit int) ([]models.Review, *dto.Pagination, error) {
	page, limit, offset := normalizePage(page, limit)

	query := s.db.Model(&models.Review{}).Where("status = ?", models.ReviewPending)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var reviews []models.Review
	err := query.
		Preload("User").
		Preload("Listing").
		Preload("Media").
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&reviews).Error
	if err != nil {
		return nil, nil, err
	}

	return reviews, &dto.Pagination{
		Total: total, Page: page, Limit: limit, TotalPages: totalPages(total, limit),
	}, nil
}

func (s *ReviewService) moderate(id uint, admin *models.User, status, action, ip string) (*models.Review, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var review models.Review
		if err := tx.First(&review, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("review not found")
			}
			return err
		}

		res := tx.Model(&models.Review{}).
			Where("id = ? AND version = ?", review.ID, review.Version).
			Updates(map[string]interface{}{
				"status":  status,
				"version": review.Version + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.Conflict("review was modified concurrently, please retry")
		}

		if !s.cfg.AuditReviewActions {
			return nil
		}
		return audit.Record(tx, audit.Entry{
			AdminID:    admin.ID,
			Action:     action,
			TargetType: models.TargetReview,
			TargetID:   review.ID,
			Details:    map[string]any{"status": status},
			IPAddress:  ip,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

func (s *ReviewService) Approve(id uint, admin *models.User, ip string) (*models.Review, error) {
	return s.moderate(id, admin, models.ReviewApproved, audit.ActionApproveReview, ip)
}

func (s *ReviewService) Reject(id uint, admin *models.User, ip string) (*models.Review, error) {
	return s.moderate(id, admin, models.ReviewRejected, audit.ActionRejectReview, ip)
}

// ToggleFeatured flips is_featured with no status precondition.
func (s *ReviewService) ToggleFeatured(id uint, admin *models.User, ip string) (*models.Review, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var review models.Review
		if err := tx.First(&review, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("review not found")
			}
			return err
		}

		res := tx.Model(&models.Review{}).
			Where("id = ? AND version = ?", review.ID, review.Version).
			Updates(map[string]interface{}{
				"is_featured": !review.IsFeatured,
				"version":     review.Version + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.Conflict("review was modified concurrently, please retry")
		}

		if !s.cfg.AuditReviewActions {
			return nil
		}
		return audit.Record(tx, audit.Entry{
			AdminID:    admin.ID,
			Action:     audit.ActionFeatureReview,
			TargetType: models.TargetReview,
			TargetID:   review.ID,
			Details:    map[string]any{"is_featured": !review.IsFeatured},
			IPAddress:  ip,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

func reviewSortClause(sort string) string {
	switch sort {
	case "rating":
		return "rating DESC, created_at DESC"
	case "featured":
		return "is_featured DESC, created_at DESC"
	default:
		return "created_at DESC"
	}
}
