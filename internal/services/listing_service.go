package services

import (
	"errors"
	"fmt"

	"github.com/minhle-dev/rentroom-backend/internal/apperr"
	"github.com/minhle-dev/rentroom-backend/internal/dto"
	"github.com/minhle-dev/rentroom-backend/internal/models"
	"gorm.io/gorm"
)

// ListingService covers the user-facing listing CRUD. New listings enter the
// moderation queue as approval_status=pending; admin actions live in
// AdminListingService.
type ListingService struct {
	db *gorm.DB
}

func NewListingService(db *gorm.DB) *ListingService {
	return &ListingService{db: db}
}

func normalizePage(page, limit int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit, (page - 1) * limit
}

func totalPages(total int64, limit int) int {
	return int((total + int64(limit) - 1) / int64(limit))
}

func (s *ListingService) List(f dto.ListingFilter) ([]models.Listing, *dto.Pagination, error) {
	page, limit, offset := normalizePage(f.Page, f.Limit)

	query := s.db.Model(&models.Listing{}).
		Where("status = ? AND approval_status = ?", models.ListingActive, models.ApprovalApproved)

	if f.Search != "" {
		like := "%" + f.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", like, like)
	}

	if f.Type != "" {
		query = query.Where("type = ?", f.Type)
	}
	if f.ProvinceID != 0 {
		query = query.Where("province_id = ?", f.ProvinceID)
	}
	if f.DistrictID != 0 {
		query = query.Where("district_id = ?", f.DistrictID)
	}
	if f.WardID != 0 {
		query = query.Where("ward_id = ?", f.WardID)
	}
	if f.MinPrice > 0 {
		query = query.Where("price >= ?", f.MinPrice)
	}
	if f.MaxPrice > 0 {
		query = query.Where("price <= ?", f.MaxPrice)
	}
	if f.MinArea > 0 {
		query = query.Where("area >= ?", f.MinArea)
	}
	if f.MaxArea > 0 {
		query = query.Where("area <= ?", f.MaxArea)
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
		Preload("Ward").
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

func (s *ListingService) GetByID(id uint) (*models.Listing, error) {
	var listing models.Listing
	err := s.db.
		Preload("User").
		Preload("Images").
		Preload("Province").
		Preload("District").
		Preload("Ward").
		Where("id = ? AND status = ? AND approval_status = ?", id, models.ListingActive, models.ApprovalApproved).
		First(&listing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("listing not found")
		}
		return nil, err
	}
	return &listing, nil
}

func (s *ListingService) Create(userID uint, req *dto.CreateListingRequest) (*models.Listing, error) {
	if req.Title == "" || req.Price <= 0 || req.Type == "" {
		return nil, apperr.Invalid("title, price and type are required")
	}
	if !models.ValidListingType(req.Type) {
		return nil, apperr.Invalid("invalid listing type")
	}

	listing := models.Listing{
		Title:          req.Title,
		Description:    req.Description,
		Price:          req.Price,
		Area:           req.Area,
		Type:           req.Type,
		Address:        req.Address,
		ProvinceID:     req.ProvinceID,
		DistrictID:     req.DistrictID,
		WardID:         req.WardID,
		UserID:         userID,
		Status:         models.ListingActive,
		ApprovalStatus: models.ApprovalPending,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&listing).Error; err != nil {
			return err
		}
		for i, url := range req.Images {
			img := models.ListingImage{
				ListingID: listing.ID,
				ImageURL:  url,
				IsPrimary: i == 0,
			}
			if err := tx.Create(&img).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	return s.reload(listing.ID)
}

// Update applies an owner edit. Admins go through AdminListingService and
// bypass the ownership check entirely.
func (s *ListingService) Update(id, userID uint, req *dto.UpdateListingRequest) (*models.Listing, error) {
	var listing models.Listing
	if err := s.db.First(&listing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("listing not found")
		}
		return nil, err
	}
	if listing.Status == models.ListingDeleted {
		return nil, apperr.NotFound("listing not found")
	}
	if listing.UserID != userID {
		return nil, apperr.Forbidden("you do not own this listing")
	}
	if req.Status != nil && *req.Status != models.ListingActive && *req.Status != models.ListingInactive {
		return nil, apperr.Invalid("status must be active or inactive")
	}
	if req.Type != nil && !models.ValidListingType(*req.Type) {
		return nil, apperr.Invalid("invalid listing type")
	}

	updates := map[string]interface{}{"version": listing.Version + 1}
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

	res := s.db.Model(&models.Listing{}).
		Where("id = ? AND version = ?", listing.ID, listing.Version).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.Conflict("listing was modified concurrently, please retry")
	}

	return s.reload(id)
}

// Delete soft-deletes an owned listing. Deleted is terminal.
func (s *ListingService) Delete(id, userID uint) error {
	var listing models.Listing
	if err := s.db.First(&listing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("listing not found")
		}
		return err
	}
	if listing.Status == models.ListingDeleted {
		return apperr.NotFound("listing not found")
	}
	if listing.UserID != userID {
		return apperr.Forbidden("you do not own this listing")
	}

	res := s.db.Model(&models.Listing{}).
		Where("id = ? AND version = ?", listing.ID, listing.Version).
		Updates(map[string]interface{}{
			"status":  models.ListingDeleted,
			"version": listing.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.Conflict("listing was modified concurrently, please retry")
	}
	return nil
}

func (s *ListingService) MyListings(userID uint, page, limit int) ([]models.Listing, *dto.Pagination, error) {
	page, limit, offset := normalizePage(page, limit)

	query := s.db.Model(&models.Listing{}).
		Where("user_id = ? AND status <> ?", userID, models.ListingDeleted)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var listings []models.Listing
	err := query.
		Preload("Images").
		Preload("Province").
		Preload("District").
		Preload("Ward").
		Order("created_at DESC").
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

func (s *ListingService) reload(id uint) (*models.Listing, error) {
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

var allowedSorts = map[string]bool{
	"created_at": true,
	"price":      true,
	"area":       true,
}

func sortClause(sort, order string) string {
	if !allowedSorts[sort] {
		sort = "created_at"
	}
	if order != "ASC" && order != "asc" {
		order = "DESC"
	}
	return sort + " " + order
}

func applyString(updates map[string]interface{}, key string, val *string) {
	if val != nil {
		updates[key] = *val
	}
}

func applyFloat(updates map[string]interface{}, key string, val *float64) {
	if val != nil {
		updates[key] = *val
	}
}

func applyUintPtr(updates map[string]interface{}, key string, val *uint) {
	if val != nil {
		updates[key] = *val
	}
}
