package services

import (
	"time"

	"github.com/minhle-dev/rentroom-backend/internal/dto"
	"github.com/minhle-dev/rentroom-backend/internal/models"
	"gorm.io/gorm"
)

type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// Stats aggregates the counts shown on the admin overview page.
func (s *DashboardService) Stats() (*dto.DashboardStats, error) {
	stats := &dto.DashboardStats{
		Users: dto.DashboardUserStats{ByRole: map[string]int64{}},
	}
	weekAgo := time.Now().AddDate(0, 0, -7)

	if err := s.db.Model(&models.User{}).Count(&stats.Users.Total).Error; err != nil {
		return nil, err
	}

	var roleCounts []struct {
		Role  string
		Count int64
	}
	err := s.db.Model(&models.User{}).
		Select("role, COUNT(*) as count").
		Group("role").
		Scan(&roleCounts).Error
	if err != nil {
		return nil, err
	}
	for _, rc := range roleCounts {
		stats.Users.ByRole[rc.Role] = rc.Count
	}

	if err := s.db.Model(&models.User{}).Where("created_at >= ?", weekAgo).
		Count(&stats.Users.NewThisWeek).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.User{}).Where("is_locked = ?", true).
		Count(&stats.Users.Locked).Error; err != nil {
		return nil, err
	}

	// Deleted listings are excluded everywhere on the dashboard.
	listings := func() *gorm.DB {
		return s.db.Model(&models.Listing{}).Where("status <> ?", models.ListingDeleted)
	}
	if err := listings().Count(&stats.Listings.Total).Error; err != nil {
		return nil, err
	}
	if err := listings().Where("approval_status = ?", models.ApprovalPending).
		Count(&stats.Listings.Pending).Error; err != nil {
		return nil, err
	}
	if err := listings().Where("approval_status = ?", models.ApprovalApproved).
		Count(&stats.Listings.Approved).Error; err != nil {
		return nil, err
	}
	if err := listings().Where("approval_status = ?", models.ApprovalRejected).
		Count(&stats.Listings.Rejected).Error; err != nil {
		return nil, err
	}
	if err := listings().Where("created_at >= ?", weekAgo).
		Count(&stats.Listings.NewThisWeek).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Report{}).Count(&stats.Reports.Total).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Report{}).Where("status = ?", models.ReportPending).
		Count(&stats.Reports.Pending).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

// ActivityLogs pages through admin_logs, newest first.
func (s *DashboardService) ActivityLogs(page, limit int, action string) ([]models.AdminLog, *dto.Pagination, error) {
	page, limit, offset := normalizePage(page, limit)

	query := s.db.Model(&models.AdminLog{})
	if action != "" {
		query = query.Where("action = ?", action)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var logs []models.AdminLog
	err := query.
		Preload("Admin").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error
	if err != nil {
		return nil, nil, err
	}

	return logs, &dto.Pagination{
		Total: total, Page: page, Limit: limit, TotalPages: totalPages(total, limit),
	}, nil
}
