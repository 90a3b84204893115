package services

import (
	"errors"

	"github.com/minhle-dev/rentroom-backend/internal/apperr"
	"github.com/minhle-dev/rentroom-backend/internal/audit"
	"github.com/minhle-dev/rentroom-backend/internal/dto"
	"github.com/minhle-dev/rentroom-backend/internal/models"
	"github.com/minhle-dev/rentroom-backend/internal/policy"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AdminUserService covers account administration: role changes, lock/unlock
// and password resets. Every mutation goes through the role hierarchy in
// policy before it touches the row.
type AdminUserService struct {
	db *gorm.DB
}

func NewAdminUserService(db *gorm.DB) *AdminUserService {
	return &AdminUserService{db: db}
}

func (s *AdminUserService) List(f dto.UserFilter) ([]models.User, *dto.Pagination, error) {
	page, limit, offset := normalizePage(f.Page, f.Limit)

	query := s.db.Model(&models.User{})
	if f.Search != "" {
		like := "%" + f.Search + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", like, like)
	}
	if f.Role != "" {
		query = query.Where("role = ?", f.Role)
	}
	if f.IsLocked != nil {
		query = query.Where("is_locked = ?", *f.IsLocked)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var users []models.User
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error
	if err != nil {
		return nil, nil, err
	}

	return users, &dto.Pagination{
		Total: total, Page: page, Limit: limit, TotalPages: totalPages(total, limit),
	}, nil
}

func (s *AdminUserService) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}
	return &user, nil
}

func (s *AdminUserService) findModifiable(tx *gorm.DB, admin *models.User, id uint) (*models.User, error) {
	var user models.User
	if err := tx.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}
	if !policy.CanModifyUser(admin.Role, user.Role) {
		return nil, apperr.Forbidden("you cannot modify this account")
	}
	return &user, nil
}

func (s *AdminUserService) UpdateUserRole(id uint, admin *models.User, req *dto.UpdateUserRoleRequest, ip string) (*models.User, error) {
	if !models.ValidRole(req.Role) {
		return nil, apperr.Invalid("invalid role")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		user, err := s.findModifiable(tx, admin, id)
		if err != nil {
			return err
		}
		if !policy.CanAssignRole(admin.Role, req.Role) {
			return apperr.Forbidden("you cannot assign this role")
		}
		if user.Role == req.Role {
			return nil
		}

		oldRole := user.Role
		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).
			Update("role", req.Role).Error; err != nil {
			return err
		}

		return audit.Record(tx, audit.Entry{
			AdminID:    admin.ID,
			Action:     audit.ActionUpdateUserRole,
			TargetType: models.TargetUser,
			TargetID:   user.ID,
			Details:    map[string]any{"old_role": oldRole, "new_role": req.Role},
			IPAddress:  ip,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

func (s *AdminUserService) ToggleUserLock(id uint, admin *models.User, req *dto.ToggleUserLockRequest, ip string) (*models.User, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		user, err := s.findModifiable(tx, admin, id)
		if err != nil {
			return err
		}
		if user.IsLocked == req.IsLocked {
			return nil
		}

		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).
			Update("is_locked", req.IsLocked).Error; err != nil {
			return err
		}

		action := audit.ActionUnlockUser
		if req.IsLocked {
			action = audit.ActionLockUser
		}
		return audit.Record(tx, audit.Entry{
			AdminID:    admin.ID,
			Action:     action,
			TargetType: models.TargetUser,
			TargetID:   user.ID,
			Details:    map[string]any{"reason": req.Reason},
			IPAddress:  ip,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// ResetUserPassword replaces the account's password. The route gates this to
// SUPER_ADMIN; the hierarchy check here is a second line.
func (s *AdminUserService) ResetUserPassword(id uint, admin *models.User, req *dto.ResetPasswordRequest, ip string) error {
	if len(req.NewPassword) < 6 {
		return apperr.Invalid("password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		user, err := s.findModifiable(tx, admin, id)
		if err != nil {
			return err
		}

		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).
			Update("password_hash", string(hash)).Error; err != nil {
			return err
		}

		// Force re-login everywhere.
		if err := tx.Model(&models.RefreshToken{}).Where("user_id = ?", user.ID).
			Update("revoked", true).Error; err != nil {
			return err
		}

		return audit.Record(tx, audit.Entry{
			AdminID:    admin.ID,
			Action:     audit.ActionResetUserPassword,
			TargetType: models.TargetUser,
			TargetID:   user.ID,
			IPAddress:  ip,
		})
	})
}
