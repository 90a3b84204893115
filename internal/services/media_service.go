package services

import (
	"errors"

	"github.com/minhle-dev/rentroom-backend/internal/apperr"
	"github.com/minhle-dev/rentroom-backend/internal/models"
	"gorm.io/gorm"
)

type MediaService struct {
	db *gorm.DB
}

func NewMediaService(db *gorm.DB) *MediaService {
	return &MediaService{db: db}
}

// ToggleLike flips the caller's like on a review media item and keeps the
// denormalized like_count in step. Returns the new liked state and count.
func (s *MediaService) ToggleLike(mediaID, userID uint) (bool, int64, error) {
	var liked bool

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var media models.ReviewMedia
		if err := tx.First(&media, mediaID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("media not found")
			}
			return err
		}

		var existing models.MediaLike
		err := tx.Where("media_id = ? AND user_id = ?", mediaID, userID).
			First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			liked = false
			return tx.Model(&models.ReviewMedia{}).Where("id = ?", mediaID).
				Update("like_count", gorm.Expr("like_count - 1")).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			like := models.MediaLike{MediaID: mediaID, UserID: userID}
			if err := tx.Create(&like).Error; err != nil {
				return err
			}
			liked = true
			return tx.Model(&models.ReviewMedia{}).Where("id = ?", mediaID).
				Update("like_count", gorm.Expr("like_count + 1")).Error
		default:
			return err
		}
	})
	if err != nil {
		return false, 0, err
	}

	var count int64
	err = s.db.Model(&models.ReviewMedia{}).Select("like_count").
		Where("id = ?", mediaID).Scan(&count).Error
	return liked, count, err
}
