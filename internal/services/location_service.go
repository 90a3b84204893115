package services

import (
	"errors"

	"github.com/minhle-dev/rentroom-backend/internal/apperr"
	"github.com/minhle-dev/rentroom-backend/internal/models"
	"gorm.io/gorm"
)

type LocationService struct {
	db *gorm.DB
}

func NewLocationService(db *gorm.DB) *LocationService {
	return &LocationService{db: db}
}

func (s *LocationService) Provinces() ([]models.Location, error) {
	var provinces []models.Location
	err := s.db.Where("type = ?", models.LocationProvince).
		Order("name ASC").Find(&provinces).Error
	return provinces, err
}

// Children returns the districts of a province or the wards of a district.
func (s *LocationService) Children(parentID uint) ([]models.Location, error) {
	var parent models.Location
	if err := s.db.First(&parent, parentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("location not found")
		}
		return nil, err
	}

	var children []models.Location
	err := s.db.Where("parent_id = ?", parentID).
		Order("name ASC").Find(&children).Error
	return children, err
}
