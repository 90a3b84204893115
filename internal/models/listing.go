package models

import "time"

// Visibility lifecycle. Deleted is terminal.
const (
	ListingActive   = "active"
	ListingInactive = "inactive"
	ListingDeleted  = "deleted"
)

// Moderation lifecycle, orthogonal to visibility.
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

const (
	ListingTypeRoom      = "room"
	ListingTypeHouse     = "house"
	ListingTypeApartment = "apartment"
)

func ValidListingType(t string) bool {
	switch t {
	case ListingTypeRoom, ListingTypeHouse, ListingTypeApartment:
		return true
	}
	return false
}

type Listing struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Title          string     `gorm:"size:500;not null" json:"title"`
	Description    string     `gorm:"type:text" json:"description,omitempty"`
	Price          float64    `gorm:"not null" json:"price"`
	Area           float64    `json:"area,omitempty"`
	Type           string     `gorm:"size:50;not null" json:"type"`
	Address        string     `gorm:"type:text" json:"address,omitempty"`
	ProvinceID     *uint      `gorm:"index" json:"province_id,omitempty"`
	DistrictID     *uint      `gorm:"index" json:"district_id,omitempty"`
	WardID         *uint      `gorm:"index" json:"ward_id,omitempty"`
	UserID         uint       `gorm:"not null;index" json:"user_id"`
	Status         string     `gorm:"size:50;default:'active';index" json:"status"`
	ApprovalStatus string     `gorm:"size:50;default:'pending';index" json:"approval_status"`
	AdminNote      string     `gorm:"type:text" json:"admin_note,omitempty"`
	ReviewedBy     *uint      `json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty"`
	Version        uint       `gorm:"not null;default:0" json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	User     *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Images   []ListingImage `gorm:"foreignKey:ListingID" json:"images,omitempty"`
	Province *Location      `gorm:"foreignKey:ProvinceID" json:"province,omitempty"`
	District *Location      `gorm:"foreignKey:DistrictID" json:"district,omitempty"`
	Ward     *Location      `gorm:"foreignKey:WardID" json:"ward,omitempty"`
}

func (Listing) TableName() string {
	return "listings"
}

type ListingImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ListingID uint      `gorm:"not null;index" json:"listing_id"`
	ImageURL  string    `gorm:"size:1000;not null" json:"image_url"`
	IsPrimary bool      `gorm:"default:false" json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`
}

func (ListingImage) TableName() string {
	return "listing_images"
}
