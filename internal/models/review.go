package models

import "time"

// Relationship of the reviewer to the reviewed listing, computed at creation.
// Distinct from the User access tier.
const (
	ReviewerAdmin    = "admin"
	ReviewerLandlord = "landlord"
	ReviewerRenter   = "renter"
)

const (
	ReviewPending  = "pending"
	ReviewApproved = "approved"
	ReviewRejected = "rejected"
)

const (
	MediaTypeVideo = "video"
	MediaTypeImage = "image"
)

type Review struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ListingID  uint      `gorm:"not null;index" json:"listing_id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	Role       string    `gorm:"size:20;not null" json:"role"`
	Type       string    `gorm:"size:20;default:'mixed'" json:"type"`
	Title      string    `gorm:"size:255" json:"title,omitempty"`
	Content    string    `gorm:"type:text" json:"content,omitempty"`
	Rating     int       `gorm:"not null" json:"rating"`
	Status     string    `gorm:"size:20;default:'pending';index" json:"status"`
	IsFeatured bool      `gorm:"default:false" json:"is_featured"`
	Version    uint      `gorm:"not null;default:0" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	User    *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Listing *Listing      `gorm:"foreignKey:ListingID" json:"listing,omitempty"`
	Media   []ReviewMedia `gorm:"foreignKey:ReviewID" json:"media,omitempty"`
}

func (Review) TableName() string {
	return "reviews"
}

type ReviewMedia struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ReviewID     uint      `gorm:"not null;index" json:"review_id"`
	MediaType    string    `gorm:"size:20;not null" json:"media_type"`
	URL          string    `gorm:"size:1000;not null" json:"url"`
	ThumbnailURL string    `gorm:"size:1000" json:"thumbnail_url,omitempty"`
	Duration     int       `json:"duration,omitempty"`
	DisplayOrder int       `gorm:"default:0" json:"display_order"`
	LikeCount    int       `gorm:"default:0" json:"like_count"`
	CreatedAt    time.Time `json:"created_at"`
}

func (ReviewMedia) TableName() string {
	return "review_media"
}

type MediaLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	MediaID   uint      `gorm:"not null;uniqueIndex:idx_media_likes_media_user" json:"media_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_media_likes_media_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (MediaLike) TableName() string {
	return "media_likes"
}
