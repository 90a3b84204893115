package dto

type CreateListingRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Area        float64  `json:"area"`
	Type        string   `json:"type"`
	Address     string   `json:"address"`
	ProvinceID  *uint    `json:"province_id"`
	DistrictID  *uint    `json:"district_id"`
	WardID      *uint    `json:"ward_id"`
	Images      []string `json:"images"`
}

// UpdateListingRequest carries partial updates; nil means "leave unchanged".
type UpdateListingRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Area        *float64 `json:"area"`
	Type        *string  `json:"type"`
	Address     *string  `json:"address"`
	ProvinceID  *uint    `json:"province_id"`
	DistrictID  *uint    `json:"district_id"`
	WardID      *uint    `json:"ward_id"`
	Status      *string  `json:"status"`
}

// AdminUpdateListingRequest additionally allows moderation fields.
type AdminUpdateListingRequest struct {
	UpdateListingRequest
	ApprovalStatus *string `json:"approval_status"`
	AdminNote      *string `json:"admin_note"`
}

type ListingFilter struct {
	Page       int
	Limit      int
	Search     string
	Type       string
	Status     string
	Approval   string
	UserID     uint
	ProvinceID uint
	DistrictID uint
	WardID     uint
	MinPrice   float64
	MaxPrice   float64
	MinArea    float64
	MaxArea    float64
	Sort       string
	Order      string
}

type ApproveListingRequest struct {
	AdminNote string `json:"admin_note"`
}

type RejectListingRequest struct {
	AdminNote string `json:"admin_note"`
}

type ToggleVisibilityRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

type DeleteListingRequest struct {
	Reason string `json:"reason"`
}

type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}
