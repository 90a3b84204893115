package dto

type ReviewMediaItem struct {
	MediaType    string `json:"media_type"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Duration     int    `json:"duration"`
	DisplayOrder int    `json:"display_order"`
}

type CreateReviewRequest struct {
	Title   string            `json:"title"`
	Content string            `json:"content"`
	Rating  int               `json:"rating"`
	Type    string            `json:"type"`
	Media   []ReviewMediaItem `json:"media"`
}

type UpdateReviewRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Rating  *int    `json:"rating"`
}

type ReviewFilter struct {
	Page      int
	Limit     int
	ListingID uint
	Status    string
	Type      string
	MinRating int
	Sort      string
}

type ReviewStats struct {
	TotalCount    int64   `json:"total_count"`
	AverageRating float64 `json:"average_rating"`
	VideoCount    int64   `json:"video_count"`
	ImageCount    int64   `json:"image_count"`
}

type ReviewStatusStats struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
	Total    int64 `json:"total"`
}
