package dto

type UpdateUserRoleRequest struct {
	Role string `json:"role"`
}

type ToggleUserLockRequest struct {
	IsLocked bool   `json:"is_locked"`
	Reason   string `json:"reason"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"new_password"`
}

type UserFilter struct {
	Page     int
	Limit    int
	Search   string
	Role     string
	IsLocked *bool
	Sort     string
	Order    string
}

type DashboardUserStats struct {
	Total       int64            `json:"total"`
	ByRole      map[string]int64 `json:"by_role"`
	NewThisWeek int64            `json:"new_this_week"`
	Locked      int64            `json:"locked"`
}

type DashboardListingStats struct {
	Total       int64 `json:"total"`
	Pending     int64 `json:"pending"`
	Approved    int64 `json:"approved"`
	Rejected    int64 `json:"rejected"`
	NewThisWeek int64 `json:"new_this_week"`
}

type DashboardReportStats struct {
	Total   int64 `json:"total"`
	Pending int64 `json:"pending"`
}

type DashboardStats struct {
	Users    DashboardUserStats    `json:"users"`
	Listings DashboardListingStats `json:"listings"`
	Reports  DashboardReportStats  `json:"reports"`
}
