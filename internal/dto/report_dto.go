package dto

type CreateReportRequest struct {
	TargetType string `json:"target_type"`
	TargetID   uint   `json:"target_id"`
	Reason     string `json:"reason"`
	Severity   string `json:"severity"`
}

// UpdateReportRequest carries a partial edit; any subset of fields may be set.
type UpdateReportRequest struct {
	Status    *string `json:"status"`
	Severity  *string `json:"severity"`
	AdminNote *string `json:"admin_note"`
}

type HandleReportRequest struct {
	Action    string `json:"action"`
	AdminNote string `json:"admin_note"`
}

type ReportFilter struct {
	Page       int
	Limit      int
	Status     string
	Severity   string
	TargetType string
	Sort       string
	Order      string
}
