package models

import "time"

const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

func ValidSeverity(s string) bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

const (
	ReportPending   = "pending"
	ReportReviewed  = "reviewed"
	ReportResolved  = "resolved"
	ReportDismissed = "dismissed"
)

func ValidReportStatus(s string) bool {
	switch s {
	case ReportPending, ReportReviewed, ReportResolved, ReportDismissed:
		return true
	}
	return false
}

const (
	TargetListing = "listing"
	TargetUser    = "user"
	TargetReview  = "review"
)

func ValidTargetType(t string) bool {
	switch t {
	case TargetListing, TargetUser, TargetReview:
		return true
	}
	return false
}

// Report is a shared coordination object between an (optionally anonymous)
// reporter, the reported target, and the handling admin.
type Report struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	ReporterID *uint      `gorm:"index" json:"reporter_id,omitempty"`
	TargetType string     `gorm:"size:50;not null;index" json:"target_type"`
	TargetID   uint       `gorm:"not null;index" json:"target_id"`
	Reason     string     `gorm:"type:text;not null" json:"reason"`
	Severity   string     `gorm:"size:20;default:'low'" json:"severity"`
	Status     string     `gorm:"size:20;default:'pending';index" json:"status"`
	HandledBy  *uint      `json:"handled_by,omitempty"`
	HandledAt  *time.Time `json:"handled_at,omitempty"`
	AdminNote  string     `gorm:"type:text" json:"admin_note,omitempty"`
	Version    uint       `gorm:"not null;default:0" json:"-"`
	CreatedAt  time.Time  `json:"created_at"`

	Reporter *User `gorm:"foreignKey:ReporterID" json:"reporter,omitempty"`
	Handler  *User `gorm:"foreignKey:HandledBy" json:"handler,omitempty"`
}

func (Report) TableName() string {
	return "reports"
}
