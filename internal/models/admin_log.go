package models

import (
	"time"

	"gorm.io/datatypes"
)

// AdminLog is the append-only audit trail of admin-initiated mutations.
// Rows are only ever inserted, never updated or deleted by the workflow.
// AdminID is nil for system-initiated entries (report auto-hide escalation).
type AdminLog struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	AdminID       *uint          `gorm:"index" json:"admin_id,omitempty"`
	Action        string         `gorm:"size:100;not null;index" json:"action"`
	TargetType    string         `gorm:"size:50;not null" json:"target_type"`
	TargetID      uint           `gorm:"index" json:"target_id"`
	Details       datatypes.JSON `gorm:"type:jsonb" json:"details,omitempty"`
	IPAddress     string         `gorm:"size:45" json:"ip_address,omitempty"`
	CorrelationID string         `gorm:"size:36;index" json:"correlation_id,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`

	Admin *User `gorm:"foreignKey:AdminID" json:"admin,omitempty"`
}

func (AdminLog) TableName() string {
	return "admin_logs"
}
