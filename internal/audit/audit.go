// Package audit writes AdminLog rows. Every state-changing moderation action
// records exactly one entry, inside the same transaction as the mutation it
// describes, so an audit failure rolls the mutation back.
package audit

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/minhle-dev/rentroom-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Action codes recorded in admin_logs.
const (
	ActionApproveListing     = "APPROVE_LISTING"
	ActionRejectListing      = "REJECT_LISTING"
	ActionShowListing        = "SHOW_LISTING"
	ActionHideListing        = "HIDE_LISTING"
	ActionUpdateListing      = "UPDATE_LISTING"
	ActionDeleteListing      = "DELETE_LISTING"
	ActionAutoHideListing    = "AUTO_HIDE_LISTING"
	ActionApproveReview      = "APPROVE_REVIEW"
	ActionRejectReview       = "REJECT_REVIEW"
	ActionFeatureReview      = "FEATURE_REVIEW"
	ActionDeleteReview       = "DELETE_REVIEW"
	ActionUpdateReport       = "UPDATE_REPORT"
	ActionHandleReport       = "HANDLE_REPORT"
	ActionHideFromReport     = "HIDE_LISTING_FROM_REPORT"
	ActionLockUserFromReport = "LOCK_USER_FROM_REPORT"
	ActionUpdateUserRole     = "UPDATE_USER_ROLE"
	ActionLockUser           = "LOCK_USER"
	ActionUnlockUser         = "UNLOCK_USER"
	ActionResetUserPassword  = "RESET_USER_PASSWORD"
)

// Entry describes one admin action to record. A zero AdminID marks a
// system-initiated entry.
type Entry struct {
	AdminID    uint
	Action     string
	TargetType string
	TargetID   uint
	Details    map[string]any
	IPAddress  string

	// CorrelationID groups the sub-entries of a composite action (report
	// handling) with their summary entry. Generated when empty.
	CorrelationID string
}

// Record inserts the entry using tx, which is expected to be the transaction
// of the mutation being audited.
func Record(tx *gorm.DB, e Entry) error {
	row := models.AdminLog{
		Action:        e.Action,
		TargetType:    e.TargetType,
		TargetID:      e.TargetID,
		IPAddress:     e.IPAddress,
		CorrelationID: e.CorrelationID,
	}
	if e.AdminID != 0 {
		adminID := e.AdminID
		row.AdminID = &adminID
	}
	if row.CorrelationID == "" {
		row.CorrelationID = uuid.NewString()
	}
	if len(e.Details) > 0 {
		b, err := json.Marshal(e.Details)
		if err != nil {
			return err
		}
		row.Details = datatypes.JSON(b)
	}
	return tx.Create(&row).Error
}
