package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	SyncPending = "PENDING"
	SyncSyncing = "SYNCING"
	SyncSynced  = "SYNCED"
	SyncFailed  = "FAILED"
	SyncSkipped = "SKIPPED"

	MaxSyncAttempts = 5
)

// Lead is a contact captured by a landing page.
type Lead struct {
	Base
	LandingPageID uint           `json:"landing_page_id" gorm:"not null;index"`
	Name          string         `json:"name" gorm:"size:255;not null"`
	Email         string         `json:"email" gorm:"size:255;index"`
	Phone         string         `json:"phone" gorm:"size:32"`
	Message       string         `json:"message" gorm:"type:text"`
	Extra         datatypes.JSON `json:"extra"`
	SourceIP      string         `json:"-"`
	UserAgent     string         `json:"-"`
	SyncStatus    string         `json:"sync_status" gorm:"type:varchar(16);not null;default:'PENDING';index"`
	SyncAttempts  int            `json:"sync_attempts" gorm:"default:0"`
	SyncError     string         `json:"-"`
	SyncedAt      *time.Time     `json:"synced_at"`
	NotifiedAt    *time.Time     `json:"notified_at"`
}
