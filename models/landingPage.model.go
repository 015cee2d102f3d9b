package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	LandingClient     = "client"
	LandingConsultant = "consultant"

	LandingDraft     = "draft"
	LandingPublished = "published"
)

// LandingPage is a user-configured public page that captures leads.
type LandingPage struct {
	Base
	UserID        uint           `json:"user_id" gorm:"not null;index"`
	Kind          string         `json:"kind" gorm:"type:varchar(16);not null"` // client, consultant
	Slug          string         `json:"slug" gorm:"size:120;uniqueIndex;not null"`
	Title         string         `json:"title" gorm:"size:255;not null"`
	Headline      string         `json:"headline" gorm:"size:255"`
	Description   string         `json:"description" gorm:"type:text"`
	Whatsapp      string         `json:"whatsapp" gorm:"size:32"`
	Config        datatypes.JSON `json:"config"`
	Status        string         `json:"status" gorm:"type:varchar(16);not null;default:'draft';index"`
	NotifyEmail   bool           `json:"notify_email" gorm:"default:false"`
	NotifyAddress string         `json:"notify_address"`
	SheetSync     bool           `json:"sheet_sync" gorm:"default:false"`
	SpreadsheetID string         `json:"spreadsheet_id"`
	SheetRange    string         `json:"sheet_range"`
	PublishedAt   *time.Time     `json:"published_at"`
	SoftDelete
}

func (p LandingPage) IsPublished() bool {
	return p.Status == LandingPublished && !p.IsDeleted()
}
