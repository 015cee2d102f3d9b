package training

import "learnly/models"

const (
	ContentVideo    = "video"
	ContentDocument = "document"
)

// Lesson belongs to exactly one module. OrderIndex is contiguous among the
// active lessons of the same module.
type Lesson struct {
	models.Base
	ModuleID    uint   `json:"module_id" gorm:"not null;index:idx_lessons_parent_order,priority:1"`
	Title       string `json:"title" gorm:"size:255;not null"`
	Description string `json:"description" gorm:"type:text"`
	ContentType string `json:"content_type" gorm:"type:varchar(16);not null;default:'video'"` // video, document
	VideoURL    string `json:"video_url,omitempty"`
	DocumentURL string `json:"document_url,omitempty"`
	Duration    int    `json:"duration" gorm:"default:0"` // seconds
	OrderIndex  int    `json:"order_index" gorm:"not null;default:0;index:idx_lessons_parent_order,priority:2"`
	models.SoftDelete
}

func (Lesson) TableName() string {
	return "lessons"
}

// HideContent strips the playable content for viewers without access.
func (l *Lesson) HideContent() {
	l.VideoURL = ""
	l.DocumentURL = ""
}
