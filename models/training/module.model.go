package training

import "learnly/models"

// Module is a section of a training. OrderIndex is contiguous among the
// active modules of the same training.
type Module struct {
	models.Base
	TrainingID  uint   `json:"training_id" gorm:"not null;index:idx_training_modules_parent_order,priority:1"`
	Title       string `json:"title" gorm:"size:255;not null"`
	Description string `json:"description" gorm:"type:text"`
	OrderIndex  int    `json:"order_index" gorm:"not null;default:0;index:idx_training_modules_parent_order,priority:2"`
	models.SoftDelete
}

func (Module) TableName() string {
	return "training_modules"
}
