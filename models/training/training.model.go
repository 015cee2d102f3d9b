package training

import (
	"learnly/apperrors"
	"learnly/models"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusDeleted   Status = "deleted"
)

// Training is a course made of ordered modules.
type Training struct {
	models.Base
	Name        string  `json:"name" gorm:"size:255;not null;index"`
	Slug        string  `json:"slug" gorm:"size:300;index"`
	Description string  `json:"description" gorm:"type:text"`
	Category    string  `json:"category" gorm:"size:100;index"`
	Price       float64 `json:"price" gorm:"type:decimal(12,2);not null;default:0"`
	Status      Status  `json:"status" gorm:"type:varchar(16);not null;default:'draft';index"`
	Thumbnail   string  `json:"thumbnail"`
	models.SoftDelete
}

func (Training) TableName() string {
	return "trainings"
}

func (t Training) IsFree() bool {
	return t.Price <= 0
}

// Transition moves the training along draft <-> published -> deleted.
// Deleted is terminal.
func (t *Training) Transition(to Status) error {
	from := t.Status
	switch {
	case from == StatusDeleted:
		return apperrors.NotFound("Training not found!")
	case to == StatusDeleted:
	case from == StatusDraft && to == StatusPublished:
	case from == StatusPublished && to == StatusDraft:
	default:
		return apperrors.Conflict("Training cannot move from " + string(from) + " to " + string(to) + "!")
	}
	t.Status = to
	return nil
}
