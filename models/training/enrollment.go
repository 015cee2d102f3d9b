package training

import (
	"time"

	"learnly/models"
)

const (
	EnrollmentEnrolled   = "ENROLLED"
	EnrollmentInProgress = "IN_PROGRESS"
	EnrollmentCompleted  = "COMPLETED"

	SourceFree    = "FREE"
	SourcePayment = "PAYMENT"
)

// Enrollment tracks a user's access to a training with progress
type Enrollment struct {
	models.Base
	UserID           uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_enrollment_user_training"`
	TrainingID       uint       `json:"training_id" gorm:"not null;uniqueIndex:idx_enrollment_user_training"`
	Status           string     `json:"status" gorm:"type:varchar(16);not null;default:'ENROLLED'"` // ENROLLED, IN_PROGRESS, COMPLETED
	Source           string     `json:"source" gorm:"type:varchar(16);not null;default:'FREE'"`
	PaymentID        *uint      `json:"payment_id,omitempty"`
	Progress         float64    `json:"progress" gorm:"default:0"` // Completion percentage (0-100)
	CompletedLessons int        `json:"completed_lessons" gorm:"default:0"`
	TotalLessons     int        `json:"total_lessons" gorm:"default:0"`
	CompletedAt      *time.Time `json:"completed_at"`
	Training         *Training  `json:"training,omitempty" gorm:"foreignKey:TrainingID"`
}

// LessonProgress marks a lesson as completed by a user
type LessonProgress struct {
	models.Base
	UserID      uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_lesson_progress_user_lesson"`
	LessonID    uint      `json:"lesson_id" gorm:"not null;uniqueIndex:idx_lesson_progress_user_lesson"`
	TrainingID  uint      `json:"training_id" gorm:"not null;index"`
	CompletedAt time.Time `json:"completed_at"`
}

// Recompute refreshes the derived progress fields.
func (e *Enrollment) Recompute(completed, total int, at time.Time) {
	e.CompletedLessons = completed
	e.TotalLessons = total
	if total > 0 {
		e.Progress = float64(completed) / float64(total) * 100
	} else {
		e.Progress = 0
	}
	switch {
	case total > 0 && completed >= total:
		e.Progress = 100
		e.Status = EnrollmentCompleted
		if e.CompletedAt == nil {
			e.CompletedAt = &at
		}
	case completed > 0:
		e.Status = EnrollmentInProgress
		e.CompletedAt = nil
	default:
		e.Status = EnrollmentEnrolled
		e.CompletedAt = nil
	}
}
