// Package learning grants access to trainings and tracks lesson progress.
package learning

import (
	"context"
	"time"

	"learnly/apperrors"
	"learnly/database"
	"learnly/models"
	"learnly/models/training"

	"gorm.io/gorm"
)

// Grant enrolls userID in trainingID. An existing enrollment is returned
// unchanged with created=false.
func Grant(tx *gorm.DB, userID, trainingID uint, source string, paymentID *uint) (*training.Enrollment, bool, error) {
	existing, err := findEnrollment(tx, userID, trainingID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	total, err := CountLessons(tx, trainingID)
	if err != nil {
		return nil, false, err
	}

	enrollment := &training.Enrollment{
		UserID:       userID,
		TrainingID:   trainingID,
		Status:       training.EnrollmentEnrolled,
		Source:       source,
		PaymentID:    paymentID,
		TotalLessons: int(total),
	}
	if err := tx.Create(enrollment).Error; err != nil {
		if database.IsDuplicateKey(err) {
			existing, ferr := findEnrollment(tx, userID, trainingID)
			if ferr == nil && existing != nil {
				return existing, false, nil
			}
		}
		return nil, false, err
	}
	return enrollment, true, nil
}

// Enrollment returns the caller's enrollment or nil.
func Enrollment(ctx context.Context, db *gorm.DB, userID, trainingID uint) (*training.Enrollment, error) {
	return findEnrollment(db.WithContext(ctx), userID, trainingID)
}

// CountLessons counts the active lessons of the active modules of a training.
func CountLessons(tx *gorm.DB, trainingID uint) (int64, error) {
	var n int64
	err := activeLessons(tx, trainingID).Count(&n).Error
	return n, err
}

// CompleteLesson records lessonID as done and refreshes the enrollment.
func CompleteLesson(ctx context.Context, db *gorm.DB, userID, trainingID, lessonID uint) (*training.Enrollment, error) {
	var enrollment *training.Enrollment
	err := database.Transact(ctx, db, func(tx *gorm.DB) error {
		e, err := findEnrollment(tx, userID, trainingID)
		if err != nil {
			return err
		}
		if e == nil {
			return apperrors.Conflict("You are not enrolled in this training!")
		}

		var n int64
		if err := activeLessons(tx, trainingID).Where("lessons.id = ?", lessonID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return apperrors.NotFound("Lesson not found!")
		}

		now := time.Now()
		progress := training.LessonProgress{UserID: userID, LessonID: lessonID, TrainingID: trainingID, CompletedAt: now}
		if err := tx.Where("user_id = ? AND lesson_id = ?", userID, lessonID).
			FirstOrCreate(&progress).Error; err != nil {
			return err
		}

		if err := recompute(tx, e, now); err != nil {
			return err
		}
		enrollment = e
		return nil
	})
	return enrollment, err
}

// Progress recomputes the caller's enrollment against the current lesson
// set and returns it with the ids of the completed lessons.
func Progress(ctx context.Context, db *gorm.DB, userID, trainingID uint) (*training.Enrollment, []uint, error) {
	var (
		enrollment *training.Enrollment
		done       []uint
	)
	err := database.Transact(ctx, db, func(tx *gorm.DB) error {
		e, err := findEnrollment(tx, userID, trainingID)
		if err != nil {
			return err
		}
		if e == nil {
			return apperrors.NotFound("Enrollment not found!")
		}
		if err := recompute(tx, e, time.Now()); err != nil {
			return err
		}
		if err := completedLessons(tx, userID, trainingID).Pluck("lessons.id", &done).Error; err != nil {
			return err
		}
		enrollment = e
		return nil
	})
	return enrollment, done, err
}

func recompute(tx *gorm.DB, e *training.Enrollment, at time.Time) error {
	total, err := CountLessons(tx, e.TrainingID)
	if err != nil {
		return err
	}
	var completed int64
	if err := completedLessons(tx, e.UserID, e.TrainingID).Count(&completed).Error; err != nil {
		return err
	}
	e.Recompute(int(completed), int(total), at)
	return tx.Save(e).Error
}

func activeLessons(tx *gorm.DB, trainingID uint) *gorm.DB {
	return tx.Model(&training.Lesson{}).
		Joins("JOIN training_modules ON training_modules.id = lessons.module_id").
		Where("training_modules.training_id = ? AND training_modules.lifecycle = ? AND lessons.lifecycle = ?",
			trainingID, models.LifecycleActive, models.LifecycleActive)
}

func completedLessons(tx *gorm.DB, userID, trainingID uint) *gorm.DB {
	return activeLessons(tx, trainingID).
		Joins("JOIN lesson_progresses ON lesson_progresses.lesson_id = lessons.id").
		Where("lesson_progresses.user_id = ?", userID)
}

func findEnrollment(tx *gorm.DB, userID, trainingID uint) (*training.Enrollment, error) {
	var e training.Enrollment
	err := tx.Where("user_id = ? AND training_id = ?", userID, trainingID).First(&e).Error
	if database.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}
