package trainingController

import (
	"learnly/apperrors"
	"learnly/database"
	"learnly/models"
	"learnly/models/training"
	"learnly/ordering"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func db(c *fiber.Ctx) *gorm.DB {
	return database.Database.Db.WithContext(c.UserContext())
}

func moduleSet() *ordering.Manager {
	return ordering.New(database.Database.Db, ordering.Modules)
}

func lessonSet() *ordering.Manager {
	return ordering.New(database.Database.Db, ordering.Lessons)
}

func findTraining(tx *gorm.DB, id uint) (*training.Training, error) {
	var t training.Training
	err := models.Active(tx).First(&t, id).Error
	if database.IsNotFound(err) {
		return nil, apperrors.NotFound("Training not found!")
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func findPublishedTraining(tx *gorm.DB, id uint) (*training.Training, error) {
	t, err := findTraining(tx, id)
	if err != nil {
		return nil, err
	}
	if t.Status != training.StatusPublished {
		return nil, apperrors.NotFound("Training not found!")
	}
	return t, nil
}

// findModule loads an active module whose training is also active.
func findModule(tx *gorm.DB, moduleID uint) (*training.Module, error) {
	var m training.Module
	err := tx.Model(&training.Module{}).
		Joins("JOIN trainings ON trainings.id = training_modules.training_id").
		Where("training_modules.id = ? AND training_modules.lifecycle = ? AND trainings.lifecycle = ?",
			moduleID, models.LifecycleActive, models.LifecycleActive).
		Select("training_modules.*").
		Take(&m).Error
	if database.IsNotFound(err) {
		return nil, apperrors.NotFound("Module not found!")
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ensureNameAvailable rejects a name used by another active training.
func ensureNameAvailable(tx *gorm.DB, name string, exceptID uint) error {
	var count int64
	q := models.Active(tx.Model(&training.Training{})).Where("LOWER(name) = LOWER(?)", name)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperrors.Conflict("A training with this name already exists!")
	}
	return nil
}
