package trainingController

import (
	"strings"

	"learnly/apperrors"
	"learnly/config"
	"learnly/database"
	"learnly/logger"
	"learnly/middleware"
	"learnly/models"
	"learnly/models/training"
	"learnly/services/learning"
	"learnly/utils"
	"learnly/validators"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type catalogModule struct {
	training.Module
	Lessons []training.Lesson `json:"lessons"`
}

// ListTrainings lists published trainings
func ListTrainings(c *fiber.Ctx) error {
	paging := middleware.ResolvePaging(c)

	q := models.Active(db(c).Model(&training.Training{})).Where("status = ?", training.StatusPublished)
	if category := strings.TrimSpace(c.Query("category")); category != "" {
		q = q.Where("category = ?", category)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		q = q.Where("LOWER(name) LIKE LOWER(?)", "%"+search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var items []training.Training
	if err := q.Order("created_at desc").Offset(paging.Offset).Limit(paging.PerPage).Find(&items).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.PagedResponse(c, "Trainings fetched successfully!", items, total, paging)
}

// GetTraining returns a published training with its ordered modules and
// lessons. Lesson content is hidden unless the caller is enrolled.
func GetTraining(c *fiber.Ctx) error {
	userID, _ := middleware.CurrentUserID(c)
	t, err := findPublishedTraining(db(c), validators.ID(c, "training_id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	enrollment, err := learning.Enrollment(c.UserContext(), database.Database.Db, userID, t.ID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var modules []training.Module
	if err := moduleSet().List(c.UserContext(), t.ID, &modules); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	ids := make([]uint, len(modules))
	for i, m := range modules {
		ids[i] = m.ID
	}
	byModule := map[uint][]training.Lesson{}
	if len(ids) > 0 {
		var lessons []training.Lesson
		if err := models.Active(db(c)).Where("module_id IN ?", ids).Order("order_index asc").Find(&lessons).Error; err != nil {
			return middleware.ErrorResponse(c, err)
		}
		for _, l := range lessons {
			if enrollment == nil {
				l.HideContent()
			}
			byModule[l.ModuleID] = append(byModule[l.ModuleID], l)
		}
	}

	out := make([]catalogModule, len(modules))
	for i, m := range modules {
		lessons := byModule[m.ID]
		if lessons == nil {
			lessons = []training.Lesson{}
		}
		out[i] = catalogModule{Module: m, Lessons: lessons}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Training fetched successfully!", fiber.Map{
		"training":      t,
		"thumbnail_url": utils.GetFileURL(config.AppConfig.PublicBaseURL, t.Thumbnail),
		"modules":       out,
		"enrolled":      enrollment != nil,
		"enrollment":    enrollment,
	})
}

// GetLesson returns one lesson scoped by its module and training
func GetLesson(c *fiber.Ctx) error {
	userID, _ := middleware.CurrentUserID(c)
	trainingID := validators.ID(c, "training_id")
	moduleID := validators.ID(c, "module_id")
	lessonID := validators.ID(c, "lesson_id")

	if _, err := findPublishedTraining(db(c), trainingID); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var lesson training.Lesson
	err := db(c).Model(&training.Lesson{}).
		Joins("JOIN training_modules ON training_modules.id = lessons.module_id").
		Where("lessons.id = ? AND lessons.module_id = ? AND training_modules.training_id = ?", lessonID, moduleID, trainingID).
		Where("lessons.lifecycle = ? AND training_modules.lifecycle = ?", models.LifecycleActive, models.LifecycleActive).
		Select("lessons.*").
		Take(&lesson).Error
	if database.IsNotFound(err) {
		return middleware.ErrorResponse(c, apperrors.NotFound("Lesson not found!"))
	}
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	enrollment, err := learning.Enrollment(c.UserContext(), database.Database.Db, userID, trainingID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if enrollment == nil {
		return middleware.ErrorResponse(c, apperrors.Conflict("You are not enrolled in this training!"))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson fetched successfully!", lesson)
}

// Enroll grants access to a free training, or to a paid one with an
// approved payment for a product linked to it.
func Enroll(c *fiber.Ctx) error {
	userID, _ := middleware.CurrentUserID(c)
	trainingID := validators.ID(c, "training_id")

	var (
		enrollment *training.Enrollment
		created    bool
	)
	err := database.Transact(c.UserContext(), database.Database.Db, func(tx *gorm.DB) error {
		t, err := findPublishedTraining(tx, trainingID)
		if err != nil {
			return err
		}

		source, paymentID := training.SourceFree, (*uint)(nil)
		if !t.IsFree() {
			var payment models.Payment
			err := tx.Model(&models.Payment{}).
				Joins("JOIN products ON products.id = payments.product_id").
				Where("payments.user_id = ? AND payments.status = ? AND products.training_id = ?",
					userID, models.PaymentApproved, trainingID).
				Select("payments.*").
				Order("payments.id desc").
				Take(&payment).Error
			if database.IsNotFound(err) {
				return apperrors.Conflict("This training requires a purchase!")
			}
			if err != nil {
				return err
			}
			source, paymentID = training.SourcePayment, &payment.ID
		}

		enrollment, created, err = learning.Grant(tx, userID, trainingID, source, paymentID)
		return err
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	if !created {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Already enrolled!", enrollment)
	}
	logger.Log.Info("user enrolled", "user_id", userID, "training_id", trainingID, "source", enrollment.Source)
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrolled successfully!", enrollment)
}

// CompleteLesson marks a lesson as done and returns the refreshed progress
func CompleteLesson(c *fiber.Ctx) error {
	userID, _ := middleware.CurrentUserID(c)
	enrollment, err := learning.CompleteLesson(c.UserContext(), database.Database.Db,
		userID, validators.ID(c, "training_id"), validators.ID(c, "lesson_id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson completed!", enrollment)
}

// GetProgress returns the caller's progress in a training
func GetProgress(c *fiber.Ctx) error {
	userID, _ := middleware.CurrentUserID(c)
	enrollment, done, err := learning.Progress(c.UserContext(), database.Database.Db, userID, validators.ID(c, "training_id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if done == nil {
		done = []uint{}
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"enrollment":        enrollment,
		"completed_lessons": done,
	})
}

// MyEnrollments lists the caller's enrollments with their trainings
func MyEnrollments(c *fiber.Ctx) error {
	userID, _ := middleware.CurrentUserID(c)
	paging := middleware.ResolvePaging(c)

	q := db(c).Model(&training.Enrollment{}).Where("user_id = ?", userID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var items []training.Enrollment
	if err := q.Preload("Training").Order("created_at desc").Offset(paging.Offset).Limit(paging.PerPage).Find(&items).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.PagedResponse(c, "Enrollments fetched successfully!", items, total, paging)
}
