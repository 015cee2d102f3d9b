package trainingController

import (
	"time"

	"learnly/config"
	"learnly/database"
	"learnly/logger"
	"learnly/middleware"
	"learnly/models"
	"learnly/models/training"
	"learnly/ordering"
	"learnly/utils"
	"learnly/validators"
	trainingValidator "learnly/validators/training"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type moduleSummary struct {
	training.Module
	LessonCount int64 `json:"lesson_count"`
}

// AdminListTrainings lists non-deleted trainings with optional filters
func AdminListTrainings(c *fiber.Ctx) error {
	filter, errs := trainingValidator.ParseListFilter(c)
	if errs != nil {
		return middleware.ValidationErrorResponse(c, errs)
	}
	paging := middleware.ResolvePaging(c)

	q := models.Active(db(c).Model(&training.Training{}))
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		q = q.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Search+"%")
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

// AdminCreateTraining creates a draft training
func AdminCreateTraining(c *fiber.Ctx) error {
	req, ok := c.Locals(trainingValidator.KeyTraining).(*trainingValidator.CreateTrainingRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	t := training.Training{
		Name:        req.Name,
		Slug:        utils.Slugify(req.Name),
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Status:      training.StatusDraft,
	}

	err := database.Transact(c.UserContext(), database.Database.Db, func(tx *gorm.DB) error {
		if err := ensureNameAvailable(tx, t.Name, 0); err != nil {
			return err
		}
		return tx.Create(&t).Error
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	logger.Log.Info("training created", "training_id", t.ID, "admin_id", c.Locals("userId"))
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Training created successfully!", t)
}

// AdminGetTraining returns a training with its ordered modules and lesson counts
func AdminGetTraining(c *fiber.Ctx) error {
	t, err := findTraining(db(c), validators.ID(c, "training_id"))
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
	counts := map[uint]int64{}
	if len(ids) > 0 {
		var rows []struct {
			ModuleID uint
			Total    int64
		}
		if err := models.Active(db(c).Model(&training.Lesson{})).
			Select("module_id, COUNT(*) AS total").
			Where("module_id IN ?", ids).
			Group("module_id").
			Scan(&rows).Error; err != nil {
			return middleware.ErrorResponse(c, err)
		}
		for _, r := range rows {
			counts[r.ModuleID] = r.Total
		}
	}

	summaries := make([]moduleSummary, len(modules))
	for i, m := range modules {
		summaries[i] = moduleSummary{Module: m, LessonCount: counts[m.ID]}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Training fetched successfully!", fiber.Map{
		"training":      t,
		"thumbnail_url": utils.GetFileURL(config.AppConfig.PublicBaseURL, t.Thumbnail),
		"modules":       summaries,
	})
}

// AdminUpdateTraining applies the provided fields
func AdminUpdateTraining(c *fiber.Ctx) error {
	req, ok := c.Locals(trainingValidator.KeyTrainingUpdate).(*trainingValidator.UpdateTrainingRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var t *training.Training
	err := database.Transact(c.UserContext(), database.Database.Db, func(tx *gorm.DB) error {
		var err error
		if t, err = findTraining(tx.Clauses(clause.Locking{Strength: "UPDATE"}), validators.ID(c, "training_id")); err != nil {
			return err
		}
		if req.Name != nil && *req.Name != t.Name {
			if err := ensureNameAvailable(tx, *req.Name, t.ID); err != nil {
				return err
			}
			t.Name = *req.Name
			t.Slug = utils.Slugify(*req.Name)
		}
		if req.Description != nil {
			t.Description = *req.Description
		}
		if req.Category != nil {
			t.Category = *req.Category
		}
		if req.Price != nil {
			t.Price = *req.Price
		}
		return tx.Save(t).Error
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Training updated successfully!", t)
}

// AdminPublishTraining moves a draft training to published
func AdminPublishTraining(c *fiber.Ctx) error {
	return transition(c, training.StatusPublished, "Training published successfully!")
}

// AdminUnpublishTraining moves a published training back to draft
func AdminUnpublishTraining(c *fiber.Ctx) error {
	return transition(c, training.StatusDraft, "Training unpublished successfully!")
}

func transition(c *fiber.Ctx, to training.Status, message string) error {
	var t *training.Training
	err := database.Transact(c.UserContext(), database.Database.Db, func(tx *gorm.DB) error {
		var err error
		if t, err = findTraining(tx.Clauses(clause.Locking{Strength: "UPDATE"}), validators.ID(c, "training_id")); err != nil {
			return err
		}
		if err := t.Transition(to); err != nil {
			return err
		}
		return tx.Model(t).Updates(map[string]interface{}{"status": t.Status, "updated_at": time.Now()}).Error
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	logger.Log.Info("training status changed", "training_id", t.ID, "status", t.Status)
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, t)
}

// AdminDeleteTraining soft deletes a training with its modules and lessons
func AdminDeleteTraining(c *fiber.Ctx) error {
	id := validators.ID(c, "training_id")
	err := database.Transact(c.UserContext(), database.Database.Db, func(tx *gorm.DB) error {
		t, err := findTraining(tx.Clauses(clause.Locking{Strength: "UPDATE"}), id)
		if err != nil {
			return err
		}
		if err := t.Transition(training.StatusDeleted); err != nil {
			return err
		}

		now := time.Now()
		tombstone := models.Tombstone(now)
		tombstone["status"] = training.StatusDeleted
		if err := tx.Model(t).Updates(tombstone).Error; err != nil {
			return err
		}

		modules := ordering.New(tx, ordering.Modules)
		moduleIDs, err := modules.ActiveIDs(tx, []uint{id})
		if err != nil {
			return err
		}
		if err := ordering.New(tx, ordering.Lessons).TombstoneChildren(tx, moduleIDs, now); err != nil {
			return err
		}
		return modules.TombstoneChildren(tx, []uint{id}, now)
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	logger.Log.Info("training deleted", "training_id", id)
	return middleware.NoContent(c)
}

// AdminUploadThumbnail stores a resized thumbnail for the training
func AdminUploadThumbnail(c *fiber.Ctx) error {
	t, err := findTraining(db(c), validators.ID(c, "training_id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	file, err := c.FormFile("thumbnail")
	if err != nil {
		return middleware.ValidationErrorResponse(c, map[string]string{"thumbnail": "thumbnail file is required!"})
	}

	rel, err := utils.SaveThumbnail(file, config.AppConfig.UploadDir, "trainings")
	if err != nil {
		return middleware.ValidationErrorResponse(c, map[string]string{"thumbnail": err.Error()})
	}

	previous := t.Thumbnail
	if err := db(c).Model(t).Update("thumbnail", rel).Error; err != nil {
		utils.RemoveFile(config.AppConfig.UploadDir, rel)
		return middleware.ErrorResponse(c, err)
	}
	utils.RemoveFile(config.AppConfig.UploadDir, previous)
	t.Thumbnail = rel

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Thumbnail uploaded successfully!", fiber.Map{
		"training":      t,
		"thumbnail_url": utils.GetFileURL(config.AppConfig.PublicBaseURL, rel),
	})
}
