package trainingController

import (
	"learnly/apperrors"
	"learnly/logger"
	"learnly/middleware"
	"learnly/models/training"
	"learnly/validators"
	trainingValidator "learnly/validators/training"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminListLessons lists the active lessons of a module in order
func AdminListLessons(c *fiber.Ctx) error {
	moduleID := validators.ID(c, "module_id")
	if _, err := findModule(db(c), moduleID); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var lessons []training.Lesson
	if err := lessonSet().List(c.UserContext(), moduleID, &lessons); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lessons fetched successfully!", lessons)
}

// AdminCreateLesson appends a lesson at the end of the module
func AdminCreateLesson(c *fiber.Ctx) error {
	req, ok := c.Locals(trainingValidator.KeyLesson).(*trainingValidator.CreateLessonRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	moduleID := validators.ID(c, "module_id")
	if _, err := findModule(db(c), moduleID); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var lesson training.Lesson
	_, err := lessonSet().Append(c.UserContext(), moduleID, func(tx *gorm.DB, index int) error {
		lesson = training.Lesson{
			ModuleID:    moduleID,
			Title:       req.Title,
			Description: req.Description,
			ContentType: req.ContentType,
			VideoURL:    req.VideoURL,
			DocumentURL: req.DocumentURL,
			Duration:    req.Duration,
			OrderIndex:  index,
		}
		return tx.Create(&lesson).Error
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	logger.Log.Info("lesson created", "module_id", moduleID, "lesson_id", lesson.ID, "order_index", lesson.OrderIndex)
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lesson created successfully!", lesson)
}

// AdminUpdateLesson updates fields and moves the lesson when order_index changes
func AdminUpdateLesson(c *fiber.Ctx) error {
	req, ok := c.Locals(trainingValidator.KeyLessonUpdate).(*trainingValidator.UpdateLessonRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	moduleID, lessonID := validators.ID(c, "module_id"), validators.ID(c, "id")
	if _, err := findModule(db(c), moduleID); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var lesson training.Lesson
	apply := func(tx *gorm.DB) error {
		if err := tx.First(&lesson, lessonID).Error; err != nil {
			return err
		}
		applyLessonUpdate(&lesson, req)
		if lesson.ContentType == training.ContentVideo && lesson.VideoURL == "" {
			return apperrors.Field("video_url", "video_url is required for video lessons!")
		}
		return tx.Save(&lesson).Error
	}

	var err error
	if req.OrderIndex != nil {
		err = lessonSet().MoveWith(c.UserContext(), moduleID, lessonID, *req.OrderIndex, apply)
	} else {
		err = lessonSet().Within(c.UserContext(), moduleID, lessonID, apply)
	}
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson updated successfully!", lesson)
}

func applyLessonUpdate(l *training.Lesson, req *trainingValidator.UpdateLessonRequest) {
	if req.Title != nil {
		l.Title = *req.Title
	}
	if req.Description != nil {
		l.Description = *req.Description
	}
	if req.ContentType != nil {
		l.ContentType = *req.ContentType
	}
	if req.VideoURL != nil {
		l.VideoURL = *req.VideoURL
	}
	if req.DocumentURL != nil {
		l.DocumentURL = *req.DocumentURL
	}
	if req.Duration != nil {
		l.Duration = *req.Duration
	}
}

// AdminDeleteLesson soft deletes a lesson and closes the gap
func AdminDeleteLesson(c *fiber.Ctx) error {
	moduleID, lessonID := validators.ID(c, "module_id"), validators.ID(c, "id")
	if _, err := findModule(db(c), moduleID); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	if err := lessonSet().Remove(c.UserContext(), moduleID, lessonID); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	logger.Log.Info("lesson deleted", "module_id", moduleID, "lesson_id", lessonID)
	return middleware.NoContent(c)
}

// AdminReorderLessons assigns the order given by the full list of lesson ids
func AdminReorderLessons(c *fiber.Ctx) error {
	req, ok := c.Locals(trainingValidator.KeyLessonReorder).(*trainingValidator.ReorderLessonsRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	moduleID := validators.ID(c, "module_id")
	if _, err := findModule(db(c), moduleID); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	if err := lessonSet().ReorderAll(c.UserContext(), moduleID, req.Lessons); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var lessons []training.Lesson
	if err := lessonSet().List(c.UserContext(), moduleID, &lessons); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lessons reordered successfully!", lessons)
}
