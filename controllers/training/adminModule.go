package trainingController

import (
	"time"

	"learnly/logger"
	"learnly/middleware"
	"learnly/models/training"
	"learnly/ordering"
	"learnly/validators"
	trainingValidator "learnly/validators/training"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminListModules lists the active modules of a training in order
func AdminListModules(c *fiber.Ctx) error {
	trainingID := validators.ID(c, "training_id")
	if _, err := findTraining(db(c), trainingID); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var modules []training.Module
	if err := moduleSet().List(c.UserContext(), trainingID, &modules); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Modules fetched successfully!", modules)
}

// AdminCreateModule appends a module at the end of the training
func AdminCreateModule(c *fiber.Ctx) error {
	req, ok := c.Locals(trainingValidator.KeyModule).(*trainingValidator.CreateModuleRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	trainingID := validators.ID(c, "training_id")

	var module training.Module
	_, err := moduleSet().Append(c.UserContext(), trainingID, func(tx *gorm.DB, index int) error {
		module = training.Module{
			TrainingID:  trainingID,
			Title:       req.Title,
			Description: req.Description,
			OrderIndex:  index,
		}
		return tx.Create(&module).Error
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	logger.Log.Info("module created", "training_id", trainingID, "module_id", module.ID, "order_index", module.OrderIndex)
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Module created successfully!", module)
}

// AdminUpdateModule updates fields and moves the module when order_index changes
func AdminUpdateModule(c *fiber.Ctx) error {
	req, ok := c.Locals(trainingValidator.KeyModuleUpdate).(*trainingValidator.UpdateModuleRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	trainingID, moduleID := validators.ID(c, "training_id"), validators.ID(c, "id")

	var module training.Module
	apply := func(tx *gorm.DB) error {
		if err := tx.First(&module, moduleID).Error; err != nil {
			return err
		}
		if req.Title != nil {
			module.Title = *req.Title
		}
		if req.Description != nil {
			module.Description = *req.Description
		}
		return tx.Save(&module).Error
	}

	var err error
	if req.OrderIndex != nil {
		err = moduleSet().MoveWith(c.UserContext(), trainingID, moduleID, *req.OrderIndex, apply)
	} else {
		err = moduleSet().Within(c.UserContext(), trainingID, moduleID, apply)
	}
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module updated successfully!", module)
}

// AdminDeleteModule soft deletes a module and its lessons
func AdminDeleteModule(c *fiber.Ctx) error {
	trainingID, moduleID := validators.ID(c, "training_id"), validators.ID(c, "id")

	err := moduleSet().RemoveWith(c.UserContext(), trainingID, moduleID, func(tx *gorm.DB) error {
		return ordering.New(tx, ordering.Lessons).TombstoneChildren(tx, []uint{moduleID}, time.Now())
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	logger.Log.Info("module deleted", "training_id", trainingID, "module_id", moduleID)
	return middleware.NoContent(c)
}

// AdminReorderModules assigns the order given by the full list of module ids
func AdminReorderModules(c *fiber.Ctx) error {
	req, ok := c.Locals(trainingValidator.KeyModuleReorder).(*trainingValidator.ReorderModulesRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	trainingID := validators.ID(c, "training_id")

	if err := moduleSet().ReorderAll(c.UserContext(), trainingID, req.Modules); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var modules []training.Module
	if err := moduleSet().List(c.UserContext(), trainingID, &modules); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Modules reordered successfully!", modules)
}
