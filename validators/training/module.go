package trainingValidator

import (
	"strings"

	"learnly/validators"

	"github.com/gofiber/fiber/v2"
)

const (
	KeyModule        = "validatedModule"
	KeyModuleUpdate  = "validatedModuleUpdate"
	KeyModuleReorder = "validatedModuleReorder"
)

type CreateModuleRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=255"`
	Description string `json:"description" validate:"max=5000"`
}

func (r *CreateModuleRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
}

type UpdateModuleRequest struct {
	Title       *string `json:"title" validate:"omitnil,min=3,max=255"`
	Description *string `json:"description" validate:"omitnil,max=5000"`
	OrderIndex  *int    `json:"order_index" validate:"omitnil,gte=0"`
}

func (r *UpdateModuleRequest) Normalize() {
	trimPtr(r.Title)
	trimPtr(r.Description)
}

type ReorderModulesRequest struct {
	Modules []uint `json:"modules" validate:"required"`
}

func CreateModule() fiber.Handler {
	return validators.Body[CreateModuleRequest](KeyModule)
}

func UpdateModule() fiber.Handler {
	return validators.Body[UpdateModuleRequest](KeyModuleUpdate)
}

func ReorderModules() fiber.Handler {
	return validators.Body[ReorderModulesRequest](KeyModuleReorder)
}

// ModuleParams validates the training and module ids of a module route.
func ModuleParams() fiber.Handler {
	return validators.Params("training_id", "id")
}
