package userValidator

import (
	"strings"

	"learnly/validators"

	"github.com/gofiber/fiber/v2"
)

const KeyRole = "validatedRole"

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=USER CONSULTANT ADMIN"`
}

func (r *UpdateRoleRequest) Normalize() {
	r.Role = strings.ToUpper(strings.TrimSpace(r.Role))
}

func UpdateRole() fiber.Handler {
	return validators.Body[UpdateRoleRequest](KeyRole)
}

func UserID() fiber.Handler {
	return validators.Params("user_id")
}
