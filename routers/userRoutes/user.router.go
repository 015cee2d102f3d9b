package userRoutes

import (
	userController "learnly/controllers/userControllers"
	"learnly/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminUserRoutes sets up user management routes on the admin group
func SetupAdminUserRoutes(admin fiber.Router) {
	users := admin.Group("/users")

	users.Get("/", userController.AdminListUsers)
	users.Put("/:user_id/role", userValidator.UserID(), userValidator.UpdateRole(), userController.AdminUpdateUserRole)
	users.Delete("/:user_id", userValidator.UserID(), userController.AdminDeleteUser)
}
