package middleware

import (
	"learnly/database"
	"learnly/models"

	"github.com/gofiber/fiber/v2"
)

// RequireAdmin loads the caller and lets only active admins through. The
// role is read from the database, not the token, so demotions apply at once.
func RequireAdmin(c *fiber.Ctx) error {
	userID, ok := CurrentUserID(c)
	if !ok {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	err := models.Active(database.Database.Db.WithContext(c.UserContext())).Where("id = ?", userID).First(&user).Error
	if database.IsNotFound(err) {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}
	if err != nil {
		return ErrorResponse(c, err)
	}

	if !user.IsAdmin() {
		return JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
	}

	c.Locals("user", &user)
	return c.Next()
}
