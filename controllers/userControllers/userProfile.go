package userController

import (
	"strings"
	"time"

	"learnly/apperrors"
	"learnly/database"
	"learnly/logger"
	"learnly/middleware"
	"learnly/models"
	"learnly/validators"
	"learnly/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

// AdminListUsers lists active users, optionally filtered by role or a
// name/email search
func AdminListUsers(c *fiber.Ctx) error {
	paging := middleware.ResolvePaging(c)

	q := models.Active(database.Database.Db.WithContext(c.UserContext()).Model(&models.User{}))
	if role := strings.ToUpper(strings.TrimSpace(c.Query("role"))); role != "" {
		if !models.ValidRole(role) {
			return middleware.ValidationErrorResponse(c, map[string]string{"role": "role must be one of: USER, CONSULTANT, ADMIN!"})
		}
		q = q.Where("role = ?", role)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var users []models.User
	if err := q.Order("created_at desc").Offset(paging.Offset).Limit(paging.PerPage).Find(&users).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.PagedResponse(c, "Users fetched successfully!", users, total, paging)
}

// AdminUpdateUserRole changes a user's role
func AdminUpdateUserRole(c *fiber.Ctx) error {
	req, ok := c.Locals(userValidator.KeyRole).(*userValidator.UpdateRoleRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	targetID := validators.ID(c, "user_id")
	adminID, _ := middleware.CurrentUserID(c)
	if targetID == adminID && req.Role != models.RoleAdmin {
		return middleware.ErrorResponse(c, apperrors.Conflict("You cannot remove your own admin role!"))
	}

	user, err := findUser(c, targetID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if err := database.Database.Db.WithContext(c.UserContext()).Model(user).Update("role", req.Role).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}
	user.Role = req.Role

	logger.Log.Info("user role changed", "user_id", user.ID, "role", user.Role, "admin_id", adminID)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User role updated successfully!", user)
}

// AdminDeleteUser soft deletes a user
func AdminDeleteUser(c *fiber.Ctx) error {
	targetID := validators.ID(c, "user_id")
	adminID, _ := middleware.CurrentUserID(c)
	if targetID == adminID {
		return middleware.ErrorResponse(c, apperrors.Conflict("You cannot delete your own account!"))
	}

	user, err := findUser(c, targetID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if err := database.Database.Db.WithContext(c.UserContext()).Model(user).
		Updates(models.Tombstone(time.Now())).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	logger.Log.Info("user deleted", "user_id", user.ID, "admin_id", adminID)
	return middleware.NoContent(c)
}

func findUser(c *fiber.Ctx, id uint) (*models.User, error) {
	var user models.User
	err := models.Active(database.Database.Db.WithContext(c.UserContext())).First(&user, id).Error
	if database.IsNotFound(err) {
		return nil, apperrors.NotFound("User not found!")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
