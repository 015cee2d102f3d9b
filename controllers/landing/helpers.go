package landingController

import (
	"learnly/apperrors"
	"learnly/database"
	"learnly/middleware"
	"learnly/models"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func db(c *fiber.Ctx) *gorm.DB {
	return database.Database.Db.WithContext(c.UserContext())
}

// ownedPage loads a live landing page of the caller
func ownedPage(c *fiber.Ctx, tx *gorm.DB, pageID uint) (*models.LandingPage, error) {
	userID, _ := middleware.CurrentUserID(c)

	var page models.LandingPage
	err := models.Active(tx).Where("id = ? AND user_id = ?", pageID, userID).First(&page).Error
	if database.IsNotFound(err) {
		return nil, apperrors.NotFound("Landing page not found!")
	}
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func ensureSlugAvailable(tx *gorm.DB, slug string, exceptID uint) error {
	var count int64
	if err := tx.Model(&models.LandingPage{}).
		Where("slug = ? AND id <> ?", slug, exceptID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperrors.Conflict("This slug is already taken!")
	}
	return nil
}

func toJSON(v map[string]interface{}) (datatypes.JSON, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := sonic.Marshal(v)
	if err != nil {
		return nil, apperrors.Field("config", "Invalid JSON!")
	}
	return datatypes.JSON(raw), nil
}
