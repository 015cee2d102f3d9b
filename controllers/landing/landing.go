package landingController

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"learnly/apperrors"
	"learnly/database"
	"learnly/logger"
	"learnly/middleware"
	"learnly/models"
	"learnly/utils"
	"learnly/validators"
	landingValidator "learnly/validators/landing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListMyPages lists the caller's landing pages
func ListMyPages(c *fiber.Ctx) error {
	userID, _ := middleware.CurrentUserID(c)
	paging := middleware.ResolvePaging(c)
	q := models.Active(db(c).Model(&models.LandingPage{})).Where("user_id = ?", userID)
	if kind := strings.TrimSpace(c.Query("kind")); kind != "" {
		q = q.Where("kind = ?", kind)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}
	var pages []models.LandingPage
	if err := q.Order("created_at desc").Offset(paging.Offset).Limit(paging.PerPage).Find(&pages).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.PagedResponse(c, "Landing pages fetched successfully!", pages, total, paging)
}

// CreatePage creates a draft landing page for the caller
func CreatePage(c *fiber.Ctx) error {
	req, ok := c.Locals(landingValidator.KeyPage).(*landingValidator.CreatePageRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	userID, _ := middleware.CurrentUserID(c)

	cfg, err := toJSON(req.Config)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	page := models.LandingPage{
		UserID:        userID,
		Kind:          req.Kind,
		Slug:          req.Slug,
		Title:         req.Title,
		Headline:      req.Headline,
		Description:   req.Description,
		Whatsapp:      req.Whatsapp,
		Config:        cfg,
		Status:        models.LandingDraft,
		NotifyEmail:   req.NotifyEmail,
		NotifyAddress: req.NotifyAddress,
		SheetSync:     req.SheetSync,
		SpreadsheetID: req.SpreadsheetID,
		SheetRange:    req.SheetRange,
	}
	if page.Slug == "" {
		page.Slug = generatedSlug(page.Title)
	}

	err = database.Transact(c.UserContext(), database.Database.Db, func(tx *gorm.DB) error {
		if err := ensureSlugAvailable(tx, page.Slug, 0); err != nil {
			return err
		}
		return tx.Create(&page).Error
	})
	if database.IsDuplicateKey(err) {
		err = apperrors.Conflict("This slug is already taken!")
	}
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	logger.Log.Info("landing page created", "page_id", page.ID, "user_id", userID)
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Landing page created successfully!", page)
}

// GetPage returns one of the caller's landing pages
func GetPage(c *fiber.Ctx) error {
	page, err := ownedPage(c, db(c), validators.ID(c, "page_id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Landing page fetched successfully!", page)
}

// UpdatePage applies the provided fields
func UpdatePage(c *fiber.Ctx) error {
	req, ok := c.Locals(landingValidator.KeyPageUpdate).(*landingValidator.UpdatePageRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var page *models.LandingPage
	err := database.Transact(c.UserContext(), database.Database.Db, func(tx *gorm.DB) error {
		var err error
		page, err = ownedPage(c, tx, validators.ID(c, "page_id"))
		if err != nil {
			return err
		}
		if err := applyPageUpdate(page, req); err != nil {
			return err
		}
		if req.Slug != nil {
			if err := ensureSlugAvailable(tx, page.Slug, page.ID); err != nil {
				return err
			}
		}
		if page.SheetSync && page.SpreadsheetID == "" {
			return apperrors.Field("spreadsheet_id", "spreadsheet_id is required when sheet_sync is enabled!")
		}
		return tx.Save(page).Error
	})
	if database.IsDuplicateKey(err) {
		err = apperrors.Conflict("This slug is already taken!")
	}
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Landing page updated successfully!", page)
}

func applyPageUpdate(page *models.LandingPage, req *landingValidator.UpdatePageRequest) error {
	if req.Kind != nil {
		page.Kind = *req.Kind
	}
	if req.Slug != nil {
		page.Slug = *req.Slug
	}
	if req.Title != nil {
		page.Title = *req.Title
	}
	if req.Headline != nil {
		page.Headline = *req.Headline
	}
	if req.Description != nil {
		page.Description = *req.Description
	}
	if req.Whatsapp != nil {
		page.Whatsapp = *req.Whatsapp
	}
	if req.Config != nil {
		cfg, err := toJSON(req.Config)
		if err != nil {
			return err
		}
		page.Config = cfg
	}
	if req.NotifyEmail != nil {
		page.NotifyEmail = *req.NotifyEmail
	}
	if req.NotifyAddress != nil {
		page.NotifyAddress = *req.NotifyAddress
	}
	if req.SheetSync != nil {
		page.SheetSync = *req.SheetSync
	}
	if req.SpreadsheetID != nil {
		page.SpreadsheetID = *req.SpreadsheetID
	}
	if req.SheetRange != nil {
		page.SheetRange = *req.SheetRange
	}
	return nil
}

// PublishPage makes the page reachable under /lp/:slug
func PublishPage(c *fiber.Ctx) error {
	return setStatus(c, models.LandingPublished, "Landing page published successfully!")
}

// UnpublishPage takes the page back to draft
func UnpublishPage(c *fiber.Ctx) error {
	return setStatus(c, models.LandingDraft, "Landing page unpublished successfully!")
}

func setStatus(c *fiber.Ctx, status, message string) error {
	page, err := ownedPage(c, db(c), validators.ID(c, "page_id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if page.Status == status {
		return middleware.JsonResponse(c, fiber.StatusOK, true, message, page)
	}

	updates := map[string]interface{}{"status": status}
	if status == models.LandingPublished && page.PublishedAt == nil {
		now := time.Now()
		updates["published_at"] = now
		page.PublishedAt = &now
	}
	if err := db(c).Model(page).Updates(updates).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}
	page.Status = status
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, page)
}

// DeletePage soft deletes a landing page. Its leads are kept.
func DeletePage(c *fiber.Ctx) error {
	page, err := ownedPage(c, db(c), validators.ID(c, "page_id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	// frees the slug for reuse
	updates := models.Tombstone(time.Now())
	updates["slug"] = fmt.Sprintf("%s--deleted-%d", clip(page.Slug, 100), page.ID)
	updates["status"] = models.LandingDraft
	if err := db(c).Model(page).Updates(updates).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.NoContent(c)
}

func generatedSlug(title string) string {
	base := strings.Trim(clip(utils.Slugify(title), 100), "-")
	if base == "" {
		base = "page"
	}
	return base + "-" + uuid.NewString()[:8]
}

// clip cuts s to at most n bytes on a rune boundary
func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
