package landingController

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"learnly/apperrors"
	"learnly/database"
	"learnly/logger"
	"learnly/middleware"
	"learnly/models"
	"learnly/services/leads"
	"learnly/validators"
	landingValidator "learnly/validators/landing"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

const exportBatch = 500

// GetPublicPage returns a published landing page by slug
func GetPublicPage(c *fiber.Ctx) error {
	page, err := publishedPage(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Landing page fetched successfully!", fiber.Map{
		"kind":        page.Kind,
		"slug":        page.Slug,
		"title":       page.Title,
		"headline":    page.Headline,
		"description": page.Description,
		"whatsapp":    page.Whatsapp,
		"config":      page.Config,
	})
}

// CaptureLead stores a lead for a published page and hands it to background
// delivery. Delivery never affects the response.
func CaptureLead(c *fiber.Ctx) error {
	req, ok := c.Locals(landingValidator.KeyLead).(*landingValidator.LeadRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	page, err := publishedPage(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	lead := models.Lead{
		LandingPageID: page.ID,
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Message:       req.Message,
		SourceIP:      middleware.ClientIP(c),
		UserAgent:     clip(c.Get("User-Agent"), 255),
		SyncStatus:    models.SyncPending,
	}
	if len(req.Extra) > 0 {
		raw, err := sonic.Marshal(req.Extra)
		if err != nil {
			return middleware.ErrorResponse(c, apperrors.Field("extra", "Invalid JSON!"))
		}
		lead.Extra = datatypes.JSON(raw)
	}
	if err := db(c).Create(&lead).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	logger.Log.Info("lead captured", "lead_id", lead.ID, "page_id", page.ID, "email", lead.Email)
	leads.FromGlobals().DeliverAsync(lead.ID)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Thank you! We will get in touch soon.", fiber.Map{
		"id": lead.ID,
	})
}

// ListLeads lists the leads of one of the caller's pages
func ListLeads(c *fiber.Ctx) error {
	page, err := ownedPage(c, db(c), validators.ID(c, "page_id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	paging := middleware.ResolvePaging(c)
	q := db(c).Model(&models.Lead{}).Where("landing_page_id = ?", page.ID)
	if status := strings.ToUpper(strings.TrimSpace(c.Query("sync_status"))); status != "" {
		q = q.Where("sync_status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}
	var list []models.Lead
	if err := q.Order("created_at desc").Offset(paging.Offset).Limit(paging.PerPage).Find(&list).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.PagedResponse(c, "Leads fetched successfully!", list, total, paging)
}

// ExportLeads streams every lead of a page as CSV
func ExportLeads(c *fiber.Ctx) error {
	page, err := ownedPage(c, db(c), validators.ID(c, "page_id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="leads-%s-%s.csv"`, page.Slug, time.Now().Format("20060102")))

	w := csv.NewWriter(c.Response().BodyWriter())
	if err := w.Write([]string{"id", "created_at", "name", "email", "phone", "message", "extra", "sync_status"}); err != nil {
		return err
	}

	var lastID uint
	for {
		var batch []models.Lead
		if err := db(c).Where("landing_page_id = ? AND id > ?", page.ID, lastID).
			Order("id asc").Limit(exportBatch).Find(&batch).Error; err != nil {
			logger.Log.Error("exporting leads", "page_id", page.ID, "error", err)
			return err
		}
		for i := range batch {
			l := &batch[i]
			if err := w.Write(leadRecord(l)); err != nil {
				return err
			}
			lastID = l.ID
		}
		if len(batch) < exportBatch {
			break
		}
	}
	w.Flush()
	return w.Error()
}

func leadRecord(l *models.Lead) []string {
	fields := leads.Fields(l)
	record := []string{strconv.FormatUint(uint64(l.ID), 10), l.CreatedAt.UTC().Format(time.RFC3339)}
	for _, f := range fields {
		record = append(record, leads.Cell(f.Value))
	}
	return append(record, l.SyncStatus)
}

func publishedPage(c *fiber.Ctx) (*models.LandingPage, error) {
	var page models.LandingPage
	err := models.Active(db(c)).
		Where("slug = ? AND status = ?", strings.ToLower(c.Params("slug")), models.LandingPublished).
		First(&page).Error
	if database.IsNotFound(err) {
		return nil, apperrors.NotFound("Landing page not found!")
	}
	if err != nil {
		return nil, err
	}
	return &page, nil
}
