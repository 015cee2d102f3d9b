package landingRoutes

import (
	landingController "learnly/controllers/landing"
	"learnly/middleware"
	landingValidator "learnly/validators/landing"

	"github.com/gofiber/fiber/v2"
)

// SetupLandingRoutes sets up the owner routes and the public /lp pages
func SetupLandingRoutes(app fiber.Router) {
	pages := app.Group("/landing-pages", middleware.JWTMiddleware)
	pages.Get("/", landingController.ListMyPages)
	pages.Post("/", landingValidator.CreatePage(), landingController.CreatePage)
	pages.Get("/:page_id", landingValidator.PageID(), landingController.GetPage)
	pages.Put("/:page_id", landingValidator.PageID(), landingValidator.UpdatePage(), landingController.UpdatePage)
	pages.Delete("/:page_id", landingValidator.PageID(), landingController.DeletePage)
	pages.Post("/:page_id/publish", landingValidator.PageID(), landingController.PublishPage)
	pages.Post("/:page_id/unpublish", landingValidator.PageID(), landingController.UnpublishPage)
	pages.Get("/:page_id/leads", landingValidator.PageID(), landingController.ListLeads)
	pages.Get("/:page_id/leads/export", landingValidator.PageID(), landingController.ExportLeads)

	lp := app.Group("/lp")
	lp.Get("/:slug", landingController.GetPublicPage)
	lp.Post("/:slug/leads", middleware.LeadRateLimiter(), landingValidator.CaptureLead(), landingController.CaptureLead)
}
