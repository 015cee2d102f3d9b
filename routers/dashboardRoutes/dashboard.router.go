package dashboardRoutes

import (
	dashboardController "learnly/controllers/dashboard"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminDashboardRoutes(admin fiber.Router) {
	admin.Get("/dashboard/stats", dashboardController.Stats)
}
