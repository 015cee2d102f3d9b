package routers

import (
	"learnly/config"
	"learnly/middleware"
	authRoutes "learnly/routers/authRoutes"
	dashboardRoutes "learnly/routers/dashboardRoutes"
	landingRoutes "learnly/routers/landingRoutes"
	paymentRoutes "learnly/routers/paymentRoutes"
	productRoutes "learnly/routers/productRoutes"
	trainingRoutes "learnly/routers/trainingRoutes"
	userRoutes "learnly/routers/userRoutes"
	"learnly/utils"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
)

// NewApp builds the fiber app with the shared middleware stack and every route.
func NewApp(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "learnly",
		BodyLimit:    utils.MaxImageBytes + 1024*1024,
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
		ErrorHandler: middleware.FiberErrorHandler,
	})

	app.Use(middleware.RecoveryMiddleware())
	app.Use(middleware.RequestContext())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CorsOrigins,
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))
	if cfg.AppEnv != "test" {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Format: "[${time}] ${locals:requestid} ${ip} ${method} ${path} ${status} ${latency}\n",
		}))
	}
	app.Use(compress.New())
	app.Use(middleware.Timeout)

	app.Static("/uploads", cfg.UploadDir)

	Setup(app)
	return app
}

// Setup registers every route group. The admin group authenticates and
// authorizes once for all admin routes.
func Setup(app fiber.Router) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "OK", nil)
	})

	authRoutes.SetupAuthRoutes(app)
	trainingRoutes.SetupCatalogRoutes(app)
	productRoutes.SetupProductRoutes(app)
	paymentRoutes.SetupPaymentRoutes(app)
	landingRoutes.SetupLandingRoutes(app)

	admin := app.Group("/admin", middleware.JWTMiddleware, middleware.RequireAdmin)
	trainingRoutes.SetupAdminTrainingRoutes(admin)
	userRoutes.SetupAdminUserRoutes(admin)
	productRoutes.SetupAdminProductRoutes(admin)
	paymentRoutes.SetupAdminPaymentRoutes(admin)
	dashboardRoutes.SetupAdminDashboardRoutes(admin)
}
