package paymentRoutes

import (
	paymentController "learnly/controllers/payment"
	"learnly/middleware"
	paymentValidator "learnly/validators/payment"

	"github.com/gofiber/fiber/v2"
)

func SetupPaymentRoutes(app fiber.Router) {
	payments := app.Group("/payments")
	payments.Post("/webhook", paymentController.Webhook)
	payments.Post("/checkout", middleware.JWTMiddleware, paymentValidator.Checkout(), paymentController.Checkout)

	app.Get("/me/payments", middleware.JWTMiddleware, paymentController.MyPayments)
}

func SetupAdminPaymentRoutes(admin fiber.Router) {
	admin.Get("/payments", paymentController.AdminListPayments)
}
