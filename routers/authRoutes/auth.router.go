package authRoutes

import (
	authControllers "learnly/controllers/auth"
	"learnly/middleware"
	authValidators "learnly/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app fiber.Router) {
	authGroup := app.Group("/auth")

	authGroup.Post("/signup", authValidators.Signup(), authControllers.Signup)
	authGroup.Post("/login", middleware.LoginRateLimiter(), authValidators.Login(), authControllers.Login)
	authGroup.Get("/login/history", middleware.JWTMiddleware, authControllers.LoginHistoryList)
	authGroup.Get("/me", middleware.JWTMiddleware, authControllers.Me)
	authGroup.Put("/me", middleware.JWTMiddleware, authValidators.UpdateProfile(), authControllers.UpdateMe)
	authGroup.Put("/password", middleware.JWTMiddleware, authValidators.ChangePassword(), authControllers.ChangePassword)
}
