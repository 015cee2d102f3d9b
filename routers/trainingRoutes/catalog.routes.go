package trainingRoutes

import (
	controllers "learnly/controllers/training"
	"learnly/middleware"
	validators "learnly/validators/training"

	"github.com/gofiber/fiber/v2"
)

// SetupCatalogRoutes sets up the user facing catalog and learning routes
func SetupCatalogRoutes(app fiber.Router) {
	catalog := app.Group("/trainings", middleware.JWTMiddleware)

	catalog.Get("/", controllers.ListTrainings)
	catalog.Get("/:training_id", validators.TrainingID(), controllers.GetTraining)
	catalog.Get("/:training_id/modules/:module_id/lessons/:lesson_id", validators.CatalogLessonParams(), controllers.GetLesson)
	catalog.Post("/:training_id/enroll", validators.TrainingID(), controllers.Enroll)
	catalog.Post("/:training_id/lessons/:lesson_id/complete", validators.CompleteLessonParams(), controllers.CompleteLesson)
	catalog.Get("/:training_id/progress", validators.TrainingID(), controllers.GetProgress)

	app.Get("/me/enrollments", middleware.JWTMiddleware, controllers.MyEnrollments)
}
