package trainingRoutes

import (
	controllers "learnly/controllers/training"
	validators "learnly/validators/training"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminTrainingRoutes sets up training, module and lesson management
// routes on the admin group.
func SetupAdminTrainingRoutes(admin fiber.Router) {
	trainings := admin.Group("/trainings")

	// Training CRUD and lifecycle
	trainings.Get("/", controllers.AdminListTrainings)
	trainings.Post("/", validators.CreateTraining(), controllers.AdminCreateTraining)
	trainings.Get("/:training_id", validators.TrainingID(), controllers.AdminGetTraining)
	trainings.Put("/:training_id", validators.TrainingID(), validators.UpdateTraining(), controllers.AdminUpdateTraining)
	trainings.Delete("/:training_id", validators.TrainingID(), controllers.AdminDeleteTraining)
	trainings.Post("/:training_id/publish", validators.TrainingID(), controllers.AdminPublishTraining)
	trainings.Post("/:training_id/unpublish", validators.TrainingID(), controllers.AdminUnpublishTraining)
	trainings.Post("/:training_id/thumbnail", validators.TrainingID(), controllers.AdminUploadThumbnail)

	// Module management
	trainings.Get("/:training_id/modules", validators.TrainingID(), controllers.AdminListModules)
	trainings.Post("/:training_id/modules", validators.TrainingID(), validators.CreateModule(), controllers.AdminCreateModule)
	trainings.Post("/:training_id/modules/reorder", validators.TrainingID(), validators.ReorderModules(), controllers.AdminReorderModules)
	trainings.Put("/:training_id/modules/:id", validators.ModuleParams(), validators.UpdateModule(), controllers.AdminUpdateModule)
	trainings.Delete("/:training_id/modules/:id", validators.ModuleParams(), controllers.AdminDeleteModule)

	// Lesson management
	modules := admin.Group("/modules")
	modules.Get("/:module_id/lessons", validators.ModuleID(), controllers.AdminListLessons)
	modules.Post("/:module_id/lessons", validators.ModuleID(), validators.CreateLesson(), controllers.AdminCreateLesson)
	modules.Post("/:module_id/lessons/reorder", validators.ModuleID(), validators.ReorderLessons(), controllers.AdminReorderLessons)
	modules.Put("/:module_id/lessons/:id", validators.LessonParams(), validators.UpdateLesson(), controllers.AdminUpdateLesson)
	modules.Delete("/:module_id/lessons/:id", validators.LessonParams(), controllers.AdminDeleteLesson)
}
