package trainingValidator

import (
	"strings"

	"learnly/validators"

	"github.com/gofiber/fiber/v2"
)

const (
	KeyLesson        = "validatedLesson"
	KeyLessonUpdate  = "validatedLessonUpdate"
	KeyLessonReorder = "validatedLessonReorder"
)

type CreateLessonRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=255"`
	Description string `json:"description" validate:"max=5000"`
	ContentType string `json:"content_type" validate:"required,oneof=video document"`
	VideoURL    string `json:"video_url" validate:"required_if=ContentType video,omitempty,url"`
	DocumentURL string `json:"document_url" validate:"omitempty,url"`
	Duration    int    `json:"duration" validate:"gte=0"`
}

func (r *CreateLessonRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.ContentType = strings.ToLower(strings.TrimSpace(r.ContentType))
	r.VideoURL = strings.TrimSpace(r.VideoURL)
	r.DocumentURL = strings.TrimSpace(r.DocumentURL)
}

type UpdateLessonRequest struct {
	Title       *string `json:"title" validate:"omitnil,min=3,max=255"`
	Description *string `json:"description" validate:"omitnil,max=5000"`
	ContentType *string `json:"content_type" validate:"omitnil,oneof=video document"`
	VideoURL    *string `json:"video_url" validate:"omitnil,len=0|url"`
	DocumentURL *string `json:"document_url" validate:"omitnil,len=0|url"`
	Duration    *int    `json:"duration" validate:"omitnil,gte=0"`
	OrderIndex  *int    `json:"order_index" validate:"omitnil,gte=0"`
}

func (r *UpdateLessonRequest) Normalize() {
	trimPtr(r.Title)
	trimPtr(r.Description)
	trimPtr(r.VideoURL)
	trimPtr(r.DocumentURL)
	if r.ContentType != nil {
		*r.ContentType = strings.ToLower(strings.TrimSpace(*r.ContentType))
	}
}

type ReorderLessonsRequest struct {
	Lessons []uint `json:"lessons" validate:"required"`
}

func CreateLesson() fiber.Handler {
	return validators.Body[CreateLessonRequest](KeyLesson)
}

func UpdateLesson() fiber.Handler {
	return validators.Body[UpdateLessonRequest](KeyLessonUpdate)
}

func ReorderLessons() fiber.Handler {
	return validators.Body[ReorderLessonsRequest](KeyLessonReorder)
}

func ModuleID() fiber.Handler {
	return validators.Params("module_id")
}

// LessonParams validates the module and lesson ids of a lesson route.
func LessonParams() fiber.Handler {
	return validators.Params("module_id", "id")
}

// CatalogLessonParams validates the ids of a user-facing lesson route.
func CatalogLessonParams() fiber.Handler {
	return validators.Params("training_id", "module_id", "lesson_id")
}

func CompleteLessonParams() fiber.Handler {
	return validators.Params("training_id", "lesson_id")
}
