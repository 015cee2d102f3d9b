package trainingValidator

import (
	"strings"

	"learnly/models/training"
	"learnly/validators"

	"github.com/gofiber/fiber/v2"
)

const (
	KeyTraining       = "validatedTraining"
	KeyTrainingUpdate = "validatedTrainingUpdate"
)

type CreateTrainingRequest struct {
	Name        string  `json:"name" validate:"required,min=3,max=255"`
	Description string  `json:"description" validate:"max=5000"`
	Category    string  `json:"category" validate:"max=100"`
	Price       float64 `json:"price" validate:"gte=0"`
}

func (r *CreateTrainingRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
	r.Category = strings.TrimSpace(r.Category)
}

type UpdateTrainingRequest struct {
	Name        *string  `json:"name" validate:"omitnil,min=3,max=255"`
	Description *string  `json:"description" validate:"omitnil,max=5000"`
	Category    *string  `json:"category" validate:"omitnil,max=100"`
	Price       *float64 `json:"price" validate:"omitnil,gte=0"`
}

func (r *UpdateTrainingRequest) Normalize() {
	trimPtr(r.Name)
	trimPtr(r.Description)
	trimPtr(r.Category)
}

// CreateTraining validates admin training creation request
func CreateTraining() fiber.Handler {
	return validators.Body[CreateTrainingRequest](KeyTraining)
}

// UpdateTraining validates admin training update request
func UpdateTraining() fiber.Handler {
	return validators.Body[UpdateTrainingRequest](KeyTrainingUpdate)
}

func TrainingID() fiber.Handler {
	return validators.Params("training_id")
}

// ListFilter reads the optional status and category filters.
type ListFilter struct {
	Status   training.Status
	Category string
	Search   string
}

func ParseListFilter(c *fiber.Ctx) (ListFilter, map[string]string) {
	f := ListFilter{
		Status:   training.Status(strings.ToLower(strings.TrimSpace(c.Query("status")))),
		Category: strings.TrimSpace(c.Query("category")),
		Search:   strings.TrimSpace(c.Query("search")),
	}
	switch f.Status {
	case "", training.StatusDraft, training.StatusPublished:
		return f, nil
	default:
		return f, map[string]string{"status": "status must be one of: draft, published!"}
	}
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
