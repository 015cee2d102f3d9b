package productValidator

import (
	"strings"

	"learnly/validators"

	"github.com/gofiber/fiber/v2"
)

const (
	KeyProduct       = "validatedProduct"
	KeyProductUpdate = "validatedProductUpdate"
)

type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required,min=3,max=255"`
	Slug        string  `json:"slug" validate:"omitempty,max=300,slug"`
	Description string  `json:"description" validate:"max=5000"`
	Price       float64 `json:"price" validate:"gte=0"`
	Currency    string  `json:"currency" validate:"omitempty,len=3,alpha"`
	TrainingID  *uint   `json:"training_id" validate:"omitnil,gt=0"`
	Active      *bool   `json:"active"`
}

func (r *CreateProductRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Slug = strings.TrimSpace(r.Slug)
	r.Description = strings.TrimSpace(r.Description)
	r.Currency = strings.ToUpper(strings.TrimSpace(r.Currency))
}

type UpdateProductRequest struct {
	Name        *string  `json:"name" validate:"omitnil,min=3,max=255"`
	Slug        *string  `json:"slug" validate:"omitnil,max=300,slug"`
	Description *string  `json:"description" validate:"omitnil,max=5000"`
	Price       *float64 `json:"price" validate:"omitnil,gte=0"`
	Currency    *string  `json:"currency" validate:"omitnil,len=3,alpha"`
	TrainingID  *uint    `json:"training_id" validate:"omitnil,gte=0"`
	Active      *bool    `json:"active"`
}

func (r *UpdateProductRequest) Normalize() {
	for _, s := range []*string{r.Name, r.Slug, r.Description} {
		if s != nil {
			*s = strings.TrimSpace(*s)
		}
	}
	if r.Currency != nil {
		*r.Currency = strings.ToUpper(strings.TrimSpace(*r.Currency))
	}
}

func CreateProduct() fiber.Handler {
	return validators.Body[CreateProductRequest](KeyProduct)
}

func UpdateProduct() fiber.Handler {
	return validators.Body[UpdateProductRequest](KeyProductUpdate)
}

func ProductID() fiber.Handler {
	return validators.Params("product_id")
}
