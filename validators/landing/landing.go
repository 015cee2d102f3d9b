package landingValidator

import (
	"strings"

	"learnly/validators"

	"github.com/gofiber/fiber/v2"
)

const (
	KeyPage       = "validatedLandingPage"
	KeyPageUpdate = "validatedLandingPageUpdate"
	KeyLead       = "validatedLead"
)

type CreatePageRequest struct {
	Kind          string                 `json:"kind" validate:"required,oneof=client consultant"`
	Slug          string                 `json:"slug" validate:"omitempty,min=3,max=120,slug"`
	Title         string                 `json:"title" validate:"required,min=3,max=255"`
	Headline      string                 `json:"headline" validate:"max=255"`
	Description   string                 `json:"description" validate:"max=5000"`
	Whatsapp      string                 `json:"whatsapp" validate:"phone"`
	Config        map[string]interface{} `json:"config"`
	NotifyEmail   bool                   `json:"notify_email"`
	NotifyAddress string                 `json:"notify_address" validate:"omitempty,email,max=255"`
	SheetSync     bool                   `json:"sheet_sync"`
	SpreadsheetID string                 `json:"spreadsheet_id" validate:"required_if=SheetSync true,max=128"`
	SheetRange    string                 `json:"sheet_range" validate:"max=64"`
}

func (r *CreatePageRequest) Normalize() {
	r.Kind = strings.ToLower(strings.TrimSpace(r.Kind))
	r.Slug = strings.ToLower(strings.TrimSpace(r.Slug))
	r.Title = strings.TrimSpace(r.Title)
	r.Headline = strings.TrimSpace(r.Headline)
	r.Description = strings.TrimSpace(r.Description)
	r.Whatsapp = strings.TrimSpace(r.Whatsapp)
	r.NotifyAddress = strings.TrimSpace(r.NotifyAddress)
	r.SpreadsheetID = strings.TrimSpace(r.SpreadsheetID)
	r.SheetRange = strings.TrimSpace(r.SheetRange)
}

type UpdatePageRequest struct {
	Kind          *string                `json:"kind" validate:"omitnil,oneof=client consultant"`
	Slug          *string                `json:"slug" validate:"omitnil,min=3,max=120,slug"`
	Title         *string                `json:"title" validate:"omitnil,min=3,max=255"`
	Headline      *string                `json:"headline" validate:"omitnil,max=255"`
	Description   *string                `json:"description" validate:"omitnil,max=5000"`
	Whatsapp      *string                `json:"whatsapp" validate:"omitnil,phone"`
	Config        map[string]interface{} `json:"config"`
	NotifyEmail   *bool                  `json:"notify_email"`
	NotifyAddress *string                `json:"notify_address" validate:"omitnil,max=255,len=0|email"`
	SheetSync     *bool                  `json:"sheet_sync"`
	SpreadsheetID *string                `json:"spreadsheet_id" validate:"omitnil,max=128"`
	SheetRange    *string                `json:"sheet_range" validate:"omitnil,max=64"`
}

func (r *UpdatePageRequest) Normalize() {
	for _, s := range []*string{r.Headline, r.Description, r.Title, r.Whatsapp, r.NotifyAddress, r.SpreadsheetID, r.SheetRange} {
		if s != nil {
			*s = strings.TrimSpace(*s)
		}
	}
	for _, s := range []*string{r.Kind, r.Slug} {
		if s != nil {
			*s = strings.ToLower(strings.TrimSpace(*s))
		}
	}
}

// LeadRequest is the public lead capture form.
type LeadRequest struct {
	Name    string                 `json:"name" validate:"required,min=2,max=255"`
	Email   string                 `json:"email" validate:"required,email,max=255"`
	Phone   string                 `json:"phone" validate:"omitempty,max=32"`
	Message string                 `json:"message" validate:"max=2000"`
	Extra   map[string]interface{} `json:"extra" validate:"omitempty,max=20"`
}

func (r *LeadRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	r.Message = strings.TrimSpace(r.Message)
}

func CreatePage() fiber.Handler {
	return validators.Body[CreatePageRequest](KeyPage)
}

func UpdatePage() fiber.Handler {
	return validators.Body[UpdatePageRequest](KeyPageUpdate)
}

func CaptureLead() fiber.Handler {
	return validators.Body[LeadRequest](KeyLead)
}

func PageID() fiber.Handler {
	return validators.Params("page_id")
}
