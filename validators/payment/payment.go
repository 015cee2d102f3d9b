package paymentValidator

import (
	"learnly/validators"

	"github.com/gofiber/fiber/v2"
)

const KeyCheckout = "validatedCheckout"

type CheckoutRequest struct {
	ProductID uint `json:"product_id" validate:"required,gt=0"`
}

func Checkout() fiber.Handler {
	return validators.Body[CheckoutRequest](KeyCheckout)
}

// Notification is the subset of a Mercado Pago webhook body that is read.
// Topic-style notifications carry the payment id in the query string instead.
type Notification struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}
