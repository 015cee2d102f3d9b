package paymentController

import (
	"strings"

	"learnly/apperrors"
	"learnly/config"
	"learnly/database"
	"learnly/logger"
	"learnly/middleware"
	"learnly/models"
	"learnly/services/mailer"
	"learnly/services/mercadopago"
	"learnly/services/payments"
	paymentValidator "learnly/validators/payment"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
)

func service() *payments.Service {
	return &payments.Service{
		DB:              database.Database.Db,
		Gateway:         mercadopago.Default,
		Mailer:          mailer.Default,
		NotificationURL: config.AppConfig.MPWebhookURL,
	}
}

// Checkout starts a payment for a product and returns the gateway checkout url
func Checkout(c *fiber.Ctx) error {
	req, ok := c.Locals(paymentValidator.KeyCheckout).(*paymentValidator.CheckoutRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	userID, _ := middleware.CurrentUserID(c)

	var user models.User
	err := models.Active(database.Database.Db.WithContext(c.UserContext())).First(&user, userID).Error
	if database.IsNotFound(err) {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	payment, err := service().Checkout(c.UserContext(), &user, req.ProductID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Checkout created successfully!", fiber.Map{
		"payment":    payment,
		"init_point": payment.InitPoint,
	})
}

// Webhook receives Mercado Pago notifications. It answers 200 for anything it
// does not act on so the gateway stops retrying, and 500 only when a payment
// notification could not be applied.
func Webhook(c *fiber.Ctx) error {
	kind := c.Query("type", c.Query("topic"))
	id := c.Query("data.id", c.Query("id"))

	if body := c.Body(); len(body) > 0 {
		var n paymentValidator.Notification
		if err := sonic.Unmarshal(body, &n); err == nil {
			if n.Type != "" {
				kind = n.Type
			}
			if n.Data.ID != "" {
				id = n.Data.ID
			}
		}
	}

	if kind != "payment" || strings.TrimSpace(id) == "" {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Notification ignored!", nil)
	}

	payment, err := service().ApplyNotification(c.UserContext(), id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			logger.Log.Warn("webhook for unknown payment", "gateway_payment_id", id)
			return middleware.JsonResponse(c, fiber.StatusOK, true, "Notification ignored!", nil)
		}
		logger.Log.Error("webhook processing failed", "gateway_payment_id", id, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Notification could not be processed!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notification processed!", fiber.Map{
		"payment_id": payment.ID,
		"status":     payment.Status,
	})
}

// MyPayments lists the caller's payments
func MyPayments(c *fiber.Ctx) error {
	userID, _ := middleware.CurrentUserID(c)
	paging := middleware.ResolvePaging(c)
	q := database.Database.Db.WithContext(c.UserContext()).Model(&models.Payment{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}
	var list []models.Payment
	if err := q.Preload("Product").Order("created_at desc").Offset(paging.Offset).Limit(paging.PerPage).Find(&list).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.PagedResponse(c, "Payments fetched successfully!", list, total, paging)
}

// AdminListPayments lists every payment, optionally filtered by status and user
func AdminListPayments(c *fiber.Ctx) error {
	paging := middleware.ResolvePaging(c)
	q := database.Database.Db.WithContext(c.UserContext()).Model(&models.Payment{})
	if status := strings.ToUpper(strings.TrimSpace(c.Query("status"))); status != "" {
		q = q.Where("status = ?", status)
	}
	if userID := c.QueryInt("user_id"); userID > 0 {
		q = q.Where("user_id = ?", userID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}
	var list []models.Payment
	if err := q.Preload("Product").Order("created_at desc").Offset(paging.Offset).Limit(paging.PerPage).Find(&list).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.PagedResponse(c, "Payments fetched successfully!", list, total, paging)
}
