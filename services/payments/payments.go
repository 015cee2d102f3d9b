// Package payments runs the Mercado Pago checkout flow and applies its
// notifications to local payments.
package payments

import (
	"context"
	"errors"
	"strconv"
	"time"

	"learnly/apperrors"
	"learnly/database"
	"learnly/logger"
	"learnly/models"
	"learnly/models/training"
	"learnly/services/learning"
	"learnly/services/mailer"
	"learnly/services/mercadopago"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Service struct {
	DB              *gorm.DB
	Gateway         mercadopago.Gateway
	Mailer          mailer.Mailer
	NotificationURL string
}

// Checkout opens a PENDING payment for productID and asks the gateway for a
// checkout preference.
func (s *Service) Checkout(ctx context.Context, user *models.User, productID uint) (*models.Payment, error) {
	var product models.Product
	err := models.Active(s.DB.WithContext(ctx)).Where("id = ? AND active = ?", productID, true).First(&product).Error
	if database.IsNotFound(err) {
		return nil, apperrors.NotFound("Product not found!")
	}
	if err != nil {
		return nil, err
	}
	if product.Price <= 0 {
		return nil, apperrors.Conflict("This product is free, no payment is needed!")
	}
	if product.TrainingID != nil {
		e, err := learning.Enrollment(ctx, s.DB, user.ID, *product.TrainingID)
		if err != nil {
			return nil, err
		}
		if e != nil {
			return nil, apperrors.Conflict("You are already enrolled in this training!")
		}
	}

	payment := &models.Payment{
		UserID:            user.ID,
		ProductID:         product.ID,
		Amount:            product.Price,
		Currency:          product.Currency,
		Status:            models.PaymentPending,
		ExternalReference: uuid.NewString(),
	}
	if err := s.DB.WithContext(ctx).Create(payment).Error; err != nil {
		return nil, err
	}

	pref, err := s.Gateway.CreatePreference(ctx, mercadopago.PreferenceRequest{
		Items: []mercadopago.Item{{
			ID:         strconv.FormatUint(uint64(product.ID), 10),
			Title:      product.Name,
			Quantity:   1,
			CurrencyID: product.Currency,
			UnitPrice:  product.Price,
		}},
		Payer:             mercadopago.Payer{Name: user.Name, Email: user.Email},
		ExternalReference: payment.ExternalReference,
		NotificationURL:   s.NotificationURL,
	})
	if err != nil {
		s.DB.WithContext(ctx).Model(payment).Update("status", models.PaymentCancelled)
		if errors.Is(err, mercadopago.ErrDisabled) {
			return nil, apperrors.Conflict("Checkout is not available right now!")
		}
		return nil, apperrors.Internal(err)
	}

	payment.PreferenceID = pref.ID
	payment.InitPoint = pref.InitPoint
	if err := s.DB.WithContext(ctx).Model(payment).Updates(map[string]interface{}{
		"preference_id": pref.ID,
		"init_point":    pref.InitPoint,
	}).Error; err != nil {
		return nil, err
	}
	payment.Product = &product
	return payment, nil
}

// ApplyNotification fetches gatewayPaymentID and moves the matching local
// payment to the reported status. Repeated notifications are no-ops.
func (s *Service) ApplyNotification(ctx context.Context, gatewayPaymentID string) (*models.Payment, error) {
	info, raw, err := s.Gateway.GetPayment(ctx, gatewayPaymentID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	status := mercadopago.MapStatus(info.Status)

	var (
		payment       models.Payment
		newlyApproved bool
	)
	err = database.Transact(ctx, s.DB, func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("external_reference = ?", info.ExternalReference).
			First(&payment).Error
		if database.IsNotFound(err) {
			return apperrors.NotFound("Payment not found!")
		}
		if err != nil {
			return err
		}
		var product models.Product
		if err := tx.First(&product, payment.ProductID).Error; err != nil {
			return err
		}

		if status == "" || !canMove(payment.Status, status) {
			return nil
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":             status,
			"gateway_payment_id": strconv.FormatInt(info.ID, 10),
			"gateway_payload":    datatypes.JSON(raw),
			"updated_at":         now,
		}
		if status == models.PaymentApproved {
			approvedAt := now
			if info.DateApproved != nil {
				approvedAt = *info.DateApproved
			}
			updates["approved_at"] = approvedAt
			payment.ApprovedAt = &approvedAt
		}
		if err := tx.Model(&payment).Updates(updates).Error; err != nil {
			return err
		}
		payment.Status = status
		payment.GatewayPaymentID = strconv.FormatInt(info.ID, 10)
		payment.Product = &product

		if status == models.PaymentApproved && product.TrainingID != nil {
			if _, _, err := learning.Grant(tx, payment.UserID, *product.TrainingID, training.SourcePayment, &payment.ID); err != nil {
				return err
			}
		}
		newlyApproved = status == models.PaymentApproved
		return nil
	})
	if err != nil {
		return nil, err
	}

	if newlyApproved {
		s.notifyApproved(ctx, &payment)
	}
	logger.Log.Info("payment notification applied",
		"payment_id", payment.ID, "gateway_payment_id", gatewayPaymentID, "status", payment.Status)
	return &payment, nil
}

// canMove reports whether a payment in from may move to to. Final payments
// only move from APPROVED to REFUNDED. EXPIRED is a local timeout the gateway
// never saw, so a late approval still wins.
func canMove(from, to string) bool {
	if from == to {
		return false
	}
	switch from {
	case models.PaymentApproved:
		return to == models.PaymentRefunded
	case models.PaymentExpired:
		return to == models.PaymentApproved || to == models.PaymentInProcess
	}
	p := models.Payment{Status: from}
	return !p.IsFinal()
}

func (s *Service) notifyApproved(ctx context.Context, payment *models.Payment) {
	if s.Mailer == nil || payment.Product == nil {
		return
	}
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, payment.UserID).Error; err != nil {
		logger.Log.Warn("payment email skipped", "payment_id", payment.ID, "error", err)
		return
	}
	msg := mailer.PaymentApproved(user.Name, user.Email, payment.Product.Name, payment.Amount, payment.Currency)
	if err := s.Mailer.Send(ctx, msg); err != nil && !errors.Is(err, mailer.ErrDisabled) {
		logger.Log.Warn("payment email failed", "payment_id", payment.ID, "error", err)
	}
}

// ExpireStale marks PENDING payments created before cutoff as EXPIRED.
func ExpireStale(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	res := db.WithContext(ctx).Model(&models.Payment{}).
		Where("status = ? AND created_at < ?", models.PaymentPending, cutoff).
		Updates(map[string]interface{}{"status": models.PaymentExpired, "updated_at": time.Now()})
	return res.RowsAffected, res.Error
}
