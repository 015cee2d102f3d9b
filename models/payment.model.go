package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	PaymentPending   = "PENDING"
	PaymentInProcess = "IN_PROCESS"
	PaymentApproved  = "APPROVED"
	PaymentRejected  = "REJECTED"
	PaymentCancelled = "CANCELLED"
	PaymentRefunded  = "REFUNDED"
	PaymentExpired   = "EXPIRED"
)

// Payment is one checkout attempt for a product.
type Payment struct {
	Base
	UserID            uint           `json:"user_id" gorm:"not null;index"`
	ProductID         uint           `json:"product_id" gorm:"not null;index"`
	Amount            float64        `json:"amount" gorm:"type:decimal(12,2);not null"`
	Currency          string         `json:"currency" gorm:"type:varchar(3);not null"`
	Status            string         `json:"status" gorm:"type:varchar(16);not null;default:'PENDING';index"`
	ExternalReference string         `json:"external_reference" gorm:"size:64;uniqueIndex;not null"`
	PreferenceID      string         `json:"preference_id" gorm:"size:128"`
	GatewayPaymentID  string         `json:"gateway_payment_id" gorm:"size:64;index"`
	InitPoint         string         `json:"init_point"`
	GatewayPayload    datatypes.JSON `json:"-"`
	ApprovedAt        *time.Time     `json:"approved_at"`
	Product           *Product       `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// IsFinal reports whether the payment can no longer change status.
func (p Payment) IsFinal() bool {
	switch p.Status {
	case PaymentApproved, PaymentRejected, PaymentCancelled, PaymentRefunded, PaymentExpired:
		return true
	}
	return false
}
