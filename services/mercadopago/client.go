// Package mercadopago talks to the Mercado Pago checkout and payments API.
package mercadopago

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"learnly/config"
	"learnly/models"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
)

// ErrDisabled is returned when no access token is configured.
var ErrDisabled = errors.New("mercadopago: disabled")

type Item struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	CurrencyID string  `json:"currency_id"`
	UnitPrice  float64 `json:"unit_price"`
}

type Payer struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type PreferenceRequest struct {
	Items             []Item `json:"items"`
	Payer             Payer  `json:"payer"`
	ExternalReference string `json:"external_reference"`
	NotificationURL   string `json:"notification_url,omitempty"`
}

type Preference struct {
	ID               string `json:"id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point"`
}

type Payment struct {
	ID                int64      `json:"id"`
	Status            string     `json:"status"`
	StatusDetail      string     `json:"status_detail"`
	ExternalReference string     `json:"external_reference"`
	TransactionAmount float64    `json:"transaction_amount"`
	CurrencyID        string     `json:"currency_id"`
	DateApproved      *time.Time `json:"date_approved"`
}

type Gateway interface {
	CreatePreference(ctx context.Context, req PreferenceRequest) (*Preference, error)
	GetPayment(ctx context.Context, id string) (*Payment, []byte, error)
}

// Default is the process-wide gateway.
var Default Gateway = Disabled{}

func Init(cfg *config.Config) {
	if cfg.MPAccessToken == "" {
		Default = Disabled{}
		return
	}
	Default = New(cfg.MPBaseURL, cfg.MPAccessToken)
}

type Client struct {
	http *resty.Client
}

func New(baseURL, accessToken string) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(accessToken).
		SetTimeout(15*time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetHeader("Content-Type", "application/json").
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal)
	return &Client{http: client}
}

// APIError is a non-2xx answer from Mercado Pago.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mercadopago: status %d: %s", e.StatusCode, e.Body)
}

func (c *Client) CreatePreference(ctx context.Context, req PreferenceRequest) (*Preference, error) {
	var pref Preference
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("X-Idempotency-Key", req.ExternalReference).
		SetBody(req).
		SetResult(&pref).
		Post("/checkout/preferences")
	if err != nil {
		return nil, fmt.Errorf("mercadopago: create preference: %w", err)
	}
	if resp.IsError() {
		return nil, &APIError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	if pref.ID == "" || pref.InitPoint == "" {
		return nil, errors.New("mercadopago: preference without id or init_point")
	}
	return &pref, nil
}

// GetPayment returns the decoded payment and the raw body for auditing.
func (c *Client) GetPayment(ctx context.Context, id string) (*Payment, []byte, error) {
	if _, err := strconv.ParseInt(id, 10, 64); err != nil {
		return nil, nil, fmt.Errorf("mercadopago: invalid payment id %q", id)
	}
	var p Payment
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetResult(&p).
		Get("/v1/payments/{id}")
	if err != nil {
		return nil, nil, fmt.Errorf("mercadopago: get payment: %w", err)
	}
	if resp.IsError() {
		return nil, nil, &APIError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	return &p, resp.Body(), nil
}

// MapStatus translates a Mercado Pago status into a Payment status. It
// returns "" for statuses that carry no change.
func MapStatus(status string) string {
	switch status {
	case "approved":
		return models.PaymentApproved
	case "pending":
		return models.PaymentPending
	case "in_process", "authorized", "in_mediation":
		return models.PaymentInProcess
	case "rejected":
		return models.PaymentRejected
	case "cancelled":
		return models.PaymentCancelled
	case "refunded", "charged_back":
		return models.PaymentRefunded
	default:
		return ""
	}
}

type Disabled struct{}

func (Disabled) CreatePreference(context.Context, PreferenceRequest) (*Preference, error) {
	return nil, ErrDisabled
}

func (Disabled) GetPayment(context.Context, string) (*Payment, []byte, error) {
	return nil, nil, ErrDisabled
}
