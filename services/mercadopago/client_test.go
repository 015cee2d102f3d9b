package mercadopago

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"learnly/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePreference(t *testing.T) {
	var got PreferenceRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/checkout/preferences", r.URL.Path)
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		assert.Equal(t, "ref-1", r.Header.Get("X-Idempotency-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pref-1","init_point":"https://mp.example/checkout/pref-1"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "token-123")
	pref, err := c.CreatePreference(context.Background(), PreferenceRequest{
		Items:             []Item{{ID: "7", Title: "Go course", Quantity: 1, CurrencyID: "BRL", UnitPrice: 99.9}},
		ExternalReference: "ref-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "pref-1", pref.ID)
	assert.Equal(t, "https://mp.example/checkout/pref-1", pref.InitPoint)
	assert.Equal(t, "ref-1", got.ExternalReference)
	assert.Equal(t, 99.9, got.Items[0].UnitPrice)
}

func TestCreatePreferenceAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"invalid items"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, "t").CreatePreference(context.Background(), PreferenceRequest{ExternalReference: "r"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestGetPayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payments/123", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":123,"status":"approved","external_reference":"ref-9","transaction_amount":10.5}`))
	}))
	defer srv.Close()

	p, raw, err := New(srv.URL, "t").GetPayment(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, int64(123), p.ID)
	assert.Equal(t, "approved", p.Status)
	assert.Equal(t, "ref-9", p.ExternalReference)
	assert.Contains(t, string(raw), "ref-9")
}

func TestGetPaymentRejectsNonNumericID(t *testing.T) {
	_, _, err := New("http://127.0.0.1:1", "t").GetPayment(context.Background(), "../admin")
	assert.Error(t, err)
}

func TestMapStatus(t *testing.T) {
	cases := map[string]string{
		"approved":     models.PaymentApproved,
		"pending":      models.PaymentPending,
		"in_process":   models.PaymentInProcess,
		"rejected":     models.PaymentRejected,
		"cancelled":    models.PaymentCancelled,
		"refunded":     models.PaymentRefunded,
		"charged_back": models.PaymentRefunded,
		"weird":        "",
	}
	for in, want := range cases {
		assert.Equal(t, want, MapStatus(in), in)
	}
}
