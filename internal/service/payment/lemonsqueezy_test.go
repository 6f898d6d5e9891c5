package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"academy_backend/internal/config"
	"academy_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signLemonSqueezy(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestLemonSqueezyVerifyWebhook(t *testing.T) {
	g := NewLemonSqueezyGateway(&config.LemonSqueezyConfig{WebhookSecret: "whsec"})
	body := []byte(`{"meta":{"event_name":"order_created"}}`)

	header := http.Header{}
	header.Set("X-Signature", signLemonSqueezy("whsec", body))
	assert.NoError(t, g.VerifyWebhook(body, header))
}

func TestLemonSqueezyVerifyWebhookTamperedBody(t *testing.T) {
	g := NewLemonSqueezyGateway(&config.LemonSqueezyConfig{WebhookSecret: "whsec"})
	body := []byte(`{"meta":{"event_name":"order_created"}}`)

	header := http.Header{}
	header.Set("X-Signature", signLemonSqueezy("whsec", body))

	tampered := append([]byte{}, body...)
	tampered[len(tampered)-1] = '!'
	assert.ErrorIs(t, g.VerifyWebhook(tampered, header), util.ErrInvalidSignature)
}

func TestLemonSqueezyVerifyWebhookMissingPieces(t *testing.T) {
	body := []byte(`{}`)

	// No signature header.
	g := NewLemonSqueezyGateway(&config.LemonSqueezyConfig{WebhookSecret: "whsec"})
	assert.ErrorIs(t, g.VerifyWebhook(body, http.Header{}), util.ErrInvalidSignature)

	// No configured secret, even with a plausible header.
	g = NewLemonSqueezyGateway(&config.LemonSqueezyConfig{})
	header := http.Header{}
	header.Set("X-Signature", signLemonSqueezy("whsec", body))
	assert.ErrorIs(t, g.VerifyWebhook(body, header), util.ErrInvalidSignature)
}

func TestLemonSqueezyParseEvent(t *testing.T) {
	g := NewLemonSqueezyGateway(&config.LemonSqueezyConfig{})

	body := []byte(`{
		"meta": {"event_name": "order_created", "custom_data": {}},
		"data": {
			"id": "1001",
			"attributes": {
				"status": "paid",
				"user_email": "buyer@example.com",
				"total": 4900,
				"custom_data": {"user_id": "7"}
			}
		}
	}`)

	event, err := g.ParseEvent(body)
	require.NoError(t, err)
	assert.Equal(t, "order_created", event.Name)
	assert.Equal(t, "1001", event.OrderID)
	assert.Equal(t, "buyer@example.com", event.Email)
	assert.Equal(t, "7", event.UserID)
	assert.Equal(t, 4900, event.Amount)
	assert.True(t, event.Paid)
}

func TestLemonSqueezyParseEventIgnoresOtherEvents(t *testing.T) {
	g := NewLemonSqueezyGateway(&config.LemonSqueezyConfig{})

	event, err := g.ParseEvent([]byte(`{
		"meta": {"event_name": "subscription_created"},
		"data": {"id": "5", "attributes": {"status": "paid"}}
	}`))
	require.NoError(t, err)
	assert.False(t, event.Paid)
}

func TestLemonSqueezyVerifyOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders/1001", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Write([]byte(`{"data":{"id":"1001","attributes":{"status":"paid","user_email":"buyer@example.com","total":4900}}}`))
	}))
	defer srv.Close()

	g := NewLemonSqueezyGateway(&config.LemonSqueezyConfig{APIKey: "test-key"})
	g.base = srv.URL

	receipt, err := g.VerifyOrder(context.Background(), "1001")
	require.NoError(t, err)
	assert.Equal(t, "1001", receipt.OrderID)
	assert.Equal(t, "buyer@example.com", receipt.Email)
	assert.Equal(t, 4900, receipt.Amount)
	assert.True(t, receipt.Paid)
}

func TestLemonSqueezyVerifyOrderPending(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"id":"1002","attributes":{"status":"pending","user_email":"buyer@example.com"}}}`))
	}))
	defer srv.Close()

	g := NewLemonSqueezyGateway(&config.LemonSqueezyConfig{APIKey: "test-key"})
	g.base = srv.URL

	_, err := g.VerifyOrder(context.Background(), "1002")
	assert.ErrorIs(t, err, util.ErrPaymentNotCompleted)
}

func TestLemonSqueezyVerifyOrderNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	g := NewLemonSqueezyGateway(&config.LemonSqueezyConfig{APIKey: "test-key"})
	g.base = srv.URL

	_, err := g.VerifyOrder(context.Background(), "missing")
	assert.ErrorIs(t, err, util.ErrOrderNotFound)
}

func TestLemonSqueezyCreateCheckout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/checkouts", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"data":{"attributes":{"url":"https://checkout.example/abc"}}}`))
	}))
	defer srv.Close()

	g := NewLemonSqueezyGateway(&config.LemonSqueezyConfig{
		APIKey:    "test-key",
		StoreID:   "1",
		VariantID: "2",
	})
	g.base = srv.URL

	url, err := g.CreateCheckout(context.Background(), "buyer@example.com", "7")
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.example/abc", url)
}

func TestLemonSqueezyCreateCheckoutUnconfigured(t *testing.T) {
	g := NewLemonSqueezyGateway(&config.LemonSqueezyConfig{})
	_, err := g.CreateCheckout(context.Background(), "", "")
	assert.ErrorIs(t, err, util.ErrGatewayUnconfigured)
}
