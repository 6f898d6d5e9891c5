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

func signStripe(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	return "t=" + timestamp + ",v1=" + hex.EncodeToString(mac.Sum(nil))
}

func TestStripeVerifyWebhook(t *testing.T) {
	g := NewStripeGateway(&config.StripeConfig{WebhookSecret: "whsec"})
	body := []byte(`{"type":"checkout.session.completed"}`)

	header := http.Header{}
	header.Set("Stripe-Signature", signStripe("whsec", "1700000000", body))
	assert.NoError(t, g.VerifyWebhook(body, header))
}

func TestStripeVerifyWebhookTamperedBody(t *testing.T) {
	g := NewStripeGateway(&config.StripeConfig{WebhookSecret: "whsec"})
	body := []byte(`{"type":"checkout.session.completed"}`)

	header := http.Header{}
	header.Set("Stripe-Signature", signStripe("whsec", "1700000000", body))

	assert.ErrorIs(t, g.VerifyWebhook([]byte(`{"type":"evil"}`), header), util.ErrInvalidSignature)
}

func TestStripeVerifyWebhookTamperedTimestamp(t *testing.T) {
	g := NewStripeGateway(&config.StripeConfig{WebhookSecret: "whsec"})
	body := []byte(`{}`)

	sig := signStripe("whsec", "1700000000", body)
	// Replay the v1 value under a different timestamp.
	forged := "t=1799999999" + sig[len("t=1700000000"):]

	header := http.Header{}
	header.Set("Stripe-Signature", forged)
	assert.ErrorIs(t, g.VerifyWebhook(body, header), util.ErrInvalidSignature)
}

func TestStripeVerifyWebhookMissingPieces(t *testing.T) {
	body := []byte(`{}`)

	g := NewStripeGateway(&config.StripeConfig{WebhookSecret: "whsec"})
	assert.ErrorIs(t, g.VerifyWebhook(body, http.Header{}), util.ErrInvalidSignature)

	header := http.Header{}
	header.Set("Stripe-Signature", "v1=deadbeef") // no timestamp
	assert.ErrorIs(t, g.VerifyWebhook(body, header), util.ErrInvalidSignature)

	g = NewStripeGateway(&config.StripeConfig{}) // no secret
	header.Set("Stripe-Signature", signStripe("whsec", "1700000000", body))
	assert.ErrorIs(t, g.VerifyWebhook(body, header), util.ErrInvalidSignature)
}

func TestStripeVerifyWebhookMultipleCandidates(t *testing.T) {
	g := NewStripeGateway(&config.StripeConfig{WebhookSecret: "whsec"})
	body := []byte(`{}`)

	valid := signStripe("whsec", "1700000000", body)
	// Stripe sends multiple v1 entries during secret rotation; one valid
	// candidate is enough.
	header := http.Header{}
	header.Set("Stripe-Signature", "t=1700000000,v1=0000,"+valid[len("t=1700000000,"):])
	assert.NoError(t, g.VerifyWebhook(body, header))
}

func TestStripeParseEvent(t *testing.T) {
	g := NewStripeGateway(&config.StripeConfig{})

	body := []byte(`{
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_test_123",
				"payment_status": "paid",
				"amount_total": 4900,
				"customer_details": {"email": "buyer@example.com"},
				"metadata": {"user_id": "7"}
			}
		}
	}`)

	event, err := g.ParseEvent(body)
	require.NoError(t, err)
	assert.Equal(t, "checkout.session.completed", event.Name)
	assert.Equal(t, "cs_test_123", event.OrderID)
	assert.Equal(t, "buyer@example.com", event.Email)
	assert.Equal(t, "7", event.UserID)
	assert.Equal(t, 4900, event.Amount)
	assert.True(t, event.Paid)
}

func TestStripeParseEventUnpaidSession(t *testing.T) {
	g := NewStripeGateway(&config.StripeConfig{})

	event, err := g.ParseEvent([]byte(`{
		"type": "checkout.session.completed",
		"data": {"object": {"id": "cs_1", "payment_status": "unpaid"}}
	}`))
	require.NoError(t, err)
	assert.False(t, event.Paid)
}

func TestStripeVerifyOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/checkout/sessions/cs_test_123", r.URL.Path)
		user, _, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "sk_test", user)
		w.Write([]byte(`{"id":"cs_test_123","payment_status":"paid","amount_total":4900,"customer_details":{"email":"buyer@example.com"}}`))
	}))
	defer srv.Close()

	g := NewStripeGateway(&config.StripeConfig{SecretKey: "sk_test"})
	g.base = srv.URL

	receipt, err := g.VerifyOrder(context.Background(), "cs_test_123")
	require.NoError(t, err)
	assert.Equal(t, "cs_test_123", receipt.OrderID)
	assert.Equal(t, "buyer@example.com", receipt.Email)
	assert.True(t, receipt.Paid)
}

func TestStripeVerifyOrderUnpaid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"cs_1","payment_status":"unpaid"}`))
	}))
	defer srv.Close()

	g := NewStripeGateway(&config.StripeConfig{SecretKey: "sk_test"})
	g.base = srv.URL

	_, err := g.VerifyOrder(context.Background(), "cs_1")
	assert.ErrorIs(t, err, util.ErrPaymentNotCompleted)
}

func TestStripeCreateCheckout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/checkout/sessions", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "payment", r.PostForm.Get("mode"))
		assert.Equal(t, "price_1", r.PostForm.Get("line_items[0][price]"))
		assert.Equal(t, "buyer@example.com", r.PostForm.Get("customer_email"))
		assert.Equal(t, "7", r.PostForm.Get("metadata[user_id]"))
		w.Write([]byte(`{"url":"https://checkout.stripe.com/pay/cs_1"}`))
	}))
	defer srv.Close()

	g := NewStripeGateway(&config.StripeConfig{
		SecretKey:  "sk_test",
		PriceID:    "price_1",
		SuccessURL: "http://localhost/success",
		CancelURL:  "http://localhost/cancel",
	})
	g.base = srv.URL

	url, err := g.CreateCheckout(context.Background(), "buyer@example.com", "7")
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.stripe.com/pay/cs_1", url)
}

func TestGatewaySelection(t *testing.T) {
	cfg := &config.PaymentConfig{Provider: "stripe"}
	assert.Equal(t, "stripe", New(cfg).Name())

	cfg = &config.PaymentConfig{Provider: "lemonsqueezy"}
	assert.Equal(t, "lemonsqueezy", New(cfg).Name())

	// Unknown providers fall back to the default.
	cfg = &config.PaymentConfig{Provider: ""}
	assert.Equal(t, "lemonsqueezy", New(cfg).Name())
}
