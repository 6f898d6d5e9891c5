// Package payment abstracts the hosted-checkout providers behind one
// interface. Two interchangeable implementations exist (Lemon Squeezy and
// Stripe); config selects which one serves, and the rest of the app never
// sees provider detail.
package payment

import (
	"context"
	"net/http"
	"time"

	"academy_backend/internal/config"
)

// Receipt is the provider-confirmed result of an order/session lookup.
type Receipt struct {
	OrderID string
	Email   string
	Amount  int // cents
	Paid    bool
}

// Event is a parsed webhook event. Only completed-payment events matter to
// the caller; everything else arrives with Paid=false or an unknown Name.
type Event struct {
	Name    string
	OrderID string
	Email   string
	UserID  string // from checkout custom data / metadata; empty for guests
	Amount  int    // cents
	Paid    bool
}

// Gateway is the external checkout + webhook surface the core consumes.
// VerifyWebhook must be called on the raw request body before any parsing,
// must compare signatures in constant time, and must reject outright when
// the secret or the signature header is missing.
type Gateway interface {
	Name() string
	CreateCheckout(ctx context.Context, email, userID string) (string, error)
	VerifyOrder(ctx context.Context, id string) (*Receipt, error)
	VerifyWebhook(body []byte, header http.Header) error
	ParseEvent(body []byte) (*Event, error)
}

// New selects the configured provider.
func New(cfg *config.PaymentConfig) Gateway {
	switch cfg.Provider {
	case "stripe":
		return NewStripeGateway(&cfg.Stripe)
	default:
		return NewLemonSqueezyGateway(&cfg.LemonSqueezy)
	}
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 15 * time.Second}
}
