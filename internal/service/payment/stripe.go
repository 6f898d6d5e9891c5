package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"academy_backend/internal/config"
	"academy_backend/internal/util"
	"academy_backend/pkg/logger"

	"go.uber.org/zap"
)

const stripeAPI = "https://api.stripe.com/v1"

// StripeGateway drives Stripe hosted checkout over the form-encoded REST
// API. Webhooks carry a Stripe-Signature header of the form
// "t=<ts>,v1=<hex hmac>", where the signed payload is "<ts>.<raw body>".
type StripeGateway struct {
	cfg    *config.StripeConfig
	client *http.Client
	base   string
}

func NewStripeGateway(cfg *config.StripeConfig) *StripeGateway {
	return &StripeGateway{cfg: cfg, client: newHTTPClient(), base: stripeAPI}
}

func (g *StripeGateway) Name() string { return "stripe" }

func (g *StripeGateway) CreateCheckout(ctx context.Context, email, userID string) (string, error) {
	if g.cfg.SecretKey == "" || g.cfg.PriceID == "" {
		return "", util.ErrGatewayUnconfigured
	}

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("line_items[0][price]", g.cfg.PriceID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("success_url", g.cfg.SuccessURL+"?session_id={CHECKOUT_SESSION_ID}")
	form.Set("cancel_url", g.cfg.CancelURL)
	if email != "" {
		form.Set("customer_email", email)
	}
	if userID != "" {
		form.Set("metadata[user_id]", userID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.base+"/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(g.cfg.SecretKey, "")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(resp.Body)
		logger.Log.Error("stripe checkout error",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", detail))
		return "", fmt.Errorf("checkout creation failed with status %d", resp.StatusCode)
	}

	var out struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.URL, nil
}

func (g *StripeGateway) VerifyOrder(ctx context.Context, id string) (*Receipt, error) {
	if g.cfg.SecretKey == "" {
		return nil, util.ErrGatewayUnconfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.base+"/checkout/sessions/"+id, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(g.cfg.SecretKey, "")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, util.ErrOrderNotFound
	}

	var out struct {
		ID              string `json:"id"`
		PaymentStatus   string `json:"payment_status"`
		AmountTotal     int    `json:"amount_total"`
		CustomerEmail   string `json:"customer_email"`
		CustomerDetails struct {
			Email string `json:"email"`
		} `json:"customer_details"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}

	if out.PaymentStatus != "paid" {
		return nil, util.ErrPaymentNotCompleted
	}

	email := out.CustomerDetails.Email
	if email == "" {
		email = out.CustomerEmail
	}

	return &Receipt{
		OrderID: out.ID,
		Email:   email,
		Amount:  out.AmountTotal,
		Paid:    true,
	}, nil
}

// VerifyWebhook validates the Stripe-Signature header. Missing secret or
// header rejects without attempting a comparison.
func (g *StripeGateway) VerifyWebhook(body []byte, header http.Header) error {
	sigHeader := header.Get("Stripe-Signature")
	if g.cfg.WebhookSecret == "" || sigHeader == "" {
		return util.ErrInvalidSignature
	}

	var timestamp string
	var candidates []string
	for _, part := range strings.Split(sigHeader, ",") {
		k, v, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch k {
		case "t":
			timestamp = v
		case "v1":
			candidates = append(candidates, v)
		}
	}
	if timestamp == "" || len(candidates) == 0 {
		return util.ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, []byte(g.cfg.WebhookSecret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, candidate := range candidates {
		if hmac.Equal([]byte(expected), []byte(candidate)) {
			return nil
		}
	}
	return util.ErrInvalidSignature
}

func (g *StripeGateway) ParseEvent(body []byte) (*Event, error) {
	var payload struct {
		Type string `json:"type"`
		Data struct {
			Object struct {
				ID              string `json:"id"`
				PaymentStatus   string `json:"payment_status"`
				AmountTotal     int    `json:"amount_total"`
				CustomerDetails struct {
					Email string `json:"email"`
				} `json:"customer_details"`
				Metadata struct {
					UserID string `json:"user_id"`
				} `json:"metadata"`
			} `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}

	obj := payload.Data.Object
	return &Event{
		Name:    payload.Type,
		OrderID: obj.ID,
		Email:   obj.CustomerDetails.Email,
		UserID:  obj.Metadata.UserID,
		Amount:  obj.AmountTotal,
		Paid:    payload.Type == "checkout.session.completed" && obj.PaymentStatus == "paid",
	}, nil
}
