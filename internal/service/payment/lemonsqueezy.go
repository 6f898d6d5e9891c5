package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"academy_backend/internal/config"
	"academy_backend/internal/util"
	"academy_backend/pkg/logger"

	"go.uber.org/zap"
)

const lemonSqueezyAPI = "https://api.lemonsqueezy.com/v1"

// LemonSqueezyGateway talks to the Lemon Squeezy JSON:API. Webhooks carry an
// X-Signature header: hex HMAC-SHA256 of the raw body.
type LemonSqueezyGateway struct {
	cfg    *config.LemonSqueezyConfig
	client *http.Client
	// base is swapped out by tests.
	base string
}

func NewLemonSqueezyGateway(cfg *config.LemonSqueezyConfig) *LemonSqueezyGateway {
	return &LemonSqueezyGateway{cfg: cfg, client: newHTTPClient(), base: lemonSqueezyAPI}
}

func (g *LemonSqueezyGateway) Name() string { return "lemonsqueezy" }

func (g *LemonSqueezyGateway) CreateCheckout(ctx context.Context, email, userID string) (string, error) {
	if g.cfg.APIKey == "" || g.cfg.VariantID == "" {
		return "", util.ErrGatewayUnconfigured
	}

	payload := map[string]interface{}{
		"data": map[string]interface{}{
			"type": "checkouts",
			"attributes": map[string]interface{}{
				"checkout_options": map[string]interface{}{
					"embed": true,
				},
				"checkout_data": map[string]interface{}{
					"email": email,
					"custom": map[string]string{
						"user_id": userID,
					},
				},
				"product_options": map[string]interface{}{
					"redirect_url": g.cfg.RedirectURL,
				},
			},
			"relationships": map[string]interface{}{
				"store": map[string]interface{}{
					"data": map[string]string{"type": "stores", "id": g.cfg.StoreID},
				},
				"variant": map[string]interface{}{
					"data": map[string]string{"type": "variants", "id": g.cfg.VariantID},
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.base+"/checkouts", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)
	req.Header.Set("Accept", "application/vnd.api+json")
	req.Header.Set("Content-Type", "application/vnd.api+json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(resp.Body)
		logger.Log.Error("lemonsqueezy checkout error",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", detail))
		return "", fmt.Errorf("checkout creation failed with status %d", resp.StatusCode)
	}

	var out struct {
		Data struct {
			Attributes struct {
				URL string `json:"url"`
			} `json:"attributes"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.Data.Attributes.URL, nil
}

func (g *LemonSqueezyGateway) VerifyOrder(ctx context.Context, id string) (*Receipt, error) {
	if g.cfg.APIKey == "" {
		return nil, util.ErrGatewayUnconfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.base+"/orders/"+id, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)
	req.Header.Set("Accept", "application/vnd.api+json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, util.ErrOrderNotFound
	}

	var out struct {
		Data struct {
			ID         string `json:"id"`
			Attributes struct {
				Status    string `json:"status"`
				UserEmail string `json:"user_email"`
				Total     int    `json:"total"`
			} `json:"attributes"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}

	if out.Data.Attributes.Status != "paid" {
		return nil, util.ErrPaymentNotCompleted
	}

	return &Receipt{
		OrderID: out.Data.ID,
		Email:   out.Data.Attributes.UserEmail,
		Amount:  out.Data.Attributes.Total,
		Paid:    true,
	}, nil
}

// VerifyWebhook checks the X-Signature HMAC over the raw body. Missing
// secret or signature rejects without attempting a comparison.
func (g *LemonSqueezyGateway) VerifyWebhook(body []byte, header http.Header) error {
	signature := header.Get("X-Signature")
	if g.cfg.WebhookSecret == "" || signature == "" {
		return util.ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, []byte(g.cfg.WebhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return util.ErrInvalidSignature
	}
	return nil
}

func (g *LemonSqueezyGateway) ParseEvent(body []byte) (*Event, error) {
	var payload struct {
		Meta struct {
			EventName string `json:"event_name"`
		} `json:"meta"`
		Data struct {
			ID         string `json:"id"`
			Attributes struct {
				Status     string `json:"status"`
				UserEmail  string `json:"user_email"`
				Total      int    `json:"total"`
				CustomData struct {
					UserID string `json:"user_id"`
				} `json:"custom_data"`
			} `json:"attributes"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}

	return &Event{
		Name:    payload.Meta.EventName,
		OrderID: payload.Data.ID,
		Email:   payload.Data.Attributes.UserEmail,
		UserID:  payload.Data.Attributes.CustomData.UserID,
		Amount:  payload.Data.Attributes.Total,
		Paid:    payload.Meta.EventName == "order_created" && payload.Data.Attributes.Status == "paid",
	}, nil
}
