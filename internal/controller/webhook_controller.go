package controller

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"academy_backend/internal/model"
	"academy_backend/internal/repository"
	"academy_backend/internal/service"
	"academy_backend/internal/service/payment"
	"academy_backend/internal/util"
	"academy_backend/pkg/logger"
	"academy_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WebhookController receives payment provider callbacks. This is the only
// path that flips the server-side premium flag.
type WebhookController struct {
	Gateway   payment.Gateway
	Users     *repository.UserRepository
	Purchases *repository.PurchaseRepository
	Email     *service.EmailService
}

func NewWebhookController(
	gateway payment.Gateway,
	users *repository.UserRepository,
	purchases *repository.PurchaseRepository,
	email *service.EmailService,
) *WebhookController {
	return &WebhookController{
		Gateway:   gateway,
		Users:     users,
		Purchases: purchases,
		Email:     email,
	}
}

// @Summary Payment provider webhook
// @Tags payment
// @Accept json
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /api/webhooks/payment [post]
func (c *WebhookController) HandlePayment(ctx *gin.Context) {
	provider := c.Gateway.Name()

	// Signature runs over the raw bytes, so the body must be read before
	// anything parses it.
	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		monitoring.WebhookEvents.WithLabelValues(provider, "read_error").Inc()
		util.BadRequest(ctx, "unreadable body")
		return
	}

	if err := c.Gateway.VerifyWebhook(body, ctx.Request.Header); err != nil {
		monitoring.WebhookEvents.WithLabelValues(provider, "rejected").Inc()
		logger.Log.Warn("webhook signature rejected",
			zap.String("provider", provider),
			zap.Error(err))
		util.Unauthorized(ctx)
		return
	}

	event, err := c.Gateway.ParseEvent(body)
	if err != nil {
		// Signature was valid, so the payload came from the provider;
		// acknowledge it to stop redelivery and log the shape mismatch.
		monitoring.WebhookEvents.WithLabelValues(provider, "unparseable").Inc()
		logger.Log.Error("webhook payload unparseable",
			zap.String("provider", provider),
			zap.Error(err))
		ctx.JSON(200, gin.H{"received": true})
		return
	}

	if event.Paid {
		c.applyPaidEvent(ctx.Request.Context(), provider, event)
		monitoring.WebhookEvents.WithLabelValues(provider, "paid").Inc()
	} else {
		monitoring.WebhookEvents.WithLabelValues(provider, "ignored").Inc()
		logger.Log.Info("webhook event ignored",
			zap.String("provider", provider),
			zap.String("event", event.Name))
	}

	ctx.JSON(200, gin.H{"received": true})
}

func (c *WebhookController) applyPaidEvent(ctx context.Context, provider string, event *payment.Event) {
	purchase := &model.Purchase{
		Provider: provider,
		OrderID:  event.OrderID,
		Email:    event.Email,
		Amount:   event.Amount,
		Status:   "paid",
	}

	if event.UserID != "" {
		id, err := strconv.ParseUint(event.UserID, 10, 64)
		if err != nil {
			logger.Log.Warn("webhook carried a malformed user id",
				zap.String("provider", provider),
				zap.String("userId", event.UserID))
		} else {
			purchase.UserID = uint(id)
			if err := c.Users.SetPremium(uint(id), event.OrderID); err != nil {
				logger.Log.Error("failed to set premium flag",
					zap.Uint64("userId", id),
					zap.String("order", event.OrderID),
					zap.Error(err))
			}
		}
	}

	if err := c.Purchases.Record(purchase); err != nil {
		logger.Log.Error("failed to record purchase",
			zap.String("order", event.OrderID),
			zap.Error(err))
	}

	logger.Log.Info("payment confirmed",
		zap.String("provider", provider),
		zap.String("order", event.OrderID),
		zap.String("email", event.Email),
		zap.Int("amount", event.Amount))

	if event.Email != "" {
		// Confirmation mail is fire-and-forget; the purchase stands either way.
		go func(to, orderID string, amount int) {
			sendCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			display := fmt.Sprintf("$%.2f", float64(amount)/100)
			if err := c.Email.SendPurchaseConfirmation(sendCtx, to, orderID, display); err != nil {
				logger.Log.Warn("purchase confirmation failed",
					zap.String("to", to),
					zap.Error(err))
			}
		}(event.Email, event.OrderID, event.Amount)
	}
}
