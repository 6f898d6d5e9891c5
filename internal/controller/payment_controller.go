package controller

import (
	"errors"
	"time"

	"academy_backend/internal/middleware"
	"academy_backend/internal/repository"
	"academy_backend/internal/service"
	"academy_backend/internal/service/payment"
	"academy_backend/internal/util"
	"academy_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PaymentController struct {
	Gateway  payment.Gateway
	Visitors *repository.VisitorRepository
}

func NewPaymentController(gateway payment.Gateway, visitors *repository.VisitorRepository) *PaymentController {
	return &PaymentController{Gateway: gateway, Visitors: visitors}
}

// @Summary Create a hosted checkout session
// @Tags payment
// @Accept json
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/checkout [post]
func (c *PaymentController) CreateCheckout(ctx *gin.Context) {
	var req struct {
		Email  string `json:"email" binding:"omitempty,email"`
		UserID string `json:"userId"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	url, err := c.Gateway.CreateCheckout(ctx.Request.Context(), req.Email, req.UserID)
	if err != nil {
		// Provider error bodies stay in the log; the client gets the
		// generic message.
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"url": url})
}

// @Summary Verify a completed order and hand out the purchase token
// @Tags payment
// @Produce json
// @Param order_id query string false "Lemon Squeezy order ID"
// @Param session_id query string false "Stripe checkout session ID"
// @Success 200 {object} util.Response
// @Router /api/verify-order [get]
func (c *PaymentController) VerifyOrder(ctx *gin.Context) {
	orderID := ctx.Query("order_id")
	sessionID := ctx.Query("session_id")
	id := orderID
	if id == "" {
		id = sessionID
	}
	if id == "" {
		util.BadRequest(ctx, "order_id or session_id is required")
		return
	}

	receipt, err := c.Gateway.VerifyOrder(ctx.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrPaymentNotCompleted):
			util.Error(ctx, 402, err.Error())
		case errors.Is(err, util.ErrOrderNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	token := service.EncodePurchaseToken(&service.PurchaseToken{
		Email:     receipt.Email,
		OrderID:   orderID,
		SessionID: sessionID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})

	// Cache the token on the visitor so subsequent page loads resolve FULL
	// without re-hitting the provider. Best-effort: the token is also
	// returned to the client.
	if visitorID := middleware.VisitorID(ctx); visitorID != "" {
		if err := c.Visitors.StorePremiumToken(ctx.Request.Context(), visitorID, token); err != nil {
			logger.Log.Warn("failed to store purchase token on visitor", zap.Error(err))
		}
	}

	util.Success(ctx, gin.H{
		"token": token,
		"email": receipt.Email,
	})
}
