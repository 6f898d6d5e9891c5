package controller

import (
	"academy_backend/internal/middleware"
	"academy_backend/internal/service"
	"academy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SubscribeController struct {
	Subscriptions *service.SubscriptionService
}

func NewSubscribeController(subscriptions *service.SubscriptionService) *SubscribeController {
	return &SubscribeController{Subscriptions: subscriptions}
}

// @Summary Capture an email address and clear the visitor's gate
// @Tags subscribe
// @Accept json
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/subscribe [post]
func (c *SubscribeController) Subscribe(ctx *gin.Context) {
	var req struct {
		Email  string `json:"email" binding:"required,email"`
		Source string `json:"source" binding:"omitempty,max=50"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if req.Source == "" {
		req.Source = "gate"
	}

	if err := c.Subscriptions.Subscribe(ctx.Request.Context(), middleware.VisitorID(ctx), req.Email, req.Source); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"subscribed": true})
}

// @Summary Skip the email gate for this visitor
// @Tags subscribe
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/subscribe/skip [post]
func (c *SubscribeController) SkipGate(ctx *gin.Context) {
	visitorID := middleware.VisitorID(ctx)
	if visitorID == "" {
		util.BadRequest(ctx, "no visitor id")
		return
	}
	if err := c.Subscriptions.SkipGate(ctx.Request.Context(), visitorID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"skipped": true})
}

// @Summary Dismiss the email banner for this visitor
// @Tags subscribe
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/subscribe/dismiss [post]
func (c *SubscribeController) DismissBanner(ctx *gin.Context) {
	visitorID := middleware.VisitorID(ctx)
	if visitorID == "" {
		util.BadRequest(ctx, "no visitor id")
		return
	}
	if err := c.Subscriptions.DismissBanner(ctx.Request.Context(), visitorID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"dismissed": true})
}
