package service

import (
	"context"
	"strings"

	"academy_backend/internal/repository"
	"academy_backend/pkg/logger"

	"go.uber.org/zap"
)

// SubscriptionService handles email capture: it stores the address and
// clears the visitor's email gate. Clearing the gate does not grant premium
// access; it only promotes the visitor past the EMAIL_GATED state.
type SubscriptionService struct {
	Subscribers *repository.SubscriberRepository
	Visitors    *repository.VisitorRepository
}

func NewSubscriptionService(subscribers *repository.SubscriberRepository, visitors *repository.VisitorRepository) *SubscriptionService {
	return &SubscriptionService{Subscribers: subscribers, Visitors: visitors}
}

func (s *SubscriptionService) Subscribe(ctx context.Context, visitorID, email, source string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := s.Subscribers.Upsert(email, source); err != nil {
		return err
	}

	if visitorID != "" {
		// Flag write is best-effort: the address is already stored, and the
		// visitor can resubmit if the gate fails to clear.
		if err := s.Visitors.MarkSubscribed(ctx, visitorID); err != nil {
			logger.Log.Warn("failed to mark visitor subscribed", zap.Error(err))
		}
	}
	return nil
}

// SkipGate records the visitor's explicit choice to skip the email gate.
// Sticky for the life of the visitor, like the original flag.
func (s *SubscriptionService) SkipGate(ctx context.Context, visitorID string) error {
	return s.Visitors.MarkGateSkipped(ctx, visitorID)
}

func (s *SubscriptionService) DismissBanner(ctx context.Context, visitorID string) error {
	return s.Visitors.MarkDismissed(ctx, visitorID)
}
