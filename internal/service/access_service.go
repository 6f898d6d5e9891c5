package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"

	"academy_backend/internal/config"
	"academy_backend/internal/repository"
)

// AccessState is the single rendering decision for a week: exactly one of
// the three applies for any combination of signals.
type AccessState string

const (
	// AccessFull renders the complete week body.
	AccessFull AccessState = "FULL"
	// AccessEmailGated hides the body behind the email capture form.
	AccessEmailGated AccessState = "EMAIL_GATED"
	// AccessPreviewLocked shows a bounded preview plus the purchase CTA.
	AccessPreviewLocked AccessState = "PREVIEW_LOCKED"
)

// AccessSignals are the per-visitor inputs to the decision table.
type AccessSignals struct {
	Premium      bool // server-confirmed profile flag
	TokenPresent bool // decodable local purchase token
	Subscribed   bool
	GateSkipped  bool
}

// EffectivePremium is the OR of the authoritative profile flag and the
// client-side purchase token fallback (for buyers without an account).
func (s AccessSignals) EffectivePremium() bool {
	return s.Premium || s.TokenPresent
}

// PurchaseToken is the decoded client-side purchase cache. The server-side
// webhook remains the source of truth; this is a convenience only and is
// accepted without signature verification.
type PurchaseToken struct {
	Email     string `json:"email"`
	OrderID   string `json:"orderId,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
	Timestamp string `json:"ts"`
}

// EncodePurchaseToken builds the client-side purchase cache handed out by
// the verify endpoint after a successful payment lookup.
func EncodePurchaseToken(t *PurchaseToken) string {
	raw, _ := json.Marshal(t)
	return base64.StdEncoding.EncodeToString(raw)
}

// DecodePurchaseToken parses a base64 JSON purchase token. Any decode
// failure, or a token without an order/session identifier, means "no token";
// it is never an error to the caller.
func DecodePurchaseToken(token string) (*PurchaseToken, bool) {
	if token == "" {
		return nil, false
	}
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, false
	}
	var t PurchaseToken
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, false
	}
	if t.OrderID == "" && t.SessionID == "" {
		return nil, false
	}
	return &t, true
}

// AccessService resolves the rendering state for a week from the configured
// free-week set and the visitor's signals.
type AccessService struct {
	freeWeeks    map[int]bool
	previewLines int
	visitors     *repository.VisitorRepository
}

func NewAccessService(cfg *config.CourseConfig, visitors *repository.VisitorRepository) *AccessService {
	free := make(map[int]bool, len(cfg.FreeWeeks))
	for _, w := range cfg.FreeWeeks {
		free[w] = true
	}
	return &AccessService{
		freeWeeks:    free,
		previewLines: cfg.PreviewLines,
		visitors:     visitors,
	}
}

func (s *AccessService) IsFreeWeek(week int) bool {
	return s.freeWeeks[week]
}

// Resolve applies the decision table in precedence order:
//  1. free week               -> FULL, all other signals ignored
//  2. effective premium       -> FULL
//  3. email gate unsatisfied  -> EMAIL_GATED
//  4. otherwise               -> PREVIEW_LOCKED
//
// Clearing the email gate only promotes past step 3; it never grants
// premium access by itself.
func (s *AccessService) Resolve(week int, sig AccessSignals) AccessState {
	if s.freeWeeks[week] {
		return AccessFull
	}
	if sig.EffectivePremium() {
		return AccessFull
	}
	if !sig.Subscribed && !sig.GateSkipped {
		return AccessEmailGated
	}
	return AccessPreviewLocked
}

// SignalsFor assembles a visitor's signals from the flag store and the
// authenticated profile (profilePremium is false for anonymous visitors).
// Flag store failures degrade to zero-value signals; gating strictly is
// safer than erroring the page.
func (s *AccessService) SignalsFor(ctx context.Context, visitorID string, profilePremium bool) AccessSignals {
	sig := AccessSignals{Premium: profilePremium}
	if visitorID == "" || s.visitors == nil {
		return sig
	}

	flags, err := s.visitors.Flags(ctx, visitorID)
	if err != nil {
		return sig
	}
	sig.Subscribed = flags.Subscribed
	sig.GateSkipped = flags.GateSkipped
	_, sig.TokenPresent = DecodePurchaseToken(flags.PremiumToken)
	return sig
}

// Preview bounds content to the configured number of lines for the
// PREVIEW_LOCKED state. The client fades the tail; the server just must not
// ship the full body.
func (s *AccessService) Preview(content string) string {
	lines := strings.Split(content, "\n")
	if len(lines) <= s.previewLines {
		return content
	}
	return strings.Join(lines[:s.previewLines], "\n")
}
