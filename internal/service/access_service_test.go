package service

import (
	"encoding/base64"
	"strings"
	"testing"

	"academy_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAccessService() *AccessService {
	return NewAccessService(&config.CourseConfig{
		FreeWeeks:    []int{1, 2, 3, 4},
		PreviewLines: 3,
	}, nil)
}

func TestResolveDecisionTable(t *testing.T) {
	svc := newTestAccessService()

	cases := []struct {
		name string
		week int
		sig  AccessSignals
		want AccessState
	}{
		{"free week ignores all signals", 2, AccessSignals{}, AccessFull},
		{"free week even when gated", 1, AccessSignals{Subscribed: false}, AccessFull},
		{"premium profile", 5, AccessSignals{Premium: true}, AccessFull},
		{"purchase token alone", 5, AccessSignals{TokenPresent: true}, AccessFull},
		{"no signals at all", 5, AccessSignals{}, AccessEmailGated},
		{"subscribed but not premium", 5, AccessSignals{Subscribed: true}, AccessPreviewLocked},
		{"gate skipped but not premium", 5, AccessSignals{GateSkipped: true}, AccessPreviewLocked},
		{"subscribed and skipped", 5, AccessSignals{Subscribed: true, GateSkipped: true}, AccessPreviewLocked},
		{"premium beats gate", 12, AccessSignals{Premium: true, Subscribed: true}, AccessFull},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, svc.Resolve(tc.week, tc.sig))
		})
	}
}

// Every combination of signals must land in exactly one state.
func TestResolveIsTotal(t *testing.T) {
	svc := newTestAccessService()

	for i := 0; i < 16; i++ {
		sig := AccessSignals{
			Premium:      i&1 != 0,
			TokenPresent: i&2 != 0,
			Subscribed:   i&4 != 0,
			GateSkipped:  i&8 != 0,
		}
		for _, week := range []int{1, 5, 12} {
			state := svc.Resolve(week, sig)
			assert.Contains(t, []AccessState{AccessFull, AccessEmailGated, AccessPreviewLocked}, state)
		}
	}
}

func TestIsFreeWeek(t *testing.T) {
	svc := newTestAccessService()

	assert.True(t, svc.IsFreeWeek(1))
	assert.True(t, svc.IsFreeWeek(4))
	assert.False(t, svc.IsFreeWeek(5))
	assert.False(t, svc.IsFreeWeek(0))
}

func TestPurchaseTokenRoundTrip(t *testing.T) {
	encoded := EncodePurchaseToken(&PurchaseToken{
		Email:     "buyer@example.com",
		OrderID:   "order-42",
		Timestamp: "2026-01-02T03:04:05Z",
	})

	decoded, ok := DecodePurchaseToken(encoded)
	require.True(t, ok)
	assert.Equal(t, "buyer@example.com", decoded.Email)
	assert.Equal(t, "order-42", decoded.OrderID)
}

func TestDecodePurchaseTokenFailures(t *testing.T) {
	cases := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"not base64", "!!!not-base64!!!"},
		{"base64 but not json", base64.StdEncoding.EncodeToString([]byte("plain text"))},
		{"json without ids", base64.StdEncoding.EncodeToString([]byte(`{"email":"a@b.c","ts":"now"}`))},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			decoded, ok := DecodePurchaseToken(tc.token)
			assert.False(t, ok)
			assert.Nil(t, decoded)
		})
	}
}

func TestDecodePurchaseTokenAcceptsSessionID(t *testing.T) {
	encoded := EncodePurchaseToken(&PurchaseToken{
		Email:     "buyer@example.com",
		SessionID: "cs_test_123",
		Timestamp: "now",
	})

	decoded, ok := DecodePurchaseToken(encoded)
	require.True(t, ok)
	assert.Equal(t, "cs_test_123", decoded.SessionID)
}

func TestPreviewTruncation(t *testing.T) {
	svc := newTestAccessService()

	short := "one\ntwo"
	assert.Equal(t, short, svc.Preview(short))

	long := "one\ntwo\nthree\nfour\nfive"
	preview := svc.Preview(long)
	assert.Equal(t, "one\ntwo\nthree", preview)
	assert.Equal(t, 3, len(strings.Split(preview, "\n")))
}

func TestEffectivePremium(t *testing.T) {
	assert.False(t, AccessSignals{}.EffectivePremium())
	assert.True(t, AccessSignals{Premium: true}.EffectivePremium())
	assert.True(t, AccessSignals{TokenPresent: true}.EffectivePremium())
	assert.True(t, AccessSignals{Premium: true, TokenPresent: true}.EffectivePremium())
}
