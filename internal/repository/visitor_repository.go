package repository

import (
	"context"

	"academy_backend/internal/util"

	"github.com/go-redis/redis/v8"
)

// VisitorRepository stores the sticky per-visitor flags that used to live in
// the browser. One redis hash per visitor, keyed by the visitor cookie ID;
// field names keep the original versioned keys. Flags never expire: skip and
// subscribe are sticky for the life of the visitor, and they are never
// synced across devices except through the authenticated-profile path.
type VisitorRepository struct {
	RDB *redis.Client
}

func NewVisitorRepository(rdb *redis.Client) *VisitorRepository {
	return &VisitorRepository{RDB: rdb}
}

// VisitorFlags is the typed view over the flag hash.
type VisitorFlags struct {
	Subscribed      bool
	Dismissed       bool
	GateSkipped     bool
	ExitIntentShown bool
	PremiumToken    string
}

func visitorKey(visitorID string) string {
	return "visitor:" + visitorID
}

func (r *VisitorRepository) Flags(ctx context.Context, visitorID string) (*VisitorFlags, error) {
	vals, err := r.RDB.HGetAll(ctx, visitorKey(visitorID)).Result()
	if err != nil {
		return nil, err
	}
	return &VisitorFlags{
		Subscribed:      vals[util.FlagEmailSubscribed] == "1",
		Dismissed:       vals[util.FlagEmailDismissed] == "1",
		GateSkipped:     vals[util.FlagGateSkipped] == "1",
		ExitIntentShown: vals[util.FlagExitIntentShown] == "1",
		PremiumToken:    vals[util.FlagPremiumToken],
	}, nil
}

func (r *VisitorRepository) SetFlag(ctx context.Context, visitorID, field, value string) error {
	return r.RDB.HSet(ctx, visitorKey(visitorID), field, value).Err()
}

func (r *VisitorRepository) MarkSubscribed(ctx context.Context, visitorID string) error {
	return r.SetFlag(ctx, visitorID, util.FlagEmailSubscribed, "1")
}

func (r *VisitorRepository) MarkGateSkipped(ctx context.Context, visitorID string) error {
	return r.SetFlag(ctx, visitorID, util.FlagGateSkipped, "1")
}

func (r *VisitorRepository) MarkDismissed(ctx context.Context, visitorID string) error {
	return r.SetFlag(ctx, visitorID, util.FlagEmailDismissed, "1")
}

func (r *VisitorRepository) StorePremiumToken(ctx context.Context, visitorID, token string) error {
	return r.SetFlag(ctx, visitorID, util.FlagPremiumToken, token)
}
