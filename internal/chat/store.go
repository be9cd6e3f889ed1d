package chat

import (
	"context"
	"time"
)

// StateStore holds per-user chat state. Profile and Context loads return the
// zero state when nothing is stored.
type StateStore interface {
	LoadProfile(ctx context.Context, userID string) (Profile, error)
	SaveProfile(ctx context.Context, userID string, p Profile) error
	LoadContext(ctx context.Context, userID string) (Context, bool, error)
	SaveContext(ctx context.Context, userID string, c Context) error
	// CountMessage records one message in the user's current window.
	CountMessage(ctx context.Context, userID string, window time.Duration) (RateWindow, error)
}

type RateWindow struct {
	Count   int64
	ResetAt time.Time
}
